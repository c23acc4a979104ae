// internal/service/auth/auth.go
package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"

	"hrayfi-service/internal/domain/user"
	xerrors "hrayfi-service/internal/pkg/errors"
	"hrayfi-service/internal/pkg/jwt"
	"hrayfi-service/internal/pkg/session"
	"hrayfi-service/internal/repository/postgres"
	"hrayfi-service/internal/service/email"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo    *postgres.UserRepository
	jwtManager  *jwt.Manager
	resetStore  *session.ResetStore
	rateLimiter *session.RateLimiter
	emailSender *email.EmailSender
	logger      *zap.Logger
}

func NewAuthService(
	userRepo *postgres.UserRepository,
	jwtManager *jwt.Manager,
	resetStore *session.ResetStore,
	rateLimiter *session.RateLimiter,
	emailSender *email.EmailSender,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtManager:  jwtManager,
		resetStore:  resetStore,
		rateLimiter: rateLimiter,
		emailSender: emailSender,
		logger:      logger,
	}
}

// RegisterClient creates a client account.
func (s *AuthService) RegisterClient(ctx context.Context, req *user.RegisterClientRequest) (*user.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Email:        req.Email,
		PasswordHash: string(hashed),
		UserType:     user.TypeClient,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Language:     defaultLanguage(req.Language),
		IsActive:     true,
	}
	if req.Address != "" {
		u.Address = sql.NullString{String: req.Address, Valid: true}
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("client registered", zap.String("user_id", u.ID))
	return u, nil
}

// RegisterArtisan creates an artisan account, unverified until an admin
// reviews the identity documents.
func (s *AuthService) RegisterArtisan(ctx context.Context, req *user.RegisterArtisanRequest) (*user.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Email:        req.Email,
		PasswordHash: string(hashed),
		UserType:     user.TypeArtisan,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Language:     defaultLanguage(req.Language),
		Trade:        sql.NullString{String: req.Trade, Valid: true},
		IsVerified:   false,
		IsActive:     true,
	}
	if req.Address != "" {
		u.Address = sql.NullString{String: req.Address, Valid: true}
	}
	if req.CompanyName != "" {
		u.CompanyName = sql.NullString{String: req.CompanyName, Valid: true}
	}
	if req.Description != "" {
		u.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.YearsOfExperience > 0 {
		u.YearsOfExperience = sql.NullInt32{Int32: int32(req.YearsOfExperience), Valid: true}
	}
	u.Certifications = pq.StringArray(req.Certifications)

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("artisan registered", zap.String("user_id", u.ID), zap.String("trade", req.Trade))
	return u, nil
}

// Login checks credentials and issues an access token. Attempts are rate
// limited per ip+email.
func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest, clientIP string) (*user.LoginResponse, error) {
	allowed, err := s.rateLimiter.CheckLoginAttempt(ctx, clientIP, req.Email)
	if err != nil {
		s.logger.Error("rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	u, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUnauthorized
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, xerrors.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	token, err := s.jwtManager.GenerateAccessToken(u.ID, string(u.UserType), u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, clientIP, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	return &user.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserType:    string(u.UserType),
		UserID:      u.ID,
		Email:       u.Email,
	}, nil
}

// Me returns the caller's own account.
func (s *AuthService) Me(ctx context.Context, userID string) (*user.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// RefreshToken re-issues an access token for a still-valid session.
func (s *AuthService) RefreshToken(ctx context.Context, userID string) (*user.LoginResponse, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, xerrors.ErrUnauthorized
	}
	token, err := s.jwtManager.GenerateAccessToken(u.ID, string(u.UserType), u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &user.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserType:    string(u.UserType),
		UserID:      u.ID,
		Email:       u.Email,
	}, nil
}

// EmailExists reports whether an account already uses the email.
func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.userRepo.EmailExists(ctx, email)
}

// ForgotPassword emails a six-digit reset code. It reports success even
// when the account does not exist so the endpoint cannot be used to probe
// for registered emails.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	allowed, err := s.rateLimiter.CheckPasswordResetAttempt(ctx, emailAddr)
	if err != nil {
		s.logger.Error("rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		return xerrors.ErrRateLimited
	}

	u, err := s.userRepo.FindByEmail(ctx, emailAddr)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			s.logger.Info("reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}
	if err := s.resetStore.SaveCode(ctx, u.Email, code); err != nil {
		return err
	}
	if err := s.emailSender.SendResetCode(u.Email, code); err != nil {
		s.logger.Error("failed to send reset email", zap.Error(err))
		return xerrors.ErrInternal
	}
	return nil
}

// VerifyResetCode consumes a valid code and returns a short-lived token
// accepted only by ResetPassword.
func (s *AuthService) VerifyResetCode(ctx context.Context, emailAddr, code string) (string, error) {
	ok, err := s.resetStore.ConsumeCode(ctx, emailAddr, code)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", xerrors.ErrUnauthorized
	}
	return s.jwtManager.GenerateResetToken(emailAddr)
}

// ResetPassword sets a new password using a verified reset token.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.jwtManager.VerifyResetToken(resetToken)
	if err != nil {
		return xerrors.ErrUnauthorized
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, claims.Email, string(hashed)); err != nil {
		return err
	}
	s.logger.Info("password reset completed")
	return nil
}

// generateResetCode returns a uniformly random six-digit code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func defaultLanguage(lang string) string {
	if lang == "" {
		return "fr"
	}
	return lang
}
