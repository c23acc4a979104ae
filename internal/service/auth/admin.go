// internal/service/auth/admin.go
package auth

import (
	"context"
	"fmt"

	"hrayfi-service/internal/domain/user"
	xerrors "hrayfi-service/internal/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdminExists creates the bootstrap admin account if none exists
// (called on startup).
func (s *AuthService) EnsureAdminExists(ctx context.Context, emailAddr, password, firstName, lastName string) error {
	if emailAddr == "" || password == "" {
		return fmt.Errorf("admin email and password must be provided via environment variables")
	}
	if len(password) < 8 {
		return fmt.Errorf("admin password must be at least 8 characters")
	}

	_, err := s.userRepo.FindByEmail(ctx, emailAddr)
	if err == nil {
		s.logger.Info("admin account already exists, skipping creation")
		return nil
	}
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		return fmt.Errorf("failed to check admin existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &user.User{
		Email:        emailAddr,
		PasswordHash: string(hashed),
		UserType:     user.TypeAdmin,
		FirstName:    firstName,
		LastName:     lastName,
		Language:     "fr",
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	s.logger.Info("admin account created", zap.String("user_id", admin.ID))
	return nil
}
