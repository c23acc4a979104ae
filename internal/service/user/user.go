// internal/service/user/user.go
package user

import (
	"context"
	"fmt"

	"hrayfi-service/internal/domain/user"
	xerrors "hrayfi-service/internal/pkg/errors"
	"hrayfi-service/internal/repository/postgres"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo *postgres.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo *postgres.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*user.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// GetForCaller returns a user, restricted to the caller themselves or an
// admin.
func (s *UserService) GetForCaller(ctx context.Context, callerID, callerType, id string) (*user.User, error) {
	if callerID != id && callerType != string(user.TypeAdmin) {
		return nil, xerrors.ErrForbidden
	}
	return s.userRepo.FindByID(ctx, id)
}

// ListClients lists client accounts. Admin only, enforced at the route.
func (s *UserService) ListClients(ctx context.Context, skip, limit int) ([]*user.Response, error) {
	clients, err := s.userRepo.ListByType(ctx, user.TypeClient, skip, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*user.Response, 0, len(clients))
	for _, c := range clients {
		out = append(out, user.NewResponse(c))
	}
	return out, nil
}

// Deactivate marks an account inactive. Allowed for the account owner and
// admins; the row itself is kept so bookings and reviews stay intact.
func (s *UserService) Deactivate(ctx context.Context, callerID, callerType, id string) error {
	if callerID != id && callerType != string(user.TypeAdmin) {
		return xerrors.ErrForbidden
	}
	if err := s.userRepo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.logger.Info("account deactivated", zap.String("user_id", id))
	return nil
}

// Update applies a partial update to the caller's own profile. Artisan-only
// fields are silently ignored for clients.
func (s *UserService) Update(ctx context.Context, callerID string, req *user.UpdateUserRequest) (*user.User, error) {
	u, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != u.Email {
		exists, err := s.userRepo.EmailExists(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, xerrors.ErrConflict
		}
	}

	if u.UserType != user.TypeArtisan {
		req.CompanyName = nil
		req.Trade = nil
		req.Description = nil
		req.YearsOfExperience = nil
		req.Certifications = nil
	}

	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.userRepo.UpdatePassword(ctx, u.Email, string(hashed)); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, callerID, req); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, callerID)
}

// SearchArtisans lists artisans matching trade/location filters.
func (s *UserService) SearchArtisans(ctx context.Context, filters user.SearchArtisansFilters) ([]*user.Response, error) {
	artisans, err := s.userRepo.SearchArtisans(ctx, filters)
	if err != nil {
		return nil, err
	}
	out := make([]*user.Response, 0, len(artisans))
	for _, a := range artisans {
		out = append(out, user.NewResponse(a))
	}
	return out, nil
}

// GetArtisan returns an artisan's public profile.
func (s *UserService) GetArtisan(ctx context.Context, id string) (*user.User, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.UserType != user.TypeArtisan {
		return nil, xerrors.ErrNotFound
	}
	return u, nil
}

// VerifyArtisan flips an artisan's verification flag. Admin only, enforced
// at the route.
func (s *UserService) VerifyArtisan(ctx context.Context, artisanID string, verified bool) error {
	if err := s.userRepo.SetVerified(ctx, artisanID, verified); err != nil {
		return err
	}
	s.logger.Info("artisan verification updated",
		zap.String("artisan_id", artisanID), zap.Bool("verified", verified))
	return nil
}
