// internal/service/review/review.go
package review

import (
	"context"

	"hrayfi-service/internal/domain/booking"
	"hrayfi-service/internal/domain/review"
	xerrors "hrayfi-service/internal/pkg/errors"
	"hrayfi-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type ReviewService struct {
	reviewRepo  *postgres.ReviewRepository
	bookingRepo *postgres.BookingRepository
	userRepo    *postgres.UserRepository
	logger      *zap.Logger
}

func NewReviewService(
	reviewRepo *postgres.ReviewRepository,
	bookingRepo *postgres.BookingRepository,
	userRepo *postgres.UserRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create adds a review for a completed booking. Only the booking's client
// may review, once per booking; the artisan's aggregate rating updates in
// the same transaction.
func (s *ReviewService) Create(ctx context.Context, callerID string, req *review.CreateReviewRequest) (*review.Review, error) {
	b, err := s.bookingRepo.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if b.ClientID != callerID {
		return nil, xerrors.ErrForbidden
	}
	if b.ArtisanID != req.ArtisanID {
		return nil, xerrors.ErrInvalidInput
	}
	if b.Status != booking.StatusCompleted {
		return nil, xerrors.ErrInvalidInput
	}

	rv := &review.Review{
		BookingID: req.BookingID,
		ClientID:  callerID,
		ArtisanID: req.ArtisanID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, rv); err != nil {
		return nil, err
	}
	s.logger.Info("review created",
		zap.String("review_id", rv.ID),
		zap.String("artisan_id", rv.ArtisanID),
		zap.Int("rating", rv.Rating),
	)
	return rv, nil
}

// Update edits the caller's own review.
func (s *ReviewService) Update(ctx context.Context, callerID, reviewID string, req *review.UpdateReviewRequest) (*review.Review, error) {
	rv, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.ClientID != callerID {
		return nil, xerrors.ErrForbidden
	}

	if req.Rating != nil {
		rv.Rating = *req.Rating
	}
	if req.Comment != nil {
		rv.Comment = *req.Comment
	}
	if err := s.reviewRepo.Update(ctx, rv); err != nil {
		return nil, err
	}
	return s.reviewRepo.FindByID(ctx, reviewID)
}

// Delete removes the caller's own review, or any review for admins.
func (s *ReviewService) Delete(ctx context.Context, callerID, callerType, reviewID string) error {
	rv, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if callerType != "admin" && rv.ClientID != callerID {
		return xerrors.ErrForbidden
	}
	return s.reviewRepo.Delete(ctx, reviewID, rv.ArtisanID)
}

// ListByArtisan returns an artisan's reviews with client summaries.
func (s *ReviewService) ListByArtisan(ctx context.Context, artisanID string, skip, limit int) ([]*review.Detailed, error) {
	reviews, err := s.reviewRepo.ListByArtisan(ctx, artisanID, skip, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*review.Detailed, 0, len(reviews))
	for _, rv := range reviews {
		d := &review.Detailed{Review: *rv}
		if client, err := s.userRepo.FindByID(ctx, rv.ClientID); err == nil {
			summary := client.Summary()
			d.Client = &summary
		}
		if b, err := s.bookingRepo.FindByID(ctx, rv.BookingID); err == nil {
			info := &review.BookingInfo{
				ID:          b.ID,
				Description: b.Description,
				Status:      string(b.Status),
			}
			if b.ScheduledDate.Valid {
				t := b.ScheduledDate.Time
				info.ScheduledDate = &t
			}
			d.Booking = info
		}
		out = append(out, d)
	}
	return out, nil
}

// ListMine returns the reviews written by (clients) or received by
// (artisans) the caller.
func (s *ReviewService) ListMine(ctx context.Context, callerID, callerType string, skip, limit int) ([]*review.Review, error) {
	if callerType == "artisan" {
		return s.reviewRepo.ListByArtisan(ctx, callerID, skip, limit)
	}
	return s.reviewRepo.ListByClient(ctx, callerID, skip, limit)
}

// Get returns one review.
func (s *ReviewService) Get(ctx context.Context, reviewID string) (*review.Review, error) {
	return s.reviewRepo.FindByID(ctx, reviewID)
}

// GetByBooking returns the review left for a booking, if any.
func (s *ReviewService) GetByBooking(ctx context.Context, bookingID string) (*review.Review, error) {
	return s.reviewRepo.FindByBooking(ctx, bookingID)
}

// Stats returns an artisan's aggregate rating and distribution.
func (s *ReviewService) Stats(ctx context.Context, artisanID string) (*review.RatingStats, error) {
	return s.reviewRepo.RatingStats(ctx, artisanID)
}
