// internal/service/booking/booking.go
package booking

import (
	"context"
	"database/sql"
	"time"

	"hrayfi-service/internal/domain/booking"
	"hrayfi-service/internal/domain/user"
	xerrors "hrayfi-service/internal/pkg/errors"
	"hrayfi-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type BookingService struct {
	bookingRepo *postgres.BookingRepository
	userRepo    *postgres.UserRepository
	logger      *zap.Logger
}

func NewBookingService(bookingRepo *postgres.BookingRepository, userRepo *postgres.UserRepository, logger *zap.Logger) *BookingService {
	return &BookingService{bookingRepo: bookingRepo, userRepo: userRepo, logger: logger}
}

// Create opens a booking. Only the client themselves can book, and the
// target must be an active artisan.
func (s *BookingService) Create(ctx context.Context, callerID string, req *booking.CreateBookingRequest) (*booking.Booking, error) {
	if req.ClientID != callerID {
		return nil, xerrors.ErrForbidden
	}

	artisan, err := s.userRepo.FindByID(ctx, req.ArtisanID)
	if err != nil {
		return nil, err
	}
	if artisan.UserType != user.TypeArtisan || !artisan.IsActive {
		return nil, xerrors.ErrInvalidInput
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = booking.UrgencyNormal
	}

	b := &booking.Booking{
		ClientID:    req.ClientID,
		ArtisanID:   req.ArtisanID,
		ServiceType: req.ServiceType,
		Description: req.Description,
		Urgency:     urgency,
	}
	if req.Address != "" {
		b.Address = sql.NullString{String: req.Address, Valid: true}
	}
	if req.ScheduledDate != nil {
		b.ScheduledDate = sql.NullTime{Time: *req.ScheduledDate, Valid: true}
	}

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("client_id", b.ClientID),
		zap.String("artisan_id", b.ArtisanID),
	)
	return b, nil
}

// Get returns a booking with both participant summaries. Callers must be a
// participant or an admin.
func (s *BookingService) Get(ctx context.Context, callerID, callerType, bookingID string) (*booking.Detailed, error) {
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if callerType != "admin" && !b.IsParticipant(callerID) {
		return nil, xerrors.ErrForbidden
	}
	return s.detail(ctx, b), nil
}

// List returns the caller's bookings, or all bookings for admins.
func (s *BookingService) List(ctx context.Context, callerID, callerType string, filters booking.ListFilters) ([]*booking.Detailed, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, xerrors.ErrInvalidInput
	}

	var (
		bookings []*booking.Booking
		err      error
	)
	if callerType == "admin" {
		bookings, err = s.bookingRepo.ListAll(ctx, filters)
	} else {
		bookings, err = s.bookingRepo.ListForUser(ctx, callerID, filters)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*booking.Detailed, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, s.detail(ctx, b))
	}
	return out, nil
}

// Update applies a role-filtered partial update. Clients may change the
// request itself (description, urgency, address), artisans respond with
// scheduling and status, admins may change anything.
func (s *BookingService) Update(ctx context.Context, callerID, callerType, bookingID string, req *booking.UpdateBookingRequest) (*booking.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	isAdmin := callerType == "admin"
	if !isAdmin && !b.IsParticipant(callerID) {
		return nil, xerrors.ErrForbidden
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, xerrors.ErrInvalidInput
	}

	fields := map[string]interface{}{}
	clientAllowed := isAdmin || callerID == b.ClientID
	artisanAllowed := isAdmin || callerID == b.ArtisanID

	if clientAllowed {
		if req.Description != nil {
			fields["description"] = *req.Description
		}
		if req.Urgency != nil {
			fields["urgency"] = *req.Urgency
		}
		if req.Address != nil {
			fields["address"] = *req.Address
		}
	}
	if artisanAllowed {
		if req.ScheduledDate != nil {
			fields["scheduled_date"] = *req.ScheduledDate
		}
		if req.Status != nil {
			fields["status"] = *req.Status
		}
	}
	// A client may still cancel their own pending booking.
	if !artisanAllowed && req.Status != nil &&
		*req.Status == booking.StatusCancelled && b.Status == booking.StatusPending {
		fields["status"] = booking.StatusCancelled
	}

	if len(fields) == 0 {
		return b, nil
	}
	if err := s.bookingRepo.Update(ctx, bookingID, fields); err != nil {
		return nil, err
	}
	return s.bookingRepo.FindByID(ctx, bookingID)
}

// Schedule sets the visit date. Only the booking's artisan (or an admin)
// schedules, and the date must be in the future.
func (s *BookingService) Schedule(ctx context.Context, callerID, callerType, bookingID string, date time.Time) (*booking.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if callerType != "admin" && callerID != b.ArtisanID {
		return nil, xerrors.ErrForbidden
	}
	if !date.After(time.Now()) {
		return nil, xerrors.ErrInvalidInput
	}

	if err := s.bookingRepo.Update(ctx, bookingID, map[string]interface{}{
		"scheduled_date": date,
	}); err != nil {
		return nil, err
	}
	return s.bookingRepo.FindByID(ctx, bookingID)
}

// Delete removes a booking. Clients may delete their own pending bookings;
// admins may delete any.
func (s *BookingService) Delete(ctx context.Context, callerID, callerType, bookingID string) error {
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if callerType != "admin" {
		if callerID != b.ClientID || b.Status != booking.StatusPending {
			return xerrors.ErrForbidden
		}
	}
	return s.bookingRepo.Delete(ctx, bookingID)
}

// Stats summarizes the caller's bookings by status.
func (s *BookingService) Stats(ctx context.Context, callerID string) (*booking.Stats, error) {
	return s.bookingRepo.StatsForUser(ctx, callerID)
}

// detail attaches participant summaries, tolerating missing accounts.
func (s *BookingService) detail(ctx context.Context, b *booking.Booking) *booking.Detailed {
	d := &booking.Detailed{Booking: *b}
	if client, err := s.userRepo.FindByID(ctx, b.ClientID); err == nil {
		summary := client.Summary()
		d.Client = &summary
	}
	if artisan, err := s.userRepo.FindByID(ctx, b.ArtisanID); err == nil {
		summary := artisan.Summary()
		d.Artisan = &summary
	}
	return d
}
