// internal/chat/deps.go
package chat

import (
	"context"

	"hrayfi-service/internal/domain/booking"
	"hrayfi-service/internal/domain/chat"
	"hrayfi-service/internal/domain/user"
)

// BookingDirectory resolves bookings for authorization checks.
type BookingDirectory interface {
	FindByID(ctx context.Context, id string) (*booking.Booking, error)
}

// UserDirectory resolves user accounts. The session re-checks the caller's
// account even though the identity was already authenticated at upgrade.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// MessageStore persists and queries chat messages.
type MessageStore interface {
	Create(ctx context.Context, nm *chat.NewMessage) (*chat.Message, error)
	ListByBooking(ctx context.Context, bookingID string, skip, limit int) ([]*chat.Message, error)
	MarkRead(ctx context.Context, bookingID, readerID string) (int64, error)
}
