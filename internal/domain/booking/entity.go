// internal/domain/booking/entity.go
package booking

import (
	"database/sql"
	"time"

	"hrayfi-service/internal/domain/user"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

type Booking struct {
	ID            string         `json:"id" db:"id"`
	ClientID      string         `json:"client_id" db:"client_id"`
	ArtisanID     string         `json:"artisan_id" db:"artisan_id"`
	ServiceType   string         `json:"service_type" db:"service_type"`
	Description   string         `json:"description" db:"description"`
	Address       sql.NullString `json:"address,omitempty" db:"address"`
	Urgency       Urgency        `json:"urgency" db:"urgency"`
	ScheduledDate sql.NullTime   `json:"scheduled_date,omitempty" db:"scheduled_date"`
	Status        Status         `json:"status" db:"status"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// IsParticipant reports whether userID is the booking's client or artisan.
func (b *Booking) IsParticipant(userID string) bool {
	return userID == b.ClientID || userID == b.ArtisanID
}

// OtherParticipant returns the counterpart of userID, or "" if userID is
// not a participant.
func (b *Booking) OtherParticipant(userID string) string {
	switch userID {
	case b.ClientID:
		return b.ArtisanID
	case b.ArtisanID:
		return b.ClientID
	}
	return ""
}

// Detailed embeds the participant summaries for list/detail endpoints.
type Detailed struct {
	Booking
	Client  *user.Summary `json:"client,omitempty"`
	Artisan *user.Summary `json:"artisan,omitempty"`
}
