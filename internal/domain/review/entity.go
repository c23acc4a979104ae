// internal/domain/review/entity.go
package review

import (
	"time"

	"hrayfi-service/internal/domain/user"
)

type Review struct {
	ID        string    `json:"id" db:"id"`
	BookingID string    `json:"booking_id" db:"booking_id"`
	ClientID  string    `json:"client_id" db:"client_id"`
	ArtisanID string    `json:"artisan_id" db:"artisan_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type BookingInfo struct {
	ID            string     `json:"id"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
}

type Detailed struct {
	Review
	Client  *user.Summary `json:"client,omitempty"`
	Artisan *user.Summary `json:"artisan,omitempty"`
	Booking *BookingInfo  `json:"booking,omitempty"`
}
