// internal/domain/ticket/entity.go
package ticket

import (
	"database/sql"
	"time"

	"hrayfi-service/internal/domain/user"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Category string

const (
	CategoryTechnical Category = "technical"
	CategoryBilling   Category = "billing"
	CategoryAccount   Category = "account"
	CategoryBooking   Category = "booking"
	CategoryOther     Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryBilling, CategoryAccount, CategoryBooking, CategoryOther:
		return true
	}
	return false
}

// Response is one entry of a ticket's conversation thread, stored as a
// jsonb array on the ticket row.
type Response struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorType string    `json:"author_type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

type Ticket struct {
	ID           string         `json:"id" db:"id"`
	TicketNumber string         `json:"ticket_number" db:"ticket_number"`
	UserID       string         `json:"user_id" db:"user_id"`
	Subject      string         `json:"subject" db:"subject"`
	Description  string         `json:"description" db:"description"`
	Category     Category       `json:"category" db:"category"`
	Priority     Priority       `json:"priority" db:"priority"`
	Status       Status         `json:"status" db:"status"`
	AdminNotes   sql.NullString `json:"admin_notes,omitempty" db:"admin_notes"`
	Responses    []Response     `json:"responses" db:"responses"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

type Detailed struct {
	Ticket
	User *user.Summary `json:"user,omitempty"`
}
