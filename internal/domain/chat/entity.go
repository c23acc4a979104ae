// internal/domain/chat/entity.go
package chat

import (
	"database/sql"
	"time"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageFile  MessageType = "file"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageFile:
		return true
	}
	return false
}

type SenderType string

const (
	SenderClient  SenderType = "client"
	SenderArtisan SenderType = "artisan"
)

// Message is one persisted chat message. Immutable once written except for
// the read-state fields, which transition unread -> read exactly once.
type Message struct {
	ID          string       `json:"id" db:"id"`
	BookingID   string       `json:"booking_id" db:"booking_id"`
	SenderID    string       `json:"sender_id" db:"sender_id"`
	SenderType  SenderType   `json:"sender_type" db:"sender_type"`
	ReceiverID  string       `json:"receiver_id" db:"receiver_id"`
	Content     string       `json:"content" db:"content"`
	MessageType MessageType  `json:"message_type" db:"message_type"`
	IsRead      bool         `json:"is_read" db:"is_read"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	ReadAt      sql.NullTime `json:"read_at,omitempty" db:"read_at"`
}

// NewMessage is the unsaved shape handed to the message store. The store
// stamps id, created_at and is_read itself.
type NewMessage struct {
	BookingID   string
	SenderID    string
	SenderType  SenderType
	ReceiverID  string
	Content     string
	MessageType MessageType
}
