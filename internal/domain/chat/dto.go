// internal/domain/chat/dto.go
package chat

import "time"

type CreateMessageRequest struct {
	BookingID   string      `json:"booking_id" binding:"required"`
	SenderID    string      `json:"sender_id" binding:"required"`
	SenderType  SenderType  `json:"sender_type" binding:"required"`
	Content     string      `json:"content" binding:"required"`
	MessageType MessageType `json:"message_type"`
}

type OtherUser struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	UserType       string  `json:"user_type"`
}

// LastMessage carries a sentinel placeholder with a nil sender when the
// conversation has no messages yet.
type LastMessage struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
	SenderID  *string   `json:"sender_id"`
}

// Conversation is derived on demand, never stored.
type Conversation struct {
	BookingID   string      `json:"booking_id"`
	OtherUser   OtherUser   `json:"other_user"`
	LastMessage LastMessage `json:"last_message"`
	UnreadCount int64       `json:"unread_count"`
}

type Stats struct {
	TotalMessages       int64 `json:"total_messages"`
	UnreadMessages      int64 `json:"unread_messages"`
	ActiveConversations int64 `json:"active_conversations"`
}
