// internal/chat/frames.go
package chat

import (
	"encoding/json"

	"hrayfi-service/internal/domain/chat"
)

// Inbound frame types accepted from clients.
const (
	FrameJoinRoom    = "join_room"
	FrameSendMessage = "send_message"
	FrameMarkRead    = "mark_read"
	FrameTyping      = "typing"
)

// Outbound frame types pushed to clients.
const (
	FrameMessageHistory = "message_history"
	FrameNewMessage     = "new_message"
	FrameMessagesRead   = "messages_read"
)

// InboundFrame is one decoded client frame. Unused fields stay zero for
// frame types that do not carry them.
type InboundFrame struct {
	Type        string           `json:"type"`
	BookingID   string           `json:"booking_id"`
	Content     string           `json:"content"`
	MessageType chat.MessageType `json:"message_type"`
	IsTyping    bool             `json:"is_typing"`
}

// OutboundFrame is the envelope for every server-to-client frame.
type OutboundFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func encodeFrame(frameType string, data interface{}) ([]byte, error) {
	return json.Marshal(OutboundFrame{Type: frameType, Data: data})
}

type historyPayload struct {
	BookingID string          `json:"booking_id"`
	Messages  []*chat.Message `json:"messages"`
}

type messagesReadPayload struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	ReadCount int64  `json:"read_count"`
}

type typingPayload struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	IsTyping  bool   `json:"is_typing"`
}
