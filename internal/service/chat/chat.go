// internal/service/chat/chat.go
package chat

import (
	"context"

	"hrayfi-service/internal/domain/chat"
	xerrors "hrayfi-service/internal/pkg/errors"
	"hrayfi-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// noMessagesSentinel is the placeholder shown for conversations that have
// no messages yet. Its sender id is null.
const noMessagesSentinel = "Aucun message échangé"

// ChatService is the stateless REST mirror of the socket operations. It
// shares the message store and booking checks with the live path but never
// touches the connection registry.
type ChatService struct {
	chatRepo    *postgres.ChatRepository
	bookingRepo *postgres.BookingRepository
	logger      *zap.Logger
}

func NewChatService(chatRepo *postgres.ChatRepository, bookingRepo *postgres.BookingRepository, logger *zap.Logger) *ChatService {
	return &ChatService{chatRepo: chatRepo, bookingRepo: bookingRepo, logger: logger}
}

// Conversations lists the caller's conversations, one per booking, with
// the sentinel last message for quiet conversations.
func (s *ChatService) Conversations(ctx context.Context, callerID string) ([]*chat.Conversation, error) {
	rows, err := s.chatRepo.Conversations(ctx, callerID)
	if err != nil {
		return nil, err
	}

	out := make([]*chat.Conversation, 0, len(rows))
	for _, row := range rows {
		conv := &chat.Conversation{
			BookingID:   row.BookingID,
			OtherUser:   row.Other,
			UnreadCount: row.Unread,
		}
		if row.Content.Valid {
			conv.LastMessage = chat.LastMessage{
				Content:   row.Content.String,
				CreatedAt: row.CreatedAt.Time,
				IsRead:    row.IsRead.Bool,
			}
			sender := row.SenderID.String
			conv.LastMessage.SenderID = &sender
		} else {
			conv.LastMessage = chat.LastMessage{Content: noMessagesSentinel}
		}
		out = append(out, conv)
	}
	return out, nil
}

// Messages returns a booking's messages, oldest first. Participants only.
func (s *ChatService) Messages(ctx context.Context, callerID, bookingID string, skip, limit int) ([]*chat.Message, error) {
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParticipant(callerID) {
		return nil, xerrors.ErrForbidden
	}
	return s.chatRepo.ListByBooking(ctx, bookingID, skip, limit)
}

// CreateMessage persists one message and returns it synchronously, unlike
// the fire-and-forget socket path.
func (s *ChatService) CreateMessage(ctx context.Context, callerID string, req *chat.CreateMessageRequest) (*chat.Message, error) {
	if req.SenderID != callerID {
		return nil, xerrors.ErrForbidden
	}
	b, err := s.bookingRepo.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	var receiverID string
	var senderType chat.SenderType
	switch callerID {
	case b.ClientID:
		receiverID, senderType = b.ArtisanID, chat.SenderClient
	case b.ArtisanID:
		receiverID, senderType = b.ClientID, chat.SenderArtisan
	default:
		return nil, xerrors.ErrForbidden
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = chat.MessageText
	}
	if !messageType.Valid() {
		return nil, xerrors.ErrInvalidInput
	}

	msg, err := s.chatRepo.Create(ctx, &chat.NewMessage{
		BookingID:   req.BookingID,
		SenderID:    callerID,
		SenderType:  senderType,
		ReceiverID:  receiverID,
		Content:     req.Content,
		MessageType: messageType,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("message created over rest",
		zap.String("booking_id", msg.BookingID), zap.String("message_id", msg.ID))
	return msg, nil
}

// MarkRead flips the caller's unread messages in the booking and returns
// the count changed. Participants only.
func (s *ChatService) MarkRead(ctx context.Context, callerID, bookingID string) (int64, error) {
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	if !b.IsParticipant(callerID) {
		return 0, xerrors.ErrForbidden
	}
	return s.chatRepo.MarkRead(ctx, bookingID, callerID)
}

// Stats aggregates the caller's messaging activity.
func (s *ChatService) Stats(ctx context.Context, callerID string) (*chat.Stats, error) {
	return s.chatRepo.Stats(ctx, callerID)
}
