// internal/chat/hub.go
package chat

import (
	"context"

	"hrayfi-service/internal/domain/chat"

	"go.uber.org/zap"
)

// Hub ties the connection registry, room table and collaborators together
// and implements the per-frame conversation protocol.
//
// Socket-side failures are deliberately silent: a frame that fails
// validation or authorization is logged and dropped without any reply,
// while the REST surface returns explicit errors for the same conditions.
type Hub struct {
	registry *Registry
	rooms    *RoomTable

	bookings BookingDirectory
	users    UserDirectory
	store    MessageStore

	logger *zap.Logger
}

func NewHub(bookings BookingDirectory, users UserDirectory, store MessageStore, logger *zap.Logger) *Hub {
	return &Hub{
		registry: NewRegistry(),
		rooms:    NewRoomTable(),
		bookings: bookings,
		users:    users,
		store:    store,
		logger:   logger,
	}
}

// Register installs c as its identity's live connection. A previous
// connection for the same identity is superseded, not force-closed: the
// registry stops routing to it and its own read loop cleans it up when the
// transport drops. Room membership belongs to the identity and survives
// the swap.
func (h *Hub) Register(c *Client) {
	if prev := h.registry.Add(c); prev != nil {
		h.logger.Info("superseding chat connection", zap.String("user_id", c.userID))
	}
	h.logger.Info("chat client connected",
		zap.String("user_id", c.userID),
		zap.Int("connected", h.registry.Count()),
	)
}

// Unregister removes c from the registry and from every room. Idempotent
// and safe from any error path; a stale connection does not evict its
// replacement.
func (h *Hub) Unregister(c *Client) {
	if h.registry.Remove(c) {
		h.rooms.RemoveFromAll(c.userID)
		h.logger.Info("chat client disconnected",
			zap.String("user_id", c.userID),
			zap.Int("connected", h.registry.Count()),
		)
	}
	c.close()
}

// Connected reports whether the identity currently has a live connection.
func (h *Hub) Connected(userID string) bool {
	_, ok := h.registry.Get(userID)
	return ok
}

// handleFrame dispatches one inbound frame. Unknown types are dropped.
func (h *Hub) handleFrame(c *Client, frame *InboundFrame) {
	ctx := context.Background()

	switch frame.Type {
	case FrameJoinRoom:
		h.handleJoinRoom(ctx, c, frame)
	case FrameSendMessage:
		h.handleSendMessage(ctx, c, frame)
	case FrameMarkRead:
		h.handleMarkRead(ctx, c, frame)
	case FrameTyping:
		h.handleTyping(c, frame)
	default:
		h.logger.Debug("unknown frame type dropped",
			zap.String("user_id", c.userID), zap.String("type", frame.Type))
	}
}

// handleJoinRoom authorizes the caller against the booking, adds room
// membership and replays the full ordered history to the joiner only.
func (h *Hub) handleJoinRoom(ctx context.Context, c *Client, frame *InboundFrame) {
	if frame.BookingID == "" {
		return
	}

	b, err := h.bookings.FindByID(ctx, frame.BookingID)
	if err != nil {
		h.logger.Debug("join_room: booking lookup failed",
			zap.String("booking_id", frame.BookingID), zap.Error(err))
		return
	}
	if _, err := h.users.FindByID(ctx, c.userID); err != nil {
		h.logger.Debug("join_room: user lookup failed",
			zap.String("user_id", c.userID), zap.Error(err))
		return
	}
	if !b.IsParticipant(c.userID) {
		// No error frame on purpose. REST returns 403 for the same case.
		h.logger.Debug("join_room: caller is not a participant",
			zap.String("user_id", c.userID), zap.String("booking_id", b.ID))
		return
	}

	h.rooms.Join(b.ID, c.userID)

	history, err := h.store.ListByBooking(ctx, b.ID, 0, 0)
	if err != nil {
		h.logger.Error("join_room: history load failed",
			zap.String("booking_id", b.ID), zap.Error(err))
		return
	}
	h.sendDirect(c.userID, FrameMessageHistory, historyPayload{
		BookingID: b.ID,
		Messages:  history,
	})
}

// handleSendMessage persists the message and fans it out to the other room
// members. The caller gets no echo and no acknowledgment on this path.
func (h *Hub) handleSendMessage(ctx context.Context, c *Client, frame *InboundFrame) {
	if frame.BookingID == "" || frame.Content == "" {
		return
	}

	b, err := h.bookings.FindByID(ctx, frame.BookingID)
	if err != nil {
		h.logger.Debug("send_message: booking lookup failed",
			zap.String("booking_id", frame.BookingID), zap.Error(err))
		return
	}
	if _, err := h.users.FindByID(ctx, c.userID); err != nil {
		h.logger.Debug("send_message: user lookup failed",
			zap.String("user_id", c.userID), zap.Error(err))
		return
	}

	var receiverID string
	var senderType chat.SenderType
	switch c.userID {
	case b.ClientID:
		receiverID, senderType = b.ArtisanID, chat.SenderClient
	case b.ArtisanID:
		receiverID, senderType = b.ClientID, chat.SenderArtisan
	default:
		h.logger.Debug("send_message: caller is not a participant",
			zap.String("user_id", c.userID), zap.String("booking_id", b.ID))
		return
	}

	messageType := frame.MessageType
	if messageType == "" {
		messageType = chat.MessageText
	}

	msg, err := h.store.Create(ctx, &chat.NewMessage{
		BookingID:   b.ID,
		SenderID:    c.userID,
		SenderType:  senderType,
		ReceiverID:  receiverID,
		Content:     frame.Content,
		MessageType: messageType,
	})
	if err != nil {
		h.logger.Error("send_message: persist failed",
			zap.String("booking_id", b.ID), zap.Error(err))
		return
	}

	h.broadcast(b.ID, c.userID, FrameNewMessage, msg)
}

// handleMarkRead flips the caller's unread messages in the booking and, if
// anything changed, notifies the other room members.
func (h *Hub) handleMarkRead(ctx context.Context, c *Client, frame *InboundFrame) {
	if frame.BookingID == "" {
		return
	}

	count, err := h.store.MarkRead(ctx, frame.BookingID, c.userID)
	if err != nil {
		h.logger.Error("mark_read: store failed",
			zap.String("booking_id", frame.BookingID), zap.Error(err))
		return
	}
	if count == 0 {
		return
	}

	h.broadcast(frame.BookingID, c.userID, FrameMessagesRead, messagesReadPayload{
		BookingID: frame.BookingID,
		UserID:    c.userID,
		ReadCount: count,
	})
}

// handleTyping relays a typing indicator to the other room members. No
// persistence and no authorization beyond the implicit room membership.
func (h *Hub) handleTyping(c *Client, frame *InboundFrame) {
	if frame.BookingID == "" {
		return
	}
	h.broadcast(frame.BookingID, c.userID, FrameTyping, typingPayload{
		BookingID: frame.BookingID,
		UserID:    c.userID,
		IsTyping:  frame.IsTyping,
	})
}

// broadcast delivers one frame to every room member except excludeID.
// Delivery is best effort: a member whose connection cannot accept the
// frame is unregistered on the spot and recovers state via replay.
func (h *Hub) broadcast(bookingID, excludeID, frameType string, data interface{}) {
	payload, err := encodeFrame(frameType, data)
	if err != nil {
		h.logger.Error("failed to encode frame", zap.String("type", frameType), zap.Error(err))
		return
	}

	for _, memberID := range h.rooms.MembersOf(bookingID) {
		if memberID == excludeID {
			continue
		}
		member, ok := h.registry.Get(memberID)
		if !ok {
			continue
		}
		if !member.trySend(payload) {
			h.logger.Warn("dropping dead chat connection",
				zap.String("user_id", memberID), zap.String("booking_id", bookingID))
			h.Unregister(member)
		}
	}
}

// sendDirect delivers one frame to a single identity if connected; an
// offline identity just misses it.
func (h *Hub) sendDirect(userID, frameType string, data interface{}) {
	payload, err := encodeFrame(frameType, data)
	if err != nil {
		h.logger.Error("failed to encode frame", zap.String("type", frameType), zap.Error(err))
		return
	}
	c, ok := h.registry.Get(userID)
	if !ok {
		return
	}
	if !c.trySend(payload) {
		h.Unregister(c)
	}
}
