// internal/chat/hub_test.go
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"hrayfi-service/internal/domain/booking"
	chatdomain "hrayfi-service/internal/domain/chat"
	"hrayfi-service/internal/domain/user"
	xerrors "hrayfi-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBookings struct {
	bookings map[string]*booking.Booking
}

func (f *fakeBookings) FindByID(_ context.Context, id string) (*booking.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return b, nil
}

type fakeUsers struct {
	users map[string]*user.User
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return u, nil
}

type fakeStore struct {
	mu        sync.Mutex
	messages  []*chatdomain.Message
	readCount int64
	createErr error
}

func (f *fakeStore) Create(_ context.Context, nm *chatdomain.NewMessage) (*chatdomain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	msg := &chatdomain.Message{
		ID:          fmt.Sprintf("msg-%d", len(f.messages)+1),
		BookingID:   nm.BookingID,
		SenderID:    nm.SenderID,
		SenderType:  nm.SenderType,
		ReceiverID:  nm.ReceiverID,
		Content:     nm.Content,
		MessageType: nm.MessageType,
		CreatedAt:   time.Now().UTC(),
	}
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeStore) ListByBooking(_ context.Context, bookingID string, _, _ int) ([]*chatdomain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*chatdomain.Message, 0)
	for _, m := range f.messages {
		if m.BookingID == bookingID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkRead(_ context.Context, _, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readCount, nil
}

func newTestHub(store *fakeStore) *Hub {
	bookings := &fakeBookings{bookings: map[string]*booking.Booking{
		"booking-1": {ID: "booking-1", ClientID: "client-1", ArtisanID: "artisan-1"},
	}}
	users := &fakeUsers{users: map[string]*user.User{
		"client-1":  {ID: "client-1", UserType: user.TypeClient},
		"artisan-1": {ID: "artisan-1", UserType: user.TypeArtisan},
		"stranger":  {ID: "stranger", UserType: user.TypeClient},
	}}
	return NewHub(bookings, users, store, zap.NewNop())
}

// receiveFrame pulls the next queued frame off the client's send buffer and
// decodes the envelope.
func receiveFrame(t *testing.T, c *Client) (string, json.RawMessage) {
	t.Helper()
	select {
	case data := <-c.send:
		var frame struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame.Type, frame.Data
	default:
		t.Fatal("no frame queued")
		return "", nil
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected frame queued: %s", data)
	default:
	}
}

func TestJoinRoomReplaysHistoryToJoinerOnly(t *testing.T) {
	store := &fakeStore{}
	hub := newTestHub(store)

	_, err := store.Create(context.Background(), &chatdomain.NewMessage{
		BookingID: "booking-1", SenderID: "client-1", SenderType: chatdomain.SenderClient,
		ReceiverID: "artisan-1", Content: "bonjour", MessageType: chatdomain.MessageText,
	})
	require.NoError(t, err)

	client := NewClient(hub, nil, "client-1", "client")
	artisan := NewClient(hub, nil, "artisan-1", "artisan")
	hub.Register(client)
	hub.Register(artisan)

	hub.handleFrame(artisan, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	hub.handleFrame(client, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})

	frameType, data := receiveFrame(t, client)
	assert.Equal(t, FrameMessageHistory, frameType)

	var payload struct {
		BookingID string                 `json:"booking_id"`
		Messages  []*chatdomain.Message  `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "booking-1", payload.BookingID)
	require.Len(t, payload.Messages, 1)
	assert.Equal(t, "bonjour", payload.Messages[0].Content)

	assert.True(t, hub.rooms.Contains("booking-1", "client-1"))
	assert.True(t, hub.rooms.Contains("booking-1", "artisan-1"))
}

func TestJoinRoomEmptyHistory(t *testing.T) {
	hub := newTestHub(&fakeStore{})

	client := NewClient(hub, nil, "client-1", "client")
	hub.Register(client)

	hub.handleFrame(client, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})

	frameType, data := receiveFrame(t, client)
	assert.Equal(t, FrameMessageHistory, frameType)

	var payload struct {
		Messages []*chatdomain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Empty(t, payload.Messages)
}

func TestJoinRoomRejectsNonParticipant(t *testing.T) {
	hub := newTestHub(&fakeStore{})

	stranger := NewClient(hub, nil, "stranger", "client")
	hub.Register(stranger)

	hub.handleFrame(stranger, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})

	// Dropped silently: no membership, no history, no error frame.
	assert.False(t, hub.rooms.Contains("booking-1", "stranger"))
	assertNoFrame(t, stranger)
}

func TestJoinRoomUnknownBooking(t *testing.T) {
	hub := newTestHub(&fakeStore{})

	client := NewClient(hub, nil, "client-1", "client")
	hub.Register(client)

	hub.handleFrame(client, &InboundFrame{Type: FrameJoinRoom, BookingID: "no-such-booking"})

	assert.Equal(t, 0, hub.rooms.Len())
	assertNoFrame(t, client)
}

func TestSendMessagePersistsAndFansOutWithoutEcho(t *testing.T) {
	store := &fakeStore{}
	hub := newTestHub(store)

	client := NewClient(hub, nil, "client-1", "client")
	artisan := NewClient(hub, nil, "artisan-1", "artisan")
	hub.Register(client)
	hub.Register(artisan)

	hub.handleFrame(client, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	hub.handleFrame(artisan, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	receiveFrame(t, client)
	receiveFrame(t, artisan)

	hub.handleFrame(client, &InboundFrame{
		Type: FrameSendMessage, BookingID: "booking-1", Content: "quand arrivez-vous ?",
	})

	require.Len(t, store.messages, 1)
	stored := store.messages[0]
	assert.Equal(t, "client-1", stored.SenderID)
	assert.Equal(t, chatdomain.SenderClient, stored.SenderType)
	assert.Equal(t, "artisan-1", stored.ReceiverID)
	assert.Equal(t, chatdomain.MessageText, stored.MessageType)

	frameType, data := receiveFrame(t, artisan)
	assert.Equal(t, FrameNewMessage, frameType)

	var msg chatdomain.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "quand arrivez-vous ?", msg.Content)

	// The sender never receives its own message back.
	assertNoFrame(t, client)
}

func TestSendMessageFromArtisanSetsSenderType(t *testing.T) {
	store := &fakeStore{}
	hub := newTestHub(store)

	artisan := NewClient(hub, nil, "artisan-1", "artisan")
	hub.Register(artisan)
	hub.handleFrame(artisan, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	receiveFrame(t, artisan)

	hub.handleFrame(artisan, &InboundFrame{
		Type: FrameSendMessage, BookingID: "booking-1", Content: "j'arrive à 14h",
	})

	require.Len(t, store.messages, 1)
	assert.Equal(t, chatdomain.SenderArtisan, store.messages[0].SenderType)
	assert.Equal(t, "client-1", store.messages[0].ReceiverID)
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	store := &fakeStore{}
	hub := newTestHub(store)

	stranger := NewClient(hub, nil, "stranger", "client")
	hub.Register(stranger)

	hub.handleFrame(stranger, &InboundFrame{
		Type: FrameSendMessage, BookingID: "booking-1", Content: "coucou",
	})

	assert.Empty(t, store.messages)
	assertNoFrame(t, stranger)
}

func TestSendMessageRequiresContent(t *testing.T) {
	store := &fakeStore{}
	hub := newTestHub(store)

	client := NewClient(hub, nil, "client-1", "client")
	hub.Register(client)

	hub.handleFrame(client, &InboundFrame{Type: FrameSendMessage, BookingID: "booking-1"})

	assert.Empty(t, store.messages)
}

func TestMarkReadBroadcastsOnlyWhenSomethingChanged(t *testing.T) {
	store := &fakeStore{readCount: 2}
	hub := newTestHub(store)

	client := NewClient(hub, nil, "client-1", "client")
	artisan := NewClient(hub, nil, "artisan-1", "artisan")
	hub.Register(client)
	hub.Register(artisan)
	hub.handleFrame(client, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	hub.handleFrame(artisan, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	receiveFrame(t, client)
	receiveFrame(t, artisan)

	hub.handleFrame(client, &InboundFrame{Type: FrameMarkRead, BookingID: "booking-1"})

	frameType, data := receiveFrame(t, artisan)
	assert.Equal(t, FrameMessagesRead, frameType)

	var payload struct {
		BookingID string `json:"booking_id"`
		UserID    string `json:"user_id"`
		ReadCount int64  `json:"read_count"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "booking-1", payload.BookingID)
	assert.Equal(t, "client-1", payload.UserID)
	assert.Equal(t, int64(2), payload.ReadCount)
	assertNoFrame(t, client)

	// Second pass flips nothing, so nobody hears about it.
	store.readCount = 0
	hub.handleFrame(client, &InboundFrame{Type: FrameMarkRead, BookingID: "booking-1"})
	assertNoFrame(t, artisan)
}

func TestTypingRelaysToOtherMembers(t *testing.T) {
	hub := newTestHub(&fakeStore{})

	client := NewClient(hub, nil, "client-1", "client")
	artisan := NewClient(hub, nil, "artisan-1", "artisan")
	hub.Register(client)
	hub.Register(artisan)
	hub.handleFrame(client, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	hub.handleFrame(artisan, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	receiveFrame(t, client)
	receiveFrame(t, artisan)

	hub.handleFrame(client, &InboundFrame{Type: FrameTyping, BookingID: "booking-1", IsTyping: true})

	frameType, data := receiveFrame(t, artisan)
	assert.Equal(t, FrameTyping, frameType)

	var payload struct {
		UserID   string `json:"user_id"`
		IsTyping bool   `json:"is_typing"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "client-1", payload.UserID)
	assert.True(t, payload.IsTyping)
	assertNoFrame(t, client)
}

func TestUnknownFrameTypeIsDropped(t *testing.T) {
	hub := newTestHub(&fakeStore{})

	client := NewClient(hub, nil, "client-1", "client")
	hub.Register(client)

	hub.handleFrame(client, &InboundFrame{Type: "dance", BookingID: "booking-1"})

	assertNoFrame(t, client)
	assert.True(t, hub.Connected("client-1"))
}

func TestRegisterSupersedesKeepsRoomMembership(t *testing.T) {
	hub := newTestHub(&fakeStore{})

	first := NewClient(hub, nil, "client-1", "client")
	hub.Register(first)
	hub.handleFrame(first, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	receiveFrame(t, first)

	second := NewClient(hub, nil, "client-1", "client")
	hub.Register(second)

	// Membership belongs to the identity and survives the swap.
	assert.True(t, hub.rooms.Contains("booking-1", "client-1"))

	got, ok := hub.registry.Get("client-1")
	require.True(t, ok)
	assert.Same(t, second, got)

	// The displaced connection's own cleanup must not tear down the
	// replacement's state.
	hub.Unregister(first)
	assert.True(t, hub.Connected("client-1"))
	assert.True(t, hub.rooms.Contains("booking-1", "client-1"))
}

func TestUnregisterCleansRoomsAndRegistry(t *testing.T) {
	hub := newTestHub(&fakeStore{})

	client := NewClient(hub, nil, "client-1", "client")
	hub.Register(client)
	hub.handleFrame(client, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	receiveFrame(t, client)

	hub.Unregister(client)

	assert.False(t, hub.Connected("client-1"))
	assert.Equal(t, 0, hub.rooms.Len())

	// Idempotent.
	hub.Unregister(client)
	assert.False(t, hub.Connected("client-1"))
}

func TestBroadcastUnregistersDeadConnections(t *testing.T) {
	hub := newTestHub(&fakeStore{})

	client := NewClient(hub, nil, "client-1", "client")
	artisan := NewClient(hub, nil, "artisan-1", "artisan")
	hub.Register(client)
	hub.Register(artisan)
	hub.handleFrame(client, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	hub.handleFrame(artisan, &InboundFrame{Type: FrameJoinRoom, BookingID: "booking-1"})
	receiveFrame(t, client)
	receiveFrame(t, artisan)

	// A closed connection refuses new frames and gets swept on the next
	// delivery attempt.
	artisan.close()

	hub.handleFrame(client, &InboundFrame{
		Type: FrameSendMessage, BookingID: "booking-1", Content: "toujours là ?",
	})

	assert.False(t, hub.Connected("artisan-1"))
	assert.False(t, hub.rooms.Contains("booking-1", "artisan-1"))
	assert.True(t, hub.Connected("client-1"))
}
