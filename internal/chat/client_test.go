// internal/chat/client_test.go
package chat

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedConn feeds a fixed sequence of inbound frames to ReadPump and
// records everything written to it.
type scriptedConn struct {
	mu     sync.Mutex
	frames [][]byte
	writes [][]byte
	types  []int
	closed bool
}

func (c *scriptedConn) ReadMessage() (int, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) == 0 {
		return 0, nil, errors.New("use of closed network connection")
	}
	frame := c.frames[0]
	c.frames = c.frames[1:]
	return websocket.TextMessage, frame, nil
}

func (c *scriptedConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = append(c.types, messageType)
	c.writes = append(c.writes, data)
	return nil
}

func (c *scriptedConn) SetReadDeadline(time.Time) error   { return nil }
func (c *scriptedConn) SetWriteDeadline(time.Time) error  { return nil }
func (c *scriptedConn) SetReadLimit(int64)                {}
func (c *scriptedConn) SetPongHandler(func(string) error) {}

func (c *scriptedConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *scriptedConn) wasClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *scriptedConn) written() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.writes))
	copy(out, c.writes)
	return out
}

func TestTrySendAfterCloseFails(t *testing.T) {
	c := NewClient(nil, nil, "user-1", "client")

	assert.True(t, c.trySend([]byte("a")))
	c.close()
	assert.False(t, c.trySend([]byte("b")))

	// close is idempotent.
	c.close()
}

func TestTrySendFullBufferFails(t *testing.T) {
	c := NewClient(nil, nil, "user-1", "client")

	for i := 0; i < cap(c.send); i++ {
		require.True(t, c.trySend([]byte("x")))
	}
	assert.False(t, c.trySend([]byte("overflow")))
}

func TestReadPumpSurvivesMalformedFrames(t *testing.T) {
	hub := newTestHub(&fakeStore{})
	conn := &scriptedConn{frames: [][]byte{
		[]byte("{not json"),
		[]byte(`{"type":"join_room","booking_id":"booking-1"}`),
	}}

	client := NewClient(hub, conn, "client-1", "client")
	hub.Register(client)

	client.ReadPump()

	// The frame after the malformed one was still processed.
	frameType, _ := receiveFrame(t, client)
	assert.Equal(t, FrameMessageHistory, frameType)
}

func TestReadPumpUnregistersOnExit(t *testing.T) {
	hub := newTestHub(&fakeStore{})
	conn := &scriptedConn{frames: [][]byte{
		[]byte(`{"type":"join_room","booking_id":"booking-1"}`),
	}}

	client := NewClient(hub, conn, "client-1", "client")
	hub.Register(client)

	client.ReadPump()

	assert.False(t, hub.Connected("client-1"))
	assert.Equal(t, 0, hub.rooms.Len())
	assert.True(t, conn.wasClosed())
}

func TestWritePumpDrainsQueuedFrames(t *testing.T) {
	conn := &scriptedConn{}
	c := NewClient(nil, conn, "user-1", "client")

	require.True(t, c.trySend([]byte(`{"type":"typing"}`)))

	done := make(chan struct{})
	go func() {
		c.WritePump()
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(conn.written()) >= 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []byte(`{"type":"typing"}`), conn.written()[0])

	c.close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write pump did not exit after close")
	}
	assert.True(t, conn.wasClosed())
}
