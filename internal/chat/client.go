// internal/chat/client.go
package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// wsConn is the slice of *websocket.Conn the client uses. Tests substitute
// an in-memory implementation.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	Close() error
}

// Client is one live socket connection for an authenticated identity.
type Client struct {
	hub      *Hub
	conn     wsConn
	userID   string
	userType string

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn wsConn, userID, userType string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		userID:   userID,
		userType: userType,
		send:     make(chan []byte, 256),
		done:     make(chan struct{}),
	}
}

func (c *Client) UserID() string   { return c.userID }
func (c *Client) UserType() string { return c.userType }

// trySend queues a frame for delivery. It reports false when the
// connection is closed or its buffer is full; the caller treats that as a
// dead connection.
func (c *Client) trySend(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// close makes future trySend calls fail and wakes the write pump. Safe to
// call more than once via the hub's registry check.
func (c *Client) close() {
	select {
	case <-c.done:
		return
	default:
		close(c.done)
	}
}

// ReadPump consumes inbound frames sequentially until the transport drops.
// Frames from one connection are never processed concurrently, so a
// join-then-send sequence observes its own join.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read failed",
					zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}

		var frame InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			// A bad frame never kills the connection.
			c.hub.logger.Debug("malformed frame dropped",
				zap.String("user_id", c.userID), zap.Error(err))
			continue
		}
		c.hub.handleFrame(c, &frame)
	}
}

// WritePump drains the send buffer and keeps the connection alive with
// pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
