// internal/handlers/websocket/ws_handler.go
package websocket

import (
	"net/http"

	"hrayfi-service/internal/chat"
	"hrayfi-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser websocket clients cannot send custom headers; origin policy
	// is enforced by the CORS layer on the rest of the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades authenticated connections and hands them to the chat
// hub.
type WSHandler struct {
	hub    *chat.Hub
	tokens *jwt.Manager
	logger *zap.Logger
}

func NewWSHandler(hub *chat.Hub, tokens *jwt.Manager, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, tokens: tokens, logger: logger}
}

// Serve handles GET /ws/chat?token=... The token is verified before the
// upgrade so an invalid one is rejected with a plain 401 instead of a
// half-open socket.
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("Authorization")
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}
	}

	claims, err := h.tokens.VerifyAccessToken(token)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := chat.NewClient(h.hub, conn, claims.UserID(), claims.UserType)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
