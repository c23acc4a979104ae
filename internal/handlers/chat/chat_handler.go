// internal/handlers/chat/chat_handler.go
package chat

import (
	"net/http"
	"strconv"

	"hrayfi-service/internal/domain/chat"
	"hrayfi-service/internal/middleware"
	"hrayfi-service/internal/pkg/response"
	chatService "hrayfi-service/internal/service/chat"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler is the REST mirror of the socket operations. It shares the
// message store with the live path but never touches connection state.
type ChatHandler struct {
	chatService *chatService.ChatService
	logger      *zap.Logger
}

func NewChatHandler(svc *chatService.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: svc, logger: logger}
}

// Conversations lists the caller's conversations with last-message previews
func (h *ChatHandler) Conversations(c *gin.Context) {
	conversations, err := h.chatService.Conversations(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.FromError(c, err, "failed to list conversations")
		return
	}
	response.Success(c, http.StatusOK, "ok", conversations)
}

// Messages returns a booking's messages, oldest first
func (h *ChatHandler) Messages(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	messages, err := h.chatService.Messages(c.Request.Context(),
		middleware.MustGetUserID(c), c.Param("id"), skip, limit)
	if err != nil {
		response.FromError(c, err, "failed to list messages")
		return
	}
	response.Success(c, http.StatusOK, "ok", messages)
}

// CreateMessage persists one message and returns it synchronously
func (h *ChatHandler) CreateMessage(c *gin.Context) {
	var req chat.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	if req.BookingID != c.Param("id") {
		response.ValidationError(c, "booking_id does not match the conversation", nil)
		return
	}

	msg, err := h.chatService.CreateMessage(c.Request.Context(), middleware.MustGetUserID(c), &req)
	if err != nil {
		h.logger.Error("message creation failed", zap.Error(err))
		response.FromError(c, err, "failed to create message")
		return
	}
	response.Success(c, http.StatusCreated, "message created", msg)
}

// MarkRead flips the caller's unread messages in the booking
func (h *ChatHandler) MarkRead(c *gin.Context) {
	count, err := h.chatService.MarkRead(c.Request.Context(),
		middleware.MustGetUserID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "failed to mark messages read")
		return
	}
	response.Success(c, http.StatusOK, "messages marked read", gin.H{"read_count": count})
}

// Stats aggregates the caller's messaging activity
func (h *ChatHandler) Stats(c *gin.Context) {
	stats, err := h.chatService.Stats(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.FromError(c, err, "failed to load stats")
		return
	}
	response.Success(c, http.StatusOK, "ok", stats)
}
