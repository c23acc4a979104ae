// internal/handlers/ticket/ticket_handler.go
package ticket

import (
	"net/http"

	"hrayfi-service/internal/domain/ticket"
	"hrayfi-service/internal/middleware"
	"hrayfi-service/internal/pkg/response"
	ticketService "hrayfi-service/internal/service/ticket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TicketHandler struct {
	ticketService *ticketService.TicketService
	logger        *zap.Logger
}

func NewTicketHandler(svc *ticketService.TicketService, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{ticketService: svc, logger: logger}
}

// Create opens a support ticket
func (h *TicketHandler) Create(c *gin.Context) {
	var req ticket.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	t, err := h.ticketService.Create(c.Request.Context(), middleware.MustGetUserID(c), &req)
	if err != nil {
		h.logger.Error("ticket creation failed", zap.Error(err))
		response.FromError(c, err, "failed to create ticket")
		return
	}
	response.Success(c, http.StatusCreated, "ticket created", t)
}

// List returns the caller's tickets (all tickets for admins)
func (h *TicketHandler) List(c *gin.Context) {
	var filters ticket.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	tickets, err := h.ticketService.List(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), filters)
	if err != nil {
		response.FromError(c, err, "failed to list tickets")
		return
	}
	response.Success(c, http.StatusOK, "ok", tickets)
}

// Get returns one ticket with its thread
func (h *TicketHandler) Get(c *gin.Context) {
	t, err := h.ticketService.Get(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "failed to load ticket")
		return
	}
	response.Success(c, http.StatusOK, "ok", t)
}

// Update edits an open ticket's request fields (owner only)
func (h *TicketHandler) Update(c *gin.Context) {
	var req ticket.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	t, err := h.ticketService.Update(c.Request.Context(),
		middleware.MustGetUserID(c), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, err, "failed to update ticket")
		return
	}
	response.Success(c, http.StatusOK, "ticket updated", t)
}

// UpdateStatus moves a ticket through its lifecycle (admin only)
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	var req ticket.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	t, err := h.ticketService.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, err, "failed to update status")
		return
	}
	response.Success(c, http.StatusOK, "status updated", t)
}

// AddResponse appends a message to the ticket thread
func (h *TicketHandler) AddResponse(c *gin.Context) {
	var req ticket.AddResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	t, err := h.ticketService.AddResponse(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), c.Param("id"), req.Message)
	if err != nil {
		response.FromError(c, err, "failed to add response")
		return
	}
	response.Success(c, http.StatusOK, "response added", t)
}

// Delete removes a ticket (admin only)
func (h *TicketHandler) Delete(c *gin.Context) {
	if err := h.ticketService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err, "failed to delete ticket")
		return
	}
	response.Success(c, http.StatusOK, "ticket deleted", nil)
}

// Stats counts tickets by status (admin only)
func (h *TicketHandler) Stats(c *gin.Context) {
	stats, err := h.ticketService.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "failed to load stats")
		return
	}
	response.Success(c, http.StatusOK, "ok", stats)
}

// MyStats counts the caller's tickets by status
func (h *TicketHandler) MyStats(c *gin.Context) {
	stats, err := h.ticketService.MyStats(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.FromError(c, err, "failed to load stats")
		return
	}
	response.Success(c, http.StatusOK, "ok", stats)
}
