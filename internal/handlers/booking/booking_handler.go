// internal/handlers/booking/booking_handler.go
package booking

import (
	"net/http"
	"time"

	"hrayfi-service/internal/domain/booking"
	"hrayfi-service/internal/middleware"
	"hrayfi-service/internal/pkg/response"
	bookingService "hrayfi-service/internal/service/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookingService *bookingService.BookingService
	logger         *zap.Logger
}

func NewBookingHandler(svc *bookingService.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookingService: svc, logger: logger}
}

// Create opens a booking (clients only)
func (h *BookingHandler) Create(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	b, err := h.bookingService.Create(c.Request.Context(), middleware.MustGetUserID(c), &req)
	if err != nil {
		h.logger.Error("booking creation failed", zap.Error(err))
		response.FromError(c, err, "failed to create booking")
		return
	}
	response.Success(c, http.StatusCreated, "booking created", b)
}

// List returns the caller's bookings (all bookings for admins)
func (h *BookingHandler) List(c *gin.Context) {
	var filters booking.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	bookings, err := h.bookingService.List(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), filters)
	if err != nil {
		response.FromError(c, err, "failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, "ok", bookings)
}

// Get returns one booking with participant details
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.bookingService.Get(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, "ok", b)
}

// Update applies a role-filtered partial update
func (h *BookingHandler) Update(c *gin.Context) {
	var req booking.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	b, err := h.bookingService.Update(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, err, "failed to update booking")
		return
	}
	response.Success(c, http.StatusOK, "booking updated", b)
}

// Schedule sets the visit date (booking's artisan)
func (h *BookingHandler) Schedule(c *gin.Context) {
	var req struct {
		ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	b, err := h.bookingService.Schedule(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), c.Param("id"), req.ScheduledDate)
	if err != nil {
		response.FromError(c, err, "failed to schedule booking")
		return
	}
	response.Success(c, http.StatusOK, "booking scheduled", b)
}

// UpdateStatus moves the booking through its lifecycle (booking's artisan)
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status booking.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	b, err := h.bookingService.Update(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), c.Param("id"),
		&booking.UpdateBookingRequest{Status: &req.Status})
	if err != nil {
		response.FromError(c, err, "failed to update status")
		return
	}
	response.Success(c, http.StatusOK, "status updated", b)
}

// Delete removes a booking
func (h *BookingHandler) Delete(c *gin.Context) {
	err := h.bookingService.Delete(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "failed to delete booking")
		return
	}
	response.Success(c, http.StatusOK, "booking deleted", nil)
}

// Stats summarizes the caller's bookings by status
func (h *BookingHandler) Stats(c *gin.Context) {
	stats, err := h.bookingService.Stats(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.FromError(c, err, "failed to load stats")
		return
	}
	response.Success(c, http.StatusOK, "ok", stats)
}
