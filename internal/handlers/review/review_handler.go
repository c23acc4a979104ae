// internal/handlers/review/review_handler.go
package review

import (
	"net/http"
	"strconv"

	"hrayfi-service/internal/domain/review"
	"hrayfi-service/internal/middleware"
	"hrayfi-service/internal/pkg/response"
	reviewService "hrayfi-service/internal/service/review"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	reviewService *reviewService.ReviewService
	logger        *zap.Logger
}

func NewReviewHandler(svc *reviewService.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: svc, logger: logger}
}

// Create adds a review for a completed booking (clients only)
func (h *ReviewHandler) Create(c *gin.Context) {
	var req review.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	rv, err := h.reviewService.Create(c.Request.Context(), middleware.MustGetUserID(c), &req)
	if err != nil {
		h.logger.Error("review creation failed", zap.Error(err))
		response.FromError(c, err, "failed to create review")
		return
	}
	response.Success(c, http.StatusCreated, "review created", rv)
}

// Update edits the caller's own review
func (h *ReviewHandler) Update(c *gin.Context) {
	var req review.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	rv, err := h.reviewService.Update(c.Request.Context(),
		middleware.MustGetUserID(c), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, err, "failed to update review")
		return
	}
	response.Success(c, http.StatusOK, "review updated", rv)
}

// Delete removes a review
func (h *ReviewHandler) Delete(c *gin.Context) {
	err := h.reviewService.Delete(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "failed to delete review")
		return
	}
	response.Success(c, http.StatusOK, "review deleted", nil)
}

// ListMine returns the caller's reviews: written for clients, received for
// artisans
func (h *ReviewHandler) ListMine(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reviews, err := h.reviewService.ListMine(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), skip, limit)
	if err != nil {
		response.FromError(c, err, "failed to list reviews")
		return
	}
	response.Success(c, http.StatusOK, "ok", reviews)
}

// Get returns one review
func (h *ReviewHandler) Get(c *gin.Context) {
	rv, err := h.reviewService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "review not found")
		return
	}
	response.Success(c, http.StatusOK, "ok", rv)
}

// ListByArtisan returns an artisan's reviews (public)
func (h *ReviewHandler) ListByArtisan(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reviews, err := h.reviewService.ListByArtisan(c.Request.Context(), c.Param("id"), skip, limit)
	if err != nil {
		response.FromError(c, err, "failed to list reviews")
		return
	}
	response.Success(c, http.StatusOK, "ok", reviews)
}

// GetByBooking returns the review left for a booking, if any
func (h *ReviewHandler) GetByBooking(c *gin.Context) {
	rv, err := h.reviewService.GetByBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "review not found")
		return
	}
	response.Success(c, http.StatusOK, "ok", rv)
}

// Stats returns an artisan's aggregate rating and distribution (public)
func (h *ReviewHandler) Stats(c *gin.Context) {
	stats, err := h.reviewService.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "failed to load stats")
		return
	}
	response.Success(c, http.StatusOK, "ok", stats)
}
