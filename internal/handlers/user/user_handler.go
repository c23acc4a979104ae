// internal/handlers/user/user_handler.go
package user

import (
	"net/http"
	"strconv"

	"hrayfi-service/internal/domain/user"
	"hrayfi-service/internal/middleware"
	"hrayfi-service/internal/pkg/response"
	userService "hrayfi-service/internal/service/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *userService.UserService
	logger      *zap.Logger
}

func NewUserHandler(svc *userService.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: svc, logger: logger}
}

// UpdateMe applies a partial update to the caller's own profile
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	u, err := h.userService.Update(c.Request.Context(), middleware.MustGetUserID(c), &req)
	if err != nil {
		h.logger.Error("profile update failed", zap.Error(err))
		response.FromError(c, err, "failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, "profile updated", user.NewResponse(u))
}

// ListClients lists client accounts (admin only)
func (h *UserHandler) ListClients(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	clients, err := h.userService.ListClients(c.Request.Context(), skip, limit)
	if err != nil {
		response.FromError(c, err, "failed to list clients")
		return
	}
	response.Success(c, http.StatusOK, "ok", clients)
}

// Get returns a user profile (self or admin)
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.userService.GetForCaller(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "user not found")
		return
	}
	response.Success(c, http.StatusOK, "ok", user.NewResponse(u))
}

// Delete deactivates an account (self or admin)
func (h *UserHandler) Delete(c *gin.Context) {
	err := h.userService.Deactivate(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetUserType(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "failed to deactivate account")
		return
	}
	response.Success(c, http.StatusOK, "account deactivated", nil)
}

// SearchArtisans lists artisans filtered by trade and location
func (h *UserHandler) SearchArtisans(c *gin.Context) {
	var filters user.SearchArtisansFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	artisans, err := h.userService.SearchArtisans(c.Request.Context(), filters)
	if err != nil {
		response.FromError(c, err, "failed to search artisans")
		return
	}
	response.Success(c, http.StatusOK, "ok", artisans)
}

// GetArtisan returns an artisan's public profile
func (h *UserHandler) GetArtisan(c *gin.Context) {
	u, err := h.userService.GetArtisan(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "artisan not found")
		return
	}
	response.Success(c, http.StatusOK, "ok", user.NewResponse(u))
}

// VerifyArtisan marks an artisan as verified (admin only)
func (h *UserHandler) VerifyArtisan(c *gin.Context) {
	var req struct {
		Verified bool `json:"verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.userService.VerifyArtisan(c.Request.Context(), c.Param("id"), req.Verified); err != nil {
		response.FromError(c, err, "failed to update verification")
		return
	}
	response.Success(c, http.StatusOK, "verification updated", nil)
}
