// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"hrayfi-service/internal/domain/user"
	"hrayfi-service/internal/middleware"
	"hrayfi-service/internal/pkg/response"
	authService "hrayfi-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authService.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(svc *authService.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: svc, logger: logger}
}

// RegisterClient handles client registration (public endpoint)
func (h *AuthHandler) RegisterClient(c *gin.Context) {
	var req user.RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	u, err := h.authService.RegisterClient(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("client registration failed", zap.Error(err))
		response.FromError(c, err, "registration failed")
		return
	}
	response.Success(c, http.StatusCreated, "registration successful", user.NewResponse(u))
}

// RegisterArtisan handles artisan registration (public endpoint)
func (h *AuthHandler) RegisterArtisan(c *gin.Context) {
	var req user.RegisterArtisanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	u, err := h.authService.RegisterArtisan(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("artisan registration failed", zap.Error(err))
		response.FromError(c, err, "registration failed")
		return
	}
	response.Success(c, http.StatusCreated, "registration successful", user.NewResponse(u))
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	loginResp, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		h.logger.Warn("login failed", zap.String("ip", c.ClientIP()), zap.Error(err))
		response.FromError(c, err, "login failed")
		return
	}
	response.Success(c, http.StatusOK, "login successful", loginResp)
}

// Me returns the authenticated user's own account
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.authService.Me(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.FromError(c, err, "failed to load account")
		return
	}
	response.Success(c, http.StatusOK, "ok", user.NewResponse(u))
}

// RefreshToken re-issues an access token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	loginResp, err := h.authService.RefreshToken(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.FromError(c, err, "failed to refresh token")
		return
	}
	response.Success(c, http.StatusOK, "token refreshed", loginResp)
}

// Logout acknowledges a logout. Tokens are stateless, so the client just
// discards its copy; the endpoint exists for API symmetry.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, http.StatusOK, "logged out", nil)
}

// CheckEmail reports whether an email is already registered
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		response.ValidationError(c, "email is required", nil)
		return
	}
	exists, err := h.authService.EmailExists(c.Request.Context(), email)
	if err != nil {
		response.FromError(c, err, "failed to check email")
		return
	}
	response.Success(c, http.StatusOK, "ok", gin.H{"exists": exists})
}

// ForgotPassword emails a reset code
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req user.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.FromError(c, err, "failed to process request")
		return
	}
	// Same reply whether or not the account exists.
	response.Success(c, http.StatusOK, "if the email exists, a reset code has been sent", nil)
}

// VerifyResetCode exchanges a valid code for a short-lived reset token
func (h *AuthHandler) VerifyResetCode(c *gin.Context) {
	var req user.VerifyResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	token, err := h.authService.VerifyResetCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		response.FromError(c, err, "invalid or expired code")
		return
	}
	response.Success(c, http.StatusOK, "code verified", gin.H{"reset_token": token})
}

// ResetPassword sets a new password with a verified reset token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req user.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.ResetToken, req.NewPassword); err != nil {
		response.FromError(c, err, "failed to reset password")
		return
	}
	response.Success(c, http.StatusOK, "password updated", nil)
}
