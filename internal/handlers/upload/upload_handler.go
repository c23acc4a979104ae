// internal/handlers/upload/upload_handler.go
package upload

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"hrayfi-service/internal/domain/user"
	"hrayfi-service/internal/middleware"
	"hrayfi-service/internal/pkg/response"
	"hrayfi-service/internal/repository/postgres"
	uploadService "hrayfi-service/internal/service/upload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadHandler struct {
	uploadService *uploadService.UploadService
	userRepo      *postgres.UserRepository
	logger        *zap.Logger
}

func NewUploadHandler(svc *uploadService.UploadService, userRepo *postgres.UserRepository, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{uploadService: svc, userRepo: userRepo, logger: logger}
}

// openFile validates and opens the multipart "file" field. It writes the
// error response itself when validation fails.
func (h *UploadHandler) openFile(c *gin.Context) (string, multipart.File, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "file is required", err)
		return "", nil, false
	}
	if header.Size > h.uploadService.MaxBytes() {
		response.Error(c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return "", nil, false
	}
	if !h.uploadService.Allowed(header.Header.Get("Content-Type")) {
		response.Error(c, http.StatusUnsupportedMediaType, "unsupported file type", nil)
		return "", nil, false
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read file", err)
		return "", nil, false
	}
	return header.Filename, file, true
}

// ProfilePicture uploads and installs the caller's avatar
func (h *UploadHandler) ProfilePicture(c *gin.Context) {
	filename, file, ok := h.openFile(c)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.uploadService.Upload(c.Request.Context(), filename, "avatars", file)
	if err != nil {
		h.logger.Error("avatar upload failed", zap.Error(err))
		response.FromError(c, err, "upload failed")
		return
	}

	req := &user.UpdateUserRequest{ProfilePicture: &url}
	if err := h.userRepo.Update(c.Request.Context(), middleware.MustGetUserID(c), req); err != nil {
		response.FromError(c, err, "failed to save profile picture")
		return
	}
	response.Success(c, http.StatusOK, "profile picture updated", gin.H{"url": url})
}

// DeleteProfilePicture removes the caller's avatar
func (h *UploadHandler) DeleteProfilePicture(c *gin.Context) {
	if err := h.userRepo.ClearProfilePicture(c.Request.Context(), middleware.MustGetUserID(c)); err != nil {
		response.FromError(c, err, "failed to remove profile picture")
		return
	}
	response.Success(c, http.StatusOK, "profile picture removed", nil)
}

// Portfolio adds a work photo to the caller's portfolio (artisans only)
func (h *UploadHandler) Portfolio(c *gin.Context) {
	filename, file, ok := h.openFile(c)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.uploadService.Upload(c.Request.Context(), filename, "portfolio", file)
	if err != nil {
		h.logger.Error("portfolio upload failed", zap.Error(err))
		response.FromError(c, err, "upload failed")
		return
	}

	if err := h.userRepo.AppendPortfolio(c.Request.Context(), middleware.MustGetUserID(c), url); err != nil {
		response.FromError(c, err, "failed to save portfolio entry")
		return
	}
	response.Success(c, http.StatusOK, "portfolio updated", gin.H{"url": url})
}

// ListPortfolio returns the caller's portfolio URLs (artisans only)
func (h *UploadHandler) ListPortfolio(c *gin.Context) {
	u, err := h.userRepo.FindByID(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.FromError(c, err, "failed to load portfolio")
		return
	}
	portfolio := []string(u.Portfolio)
	if portfolio == nil {
		portfolio = []string{}
	}
	response.Success(c, http.StatusOK, "ok", gin.H{"portfolio": portfolio})
}

// DeletePortfolioItem removes one portfolio entry by position (artisans only)
func (h *UploadHandler) DeletePortfolioItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.ValidationError(c, "invalid portfolio index", err)
		return
	}

	userID := middleware.MustGetUserID(c)
	u, err := h.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err, "failed to load portfolio")
		return
	}
	if index >= len(u.Portfolio) {
		response.NotFound(c, "portfolio entry not found")
		return
	}

	updated := append([]string{}, u.Portfolio[:index]...)
	updated = append(updated, u.Portfolio[index+1:]...)
	if err := h.userRepo.SetPortfolio(c.Request.Context(), userID, updated); err != nil {
		response.FromError(c, err, "failed to update portfolio")
		return
	}
	response.Success(c, http.StatusOK, "portfolio entry removed", gin.H{"portfolio": updated})
}

var identityDocumentTypes = map[string]bool{
	"cin_recto": true,
	"cin_verso": true,
	"photo":     true,
}

// IdentityDocument stores a verification document under its document type
// (artisans only)
func (h *UploadHandler) IdentityDocument(c *gin.Context) {
	docType := c.Param("document_type")
	if !identityDocumentTypes[docType] {
		response.ValidationError(c, "document_type must be cin_recto, cin_verso or photo", nil)
		return
	}

	filename, file, ok := h.openFile(c)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.uploadService.Upload(c.Request.Context(), filename, "documents", file)
	if err != nil {
		h.logger.Error("document upload failed", zap.Error(err))
		response.FromError(c, err, "upload failed")
		return
	}

	if err := h.userRepo.SetIdentityDocument(c.Request.Context(),
		middleware.MustGetUserID(c), docType, url); err != nil {
		response.FromError(c, err, "failed to save document")
		return
	}
	response.Success(c, http.StatusOK, "document uploaded", gin.H{"url": url, "document_type": docType})
}
