// internal/service/upload/upload.go
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	xerrors "hrayfi-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// allowed upload content types, keyed by the kinds the API accepts.
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// UploadService proxies media files to the external image host using its
// unsigned-preset HTTP API and returns the hosted URL.
type UploadService struct {
	uploadURL string
	preset    string
	maxBytes  int64
	client    *http.Client
	logger    *zap.Logger
}

func NewUploadService(uploadURL, preset string, maxUploadMB int64, logger *zap.Logger) *UploadService {
	return &UploadService{
		uploadURL: uploadURL,
		preset:    preset,
		maxBytes:  maxUploadMB * 1024 * 1024,
		client:    &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
	}
}

// MaxBytes is the per-file upload limit.
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// Allowed reports whether the content type may be uploaded.
func (s *UploadService) Allowed(contentType string) bool {
	return allowedContentTypes[contentType]
}

type uploadResult struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload streams one file to the image host and returns its public URL.
// folder groups assets on the host (portfolio, documents, avatars).
func (s *UploadService) Upload(ctx context.Context, filename, folder string, file io.Reader) (string, error) {
	if s.uploadURL == "" {
		return "", xerrors.ErrInternal
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if err == nil {
			err = form.WriteField("upload_preset", s.preset)
		}
		if err == nil && folder != "" {
			err = form.WriteField("folder", folder)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, pr)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	var result uploadResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || result.Error != nil {
		msg := "upload rejected"
		if result.Error != nil {
			msg = result.Error.Message
		}
		s.logger.Error("image host rejected upload",
			zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return "", fmt.Errorf("%s: %w", msg, xerrors.ErrInternal)
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	if url == "" {
		return "", fmt.Errorf("upload response missing url: %w", xerrors.ErrInternal)
	}
	return url, nil
}
