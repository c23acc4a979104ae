// internal/pkg/response/response_test.go
package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	xerrors "hrayfi-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFromErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{xerrors.ErrNotFound, http.StatusNotFound},
		{xerrors.ErrForbidden, http.StatusForbidden},
		{xerrors.ErrUnauthorized, http.StatusUnauthorized},
		{xerrors.ErrInvalidInput, http.StatusBadRequest},
		{xerrors.ErrConflict, http.StatusConflict},
		{xerrors.ErrRateLimited, http.StatusTooManyRequests},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		FromError(c, tc.err, "request failed")
		assert.Equal(t, tc.status, w.Code, "error %v", tc.err)
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}

func TestFromErrorMapsWrappedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, xerrors.Wrap(xerrors.ErrNotFound, "booking missing"), "not found")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSuccessDefaultsTo200(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, 0, "ok", gin.H{"id": "x"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}
