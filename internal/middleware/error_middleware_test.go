package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachm/hooprun/internal/pkg/apperrors"
)

func TestHandleAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"unverified user", apperrors.ErrUserNotVerified, http.StatusForbidden},
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound},
		{"run not found", apperrors.ErrRunNotFound, http.StatusNotFound},
		{"referrer not found", apperrors.ErrReferrerNotFound, http.StatusNotFound},
		{"username taken", apperrors.ErrUsernameExists, http.StatusBadRequest},
		{"email taken", apperrors.ErrEmailExists, http.StatusBadRequest},
		{"bad reset token", apperrors.ErrInvalidResetToken, http.StatusBadRequest},
		{"ineligible referrer", apperrors.ErrReferrerNotEligible, http.StatusBadRequest},
		{"run completed", apperrors.ErrRunCompleted, http.StatusBadRequest},
		{"run at capacity", apperrors.ErrRunAtCapacity, http.StatusBadRequest},
		{"invalid rsvp", apperrors.ErrInvalidRSVP, http.StatusBadRequest},
		{"bad request detail", apperrors.NewBadRequestError("capacity must be positive"), http.StatusBadRequest},
		{"unknown error", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Contains(t, body, "error")
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleAPIErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	HandleAPIError(c, errors.New("pq: password authentication failed for user"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password authentication")
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestHandleAPIErrorWrappedCustomError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	// CustomError wraps a sentinel; errors.Is must still resolve it
	wrapped := &apperrors.CustomError{Err: apperrors.ErrRunAtCapacity, Message: "this run is full"}
	HandleAPIError(c, wrapped)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
