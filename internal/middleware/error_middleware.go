package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
	"github.com/zachm/hooprun/internal/pkg/logger"
)

// HandleAPIError maps service errors onto flat JSON error responses.
// Unrecognized errors become a 500 with a generic message; the detail
// goes to the log, not the client.
func HandleAPIError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong"

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrUserNotVerified):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrRunNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrReferrerNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrUsernameExists),
		errors.Is(err, apperrors.ErrEmailExists),
		errors.Is(err, apperrors.ErrInvalidResetToken),
		errors.Is(err, apperrors.ErrReferrerNotEligible),
		errors.Is(err, apperrors.ErrInvalidBadge),
		errors.Is(err, apperrors.ErrRunCompleted),
		errors.Is(err, apperrors.ErrRunAtCapacity),
		errors.Is(err, apperrors.ErrInvalidRSVP),
		errors.Is(err, apperrors.ErrLocationNotFound),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		status, message = http.StatusBadRequest, err.Error()
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
	}

	c.JSON(status, dto.ErrorResponse{Error: message})
}
