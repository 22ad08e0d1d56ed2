package utils

import (
	"errors"
	"net/http"

	"carbook/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// StatusForError maps domain errors onto HTTP status codes.
// Expired sessions are reported as not found.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrExpired),
		errors.Is(err, models.ErrVehicleNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrTerminal), errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrVehicleUnavailable), errors.Is(err, models.ErrNotCancellable):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidWindow):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError renders err using StatusForError. Expired is logged distinctly.
func AbortWithError(c *gin.Context, message string, err error) {
	status := StatusForError(err)
	if errors.Is(err, models.ErrExpired) {
		GetLogger().Info("session expired", zap.String("path", c.FullPath()), zap.Error(err))
		JSONError(c, status, message, models.ErrNotFound.Error())
		return
	}
	JSONError(c, status, message, err.Error())
}
