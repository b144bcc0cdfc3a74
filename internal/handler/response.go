package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playtube/user-service/internal/dto"
	"github.com/playtube/user-service/internal/service"
	"go.uber.org/zap"
)

// respond writes the standard success envelope.
func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, dto.NewResponse(status, data, message))
}

// respondError maps a service error to the failure envelope. Internal
// failures are logged and replaced with a generic message so no raw
// detail crosses the boundary.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong"

	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidCredential):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	default:
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(status, dto.ErrorResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
	})
}

// respondBindingError reports gin binding failures as validation
// errors with field detail.
func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    "validation failed",
		Success:    false,
		Errors:     []string{err.Error()},
	})
}

// abortUnauthorized terminates the request from middleware.
func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
		Success:    false,
	})
}
