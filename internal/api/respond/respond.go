// Package respond maps service errors to HTTP statuses. Clients only see a
// generic message; the error kind goes to the log.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/askpdf/internal/domain"
	"github.com/liliang-cn/askpdf/internal/session"
	"go.uber.org/zap"
)

// GenericMessage is the only error text shown to users
const GenericMessage = "Something went wrong. Please try again."

// Status returns the HTTP status for err
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRemoteCall):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Log records a failed request with its error kind and returns its status
func Log(c *gin.Context, logger *zap.Logger, msg string, err error) int {
	status := Status(err)
	_ = c.Error(err)
	logger.Error(msg,
		zap.String("kind", domain.ErrorKind(err)),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	return status
}

// JSON aborts the request with a generic JSON error body
func JSON(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := Log(c, logger, msg, err)
	c.AbortWithStatusJSON(status, gin.H{"error": GenericMessage})
}
