package httpapi

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/logger"
)

// errorKind names the error taxonomy entry for the diagnostic payload.
func errorKind(err error) string {
	var (
		cfgErr     *domain.ConfigurationError
		notFound   *domain.NotFoundError
		upstream   *domain.UpstreamError
		validation *domain.ValidationError
	)
	switch {
	case errors.As(err, &cfgErr):
		return "ConfigurationError"
	case errors.As(err, &notFound):
		return "NotFoundError"
	case errors.As(err, &upstream):
		return "UpstreamError"
	case errors.As(err, &validation):
		return "ValidationError"
	default:
		return "InternalError"
	}
}

// writeError maps a pipeline failure onto the wire: validation errors are
// client faults, unimplemented paths report 501, everything else is a
// server fault with the full diagnostic payload (kind, message, trace).
func writeError(c *gin.Context, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": validation.Error()})
		return
	}

	if errors.Is(err, domain.ErrNotImplemented) {
		c.JSON(http.StatusNotImplemented, gin.H{"detail": err.Error()})
		return
	}

	logger.Error("request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"type":    errorKind(err),
		"message": err.Error(),
		"trace":   string(debug.Stack()),
	})
}
