package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kavin1122/task-management/internal/apperr"
	"github.com/kavin1122/task-management/internal/model"
)

// respondError maps domain error kinds onto HTTP statuses. Anything
// without a kind is an internal failure and surfaces as a generic 500
// so store errors never leak detail to the caller.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var status int
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindAuth:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	default:
		logger.Error("Request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var e *apperr.Error
	message := "request failed"
	if errors.As(err, &e) {
		message = e.Message
	}
	c.JSON(status, gin.H{"error": message})
}

// currentIdentity reads the identity stored by the auth middleware.
func currentIdentity(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get("identity")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return model.Identity{}, false
	}
	return id, true
}
