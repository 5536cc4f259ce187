package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bullpen/internal/apperrors"
	"bullpen/internal/middleware"
	"bullpen/internal/service"
	"bullpen/internal/workflow"
)

type Handlers struct {
	services     *service.Services
	cancellation *workflow.CancellationWorkflow
	refunds      *workflow.RefundWorkflow
	capacity     *workflow.CapacityManager
}

func NewHandlers(services *service.Services, cancellation *workflow.CancellationWorkflow, refunds *workflow.RefundWorkflow, capacity *workflow.CapacityManager) *Handlers {
	return &Handlers{
		services:     services,
		cancellation: cancellation,
		refunds:      refunds,
		capacity:     capacity,
	}
}

// respondError maps domain errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrEmptyReason), errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrAlreadyExists),
		errors.Is(err, apperrors.ErrCapacityTooLow),
		errors.Is(err, apperrors.ErrCapacityFull),
		errors.Is(err, apperrors.ErrLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// actorID returns the authenticated user id, empty when auth is disabled
func actorID(c *gin.Context) string {
	id, _ := middleware.UserIDFromContext(c.Request.Context())
	return id
}
