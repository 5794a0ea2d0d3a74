package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"langlab_backend/models"
	"langlab_backend/session"
)

// respondError maps domain errors to HTTP statuses. Unknown errors become a
// 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNoFilesSelected),
		errors.Is(err, models.ErrSelectionTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrFolderMismatch),
		errors.Is(err, models.ErrCourseExists),
		errors.Is(err, models.ErrDuplicateVocabulary),
		errors.Is(err, session.ErrInvalidWorkflowState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrContentLoadFailure):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAIRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAIRequestFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
