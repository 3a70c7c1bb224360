package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"track-times/internal/domain"
	"track-times/internal/repository"
)

// respondError maps domain failures to status codes. Unknown errors are logged and
// answered with a generic 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		invalid  *domain.ValidationError
		taken    *domain.UsernameTakenError
		idTaken  *domain.UserIDTakenError
		notFound *domain.UserNotFoundError
	)
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.As(err, &taken):
		c.JSON(http.StatusConflict, gin.H{"error": taken.Error()})
	case errors.As(err, &idTaken):
		c.JSON(http.StatusConflict, gin.H{"error": idTaken.Error()})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "resource already exists"})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.Is(err, domain.ErrExportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.logger.WithField("path", c.FullPath()).Errorf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondBindError answers a failed ShouldBindJSON with 400.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": domain.AsValidationError(err).Error()})
}
