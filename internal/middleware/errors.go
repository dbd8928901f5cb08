package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

// RespondError maps an engine error to an HTTP response. Collaborator errors
// never reach here; services swallow them after the transition commits.
func RespondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindAuthorization:
		status = http.StatusForbidden
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindConflict:
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"error": appErr.Msg, "entity": appErr.Entity})
}
