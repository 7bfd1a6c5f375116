package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/DocDiag/internal/auth"
	"github.com/Skufu/DocDiag/internal/store"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}

// fail maps store and auth errors to responses. Unknown errors are logged and
// reported as a generic 500.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		writeError(c, http.StatusConflict, "email_taken", "email address already registered")
	case errors.Is(err, store.ErrNotFound):
		writeError(c, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, store.ErrSessionExpired):
		writeError(c, http.StatusUnauthorized, "unauthorized", "session expired")
	case errors.Is(err, auth.ErrMismatch):
		writeError(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		writeError(c, http.StatusInternalServerError, "internal", "internal server error")
	}
}
