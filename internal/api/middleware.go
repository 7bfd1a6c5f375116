package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/DocDiag/internal/store"
)

const (
	sessionCookie = "session_id"
	userIDKey     = "userID"
)

// LimitBodySize caps request bodies at maxBytes.
func LimitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// sessionToken reads the bearer token, falling back to the session cookie.
func sessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return token
}

func (h *Handler) requireSession(c *gin.Context) {
	token := sessionToken(c)
	if token == "" {
		writeError(c, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}

	sess, err := h.store.SessionByToken(c.Request.Context(), token, h.now())
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrSessionExpired) {
		writeError(c, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Set(userIDKey, sess.UserID)
	c.Next()
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
