// Package api exposes the scoring engine and account features over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Skufu/DocDiag/internal/auth"
	"github.com/Skufu/DocDiag/internal/diagnosis"
	"github.com/Skufu/DocDiag/internal/store"
)

type Handler struct {
	store      store.Store
	log        *logrus.Logger
	sessionTTL time.Duration
	now        func() time.Time
}

func NewHandler(s store.Store, log *logrus.Logger, sessionTTL time.Duration) *Handler {
	return &Handler{
		store:      s,
		log:        log,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Routes mounts every endpoint under /api.
func (h *Handler) Routes(r gin.IRouter) {
	g := r.Group("/api")
	g.POST("/diagnosis/score", h.scoreAssessment)
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)

	authed := g.Group("", h.requireSession)
	authed.GET("/settings/profile", h.getProfile)
	authed.PUT("/settings/profile", h.updateProfile)
	authed.PUT("/settings/password", h.changePassword)
	authed.GET("/diagnoses", h.listDiagnoses)
	authed.POST("/diagnoses", h.createDiagnosis)
	authed.GET("/diagnoses/:id", h.getDiagnosis)
}

func (h *Handler) scoreAssessment(c *gin.Context) {
	in, err := bindAssessment(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_payload", "invalid payload")
		return
	}
	c.JSON(http.StatusOK, diagnosis.Score(in))
}

type credentials struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_payload", "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(c, http.StatusUnprocessableEntity, "validation_failed", "name, email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.store.CreateUser(c.Request.Context(), req.Name, req.Email, hash)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_payload", "invalid payload")
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.UserByEmail(ctx, req.Email)
	if err == nil {
		err = auth.CheckPassword(user.PasswordHash, req.Password)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = auth.ErrMismatch
		}
		h.fail(c, err)
		return
	}

	sess := store.Session{
		Token:     auth.NewSessionToken(),
		UserID:    user.ID,
		ExpiresAt: h.now().Add(h.sessionTTL),
	}
	if err := h.store.CreateSession(ctx, sess); err != nil {
		h.fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sess.Token, int(h.sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
		"user":      user,
	})
}

func (h *Handler) logout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		if err := h.store.DeleteSession(c.Request.Context(), token); err != nil {
			h.fail(c, err)
			return
		}
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getProfile(c *gin.Context) {
	user, err := h.store.UserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_payload", "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Email) == "" {
		writeError(c, http.StatusUnprocessableEntity, "validation_failed", "name and email are required")
		return
	}

	user, err := h.store.UpdateProfile(c.Request.Context(), currentUserID(c), req.Name, req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type passwordChange struct {
	CurrentPassword string `form:"current_password" json:"current_password"`
	NewPassword     string `form:"new_password" json:"new_password"`
}

func (h *Handler) changePassword(c *gin.Context) {
	var req passwordChange
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_payload", "invalid payload")
		return
	}
	if req.NewPassword == "" {
		writeError(c, http.StatusUnprocessableEntity, "validation_failed", "new password is required")
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	user, err := h.store.UserByID(ctx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrMismatch) {
			writeError(c, http.StatusUnauthorized, "invalid_credentials", "current password is incorrect")
			return
		}
		h.fail(c, err)
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.UpdatePassword(ctx, userID, hash); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) createDiagnosis(c *gin.Context) {
	in, err := bindAssessment(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_payload", "invalid payload")
		return
	}
	if strings.TrimSpace(in.Symptoms) == "" {
		writeError(c, http.StatusUnprocessableEntity, "validation_failed", "symptoms is required")
		return
	}

	rec := store.NewRecord(currentUserID(c), in, diagnosis.Score(in))
	if err := h.store.SaveRecord(c.Request.Context(), rec); err != nil {
		h.fail(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"record_id":    rec.ID,
		"user_id":      rec.UserID,
		"risk_level":   rec.Result.RiskLevel,
		"is_emergency": rec.Result.IsEmergency,
	}).Info("assessment recorded")
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) listDiagnoses(c *gin.Context) {
	records, err := h.store.RecordsByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"diagnoses": records})
}

func (h *Handler) getDiagnosis(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_id", "invalid diagnosis id")
		return
	}
	rec, err := h.store.RecordByID(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
