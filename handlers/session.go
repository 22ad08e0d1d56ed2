// File: carbook/handlers/session.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"carbook/models"
	"carbook/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler exposes session lifecycle endpoints.
type SessionHandler struct {
	Sessions session.SessionManager
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions session.SessionManager) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

type createSessionInput struct {
	UserID string `json:"user_id"`
}

// CreateSession starts a new conversation. The body is optional.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var input createSessionInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "details": err.Error()})
		return
	}

	sess, err := h.Sessions.CreateSession(c.Request.Context(), input.UserID)
	if err != nil {
		respondError(c, "failed to create session", err)
		return
	}
	getLogger(c).Info("Session started", zap.String("sessionID", sess.SessionID))
	c.JSON(http.StatusCreated, models.NewSessionOut{SessionID: sess.SessionID, ExpiresAt: sess.ExpiresAt})
}

// ListSessions returns the active sessions.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.Sessions.ListActiveSessions(c.Request.Context())
	if err != nil {
		respondError(c, "failed to list sessions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

// GetSession returns the session status; unknown and expired sessions are 404.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	status, err := h.Sessions.Status(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, "failed to load session", err)
		return
	}
	if !status.IsValid {
		c.JSON(http.StatusNotFound, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

// DeleteSession removes a session. Deleting twice is not an error.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Sessions.DeleteSession(c.Request.Context(), sessionID); err != nil {
		respondError(c, "failed to delete session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted", "session_id": sessionID})
}
