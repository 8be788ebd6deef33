package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hzhang91/docchat/domain"
)

// GetChatHistory returns a session's messages and derived metadata.
// GET /api/sessions/:session_id/history
func (h *Handler) GetChatHistory(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if !h.memory.SessionExists(ctx, sessionID) {
		return h.errorJSON(c, &domain.NotFoundError{Resource: "session", ID: sessionID})
	}

	messages := h.memory.ChatHistory(ctx, sessionID)
	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	info := h.memory.SessionInfo(ctx, sessionID)
	if info == nil {
		return h.errorJSON(c, &domain.NotFoundError{Resource: "session", ID: sessionID})
	}

	return c.JSON(http.StatusOK, domain.ChatHistory{
		SessionID:   sessionID,
		Messages:    messages,
		SessionInfo: *info,
	})
}

// ClearSession resets a session's message list; the session identity
// survives.
// POST /api/sessions/:session_id/clear
func (h *Handler) ClearSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if !h.memory.SessionExists(ctx, sessionID) {
		return h.errorJSON(c, &domain.NotFoundError{Resource: "session", ID: sessionID})
	}

	if err := h.memory.ClearSession(ctx, sessionID); err != nil {
		return h.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Session cleared successfully"})
}

// CreateSession creates a session with a server-generated id.
// POST /api/sessions/new
func (h *Handler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := uuid.NewString()

	if err := h.memory.CreateSession(ctx, sessionID); err != nil {
		return h.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"session_id": sessionID})
}

// GetSessionInfo returns the derived metadata for a session.
// GET /api/sessions/:session_id/info
func (h *Handler) GetSessionInfo(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	info := h.memory.SessionInfo(ctx, sessionID)
	if info == nil {
		return h.errorJSON(c, &domain.NotFoundError{Resource: "session", ID: sessionID})
	}

	return c.JSON(http.StatusOK, info)
}
