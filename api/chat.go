package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hzhang91/docchat/domain"
)

// Chat handles a chat message: the user turn is appended to the session, the
// sliding-window context is forwarded to the completion provider, and the
// assistant turn is appended before responding.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Message == "" {
		return badRequest(c, "message is required")
	}
	if req.SessionID == "" {
		return badRequest(c, "session_id is required")
	}

	if !h.memory.SessionExists(ctx, req.SessionID) {
		if err := h.memory.CreateSession(ctx, req.SessionID); err != nil {
			return h.errorJSON(c, err)
		}
	}

	userMessage := domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   req.Message,
		Timestamp: time.Now(),
	}
	if err := h.memory.SaveMessage(ctx, req.SessionID, userMessage); err != nil {
		return h.errorJSON(c, err)
	}

	context := h.memory.ConversationContext(ctx, req.SessionID, h.config.ContextMessages)
	answer, err := h.llm.Generate(ctx, context, "")
	if err != nil {
		return h.errorJSON(c, err)
	}

	assistantMessage := domain.ChatMessage{
		Role:      domain.RoleAssistant,
		Content:   answer,
		Timestamp: time.Now(),
	}
	if err := h.memory.SaveMessage(ctx, req.SessionID, assistantMessage); err != nil {
		return h.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, domain.ChatResponse{
		Response:  answer,
		SessionID: req.SessionID,
		Timestamp: time.Now(),
	})
}
