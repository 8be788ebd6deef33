// Package api provides HTTP handlers for the docchat server.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hzhang91/docchat/config"
	"github.com/hzhang91/docchat/llm"
	"github.com/hzhang91/docchat/memory"
	"github.com/hzhang91/docchat/policy"
)

// Handler handles HTTP requests. All dependencies are constructed in main
// and injected here; nothing is global.
type Handler struct {
	memory *memory.Service
	llm    *llm.Client
	policy *policy.Engine
	config *config.Config
	logger *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(mem *memory.Service, llmClient *llm.Client, policyEngine *policy.Engine, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		memory: mem,
		llm:    llmClient,
		policy: policyEngine,
		config: cfg,
		logger: logger,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/chat", h.Chat)
	e.POST("/api/upload", h.Upload)

	e.GET("/api/sessions/:session_id/history", h.GetChatHistory)
	e.POST("/api/sessions/:session_id/clear", h.ClearSession)
	e.POST("/api/sessions/new", h.CreateSession)
	e.GET("/api/sessions/:session_id/info", h.GetSessionInfo)

	e.GET("/health", h.Health)
}

// Health returns health status.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "docchat server is running",
	})
}
