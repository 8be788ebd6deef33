package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hzhang91/docchat/domain"
	"github.com/hzhang91/docchat/extract"
	"github.com/hzhang91/docchat/policy"
)

// defaultQuestion is used when the uploader does not ask one.
const defaultQuestion = "What is the main topic?"

// Upload handles a document upload with an optional question. The admission
// policy (size limit, extension allow-list) runs before any extraction; the
// extracted text is truncated by character count and forwarded to the
// provider as extra context alongside the question as a single user turn.
// POST /api/upload
func (h *Handler) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	if fileHeader.Filename == "" {
		return badRequest(c, "No filename provided.")
	}

	question := c.FormValue("question")
	if question == "" {
		question = defaultQuestion
	}
	sessionID := c.FormValue("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	decision, err := h.policy.Evaluate(ctx, policy.UploadInput{
		Filename:          fileHeader.Filename,
		Extension:         extract.Extension(fileHeader.Filename),
		SizeBytes:         fileHeader.Size,
		MaxSizeBytes:      h.config.UploadMaxSize,
		AllowedExtensions: h.config.AllowedExtensions,
	})
	if err != nil {
		return h.errorJSON(c, err)
	}
	switch decision {
	case policy.DecisionTooLarge:
		return badRequest(c, fmt.Sprintf("File too large. Maximum size: %d bytes", h.config.UploadMaxSize))
	case policy.DecisionUnsupportedType:
		return badRequest(c, fmt.Sprintf("Unsupported file type. Only %s are allowed.", strings.Join(h.config.AllowedExtensions, ", ")))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return h.errorJSON(c, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return h.errorJSON(c, err)
	}

	text, err := extract.Text(data, fileHeader.Filename)
	if err != nil {
		return h.errorJSON(c, err)
	}
	if strings.TrimSpace(text) == "" {
		return badRequest(c, "No text could be extracted from the file.")
	}
	documentContext := extract.Truncate(text, h.config.MaxContextLength)

	if !h.memory.SessionExists(ctx, sessionID) {
		if err := h.memory.CreateSession(ctx, sessionID); err != nil {
			return h.errorJSON(c, err)
		}
	}

	userMessage := domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   fmt.Sprintf("[Uploaded file: %s] %s", fileHeader.Filename, question),
		Timestamp: time.Now(),
	}
	if err := h.memory.SaveMessage(ctx, sessionID, userMessage); err != nil {
		return h.errorJSON(c, err)
	}

	answer, err := h.llm.Generate(ctx, []domain.PromptMessage{
		{Role: string(domain.RoleUser), Content: question},
	}, documentContext)
	if err != nil {
		return h.errorJSON(c, err)
	}

	assistantMessage := domain.ChatMessage{
		Role:      domain.RoleAssistant,
		Content:   answer,
		Timestamp: time.Now(),
	}
	if err := h.memory.SaveMessage(ctx, sessionID, assistantMessage); err != nil {
		return h.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, domain.UploadResponse{
		Answer:    answer,
		SessionID: sessionID,
		Filename:  fileHeader.Filename,
		Timestamp: time.Now(),
	})
}
