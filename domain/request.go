package domain

import "time"

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the reply to POST /api/chat.
type ChatResponse struct {
	Response  string    `json:"response"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// UploadResponse is the reply to POST /api/upload.
type UploadResponse struct {
	Answer    string    `json:"answer"`
	SessionID string    `json:"session_id"`
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatHistory is the reply to GET /api/sessions/:session_id/history.
type ChatHistory struct {
	SessionID   string        `json:"session_id"`
	Messages    []ChatMessage `json:"messages"`
	SessionInfo SessionInfo   `json:"session_info"`
}
