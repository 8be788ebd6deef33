package domain

import "time"

// ChatMessage is a single turn in a conversation. Messages are immutable once
// created; their order within a session is the conversation order.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Checkpoint is the full persisted snapshot of one session's message state.
// It is overwritten, not appended, on every save; the store keeps no history
// of prior checkpoints.
type Checkpoint struct {
	Version      int           `json:"version"`
	CheckpointID string        `json:"checkpoint_id"`
	Timestamp    time.Time     `json:"timestamp"`
	Messages     []ChatMessage `json:"messages"`
}

// SessionInfo is a derived, read-only view of a session. For a session with
// no messages, CreatedAt and LastActivity default to the time of the call.
type SessionInfo struct {
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}

// PromptMessage is the role/content pair forwarded to the completion
// provider, stripped of timestamps.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
