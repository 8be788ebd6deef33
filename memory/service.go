// Package memory implements session semantics on top of the checkpoint store.
//
// Every mutation rewrites the session's full checkpoint with a fresh
// checkpoint id and timestamp. Read paths degrade to empty results on store
// failure and log the error; write paths log and propagate. There is no retry
// and no rollback: a failed write leaves the prior checkpoint untouched.
package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hzhang91/docchat/domain"
	"github.com/hzhang91/docchat/store"
)

// Service wraps a CheckpointStore with session operations.
type Service struct {
	store  store.CheckpointStore
	logger *zap.Logger
}

// NewService creates a new session memory service.
func NewService(st store.CheckpointStore, logger *zap.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger,
	}
}

// newCheckpoint builds a checkpoint with a fresh identity for the given
// message list.
func newCheckpoint(version int, messages []domain.ChatMessage) *domain.Checkpoint {
	return &domain.Checkpoint{
		Version:      version,
		CheckpointID: uuid.NewString(),
		Timestamp:    time.Now(),
		Messages:     messages,
	}
}

// CreateSession writes a fresh checkpoint with an empty message list. It
// overwrites any existing checkpoint for the id, so callers guard with
// SessionExists first.
func (s *Service) CreateSession(ctx context.Context, sessionID string) error {
	if err := s.store.Put(ctx, sessionID, newCheckpoint(1, nil)); err != nil {
		s.logger.Error("failed to create session", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}
	return nil
}

// SessionExists reports whether a checkpoint exists for the session,
// regardless of whether its message list is empty.
func (s *Service) SessionExists(ctx context.Context, sessionID string) bool {
	cp, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to check session existence", zap.String("session_id", sessionID), zap.Error(err))
		return false
	}
	return cp != nil
}

// SaveMessage appends a message to the session and writes the checkpoint
// back. A missing session is created implicitly and logged as a recoverable
// anomaly rather than a failure.
func (s *Service) SaveMessage(ctx context.Context, sessionID string, message domain.ChatMessage) error {
	cp, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to load checkpoint for save", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}

	version := 1
	var messages []domain.ChatMessage
	if cp == nil {
		s.logger.Warn("session missing on save, creating implicitly", zap.String("session_id", sessionID))
	} else {
		version = cp.Version + 1
		messages = cp.Messages
	}

	next := newCheckpoint(version, append(messages, message))
	if err := s.store.Put(ctx, sessionID, next); err != nil {
		s.logger.Error("failed to save message", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}
	return nil
}

// ChatHistory returns the session's messages in conversation order. It
// returns an empty sequence, never an error, when the session is absent or
// the store fails; failures are logged so the degradation stays observable.
func (s *Service) ChatHistory(ctx context.Context, sessionID string) []domain.ChatMessage {
	cp, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to load chat history, returning empty", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	if cp == nil {
		return nil
	}
	return cp.Messages
}

// ConversationContext returns the last maxMessages entries of the session's
// history in original order, stripped to role and content. This is the exact
// payload forwarded to the completion provider: a sliding window by message
// count, with older turns silently dropped.
func (s *Service) ConversationContext(ctx context.Context, sessionID string, maxMessages int) []domain.PromptMessage {
	messages := s.ChatHistory(ctx, sessionID)
	if maxMessages > 0 && len(messages) > maxMessages {
		messages = messages[len(messages)-maxMessages:]
	}

	prompt := make([]domain.PromptMessage, 0, len(messages))
	for _, m := range messages {
		prompt = append(prompt, domain.PromptMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return prompt
}

// ClearSession resets the session to an empty message list, renewing the
// checkpoint identity. It is a no-op, not an error, when the session does
// not exist.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	cp, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to load checkpoint for clear", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}
	if cp == nil {
		return nil
	}

	if err := s.store.Put(ctx, sessionID, newCheckpoint(cp.Version+1, nil)); err != nil {
		s.logger.Error("failed to clear session", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}
	return nil
}

// SessionInfo derives session metadata from the stored messages. It returns
// nil when the session is absent or the store fails. A session with no
// messages reports the current time for both created_at and last_activity;
// creation time is not tracked separately from message timestamps.
func (s *Service) SessionInfo(ctx context.Context, sessionID string) *domain.SessionInfo {
	cp, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to load session info", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	if cp == nil {
		return nil
	}

	now := time.Now()
	info := &domain.SessionInfo{
		SessionID:    sessionID,
		CreatedAt:    now,
		LastActivity: now,
		MessageCount: len(cp.Messages),
	}

	for i, m := range cp.Messages {
		if i == 0 || m.Timestamp.Before(info.CreatedAt) {
			info.CreatedAt = m.Timestamp
		}
		if i == 0 || m.Timestamp.After(info.LastActivity) {
			info.LastActivity = m.Timestamp
		}
	}
	return info
}
