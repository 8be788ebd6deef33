package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hzhang91/docchat/domain"
	"github.com/hzhang91/docchat/tests/helpers"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(helpers.NewTestSQLiteStore(t), zap.NewNop())
}

func userMessage(content string, ts time.Time) domain.ChatMessage {
	return domain.ChatMessage{Role: domain.RoleUser, Content: content, Timestamp: ts}
}

func TestCreateSessionAndExists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if svc.SessionExists(ctx, "s1") {
		t.Fatal("session should not exist before creation")
	}
	if err := svc.CreateSession(ctx, "s1"); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if !svc.SessionExists(ctx, "s1") {
		t.Fatal("session should exist after creation")
	}
	if len(svc.ChatHistory(ctx, "s1")) != 0 {
		t.Fatal("new session should have empty history")
	}
}

func TestSaveMessageImplicitCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveMessage(ctx, "s1", userMessage("hello", time.Now())); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if !svc.SessionExists(ctx, "s1") {
		t.Fatal("save to a missing session should create it")
	}

	history := svc.ChatHistory(ctx, "s1")
	if len(history) != 1 || history[0].Content != "hello" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestChatHistoryOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		msg := userMessage(fmt.Sprintf("message-%d", i), base.Add(time.Duration(i)*time.Second))
		if err := svc.SaveMessage(ctx, "s1", msg); err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
	}

	history := svc.ChatHistory(ctx, "s1")
	if len(history) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(history))
	}
	for i, m := range history {
		if want := fmt.Sprintf("message-%d", i); m.Content != want {
			t.Fatalf("message %d out of order: got %q, want %q", i, m.Content, want)
		}
	}
}

func TestChatHistoryMissingSession(t *testing.T) {
	svc := newTestService(t)

	if history := svc.ChatHistory(context.Background(), "missing"); len(history) != 0 {
		t.Fatalf("expected empty history, got %+v", history)
	}
}

func TestConversationContextWindow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		if err := svc.SaveMessage(ctx, "s1", userMessage(fmt.Sprintf("message-%d", i), time.Now())); err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
	}

	window := svc.ConversationContext(ctx, "s1", 10)
	if len(window) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(window))
	}
	// Oldest two turns are dropped; order within the window is preserved.
	if window[0].Content != "message-2" || window[9].Content != "message-11" {
		t.Fatalf("unexpected window bounds: first=%q last=%q", window[0].Content, window[9].Content)
	}
	for _, m := range window {
		if m.Role != "user" {
			t.Fatalf("unexpected role: %q", m.Role)
		}
	}
}

func TestConversationContextShortHistory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.SaveMessage(ctx, "s1", userMessage(fmt.Sprintf("message-%d", i), time.Now())); err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
	}

	window := svc.ConversationContext(ctx, "s1", 10)
	if len(window) != 3 {
		t.Fatalf("expected all 3 messages, got %d", len(window))
	}
}

func TestClearSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveMessage(ctx, "s1", userMessage("hello", time.Now())); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if err := svc.ClearSession(ctx, "s1"); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}

	if len(svc.ChatHistory(ctx, "s1")) != 0 {
		t.Fatal("cleared session should have empty history")
	}
	if !svc.SessionExists(ctx, "s1") {
		t.Fatal("cleared session should still exist")
	}
	info := svc.SessionInfo(ctx, "s1")
	if info == nil || info.MessageCount != 0 {
		t.Fatalf("unexpected session info after clear: %+v", info)
	}
}

func TestClearMissingSessionIsNoop(t *testing.T) {
	svc := newTestService(t)

	if err := svc.ClearSession(context.Background(), "missing"); err != nil {
		t.Fatalf("clearing a missing session should not fail: %v", err)
	}
	if svc.SessionExists(context.Background(), "missing") {
		t.Fatal("clear must not create the session")
	}
}

func TestSessionInfo(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if info := svc.SessionInfo(ctx, "missing"); info != nil {
		t.Fatalf("expected nil info for missing session, got %+v", info)
	}

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		msg := userMessage(fmt.Sprintf("message-%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := svc.SaveMessage(ctx, "s1", msg); err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
	}

	info := svc.SessionInfo(ctx, "s1")
	if info == nil {
		t.Fatal("expected session info")
	}
	if info.MessageCount != 3 {
		t.Fatalf("expected 3 messages, got %d", info.MessageCount)
	}
	if !info.CreatedAt.Equal(base) {
		t.Fatalf("created_at should be the earliest message timestamp: got %v, want %v", info.CreatedAt, base)
	}
	if want := base.Add(2 * time.Minute); !info.LastActivity.Equal(want) {
		t.Fatalf("last_activity should be the latest message timestamp: got %v, want %v", info.LastActivity, want)
	}
}

func TestSessionInfoEmptySession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	before := time.Now()
	if err := svc.CreateSession(ctx, "s1"); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	info := svc.SessionInfo(ctx, "s1")
	if info == nil {
		t.Fatal("expected session info for empty session")
	}
	if info.MessageCount != 0 {
		t.Fatalf("expected 0 messages, got %d", info.MessageCount)
	}
	// With no messages, both timestamps default to the time of the call.
	if info.CreatedAt.Before(before) || info.LastActivity.Before(before) {
		t.Fatalf("expected call-time timestamps, got %+v", info)
	}
}

func TestSaveRenewsCheckpointIdentity(t *testing.T) {
	st := helpers.NewTestSQLiteStore(t)
	svc := NewService(st, zap.NewNop())
	ctx := context.Background()

	if err := svc.SaveMessage(ctx, "s1", userMessage("one", time.Now())); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	first, err := st.Get(ctx, "s1")
	if err != nil || first == nil {
		t.Fatalf("Get failed: %v", err)
	}

	if err := svc.SaveMessage(ctx, "s1", userMessage("two", time.Now())); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	second, err := st.Get(ctx, "s1")
	if err != nil || second == nil {
		t.Fatalf("Get failed: %v", err)
	}

	if second.CheckpointID == first.CheckpointID {
		t.Fatal("each save should assign a new checkpoint id")
	}
	if second.Version != first.Version+1 {
		t.Fatalf("expected version %d, got %d", first.Version+1, second.Version)
	}
}

// failingStore simulates an unavailable backing store.
type failingStore struct {
	getErr error
	putErr error
}

func (f *failingStore) Get(ctx context.Context, sessionID string) (*domain.Checkpoint, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return nil, nil
}

func (f *failingStore) Put(ctx context.Context, sessionID string, cp *domain.Checkpoint) error {
	return f.putErr
}

func (f *failingStore) Close() error { return nil }

func TestReadPathsDegradeOnStoreFailure(t *testing.T) {
	svc := NewService(&failingStore{getErr: errors.New("store down")}, zap.NewNop())
	ctx := context.Background()

	if svc.SessionExists(ctx, "s1") {
		t.Fatal("existence check should degrade to false")
	}
	if history := svc.ChatHistory(ctx, "s1"); len(history) != 0 {
		t.Fatalf("history should degrade to empty, got %+v", history)
	}
	if window := svc.ConversationContext(ctx, "s1", 10); len(window) != 0 {
		t.Fatalf("context should degrade to empty, got %+v", window)
	}
	if info := svc.SessionInfo(ctx, "s1"); info != nil {
		t.Fatalf("info should degrade to nil, got %+v", info)
	}
}

func TestWritePathsPropagateStoreFailure(t *testing.T) {
	putErr := errors.New("disk full")
	svc := NewService(&failingStore{putErr: putErr}, zap.NewNop())
	ctx := context.Background()

	if err := svc.CreateSession(ctx, "s1"); !errors.Is(err, putErr) {
		t.Fatalf("CreateSession should propagate the store error, got %v", err)
	}
	if err := svc.SaveMessage(ctx, "s1", userMessage("hello", time.Now())); !errors.Is(err, putErr) {
		t.Fatalf("SaveMessage should propagate the store error, got %v", err)
	}

	getErr := errors.New("store down")
	svc = NewService(&failingStore{getErr: getErr}, zap.NewNop())
	if err := svc.SaveMessage(ctx, "s1", userMessage("hello", time.Now())); !errors.Is(err, getErr) {
		t.Fatalf("SaveMessage should propagate the load error, got %v", err)
	}
	if err := svc.ClearSession(ctx, "s1"); !errors.Is(err, getErr) {
		t.Fatalf("ClearSession should propagate the load error, got %v", err)
	}
}
