// Package store defines the checkpoint storage interface and implementations.
package store

import (
	"context"

	"github.com/hzhang91/docchat/domain"
)

// CheckpointStore is a durable mapping from session id to the session's
// current checkpoint. Get returns (nil, nil) when no checkpoint exists for
// the id. Put overwrites the full record in a single statement; concurrent
// writers to the same session id race with last-write-wins semantics.
type CheckpointStore interface {
	Get(ctx context.Context, sessionID string) (*domain.Checkpoint, error)
	Put(ctx context.Context, sessionID string, checkpoint *domain.Checkpoint) error

	// Lifecycle
	Close() error
}
