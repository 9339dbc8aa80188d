// Package storage persists versioned session snapshots to a durable
// key-value store and owns the save policy: debounced writes for routine
// mutations, immediate flushes for critical checkpoints.
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/halloway/gumshoe/pkg/state"
)

// Store is the durable key-value persistence for session snapshots.
type Store interface {
	// Ping tests the store connection.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error

	// SaveSnapshot writes a snapshot under the session id.
	SaveSnapshot(ctx context.Context, id uuid.UUID, snap *state.Snapshot) error

	// LoadSnapshot reads a snapshot, migrating older schema versions.
	// Returns (nil, nil) when no usable saved state exists, so the caller
	// always has a well-defined fresh-start fallback.
	LoadSnapshot(ctx context.Context, id uuid.UUID) (*state.Snapshot, error)

	// DeleteSnapshot removes a saved session (explicit new game).
	DeleteSnapshot(ctx context.Context, id uuid.UUID) error
}
