package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/halloway/gumshoe/pkg/state"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	snapshots map[uuid.UUID]*state.Snapshot
	saveErr   error
	Saves     int
}

var _ Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{snapshots: make(map[uuid.UUID]*state.Snapshot)}
}

// SetSaveError makes every subsequent save fail with err.
func (m *MockStore) SetSaveError(err error) {
	m.saveErr = err
}

func (m *MockStore) Ping(ctx context.Context) error { return nil }

func (m *MockStore) Close() error { return nil }

func (m *MockStore) SaveSnapshot(ctx context.Context, id uuid.UUID, snap *state.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if snap == nil {
		return errors.New("snapshot cannot be nil")
	}
	m.snapshots[id] = snap
	m.Saves++
	return nil
}

func (m *MockStore) LoadSnapshot(ctx context.Context, id uuid.UUID) (*state.Snapshot, error) {
	snap, ok := m.snapshots[id]
	if !ok {
		return nil, nil
	}
	return state.Migrate(snap)
}

func (m *MockStore) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	delete(m.snapshots, id)
	return nil
}
