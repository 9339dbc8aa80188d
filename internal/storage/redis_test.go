package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halloway/gumshoe/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(mr.Addr(), 0, testLogger())
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func testSnapshot(id uuid.UUID) *state.Snapshot {
	return &state.Snapshot{
		Version:     state.SnapshotVersion,
		ID:          id,
		Case:        "hollow_creek",
		Phase:       state.PhaseInvestigation,
		Introduced:  []string{"emma", "victor"},
		Unlocked:    []string{"c_ledger", "c_watch"},
		Discovered:  []string{"c_ledger"},
		Visits:      map[string]int{"emma/0": 2},
		Accused:     []string{"bram"},
		FailedCount: 1,
		SavedAt:     time.Date(2024, 10, 31, 21, 15, 0, 0, time.UTC),
	}
}

func TestRedisStoreSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	id := uuid.New()
	snap := testSnapshot(id)
	require.NoError(t, store.SaveSnapshot(ctx, id, snap))

	loaded, err := store.LoadSnapshot(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.Case, loaded.Case)
	assert.Equal(t, snap.Phase, loaded.Phase)
	assert.Equal(t, snap.Discovered, loaded.Discovered)
	assert.Equal(t, snap.Visits, loaded.Visits)
	assert.Equal(t, snap.FailedCount, loaded.FailedCount)
	assert.True(t, snap.SavedAt.Equal(loaded.SavedAt))
}

func TestRedisStoreLoadMissingSnapshot(t *testing.T) {
	store, _ := newTestRedisStore(t)

	snap, err := store.LoadSnapshot(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRedisStoreMigratesV1OnLoad(t *testing.T) {
	store, mr := newTestRedisStore(t)
	id := uuid.New()

	// A v1 record written before accusation history existed.
	raw := `{"version":1,"id":"` + id.String() + `","case":"hollow_creek",` +
		`"phase":"investigation","discovered":["c_ledger"],` +
		`"accused":["victor"],"failed_count":2,"saved_at":"2024-10-31T21:15:00Z"}`
	require.NoError(t, mr.Set("session:"+id.String(), raw))

	loaded, err := store.LoadSnapshot(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, state.SnapshotVersion, loaded.Version)
	assert.Equal(t, []string{"c_ledger"}, loaded.Discovered)

	// Migration starts accusation history fresh.
	assert.Empty(t, loaded.Accused)
	assert.Zero(t, loaded.FailedCount)
}

func TestRedisStoreCorruptSnapshotTreatedAsAbsent(t *testing.T) {
	store, mr := newTestRedisStore(t)
	id := uuid.New()
	require.NoError(t, mr.Set("session:"+id.String(), "{not json"))

	loaded, err := store.LoadSnapshot(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStoreUnknownVersionTreatedAsAbsent(t *testing.T) {
	store, mr := newTestRedisStore(t)
	id := uuid.New()
	raw := `{"version":9,"id":"` + id.String() + `","case":"hollow_creek","saved_at":"2024-10-31T21:15:00Z"}`
	require.NoError(t, mr.Set("session:"+id.String(), raw))

	loaded, err := store.LoadSnapshot(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStoreDeleteSnapshot(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, store.SaveSnapshot(ctx, id, testSnapshot(id)))
	require.NoError(t, store.DeleteSnapshot(ctx, id))

	snap, err := store.LoadSnapshot(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRedisStoreSaveAppliesTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisStore(mr.Addr(), time.Hour, testLogger())
	t.Cleanup(func() { _ = store.Close() })

	id := uuid.New()
	require.NoError(t, store.SaveSnapshot(context.Background(), id, testSnapshot(id)))
	assert.Equal(t, time.Hour, mr.TTL("session:"+id.String()))
}

func TestRedisStorePing(t *testing.T) {
	store, mr := newTestRedisStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
