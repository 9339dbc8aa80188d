package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/halloway/gumshoe/pkg/clock"
	"github.com/halloway/gumshoe/pkg/events"
	"github.com/halloway/gumshoe/pkg/state"
)

const saveTimeout = 5 * time.Second

// Gateway listens for state-changing events and persists snapshots.
// Routine mutations coalesce into one debounced write; phase transitions
// and confrontation outcomes flush immediately, since those are the
// checkpoints a player must never lose on an unexpected session end.
type Gateway struct {
	store    Store
	bus      *events.Bus
	sched    clock.Scheduler
	source   func() *state.Snapshot
	debounce time.Duration
	logger   *slog.Logger

	cancelPending clock.CancelFunc
}

// NewGateway creates a persistence gateway. source must return the
// current durable state as a snapshot.
func NewGateway(store Store, bus *events.Bus, sched clock.Scheduler, source func() *state.Snapshot, debounce time.Duration, logger *slog.Logger) *Gateway {
	return &Gateway{
		store:    store,
		bus:      bus,
		sched:    sched,
		source:   source,
		debounce: debounce,
		logger:   logger,
	}
}

// Attach subscribes the gateway to the event bus.
func (g *Gateway) Attach() {
	g.bus.Subscribe(g.handle)
}

func (g *Gateway) handle(e events.Event) {
	switch e := e.(type) {
	case events.SaveCompleted:
		// Our own completion notice; re-saving on it would loop.
	case events.SessionReset:
		// The superseded session's record has no TTL and would linger
		// forever; delete it, then checkpoint the new game.
		g.discard(e.OldID)
		g.Flush()
	case events.PhaseChanged, events.AccusationSucceeded, events.AccusationFailed, events.BadEndingTriggered:
		g.Flush()
	default:
		g.scheduleSave()
	}
}

// discard deletes an abandoned session's snapshot. Failure is logged
// and ignored; the record is merely stale, never wrong.
func (g *Gateway) discard(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := g.store.DeleteSnapshot(ctx, id); err != nil {
		g.logger.Warn("failed to delete superseded snapshot", "id", id, "error", err)
	}
}

// scheduleSave arms the debounce timer if it is not already armed. Rapid
// state changes coalesce into a single write; this is safe because the
// persisted sets only grow between saves.
func (g *Gateway) scheduleSave() {
	if g.cancelPending != nil {
		return
	}
	g.cancelPending = g.sched.AfterFunc(g.debounce, func() {
		g.cancelPending = nil
		g.save()
	})
}

// Flush cancels any pending debounce and saves immediately.
func (g *Gateway) Flush() {
	if g.cancelPending != nil {
		g.cancelPending()
		g.cancelPending = nil
	}
	g.save()
}

// save writes the current snapshot. Failures are reported through the
// SaveCompleted event, never returned: the session continues memory-only.
func (g *Gateway) save() {
	snap := g.source()
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	err := g.store.SaveSnapshot(ctx, snap.ID, snap)
	if err != nil {
		g.logger.Error("snapshot save failed, continuing memory-only", "id", snap.ID, "error", err)
	} else {
		g.logger.Debug("snapshot saved", "id", snap.ID)
	}
	g.bus.Publish(events.SaveCompleted{Err: err})
}
