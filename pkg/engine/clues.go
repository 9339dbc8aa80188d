package engine

import (
	"fmt"
	"log/slog"

	"github.com/halloway/gumshoe/pkg/casefile"
	"github.com/halloway/gumshoe/pkg/clock"
	"github.com/halloway/gumshoe/pkg/events"
	"github.com/halloway/gumshoe/pkg/state"
)

// ClueTracker owns the locked -> unlocked -> discovered lifecycle of every
// clue in the catalog. State never moves backward and never skips a step.
type ClueTracker struct {
	st       *state.InvestigationState
	cs       *casefile.Case
	bus      *events.Bus
	notebook Notebook
	sched    clock.Scheduler
	logger   *slog.Logger
}

// NewClueTracker wires a clue tracker for the given session state.
func NewClueTracker(st *state.InvestigationState, cs *casefile.Case, bus *events.Bus, notebook Notebook, sched clock.Scheduler, logger *slog.Logger) *ClueTracker {
	return &ClueTracker{
		st:       st,
		cs:       cs,
		bus:      bus,
		notebook: notebook,
		sched:    sched,
		logger:   logger,
	}
}

// Bootstrap unlocks every clue whose unlock condition is immediate. Called
// once per fresh session, before any player action.
func (t *ClueTracker) Bootstrap() {
	for _, clue := range t.cs.Clues {
		if clue.Unlock.Immediate() && t.st.ClueState(clue.ID) == state.ClueLocked {
			t.st.Clues[clue.ID] = state.ClueUnlocked
			t.bus.Publish(events.ClueUnlocked{Clue: clue.ID})
		}
	}
}

// Unlock moves a clue from locked to unlocked. Unknown ids and clues
// already past the locked state are reported, non-fatal errors.
func (t *ClueTracker) Unlock(id string) error {
	if t.cs.ClueByID(id) == nil {
		t.logger.Warn("unlock of unknown clue", "clue", id)
		return fmt.Errorf("%w: %s", ErrUnknownClue, id)
	}
	if st := t.st.ClueState(id); st != state.ClueLocked {
		t.logger.Warn("unlock of clue already past locked", "clue", id, "state", st)
		return fmt.Errorf("%w: %s", ErrClueNotLocked, id)
	}
	t.st.Clues[id] = state.ClueUnlocked
	t.touch()
	t.logger.Info("clue unlocked", "clue", id)
	t.bus.Publish(events.ClueUnlocked{Clue: id})
	return nil
}

// Discover moves a clue from unlocked to discovered and records its
// notebook summary. Discovering a locked clue is a caller bug: logged
// loudly, state untouched. Re-discovery is a warned no-op.
func (t *ClueTracker) Discover(id string) error {
	clue := t.cs.ClueByID(id)
	if clue == nil {
		t.logger.Warn("discover of unknown clue", "clue", id)
		return fmt.Errorf("%w: %s", ErrUnknownClue, id)
	}
	switch t.st.ClueState(id) {
	case state.ClueLocked:
		t.logger.Error("discover of locked clue rejected", "clue", id)
		return fmt.Errorf("%w: %s", ErrClueLocked, id)
	case state.ClueDiscovered:
		t.logger.Warn("clue already discovered", "clue", id)
		return nil
	}
	t.st.Clues[id] = state.ClueDiscovered
	t.touch()
	t.logger.Info("clue discovered", "clue", id)
	if t.notebook != nil && clue.NotebookSummary != "" {
		t.notebook.Record(NotebookEntry{Source: id, Text: clue.NotebookSummary})
	}
	t.bus.Publish(events.ClueDiscovered{Clue: id})
	return nil
}

// CanInteract reports whether a clue is currently interactable: exactly
// unlocked, and only during the investigation phase.
func (t *ClueTracker) CanInteract(id string) bool {
	return t.st.Phase == state.PhaseInvestigation && t.st.ClueState(id) == state.ClueUnlocked
}

// State returns the lifecycle state of a clue.
func (t *ClueTracker) State(id string) state.ClueState {
	return t.st.ClueState(id)
}

// DiscoveredCount returns the number of discovered clues.
func (t *ClueTracker) DiscoveredCount() int {
	return t.st.DiscoveredCount()
}

// Restore bulk-sets clue state for callers that rebuild a session from
// bare id lists rather than a snapshot. Discovered ids are applied
// first so a clue present in both lists ends discovered — the same
// precedence state.FromSnapshot applies on the snapshot restore path;
// a change to either must be mirrored in the other.
func (t *ClueTracker) Restore(unlocked, discovered []string) {
	for _, id := range discovered {
		t.st.Clues[id] = state.ClueDiscovered
	}
	for _, id := range unlocked {
		if t.st.ClueState(id) == state.ClueLocked {
			t.st.Clues[id] = state.ClueUnlocked
		}
	}
}

func (t *ClueTracker) touch() {
	t.st.UpdatedAt = t.sched.Now()
}
