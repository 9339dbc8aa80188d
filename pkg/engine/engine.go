// Package engine is the investigation state engine: phase control, clue
// lifecycle, dialog selection, and the accusation confrontation machine,
// all driven by casefile documents and reported through typed events.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/halloway/gumshoe/pkg/casefile"
	"github.com/halloway/gumshoe/pkg/clock"
	"github.com/halloway/gumshoe/pkg/events"
	"github.com/halloway/gumshoe/pkg/state"
)

// Options configures an Engine. Zero values get sensible defaults.
type Options struct {
	// TimeUnit is the duration of one narrative time unit; incident delay
	// and save debounce are expressed in these. Defaults to one second.
	TimeUnit time.Duration

	// Notebook receives notebook-recording side effects. Defaults to an
	// in-memory notebook.
	Notebook Notebook
}

// Engine owns a single investigation session and exposes every command
// the presentation layer may issue. All collaborators are injected at
// construction; there is no shared registry.
type Engine struct {
	cs     *casefile.Case
	st     *state.InvestigationState
	bus    *events.Bus
	sched  clock.Scheduler
	logger *slog.Logger

	phases     *PhaseController
	clues      *ClueTracker
	dialog     *DialogSelector
	accusation *AccusationEngine
	notebook   Notebook
}

// New builds an engine over existing session state. The case documents
// are validated first; a case with any structural violation refuses to
// start.
func New(cs *casefile.Case, st *state.InvestigationState, bus *events.Bus, sched clock.Scheduler, logger *slog.Logger, opts Options) (*Engine, error) {
	if err := cs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid case %q: %w", cs.Name, err)
	}
	if opts.TimeUnit <= 0 {
		opts.TimeUnit = time.Second
	}
	if opts.Notebook == nil {
		opts.Notebook = NewMemoryNotebook()
	}

	e := &Engine{
		cs:       cs,
		st:       st,
		bus:      bus,
		sched:    sched,
		logger:   logger,
		notebook: opts.Notebook,
	}
	e.phases = NewPhaseController(st, cs.Incident, opts.TimeUnit, sched, bus, logger)
	e.clues = NewClueTracker(st, cs, bus, opts.Notebook, sched, logger)
	e.dialog = NewDialogSelector(st, cs, e.phases, e.clues, bus, sched, logger)
	e.accusation = NewAccusationEngine(st, cs, e.clues, bus, sched, logger)
	return e, nil
}

// NewSession builds an engine over a fresh session: introduction phase,
// empty notebook, and every immediate-unlock clue unlocked.
func NewSession(cs *casefile.Case, bus *events.Bus, sched clock.Scheduler, logger *slog.Logger, opts Options) (*Engine, error) {
	e, err := New(cs, state.New(cs.Name), bus, sched, logger, opts)
	if err != nil {
		return nil, err
	}
	e.clues.Bootstrap()
	return e, nil
}

// Resume builds an engine over a restored snapshot.
func Resume(cs *casefile.Case, snap *state.Snapshot, bus *events.Bus, sched clock.Scheduler, logger *slog.Logger, opts Options) (*Engine, error) {
	st, err := state.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	e, err := New(cs, st, bus, sched, logger, opts)
	if err != nil {
		return nil, err
	}
	// Immediate unlocks may postdate the save that is being restored.
	e.clues.Bootstrap()
	// A save taken between the last introduction and the incident loses
	// its pending transition timer; re-arm it.
	e.phases.ScheduleIncident()
	return e, nil
}

// Reset discards the session and starts a new game on the same case,
// under a fresh session id. This is the only path that clears the
// durable accusation history.
func (e *Engine) Reset() {
	oldID := e.st.ID
	e.st = state.New(e.cs.Name)
	e.phases = NewPhaseController(e.st, e.cs.Incident, e.phases.unit, e.sched, e.bus, e.logger)
	e.clues = NewClueTracker(e.st, e.cs, e.bus, e.notebook, e.sched, e.logger)
	e.dialog = NewDialogSelector(e.st, e.cs, e.phases, e.clues, e.bus, e.sched, e.logger)
	e.accusation = NewAccusationEngine(e.st, e.cs, e.clues, e.bus, e.sched, e.logger)
	e.clues.Bootstrap()
	e.logger.Info("session reset", "old_id", oldID, "id", e.st.ID)
	e.bus.Publish(events.SessionReset{OldID: oldID, NewID: e.st.ID})
}

// Case returns the static case documents.
func (e *Engine) Case() *casefile.Case { return e.cs }

// Snapshot captures the current durable state.
func (e *Engine) Snapshot() *state.Snapshot { return e.st.Snapshot() }

// Phase returns the current narrative phase.
func (e *Engine) Phase() state.Phase { return e.phases.Phase() }

// Notebook returns the notebook collaborator.
func (e *Engine) Notebook() Notebook { return e.notebook }

// Phase commands.

func (e *Engine) IntroduceCharacter(id string) { e.phases.IntroduceCharacter(id) }
func (e *Engine) TransitionPhase()             { e.phases.TransitionPhase() }

// Conversation commands.

func (e *Engine) OpenConversation(characterID string) (*Dialog, error) { return e.dialog.Open(characterID) }
func (e *Engine) CloseConversation() error                             { return e.dialog.Close() }
func (e *Engine) IsConversationOpen() bool                             { return e.dialog.IsOpen() }
func (e *Engine) EffectiveTier(characterID string) int                 { return e.dialog.EffectiveTier(characterID) }

// Clue commands.

func (e *Engine) UnlockClue(id string) error          { return e.clues.Unlock(id) }
func (e *Engine) DiscoverClue(id string) error        { return e.clues.Discover(id) }
func (e *Engine) CanInteract(id string) bool          { return e.clues.CanInteract(id) }
func (e *Engine) ClueState(id string) state.ClueState { return e.clues.State(id) }
func (e *Engine) DiscoveredCount() int                { return e.clues.DiscoveredCount() }

// Accusation commands.

func (e *Engine) CanInitiateAccusation() (bool, string) { return e.accusation.CanInitiate() }
func (e *Engine) StartAccusation(suspect string) error  { return e.accusation.Start(suspect) }
func (e *Engine) PresentEvidence(clueID string) (EvidenceResult, *Outcome, error) {
	return e.accusation.PresentEvidence(clueID)
}
func (e *Engine) AdvanceStatement() (*Outcome, error)       { return e.accusation.Advance() }
func (e *Engine) CancelAccusation()                         { e.accusation.Cancel() }
func (e *Engine) AccusationStatus() Status                  { return e.accusation.Status() }
func (e *Engine) ConfrontationProgress() *Progress          { return e.accusation.Progress() }
func (e *Engine) CurrentStatement() *casefile.Statement     { return e.accusation.CurrentStatement() }
