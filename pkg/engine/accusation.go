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

// badEndingLimit is the number of failed confrontations that triggers the
// terminal bad ending, independent of per-confrontation mistakes.
const badEndingLimit = 2

// Status is the confrontation state machine position.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusSuspectSelected Status = "suspect_selected"
	StatusConfronting     Status = "confronting"
)

// Progress is the ephemeral state of one active confrontation. It is
// never persisted: an interrupted confrontation always restarts fresh.
type Progress struct {
	Suspect   string
	Index     int
	Mistakes  int
	Presented []string
	Accepted  []string
	Bonus     []string
	StartedAt time.Time

	satisfied bool
}

// VictorySummary is returned when the true culprit's confrontation
// completes.
type VictorySummary struct {
	Suspect       string
	Confession    string
	Motive        string
	KeyEvidence   []string
	Thorough      bool
	BonusEvidence []string
}

// Outcome resolves a confrontation one way or the other.
type Outcome struct {
	Victory     *VictorySummary
	Failed      bool
	BadEnding   bool
	EndingText  string
	FailedCount int
}

// AccusationEngine owns the confrontation state machine and the durable
// accusation history that gates the bad ending.
type AccusationEngine struct {
	st     *state.InvestigationState
	cs     *casefile.Case
	clues  *ClueTracker
	bus    *events.Bus
	sched  clock.Scheduler
	logger *slog.Logger

	status   Status
	progress *Progress
}

// NewAccusationEngine wires an accusation engine for the given session state.
func NewAccusationEngine(st *state.InvestigationState, cs *casefile.Case, clues *ClueTracker, bus *events.Bus, sched clock.Scheduler, logger *slog.Logger) *AccusationEngine {
	return &AccusationEngine{
		st:     st,
		cs:     cs,
		clues:  clues,
		bus:    bus,
		sched:  sched,
		logger: logger,
		status: StatusIdle,
	}
}

// Status returns the state machine position.
func (a *AccusationEngine) Status() Status {
	return a.status
}

// Progress returns a copy of the active confrontation's progress, or nil.
func (a *AccusationEngine) Progress() *Progress {
	if a.progress == nil {
		return nil
	}
	p := *a.progress
	p.Presented = append([]string(nil), a.progress.Presented...)
	p.Accepted = append([]string(nil), a.progress.Accepted...)
	p.Bonus = append([]string(nil), a.progress.Bonus...)
	return &p
}

// CurrentStatement returns the statement awaiting evidence, or nil when
// no confrontation is active.
func (a *AccusationEngine) CurrentStatement() *casefile.Statement {
	if a.progress == nil {
		return nil
	}
	script := a.cs.Accusation.Script(a.progress.Suspect)
	if script == nil || a.progress.Index >= len(script.Statements) {
		return nil
	}
	return &script.Statements[a.progress.Index]
}

// CanInitiate reports whether an accusation may begin. When it may not,
// the returned reason is suitable for direct display.
func (a *AccusationEngine) CanInitiate() (bool, string) {
	discovered := a.st.DiscoveredCount()
	if discovered < a.cs.Accusation.MinimumClues {
		return false, fmt.Sprintf("You need at least %d discovered clues to make an accusation (you have %d).",
			a.cs.Accusation.MinimumClues, discovered)
	}
	return true, ""
}

// Start begins a confrontation against a suspect. Legal only from idle.
// The suspect is recorded into the durable accused list immediately.
func (a *AccusationEngine) Start(suspect string) error {
	if a.status != StatusIdle {
		a.logger.Warn("accusation already in progress", "active", a.progress.Suspect, "requested", suspect)
		return ErrConfrontationActive
	}
	if ok, reason := a.CanInitiate(); !ok {
		a.logger.Info("accusation gated", "reason", reason)
		return fmt.Errorf("%w: %s", ErrAccusationGate, reason)
	}
	script := a.cs.Accusation.Script(suspect)
	if script == nil {
		a.logger.Error("accusation against unknown suspect", "suspect", suspect)
		return fmt.Errorf("%w: %s", ErrUnknownSuspect, suspect)
	}

	now := a.sched.Now()
	a.st.Accusation.RecordAccused(suspect, now)
	a.st.UpdatedAt = now
	a.status = StatusSuspectSelected
	a.progress = &Progress{Suspect: suspect, StartedAt: now}
	a.status = StatusConfronting

	a.logger.Info("accusation started", "suspect", suspect)
	a.bus.Publish(events.AccusationStarted{Suspect: suspect})
	return nil
}

// PresentEvidence scores a discovered clue against the current statement.
// Reaching the mistake limit resolves the confrontation as a failure and
// returns the outcome alongside the result.
func (a *AccusationEngine) PresentEvidence(clueID string) (EvidenceResult, *Outcome, error) {
	if a.status != StatusConfronting {
		a.logger.Warn("evidence presented with no active confrontation", "clue", clueID)
		return EvidenceResult{}, nil, ErrNoConfrontation
	}
	if a.st.ClueState(clueID) != state.ClueDiscovered {
		a.logger.Error("undiscovered evidence presented", "clue", clueID)
		return EvidenceResult{}, nil, fmt.Errorf("%w: %s", ErrEvidenceNotFound, clueID)
	}

	script := a.cs.Accusation.Script(a.progress.Suspect)
	res := ValidateEvidence(script.Statements, a.progress.Index, clueID, a.progress.Mistakes, a.cs.Accusation.MistakeLimit)

	a.progress.Presented = append(a.progress.Presented, clueID)
	a.progress.Mistakes = res.Mistakes
	switch {
	case res.Bonus:
		a.progress.Bonus = append(a.progress.Bonus, clueID)
	case res.Correct:
		a.progress.Accepted = append(a.progress.Accepted, clueID)
		a.progress.satisfied = true
	}

	a.bus.Publish(events.EvidencePresented{
		Suspect:  a.progress.Suspect,
		Clue:     clueID,
		Correct:  res.Correct,
		Bonus:    res.Bonus,
		Mistakes: res.Mistakes,
	})

	if res.Failed {
		a.logger.Info("confrontation failed on mistakes", "suspect", a.progress.Suspect, "mistakes", res.Mistakes)
		outcome := a.fail()
		return res, outcome, nil
	}
	return res, nil, nil
}

// Advance moves to the next statement. Legal only once the current
// statement's evidence requirement is satisfied. Exhausting the sequence
// resolves the confrontation.
func (a *AccusationEngine) Advance() (*Outcome, error) {
	if a.status != StatusConfronting {
		a.logger.Warn("advance with no active confrontation")
		return nil, ErrNoConfrontation
	}
	script := a.cs.Accusation.Script(a.progress.Suspect)
	stmt := script.Statements[a.progress.Index]
	if stmt.RequiresEvidence && !a.progress.satisfied {
		a.logger.Error("advance before statement satisfied", "suspect", a.progress.Suspect, "statement", stmt.ID)
		return nil, fmt.Errorf("%w: %s", ErrStatementUnmet, stmt.ID)
	}

	a.progress.Index++
	a.progress.satisfied = false
	if a.progress.Index < len(script.Statements) {
		a.bus.Publish(events.StatementAdvanced{Suspect: a.progress.Suspect, Index: a.progress.Index})
		return nil, nil
	}

	// Sequence exhausted: success only against the true culprit. A
	// perfect run against anyone else is still a failed accusation.
	if a.progress.Suspect == a.cs.Accusation.Culprit {
		return a.succeed(script), nil
	}
	a.logger.Info("confrontation completed against non-culprit", "suspect", a.progress.Suspect)
	return a.fail(), nil
}

// Cancel discards the active confrontation without penalty. It is the
// only resolution that leaves the durable failure counter untouched.
func (a *AccusationEngine) Cancel() {
	if a.progress == nil {
		a.logger.Debug("cancel with no active confrontation")
		return
	}
	a.logger.Info("confrontation cancelled", "suspect", a.progress.Suspect)
	a.progress = nil
	a.status = StatusIdle
}

func (a *AccusationEngine) succeed(script *casefile.SuspectScript) *Outcome {
	thorough := a.st.DiscoveredCount() == len(a.cs.Clues) && len(a.progress.Bonus) > 0
	summary := &VictorySummary{
		Suspect:       a.progress.Suspect,
		Confession:    script.Confession,
		Motive:        script.Motive,
		KeyEvidence:   append([]string(nil), a.progress.Accepted...),
		Thorough:      thorough,
		BonusEvidence: append([]string(nil), a.progress.Bonus...),
	}
	a.logger.Info("confrontation succeeded", "suspect", a.progress.Suspect, "thorough", thorough)
	a.bus.Publish(events.AccusationSucceeded{Suspect: a.progress.Suspect, Thorough: thorough})
	a.progress = nil
	a.status = StatusIdle
	return &Outcome{Victory: summary}
}

func (a *AccusationEngine) fail() *Outcome {
	suspect := a.progress.Suspect
	mistakes := a.progress.Mistakes
	a.progress = nil
	a.status = StatusIdle

	a.st.Accusation.FailedCount++
	a.st.UpdatedAt = a.sched.Now()
	outcome := &Outcome{Failed: true, FailedCount: a.st.Accusation.FailedCount}

	if a.st.Accusation.FailedCount >= badEndingLimit {
		outcome.BadEnding = true
		outcome.EndingText = a.cs.Accusation.BadEnding
		a.logger.Info("bad ending triggered", "suspect", suspect, "failed_count", a.st.Accusation.FailedCount)
		a.bus.Publish(events.BadEndingTriggered{
			Suspect:     suspect,
			FailedCount: a.st.Accusation.FailedCount,
			EndingText:  a.cs.Accusation.BadEnding,
		})
		return outcome
	}

	outcome.EndingText = a.cs.Accusation.FailureEnding
	a.logger.Info("confrontation failed", "suspect", suspect, "failed_count", a.st.Accusation.FailedCount)
	a.bus.Publish(events.AccusationFailed{
		Suspect:     suspect,
		Mistakes:    mistakes,
		FailedCount: a.st.Accusation.FailedCount,
	})
	return outcome
}
