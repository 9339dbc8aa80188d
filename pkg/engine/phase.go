package engine

import (
	"log/slog"
	"time"

	"github.com/halloway/gumshoe/pkg/casefile"
	"github.com/halloway/gumshoe/pkg/clock"
	"github.com/halloway/gumshoe/pkg/events"
	"github.com/halloway/gumshoe/pkg/state"
)

// PhaseController owns the two-phase narrative state and the delayed
// incident trigger. The transition is scheduled, never synchronous: the
// configured delay produces the narrative pause between the last
// introduction and the incident.
type PhaseController struct {
	st       *state.InvestigationState
	incident casefile.Incident
	unit     time.Duration
	sched    clock.Scheduler
	bus      *events.Bus
	logger   *slog.Logger

	cancelPending clock.CancelFunc
}

// NewPhaseController wires a phase controller for the given session state.
func NewPhaseController(st *state.InvestigationState, incident casefile.Incident, unit time.Duration, sched clock.Scheduler, bus *events.Bus, logger *slog.Logger) *PhaseController {
	return &PhaseController{
		st:       st,
		incident: incident,
		unit:     unit,
		sched:    sched,
		bus:      bus,
		logger:   logger,
	}
}

// Phase returns the current narrative phase.
func (p *PhaseController) Phase() state.Phase {
	return p.st.Phase
}

// IntroduceCharacter marks a character as introduced. Re-introducing is a
// no-op. Once every required character is introduced during the
// introduction phase, the incident transition is scheduled after the
// configured delay.
func (p *PhaseController) IntroduceCharacter(id string) {
	if !p.st.Introduce(id) {
		p.logger.Debug("character already introduced", "character", id)
		return
	}
	p.st.UpdatedAt = p.sched.Now()
	p.bus.Publish(events.CharacterIntroduced{Character: id})
	p.logger.Info("character introduced", "character", id)

	p.ScheduleIncident()
}

// ScheduleIncident arms the delayed incident transition when the
// required cast is already complete. Called on every introduction and
// once on session restore: the pending timer is never persisted, so a
// session saved inside the delay window re-arms here with the full
// delay. No-op outside the introduction phase or with a timer armed.
func (p *PhaseController) ScheduleIncident() {
	if p.st.Phase != state.PhaseIntroduction || p.cancelPending != nil {
		return
	}
	if !p.allRequiredIntroduced() {
		return
	}
	delay := time.Duration(p.incident.DelayUnits) * p.unit
	p.cancelPending = p.sched.AfterFunc(delay, p.TransitionPhase)
	p.logger.Info("incident scheduled", "delay", delay)
}

// TransitionPhase moves the session into the investigation phase, exactly
// once. Calls before the required cast is complete are logged and
// ignored, tolerating races from external callers.
func (p *PhaseController) TransitionPhase() {
	if p.st.Phase != state.PhaseIntroduction {
		p.logger.Debug("phase transition already complete")
		return
	}
	if !p.allRequiredIntroduced() {
		p.logger.Warn("phase transition rejected: required characters not all introduced",
			"introduced", p.st.IntroducedList(),
			"required", p.incident.RequiredCharacters)
		return
	}
	p.cancelPending = nil
	p.st.Phase = state.PhaseInvestigation
	p.st.UpdatedAt = p.sched.Now()
	p.logger.Info("phase changed", "phase", p.st.Phase)
	p.bus.Publish(events.PhaseChanged{From: state.PhaseIntroduction, To: state.PhaseInvestigation})
	p.bus.Publish(events.IncidentTriggered{CutsceneText: p.incident.CutsceneText})
}

func (p *PhaseController) allRequiredIntroduced() bool {
	for _, id := range p.incident.RequiredCharacters {
		if !p.st.IsIntroduced(id) {
			return false
		}
	}
	return true
}
