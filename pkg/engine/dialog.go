package engine

import (
	"fmt"
	"log/slog"

	"github.com/halloway/gumshoe/pkg/casefile"
	"github.com/halloway/gumshoe/pkg/clock"
	"github.com/halloway/gumshoe/pkg/events"
	"github.com/halloway/gumshoe/pkg/state"
)

// FallbackLine is shown when dialog content cannot be resolved. Dialog
// must never hard-crash a playable session; the worst outcome is this.
const FallbackLine = "…"

// Dialog is the content selected for one conversation.
type Dialog struct {
	Character        string
	Lines            []string
	Tier             int
	Introduction     bool
	RepeatVisit      bool
	RecordInNotebook bool
}

// DialogSelector computes conversation content from the character's dialog
// tree, the current phase, and the discovered-clue count. It also owns the
// open/closed conversation gate: at most one conversation at a time, and
// clue unlocks apply only when the conversation fully ends.
type DialogSelector struct {
	st     *state.InvestigationState
	cs     *casefile.Case
	phases *PhaseController
	clues  *ClueTracker
	bus    *events.Bus
	sched  clock.Scheduler
	logger *slog.Logger

	open *conversation
}

type conversation struct {
	character string
	tier      int
	unlocks   []string
}

// NewDialogSelector wires a dialog selector for the given session state.
func NewDialogSelector(st *state.InvestigationState, cs *casefile.Case, phases *PhaseController, clues *ClueTracker, bus *events.Bus, sched clock.Scheduler, logger *slog.Logger) *DialogSelector {
	return &DialogSelector{
		st:     st,
		cs:     cs,
		phases: phases,
		clues:  clues,
		bus:    bus,
		sched:  sched,
		logger: logger,
	}
}

// IsOpen reports whether a conversation is currently open. The
// presentation layer gates player input on this.
func (d *DialogSelector) IsOpen() bool {
	return d.open != nil
}

// EffectiveTier computes the tier that a conversation with the character
// would use right now, without side effects. During the introduction
// phase it is always 0.
func (d *DialogSelector) EffectiveTier(characterID string) int {
	cd := d.cs.Dialog(characterID)
	if cd == nil || d.st.Phase == state.PhaseIntroduction {
		return 0
	}
	return d.effectiveTier(cd)
}

func (d *DialogSelector) effectiveTier(cd *casefile.CharacterDialog) int {
	discovered := d.st.DiscoveredCount()
	global := d.cs.GlobalTier(discovered)

	available := cd.AvailableTier(discovered)
	if available < 0 {
		// Authored content starts above the current clue count; fall back
		// to the character's lowest tier rather than refusing to talk.
		d.logger.Warn("no dialog tier available, falling back to tier 0",
			"character", cd.Character, "discovered", discovered)
		available = 0
	}

	tier := min(global, available)
	if tier >= len(cd.Tiers) {
		d.logger.Warn("dialog tier missing from configuration, falling back to tier 0",
			"character", cd.Character, "tier", tier)
		tier = 0
	}
	return tier
}

// Open starts a conversation with a character and returns its dialog.
// A second Open while one is active is a no-op. During the introduction
// phase the character's introduction entry is shown and the character is
// marked introduced; otherwise the tier and visit rotation apply.
func (d *DialogSelector) Open(characterID string) (*Dialog, error) {
	if d.open != nil {
		d.logger.Warn("conversation already open", "open_with", d.open.character, "requested", characterID)
		return nil, ErrConversationOpen
	}

	cd := d.cs.Dialog(characterID)
	if cd == nil {
		d.logger.Error("dialog requested for unknown character", "character", characterID)
		d.open = &conversation{character: characterID}
		return &Dialog{Character: characterID, Lines: []string{FallbackLine}},
			fmt.Errorf("%w: %s", ErrUnknownCharacter, characterID)
	}

	if d.st.Phase == state.PhaseIntroduction {
		d.open = &conversation{character: characterID}
		d.phases.IntroduceCharacter(characterID)
		dialog := &Dialog{
			Character:        characterID,
			Lines:            cd.Introduction.Lines,
			Introduction:     true,
			RecordInNotebook: cd.Introduction.RecordInNotebook,
		}
		d.recordNotebook(dialog, cd.Introduction.Lines)
		return dialog, nil
	}

	tier := d.effectiveTier(cd)
	if len(cd.Tiers) == 0 {
		d.logger.Error("character has no dialog tiers", "character", characterID)
		d.open = &conversation{character: characterID}
		return &Dialog{Character: characterID, Lines: []string{FallbackLine}}, nil
	}
	entry := cd.Tiers[tier]

	prior := d.st.RecordVisit(characterID, tier)
	d.st.UpdatedAt = d.sched.Now()
	d.open = &conversation{character: characterID, tier: tier, unlocks: entry.UnlocksClues}

	dialog := &Dialog{Character: characterID, Tier: tier}
	if prior == 0 {
		dialog.Lines = entry.FirstVisit
		dialog.RecordInNotebook = entry.RecordInNotebook
		d.recordNotebook(dialog, entry.FirstVisit)
	} else {
		dialog.RepeatVisit = true
		// Deterministic round-robin over the repeat pool: the k-th repeat
		// visit shows pool[(k-1) mod len].
		if pool := entry.RepeatPool; len(pool) > 0 {
			dialog.Lines = []string{pool[(prior-1)%len(pool)]}
		} else {
			dialog.Lines = entry.FirstVisit
		}
	}
	return dialog, nil
}

// Close ends the open conversation and only then applies the shown tier's
// clue unlocks. Early closure takes this same path: the unlocks are never
// applied mid-conversation and never skipped by a time-out or close key.
func (d *DialogSelector) Close() error {
	if d.open == nil {
		d.logger.Warn("close requested with no open conversation")
		return ErrNoConversation
	}
	conv := d.open
	d.open = nil

	var unlocked []string
	for _, id := range conv.unlocks {
		if err := d.clues.Unlock(id); err == nil {
			unlocked = append(unlocked, id)
		}
	}
	d.bus.Publish(events.ConversationClosed{
		Character: conv.character,
		Tier:      conv.tier,
		Unlocked:  unlocked,
	})
	return nil
}

func (d *DialogSelector) recordNotebook(dialog *Dialog, lines []string) {
	if !dialog.RecordInNotebook || d.clues.notebook == nil || len(lines) == 0 {
		return
	}
	d.clues.notebook.Record(NotebookEntry{Source: dialog.Character, Text: lines[len(lines)-1]})
}
