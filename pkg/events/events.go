// Package events defines the typed events the engine emits and a small
// synchronous bus the presentation layer and persistence gateway subscribe
// to. Each event name has exactly one payload struct.
package events

import (
	"github.com/google/uuid"
	"github.com/halloway/gumshoe/pkg/state"
)

// Type identifies an event kind.
type Type string

const (
	TypeCharacterIntroduced Type = "character.introduced"
	TypePhaseChanged        Type = "phase.changed"
	TypeIncidentTriggered   Type = "incident.triggered"
	TypeClueUnlocked        Type = "clue.unlocked"
	TypeClueDiscovered      Type = "clue.discovered"
	TypeConversationClosed  Type = "conversation.closed"
	TypeAccusationStarted   Type = "accusation.started"
	TypeEvidencePresented   Type = "evidence.presented"
	TypeStatementAdvanced   Type = "statement.advanced"
	TypeAccusationSucceeded Type = "accusation.succeeded"
	TypeAccusationFailed    Type = "accusation.failed"
	TypeBadEndingTriggered  Type = "bad_ending.triggered"
	TypeSessionReset        Type = "session.reset"
	TypeSaveCompleted       Type = "save.completed"
)

// Event is implemented by every event payload.
type Event interface {
	EventType() Type
}

// CharacterIntroduced fires the first time a character is introduced.
type CharacterIntroduced struct {
	Character string
}

func (CharacterIntroduced) EventType() Type { return TypeCharacterIntroduced }

// PhaseChanged fires on the single introduction -> investigation transition.
type PhaseChanged struct {
	From state.Phase
	To   state.Phase
}

func (PhaseChanged) EventType() Type { return TypePhaseChanged }

// IncidentTriggered fires alongside PhaseChanged when the incident cutscene
// should play.
type IncidentTriggered struct {
	CutsceneText []string
}

func (IncidentTriggered) EventType() Type { return TypeIncidentTriggered }

// ClueUnlocked fires when a clue becomes discoverable.
type ClueUnlocked struct {
	Clue string
}

func (ClueUnlocked) EventType() Type { return TypeClueUnlocked }

// ClueDiscovered fires when the player discovers an unlocked clue.
type ClueDiscovered struct {
	Clue string
}

func (ClueDiscovered) EventType() Type { return TypeClueDiscovered }

// ConversationClosed fires when a conversation ends, naturally or early.
type ConversationClosed struct {
	Character string
	Tier      int
	Unlocked  []string // clues unlocked by the completed conversation
}

func (ConversationClosed) EventType() Type { return TypeConversationClosed }

// AccusationStarted fires when a confrontation begins.
type AccusationStarted struct {
	Suspect string
}

func (AccusationStarted) EventType() Type { return TypeAccusationStarted }

// EvidencePresented fires for every evidence presentation, right or wrong.
type EvidencePresented struct {
	Suspect  string
	Clue     string
	Correct  bool
	Bonus    bool
	Mistakes int
}

func (EvidencePresented) EventType() Type { return TypeEvidencePresented }

// StatementAdvanced fires when the confrontation moves to the next statement.
type StatementAdvanced struct {
	Suspect string
	Index   int
}

func (StatementAdvanced) EventType() Type { return TypeStatementAdvanced }

// AccusationSucceeded fires when the true culprit's confrontation completes.
type AccusationSucceeded struct {
	Suspect  string
	Thorough bool
}

func (AccusationSucceeded) EventType() Type { return TypeAccusationSucceeded }

// AccusationFailed fires on a failed confrontation that does not yet reach
// the bad ending.
type AccusationFailed struct {
	Suspect     string
	Mistakes    int
	FailedCount int
}

func (AccusationFailed) EventType() Type { return TypeAccusationFailed }

// BadEndingTriggered replaces AccusationFailed when the durable failure
// counter reaches its ceiling. Terminal.
type BadEndingTriggered struct {
	Suspect     string
	FailedCount int
	EndingText  string
}

func (BadEndingTriggered) EventType() Type { return TypeBadEndingTriggered }

// SessionReset fires when the player abandons a session and starts a
// new game on the same case. The superseded session's record should be
// discarded.
type SessionReset struct {
	OldID uuid.UUID
	NewID uuid.UUID
}

func (SessionReset) EventType() Type { return TypeSessionReset }

// SaveCompleted fires after every persistence attempt. Err is nil on
// success; a failed save leaves the session running memory-only.
type SaveCompleted struct {
	Err error
}

func (SaveCompleted) EventType() Type { return TypeSaveCompleted }
