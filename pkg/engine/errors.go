package engine

import "errors"

// Reported, non-fatal errors. The calling layer may inspect these with
// errors.Is; none of them ends the session.
var (
	ErrUnknownClue         = errors.New("unknown clue")
	ErrClueNotLocked       = errors.New("clue is already past the locked state")
	ErrClueLocked          = errors.New("clue is still locked")
	ErrUnknownCharacter    = errors.New("unknown character")
	ErrConversationOpen    = errors.New("a conversation is already open")
	ErrNoConversation      = errors.New("no conversation is open")
	ErrUnknownSuspect      = errors.New("no confrontation script for suspect")
	ErrConfrontationActive = errors.New("a confrontation is already active")
	ErrNoConfrontation     = errors.New("no confrontation is active")
	ErrEvidenceNotFound    = errors.New("evidence has not been discovered")
	ErrStatementUnmet      = errors.New("current statement's evidence requirement is not satisfied")
	ErrAccusationGate      = errors.New("not enough discovered clues to accuse")
)
