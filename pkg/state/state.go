package state

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Phase is the narrative phase of an investigation session.
type Phase string

const (
	PhaseIntroduction  Phase = "introduction"
	PhaseInvestigation Phase = "investigation"
)

// ClueState is the lifecycle state of a single clue.
// Transitions only move forward: locked -> unlocked -> discovered.
type ClueState string

const (
	ClueLocked     ClueState = "locked"
	ClueUnlocked   ClueState = "unlocked"
	ClueDiscovered ClueState = "discovered"
)

// AccusationState is the durable slice of accusation history. Unlike
// confrontation progress, it survives confrontations and sessions and is
// reset only by an explicit new game.
type AccusationState struct {
	FailedCount   int       `json:"failed_count"`
	Accused       []string  `json:"accused,omitempty"`
	LastAccusedAt time.Time `json:"last_accused_at,omitempty"`
}

// RecordAccused appends a suspect to the accused list, once.
func (a *AccusationState) RecordAccused(suspect string, at time.Time) {
	a.LastAccusedAt = at
	for _, s := range a.Accused {
		if s == suspect {
			return
		}
	}
	a.Accused = append(a.Accused, suspect)
}

// InvestigationState is the single mutable state of a mystery session.
// It is owned exclusively by the engine's manager components; everything
// else reads it through snapshots and accessors.
type InvestigationState struct {
	ID         uuid.UUID
	Case       string
	Phase      Phase
	Introduced map[string]bool
	Clues      map[string]ClueState
	Visits     map[string]int
	Accusation AccusationState
	UpdatedAt  time.Time
}

// New creates a fresh session state for the named case.
func New(caseName string) *InvestigationState {
	return &InvestigationState{
		ID:         uuid.New(),
		Case:       caseName,
		Phase:      PhaseIntroduction,
		Introduced: make(map[string]bool),
		Clues:      make(map[string]ClueState),
		Visits:     make(map[string]int),
	}
}

// visitKey builds the map key for a (character, tier) visit counter.
func visitKey(character string, tier int) string {
	return fmt.Sprintf("%s/%d", character, tier)
}

// Introduce marks a character as introduced. Returns false if the
// character was already introduced.
func (s *InvestigationState) Introduce(id string) bool {
	if s.Introduced[id] {
		return false
	}
	s.Introduced[id] = true
	return true
}

// IsIntroduced reports whether the character has been introduced.
func (s *InvestigationState) IsIntroduced(id string) bool {
	return s.Introduced[id]
}

// ClueState returns the lifecycle state of a clue. Unknown clues are locked.
func (s *InvestigationState) ClueState(id string) ClueState {
	if st, ok := s.Clues[id]; ok {
		return st
	}
	return ClueLocked
}

// DiscoveredCount returns the number of discovered clues.
func (s *InvestigationState) DiscoveredCount() int {
	n := 0
	for _, st := range s.Clues {
		if st == ClueDiscovered {
			n++
		}
	}
	return n
}

// VisitCount returns how many times a (character, tier) dialog was shown.
func (s *InvestigationState) VisitCount(character string, tier int) int {
	return s.Visits[visitKey(character, tier)]
}

// RecordVisit increments the visit counter for a (character, tier) pair
// and returns the count prior to the increment.
func (s *InvestigationState) RecordVisit(character string, tier int) int {
	k := visitKey(character, tier)
	prior := s.Visits[k]
	s.Visits[k] = prior + 1
	return prior
}

// IntroducedList returns the introduced character ids, sorted.
func (s *InvestigationState) IntroducedList() []string {
	out := make([]string, 0, len(s.Introduced))
	for id := range s.Introduced {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// UnlockedList returns ids of all clues at or past the unlocked state, sorted.
// Discovered clues are included: discovered is a subset of unlocked.
func (s *InvestigationState) UnlockedList() []string {
	out := make([]string, 0, len(s.Clues))
	for id, st := range s.Clues {
		if st == ClueUnlocked || st == ClueDiscovered {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// DiscoveredList returns ids of discovered clues, sorted.
func (s *InvestigationState) DiscoveredList() []string {
	out := make([]string, 0, len(s.Clues))
	for id, st := range s.Clues {
		if st == ClueDiscovered {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
