package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SnapshotVersion is the current schema version of the persisted record.
// Version 1 predates durable accusation history.
const SnapshotVersion = 2

// Snapshot is the versioned, durable record of a session. It carries the
// union of investigation and accusation state; confrontation progress is
// ephemeral and deliberately absent.
type Snapshot struct {
	Version       int            `json:"version"`
	ID            uuid.UUID      `json:"id"`
	Case          string         `json:"case"`
	Phase         Phase          `json:"phase"`
	Introduced    []string       `json:"introduced,omitempty"`
	Unlocked      []string       `json:"unlocked,omitempty"`
	Discovered    []string       `json:"discovered,omitempty"`
	Visits        map[string]int `json:"visits,omitempty"`
	Accused       []string       `json:"accused,omitempty"`
	FailedCount   int            `json:"failed_count"`
	LastAccusedAt time.Time      `json:"last_accused_at,omitempty"`
	SavedAt       time.Time      `json:"saved_at"`
}

// Snapshot captures the current durable state as a versioned record.
func (s *InvestigationState) Snapshot() *Snapshot {
	visits := make(map[string]int, len(s.Visits))
	for k, v := range s.Visits {
		visits[k] = v
	}
	return &Snapshot{
		Version:       SnapshotVersion,
		ID:            s.ID,
		Case:          s.Case,
		Phase:         s.Phase,
		Introduced:    s.IntroducedList(),
		Unlocked:      s.UnlockedList(),
		Discovered:    s.DiscoveredList(),
		Visits:        visits,
		Accused:       append([]string(nil), s.Accusation.Accused...),
		FailedCount:   s.Accusation.FailedCount,
		LastAccusedAt: s.Accusation.LastAccusedAt,
		SavedAt:       time.Now(),
	}
}

// FromSnapshot rebuilds session state from a persisted record. Discovered
// clues are applied after unlocked ones so that a clue present in both
// lists ends in the discovered state.
func FromSnapshot(snap *Snapshot) (*InvestigationState, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	s := New(snap.Case)
	s.ID = snap.ID
	if snap.Phase != "" {
		s.Phase = snap.Phase
	}
	for _, id := range snap.Introduced {
		s.Introduced[id] = true
	}
	for _, id := range snap.Unlocked {
		s.Clues[id] = ClueUnlocked
	}
	for _, id := range snap.Discovered {
		s.Clues[id] = ClueDiscovered
	}
	for k, v := range snap.Visits {
		s.Visits[k] = v
	}
	s.Accusation = AccusationState{
		FailedCount:   snap.FailedCount,
		Accused:       append([]string(nil), snap.Accused...),
		LastAccusedAt: snap.LastAccusedAt,
	}
	s.UpdatedAt = snap.SavedAt
	return s, nil
}

// Migrate upgrades an older snapshot to the current schema version.
// Returns an error when the version is unknown or newer than supported.
func Migrate(snap *Snapshot) (*Snapshot, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	switch snap.Version {
	case SnapshotVersion:
		return snap, nil
	case 1:
		// v1 predates durable accusation history; start that history fresh.
		snap.Version = SnapshotVersion
		snap.Accused = nil
		snap.FailedCount = 0
		snap.LastAccusedAt = time.Time{}
		return snap, nil
	default:
		return nil, fmt.Errorf("unknown snapshot version %d", snap.Version)
	}
}
