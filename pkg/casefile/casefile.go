// Package casefile defines the declarative documents that drive a mystery
// case: the incident setup, the clue catalog, per-character dialog trees,
// and the accusation script. Documents are static configuration, read-only
// at runtime; all mutable session state lives in pkg/state.
package casefile

// Incident configures the introduction phase and the transition into the
// investigation phase.
type Incident struct {
	Title              string         `json:"title" yaml:"title"`
	RequiredCharacters []string       `json:"required_characters" yaml:"required_characters"`
	DelayUnits         int            `json:"delay_units" yaml:"delay_units"`       // narrative pause before the incident, in time units
	TierThresholds     []int          `json:"tier_thresholds" yaml:"tier_thresholds"` // global dialog tier scheme: discovered-clue thresholds
	CutsceneText       []string       `json:"cutscene_text,omitempty" yaml:"cutscene_text,omitempty"`
	CutscenePosition   map[string]any `json:"cutscene_position,omitempty" yaml:"cutscene_position,omitempty"` // opaque to the engine
}

// UnlockCondition describes when a clue becomes unlocked. The zero value
// means the clue is unlocked immediately at case start.
type UnlockCondition struct {
	Character string `json:"character,omitempty" yaml:"character,omitempty"`
	Tier      int    `json:"tier,omitempty" yaml:"tier,omitempty"`
}

// Immediate reports whether the clue unlocks at case start rather than
// through a conversation.
func (u UnlockCondition) Immediate() bool {
	return u.Character == ""
}

// Clue is one entry of the clue catalog.
type Clue struct {
	ID              string          `json:"id" yaml:"id"`
	DisplayText     string          `json:"display_text" yaml:"display_text"`
	NotebookSummary string          `json:"notebook_summary" yaml:"notebook_summary"`
	Unlock          UnlockCondition `json:"unlock,omitempty" yaml:"unlock,omitempty"`
	Position        map[string]any  `json:"position,omitempty" yaml:"position,omitempty"` // opaque to the engine
}

// IntroBlock is the single introduction-phase entry of a character's
// dialog tree.
type IntroBlock struct {
	Lines            []string `json:"lines" yaml:"lines"`
	RecordInNotebook bool     `json:"record_in_notebook,omitempty" yaml:"record_in_notebook,omitempty"`
}

// DialogTier is one post-transition bracket of a character's dialog tree.
type DialogTier struct {
	Threshold        int      `json:"threshold" yaml:"threshold"` // discovered clues required
	FirstVisit       []string `json:"first_visit" yaml:"first_visit"`
	RepeatPool       []string `json:"repeat_pool,omitempty" yaml:"repeat_pool,omitempty"`
	RecordInNotebook bool     `json:"record_in_notebook,omitempty" yaml:"record_in_notebook,omitempty"`
	UnlocksClues     []string `json:"unlocks_clues,omitempty" yaml:"unlocks_clues,omitempty"`
}

// CharacterDialog is the complete dialog tree for one character: exactly
// one introduction entry plus ordered investigation tiers.
type CharacterDialog struct {
	Character    string      `json:"character" yaml:"character"`
	Introduction IntroBlock  `json:"introduction" yaml:"introduction"`
	Tiers        []DialogTier `json:"tiers" yaml:"tiers"`
}

// AvailableTier returns the highest tier index whose threshold is at or
// below the discovered-clue count, or -1 when no tier qualifies.
func (c CharacterDialog) AvailableTier(discovered int) int {
	best := -1
	for i, t := range c.Tiers {
		if t.Threshold <= discovered {
			best = i
		}
	}
	return best
}

// Statement is one step of a suspect's confrontation sequence.
type Statement struct {
	ID                 string   `json:"id" yaml:"id"`
	Text               string   `json:"text" yaml:"text"`
	RequiresEvidence   bool     `json:"requires_evidence" yaml:"requires_evidence"`
	RequiredEvidence   string   `json:"required_evidence,omitempty" yaml:"required_evidence,omitempty"`
	AcceptableEvidence []string `json:"acceptable_evidence,omitempty" yaml:"acceptable_evidence,omitempty"`
	BonusEvidence      string   `json:"bonus_evidence,omitempty" yaml:"bonus_evidence,omitempty"`
}

// Accepts reports whether the clue satisfies this statement's evidence
// requirement.
func (st Statement) Accepts(clueID string) bool {
	if !st.RequiresEvidence {
		return false
	}
	if st.RequiredEvidence != "" {
		return clueID == st.RequiredEvidence
	}
	for _, id := range st.AcceptableEvidence {
		if id == clueID {
			return true
		}
	}
	return false
}

// SuspectScript is the confrontation sequence for one accusable suspect.
type SuspectScript struct {
	Suspect    string      `json:"suspect" yaml:"suspect"`
	Statements []Statement `json:"statements" yaml:"statements"`
	Confession string      `json:"confession" yaml:"confession"`
	Motive     string      `json:"motive" yaml:"motive"`
}

// AccusationScript configures the accusation system for the whole case.
type AccusationScript struct {
	Suspects      []SuspectScript `json:"suspects" yaml:"suspects"`
	Culprit       string          `json:"culprit" yaml:"culprit"`
	MinimumClues  int             `json:"minimum_clues" yaml:"minimum_clues"`
	MistakeLimit  int             `json:"mistake_limit" yaml:"mistake_limit"`
	FailureEnding string          `json:"failure_ending" yaml:"failure_ending"`
	BadEnding     string          `json:"bad_ending" yaml:"bad_ending"`
}

// Script returns the confrontation script for a suspect, or nil.
func (a AccusationScript) Script(suspect string) *SuspectScript {
	for i := range a.Suspects {
		if a.Suspects[i].Suspect == suspect {
			return &a.Suspects[i]
		}
	}
	return nil
}

// Case bundles the four documents of one mystery case.
type Case struct {
	Name       string            `json:"name" yaml:"name"`
	Incident   Incident          `json:"incident" yaml:"incident"`
	Clues      []Clue            `json:"clues" yaml:"clues"`
	Characters []CharacterDialog `json:"characters" yaml:"characters"`
	Accusation AccusationScript  `json:"accusation" yaml:"accusation"`
}

// ClueByID returns the catalog entry for a clue id, or nil.
func (c *Case) ClueByID(id string) *Clue {
	for i := range c.Clues {
		if c.Clues[i].ID == id {
			return &c.Clues[i]
		}
	}
	return nil
}

// Dialog returns the dialog tree for a character id, or nil.
func (c *Case) Dialog(character string) *CharacterDialog {
	for i := range c.Characters {
		if c.Characters[i].Character == character {
			return &c.Characters[i]
		}
	}
	return nil
}

// GlobalTier returns the highest global tier index whose threshold is at
// or below the discovered-clue count. Tier 0 is always available.
func (c *Case) GlobalTier(discovered int) int {
	tier := 0
	for i, threshold := range c.Incident.TierThresholds {
		if threshold <= discovered {
			tier = i
		}
	}
	return tier
}
