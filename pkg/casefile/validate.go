package casefile

import (
	"errors"
	"fmt"
)

// Validate checks the case documents for structural consistency and
// returns every violation found, joined into one error. A case with any
// violation must not be run.
func (c *Case) Validate() error {
	var errs []error

	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if len(c.Incident.RequiredCharacters) == 0 {
		report("incident: required_characters must not be empty")
	}
	if c.Incident.DelayUnits < 0 {
		report("incident: delay_units must not be negative")
	}
	for i := 1; i < len(c.Incident.TierThresholds); i++ {
		if c.Incident.TierThresholds[i] <= c.Incident.TierThresholds[i-1] {
			report("incident: tier_thresholds must be strictly increasing (index %d)", i)
		}
	}

	clueIDs := make(map[string]bool, len(c.Clues))
	for _, clue := range c.Clues {
		if clue.ID == "" {
			report("clues: entry with empty id")
			continue
		}
		if clueIDs[clue.ID] {
			report("clues: duplicate id %q", clue.ID)
		}
		clueIDs[clue.ID] = true
	}

	characters := make(map[string]bool, len(c.Characters))
	for _, cd := range c.Characters {
		if cd.Character == "" {
			report("characters: dialog tree with empty character id")
			continue
		}
		if characters[cd.Character] {
			report("characters: duplicate dialog tree for %q", cd.Character)
		}
		characters[cd.Character] = true

		if len(cd.Introduction.Lines) == 0 {
			report("character %q: introduction lines must not be empty", cd.Character)
		}
		for i, tier := range cd.Tiers {
			if i > 0 && tier.Threshold <= cd.Tiers[i-1].Threshold {
				report("character %q: tier thresholds must be strictly increasing (tier %d)", cd.Character, i)
			}
			if len(tier.FirstVisit) == 0 {
				report("character %q: tier %d has no first_visit lines", cd.Character, i)
			}
			for _, id := range tier.UnlocksClues {
				if !clueIDs[id] {
					report("character %q: tier %d unlocks unknown clue %q", cd.Character, i, id)
				}
			}
		}
	}

	for _, id := range c.Incident.RequiredCharacters {
		if !characters[id] {
			report("incident: required character %q has no dialog tree", id)
		}
	}

	for _, clue := range c.Clues {
		if clue.Unlock.Immediate() {
			continue
		}
		cd := c.Dialog(clue.Unlock.Character)
		if cd == nil {
			report("clue %q: unlock references unknown character %q", clue.ID, clue.Unlock.Character)
			continue
		}
		if clue.Unlock.Tier < 0 || clue.Unlock.Tier >= len(cd.Tiers) {
			report("clue %q: unlock references missing tier %d of character %q", clue.ID, clue.Unlock.Tier, clue.Unlock.Character)
		}
	}

	c.validateAccusation(clueIDs, &errs)

	return errors.Join(errs...)
}

func (c *Case) validateAccusation(clueIDs map[string]bool, errs *[]error) {
	report := func(format string, args ...any) {
		*errs = append(*errs, fmt.Errorf(format, args...))
	}

	a := c.Accusation
	if len(a.Suspects) == 0 {
		report("accusation: suspect list must not be empty")
	}
	if a.MistakeLimit < 1 {
		report("accusation: mistake_limit must be at least 1")
	}
	if a.MinimumClues < 0 {
		report("accusation: minimum_clues must not be negative")
	}
	if a.Culprit == "" {
		report("accusation: culprit must be designated")
	} else if a.Script(a.Culprit) == nil {
		report("accusation: no confrontation script for culprit %q", a.Culprit)
	}

	seen := make(map[string]bool, len(a.Suspects))
	for _, s := range a.Suspects {
		if s.Suspect == "" {
			report("accusation: script with empty suspect id")
			continue
		}
		if seen[s.Suspect] {
			report("accusation: duplicate script for suspect %q", s.Suspect)
		}
		seen[s.Suspect] = true

		if len(s.Statements) == 0 {
			report("accusation: suspect %q has no statements", s.Suspect)
		}
		stmtIDs := make(map[string]bool, len(s.Statements))
		for i, st := range s.Statements {
			if st.ID == "" {
				report("accusation: suspect %q statement %d has empty id", s.Suspect, i)
			} else if stmtIDs[st.ID] {
				report("accusation: suspect %q has duplicate statement id %q", s.Suspect, st.ID)
			}
			stmtIDs[st.ID] = true

			if st.RequiredEvidence != "" && len(st.AcceptableEvidence) > 0 {
				report("accusation: suspect %q statement %q declares both required and acceptable evidence", s.Suspect, st.ID)
			}
			if st.RequiresEvidence && st.RequiredEvidence == "" && len(st.AcceptableEvidence) == 0 {
				report("accusation: suspect %q statement %q requires evidence but accepts none", s.Suspect, st.ID)
			}
			if !st.RequiresEvidence && (st.RequiredEvidence != "" || len(st.AcceptableEvidence) > 0) {
				report("accusation: suspect %q statement %q lists evidence but does not require it", s.Suspect, st.ID)
			}
			for _, id := range append([]string{st.RequiredEvidence, st.BonusEvidence}, st.AcceptableEvidence...) {
				if id != "" && !clueIDs[id] {
					report("accusation: suspect %q statement %q references unknown clue %q", s.Suspect, st.ID, id)
				}
			}
		}
	}
}
