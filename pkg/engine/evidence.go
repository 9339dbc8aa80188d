package engine

import "github.com/halloway/gumshoe/pkg/casefile"

// EvidenceResult is the verdict on one presented piece of evidence.
type EvidenceResult struct {
	// Correct is true iff the clue matches the current statement's required
	// evidence or is a member of its acceptable set.
	Correct bool

	// Bonus is true iff the clue equals the statement's optional bonus
	// evidence. Bonus evidence is accepted without penalty but does not
	// advance the statement.
	Bonus bool

	// OutOfOrder is true when the clue would be correct for a later
	// statement. It is still scored as incorrect: the confrontation builds
	// its case in sequence.
	OutOfOrder bool

	// Mistakes is the post-presentation mistake count.
	Mistakes int

	// Failed is true iff Mistakes reached the configured limit.
	Failed bool
}

// ValidateEvidence scores one presented clue against the statement at
// index in the sequence. Pure function: no state is read or written
// beyond the arguments.
func ValidateEvidence(statements []casefile.Statement, index int, clueID string, priorMistakes, mistakeLimit int) EvidenceResult {
	res := EvidenceResult{Mistakes: priorMistakes}
	if index < 0 || index >= len(statements) {
		return res
	}
	stmt := statements[index]

	if stmt.BonusEvidence != "" && clueID == stmt.BonusEvidence {
		res.Bonus = true
		return res
	}
	if stmt.Accepts(clueID) {
		res.Correct = true
		return res
	}

	// Look ahead: evidence belonging to a later statement is still wrong
	// now, but worth distinguishing for the presentation layer.
	for i := index + 1; i < len(statements); i++ {
		if statements[i].Accepts(clueID) {
			res.OutOfOrder = true
			break
		}
	}

	res.Mistakes = priorMistakes + 1
	res.Failed = res.Mistakes >= mistakeLimit
	return res
}
