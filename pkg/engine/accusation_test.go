package engine

import (
	"testing"

	"github.com/halloway/gumshoe/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readyForAccusation lands the session in the investigation phase with
// the three immediate clues discovered, meeting the accusation gate.
func readyForAccusation(t *testing.T) (*Engine, *recorder) {
	t.Helper()
	eng, clk, rec := newTestEngine(t)
	introduceAll(t, eng, clk)
	discover(t, eng, "c_ledger", "c_letter", "c_thread")
	return eng, rec
}

// unlockAndDiscoverEvidence walks the conversations that unlock the
// confrontation evidence, then discovers it.
func unlockAndDiscoverEvidence(t *testing.T, eng *Engine) {
	t.Helper()
	converse(t, eng, "victor") // unlocks c_watch
	converse(t, eng, "emma")   // tier 1, unlocks c_footprints
	discover(t, eng, "c_watch", "c_footprints")
}

func TestAccusationGateRequiresMinimumClues(t *testing.T) {
	eng, clk, _ := newTestEngine(t)
	introduceAll(t, eng, clk)
	discover(t, eng, "c_ledger")

	ok, reason := eng.CanInitiateAccusation()
	assert.False(t, ok)
	assert.Contains(t, reason, "at least 3")

	err := eng.StartAccusation("victor")
	assert.ErrorIs(t, err, ErrAccusationGate)
}

func TestCleanConfrontationAgainstCulprit(t *testing.T) {
	eng, rec := readyForAccusation(t)
	unlockAndDiscoverEvidence(t, eng)

	require.NoError(t, eng.StartAccusation("victor"))
	require.Equal(t, StatusConfronting, eng.AccusationStatus())

	res, outcome, err := eng.PresentEvidence("c_watch")
	require.NoError(t, err)
	require.Nil(t, outcome)
	assert.True(t, res.Correct)
	assert.Zero(t, res.Mistakes)

	outcome, err = eng.AdvanceStatement()
	require.NoError(t, err)
	require.Nil(t, outcome)

	res, outcome, err = eng.PresentEvidence("c_footprints")
	require.NoError(t, err)
	require.Nil(t, outcome)
	assert.True(t, res.Correct)

	outcome, err = eng.AdvanceStatement()
	require.NoError(t, err)
	require.Nil(t, outcome)

	// Final statement requires no evidence.
	outcome, err = eng.AdvanceStatement()
	require.NoError(t, err)
	require.NotNil(t, outcome)
	require.NotNil(t, outcome.Victory)

	v := outcome.Victory
	assert.Equal(t, "victor", v.Suspect)
	assert.Equal(t, "Fine. I stopped the wheel myself.", v.Confession)
	assert.Equal(t, []string{"c_watch", "c_footprints"}, v.KeyEvidence)
	assert.False(t, v.Thorough, "not all clues were discovered")

	assert.Equal(t, StatusIdle, eng.AccusationStatus())
	assert.Len(t, rec.ofType(events.TypeAccusationSucceeded), 1)
	assert.Zero(t, eng.Snapshot().FailedCount)
}

func TestThoroughInvestigationBonus(t *testing.T) {
	eng, _ := readyForAccusation(t)
	unlockAndDiscoverEvidence(t, eng)
	converse(t, eng, "iris") // tier 1 at five discovered clues, unlocks c_key
	discover(t, eng, "c_key")
	require.Equal(t, len(eng.Case().Clues), eng.DiscoveredCount())

	require.NoError(t, eng.StartAccusation("victor"))

	// Bonus evidence is accepted without penalty and without advancing.
	res, _, err := eng.PresentEvidence("c_thread")
	require.NoError(t, err)
	assert.True(t, res.Bonus)
	assert.False(t, res.Correct)
	assert.Zero(t, res.Mistakes)

	_, err = eng.AdvanceStatement()
	assert.ErrorIs(t, err, ErrStatementUnmet, "bonus evidence must not satisfy the statement")

	_, _, err = eng.PresentEvidence("c_watch")
	require.NoError(t, err)
	_, err = eng.AdvanceStatement()
	require.NoError(t, err)
	_, _, err = eng.PresentEvidence("c_key")
	require.NoError(t, err)
	_, err = eng.AdvanceStatement()
	require.NoError(t, err)

	outcome, err := eng.AdvanceStatement()
	require.NoError(t, err)
	require.NotNil(t, outcome)
	require.NotNil(t, outcome.Victory)
	assert.True(t, outcome.Victory.Thorough)
	assert.Equal(t, []string{"c_thread"}, outcome.Victory.BonusEvidence)
}

func TestOutOfOrderEvidenceIsScoredIncorrect(t *testing.T) {
	eng, _ := readyForAccusation(t)
	unlockAndDiscoverEvidence(t, eng)

	require.NoError(t, eng.StartAccusation("victor"))

	// Footprints refute statement two, not statement one.
	res, _, err := eng.PresentEvidence("c_footprints")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.True(t, res.OutOfOrder)
	assert.Equal(t, 1, res.Mistakes)
}

func TestThreeMistakesFailTheConfrontation(t *testing.T) {
	eng, rec := readyForAccusation(t)
	unlockAndDiscoverEvidence(t, eng)

	require.NoError(t, eng.StartAccusation("victor"))

	var outcome *Outcome
	for _, clue := range []string{"c_ledger", "c_letter", "c_footprints"} {
		var err error
		_, outcome, err = eng.PresentEvidence(clue)
		require.NoError(t, err)
	}

	require.NotNil(t, outcome)
	assert.True(t, outcome.Failed)
	assert.False(t, outcome.BadEnding)
	assert.Equal(t, 1, outcome.FailedCount)
	assert.Equal(t, StatusIdle, eng.AccusationStatus())
	assert.Len(t, rec.ofType(events.TypeAccusationFailed), 1)

	// The confrontation is gone; further evidence is a soft anomaly.
	_, _, err := eng.PresentEvidence("c_watch")
	assert.ErrorIs(t, err, ErrNoConfrontation)
}

func TestPerfectRunAgainstNonCulpritStillFails(t *testing.T) {
	eng, rec := readyForAccusation(t)

	require.NoError(t, eng.StartAccusation("bram"))

	res, _, err := eng.PresentEvidence("c_ledger")
	require.NoError(t, err)
	require.True(t, res.Correct)
	_, err = eng.AdvanceStatement()
	require.NoError(t, err)

	outcome, err := eng.AdvanceStatement()
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.True(t, outcome.Failed)
	assert.Nil(t, outcome.Victory)
	assert.Equal(t, 1, outcome.FailedCount)
	assert.Len(t, rec.ofType(events.TypeAccusationFailed), 1)
}

func TestBadEndingTriggersOnSecondFailureOnly(t *testing.T) {
	eng, rec := readyForAccusation(t)
	unlockAndDiscoverEvidence(t, eng)

	failOnce := func() *Outcome {
		require.NoError(t, eng.StartAccusation("victor"))
		var outcome *Outcome
		for _, clue := range []string{"c_ledger", "c_letter", "c_footprints"} {
			var err error
			_, outcome, err = eng.PresentEvidence(clue)
			require.NoError(t, err)
		}
		return outcome
	}

	first := failOnce()
	require.NotNil(t, first)
	assert.False(t, first.BadEnding, "never at one failure")
	assert.Empty(t, rec.ofType(events.TypeBadEndingTriggered))

	second := failOnce()
	require.NotNil(t, second)
	assert.True(t, second.BadEnding, "always by the second failure")
	assert.Equal(t, 2, second.FailedCount)
	require.Len(t, rec.ofType(events.TypeBadEndingTriggered), 1)
	assert.Len(t, rec.ofType(events.TypeAccusationFailed), 1, "bad ending replaces the failed event")

	bad := rec.ofType(events.TypeBadEndingTriggered)[0].(events.BadEndingTriggered)
	assert.Equal(t, "Nobody believes you anymore. The case goes cold forever.", bad.EndingText)
}

func TestCancelHasNoDurableSideEffects(t *testing.T) {
	eng, _ := readyForAccusation(t)

	require.NoError(t, eng.StartAccusation("victor"))
	_, _, err := eng.PresentEvidence("c_ledger") // one mistake
	require.NoError(t, err)

	eng.CancelAccusation()
	assert.Equal(t, StatusIdle, eng.AccusationStatus())
	assert.Nil(t, eng.ConfrontationProgress())
	assert.Zero(t, eng.Snapshot().FailedCount)

	// A fresh confrontation starts at zero mistakes.
	require.NoError(t, eng.StartAccusation("victor"))
	progress := eng.ConfrontationProgress()
	require.NotNil(t, progress)
	assert.Zero(t, progress.Mistakes)
	assert.Empty(t, progress.Presented)
}

func TestStartIsLegalOnlyFromIdle(t *testing.T) {
	eng, _ := readyForAccusation(t)

	require.NoError(t, eng.StartAccusation("victor"))
	assert.ErrorIs(t, eng.StartAccusation("bram"), ErrConfrontationActive)
}

func TestAccusedListIsDurableAndIdempotent(t *testing.T) {
	eng, _ := readyForAccusation(t)

	require.NoError(t, eng.StartAccusation("victor"))
	eng.CancelAccusation()
	require.NoError(t, eng.StartAccusation("victor"))
	eng.CancelAccusation()
	require.NoError(t, eng.StartAccusation("bram"))
	eng.CancelAccusation()

	assert.Equal(t, []string{"victor", "bram"}, eng.Snapshot().Accused)
}

func TestUndiscoveredEvidenceIsRejected(t *testing.T) {
	eng, _ := readyForAccusation(t)

	require.NoError(t, eng.StartAccusation("victor"))
	_, _, err := eng.PresentEvidence("c_watch") // unlocked-at-best, not discovered
	assert.ErrorIs(t, err, ErrEvidenceNotFound)

	progress := eng.ConfrontationProgress()
	assert.Zero(t, progress.Mistakes, "rejected presentations do not score")
}
