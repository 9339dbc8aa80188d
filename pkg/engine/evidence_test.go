package engine

import (
	"testing"

	"github.com/halloway/gumshoe/pkg/casefile"
)

func TestValidateEvidence(t *testing.T) {
	statements := []casefile.Statement{
		{ID: "s1", RequiresEvidence: true, RequiredEvidence: "c_watch", BonusEvidence: "c_thread"},
		{ID: "s2", RequiresEvidence: true, AcceptableEvidence: []string{"c_footprints", "c_key"}},
		{ID: "s3"},
	}

	tests := []struct {
		name          string
		index         int
		clue          string
		priorMistakes int
		want          EvidenceResult
	}{
		{
			name: "required evidence matches",
			clue: "c_watch",
			want: EvidenceResult{Correct: true},
		},
		{
			name:  "acceptable set member matches",
			index: 1,
			clue:  "c_key",
			want:  EvidenceResult{Correct: true},
		},
		{
			name: "bonus evidence accepted without advance or penalty",
			clue: "c_thread",
			want: EvidenceResult{Bonus: true},
		},
		{
			name: "wrong evidence scores a mistake",
			clue: "c_ledger",
			want: EvidenceResult{Mistakes: 1},
		},
		{
			name: "evidence for a later statement is out of order and wrong",
			clue: "c_footprints",
			want: EvidenceResult{OutOfOrder: true, Mistakes: 1},
		},
		{
			name:          "third mistake fails the confrontation",
			clue:          "c_ledger",
			priorMistakes: 2,
			want:          EvidenceResult{Mistakes: 3, Failed: true},
		},
		{
			name:          "prior mistakes carry through correct answers",
			clue:          "c_watch",
			priorMistakes: 2,
			want:          EvidenceResult{Correct: true, Mistakes: 2},
		},
		{
			name:  "statement requiring no evidence accepts nothing",
			index: 2,
			clue:  "c_watch",
			want:  EvidenceResult{Mistakes: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateEvidence(statements, tt.index, tt.clue, tt.priorMistakes, 3)
			if got != tt.want {
				t.Errorf("ValidateEvidence() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateEvidenceOutOfRangeIndex(t *testing.T) {
	res := ValidateEvidence(nil, 0, "c_watch", 1, 3)
	if res.Correct || res.Failed || res.Mistakes != 1 {
		t.Errorf("out-of-range index must be inert, got %+v", res)
	}
}
