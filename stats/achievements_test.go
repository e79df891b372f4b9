package stats

import (
	"testing"

	"github.com/justcode-dev/justcode/model"
)

func TestEvaluateEmptyStats(t *testing.T) {
	if earned := Evaluate(model.Stats{}); len(earned) != 0 {
		t.Fatalf("zero counters earned %+v", earned)
	}
}

func TestEvaluateThresholds(t *testing.T) {
	earned := Evaluate(model.Stats{Runs: 10})
	if len(earned) != 1 || earned[0].Title != "First Steps" {
		t.Fatalf("runs=10 earned %+v", earned)
	}

	earned = Evaluate(model.Stats{Runs: 9, SnippetsCreated: 4, SessionsJoined: 2, AIExplains: 4})
	if len(earned) != 0 {
		t.Fatalf("just-below thresholds earned %+v", earned)
	}

	earned = Evaluate(model.Stats{
		Runs:            50,
		SnippetsCreated: 5,
		SessionsJoined:  3,
		AIExplains:      5,
	})
	wantOrder := []string{"First Steps", "Code Runner", "Snippet Creator", "Collaborator", "AI Explorer"}
	if len(earned) != len(wantOrder) {
		t.Fatalf("earned %+v, want all five", earned)
	}
	for i, title := range wantOrder {
		if earned[i].Title != title {
			t.Fatalf("earned[%d] = %q, want %q", i, earned[i].Title, title)
		}
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	rules := Rules()
	if len(rules) != 5 {
		t.Fatalf("rule count = %d", len(rules))
	}
	rules[0].Threshold = 999
	if Rules()[0].Threshold == 999 {
		t.Fatalf("Rules exposed the internal table")
	}
}
