package stats

import "github.com/justcode-dev/justcode/model"

// Achievement is one threshold rule over the usage counters. "Earned" is
// recomputed on every read against the current counters; nothing is
// stored, so there is no historical earned-date beyond "now".
type Achievement struct {
	ID          int
	Title       string
	Description string
	Counter     string
	Threshold   int64
}

var achievementRules = []Achievement{
	{ID: 1, Title: "First Steps", Description: "Run 10 code snippets", Counter: model.CounterRuns, Threshold: 10},
	{ID: 2, Title: "Code Runner", Description: "Run 50 code snippets", Counter: model.CounterRuns, Threshold: 50},
	{ID: 3, Title: "Snippet Creator", Description: "Create 5 code snippets", Counter: model.CounterSnippetsCreated, Threshold: 5},
	{ID: 4, Title: "Collaborator", Description: "Join 3 collaboration sessions", Counter: model.CounterSessionsJoined, Threshold: 3},
	{ID: 5, Title: "AI Explorer", Description: "Use AI explain 5 times", Counter: model.CounterAIExplains, Threshold: 5},
}

// Rules returns a copy of the fixed achievement table.
func Rules() []Achievement {
	out := make([]Achievement, len(achievementRules))
	copy(out, achievementRules)
	return out
}

// Evaluate returns the achievements earned under the given counters, in
// rule order.
func Evaluate(s model.Stats) []Achievement {
	earned := make([]Achievement, 0, len(achievementRules))
	for _, rule := range achievementRules {
		value, ok := s.Counter(rule.Counter)
		if !ok {
			continue
		}
		if value >= rule.Threshold {
			earned = append(earned, rule)
		}
	}
	return earned
}
