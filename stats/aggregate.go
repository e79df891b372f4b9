// Package stats computes derived metrics over local-progress snapshots.
// Everything here is a pure function of its inputs: nothing is persisted
// and nothing is cached, so a metric can never disagree with the data it
// was computed from.
package stats

import (
	"fmt"
	"time"

	"github.com/justcode-dev/justcode/model"
)

// NoLanguage is returned by MostUsedLanguage for an empty collection.
const NoLanguage = "N/A"

// MostUsedLanguage returns the language with the highest snippet count.
// Ties break to the language encountered first in collection order, i.e.
// the earliest created.
func MostUsedLanguage(snippets []model.Snippet) string {
	if len(snippets) == 0 {
		return NoLanguage
	}
	counts := map[string]int{}
	order := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if _, seen := counts[s.Language]; !seen {
			order = append(order, s.Language)
		}
		counts[s.Language]++
	}
	best := order[0]
	for _, lang := range order[1:] {
		if counts[lang] > counts[best] {
			best = lang
		}
	}
	return best
}

// ActivePolicy controls how sessions without an end time enter the
// average-duration calculation.
type ActivePolicy int

const (
	// ActiveCountsAsZero keeps still-active sessions in the denominator
	// while contributing zero duration. This understates the average; it
	// is the default because it reproduces the shipped behavior.
	ActiveCountsAsZero ActivePolicy = iota
	// ActiveExcluded averages over finished sessions only.
	ActiveExcluded
)

// ParseActivePolicy maps a config token to a policy; unknown tokens fall
// back to ActiveCountsAsZero.
func ParseActivePolicy(raw string) ActivePolicy {
	if raw == "exclude-active" {
		return ActiveExcluded
	}
	return ActiveCountsAsZero
}

// AverageSessionDurationMinutes averages (endedAt - startedAt) over the
// sessions, in minutes, under the given policy. Returns 0 for an empty
// denominator.
func AverageSessionDurationMinutes(sessions []model.Session, policy ActivePolicy) float64 {
	var sum time.Duration
	ended := 0
	for _, s := range sessions {
		if s.EndedAt == nil {
			continue
		}
		sum += s.EndedAt.Sub(s.StartedAt)
		ended++
	}
	denom := len(sessions)
	if policy == ActiveExcluded {
		denom = ended
	}
	if denom == 0 {
		return 0
	}
	return sum.Minutes() / float64(denom)
}

// FormatSessionDuration renders a session interval as "Xm Ys" for the
// collaboration history view. Active sessions are measured against now;
// negative intervals clamp to zero.
func FormatSessionDuration(startedAt time.Time, endedAt *time.Time, now time.Time) string {
	end := now
	if endedAt != nil {
		end = *endedAt
	}
	sec := int(end.Sub(startedAt).Seconds())
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%dm %ds", sec/60, sec%60)
}
