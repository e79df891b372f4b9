package stats

import (
	"testing"
	"time"

	"github.com/justcode-dev/justcode/model"
)

func snippetIn(lang string) model.Snippet {
	return model.Snippet{Language: lang}
}

func TestMostUsedLanguage(t *testing.T) {
	if got := MostUsedLanguage(nil); got != NoLanguage {
		t.Fatalf("empty collection = %q, want %q", got, NoLanguage)
	}

	got := MostUsedLanguage([]model.Snippet{
		snippetIn("python"),
		snippetIn("go"),
		snippetIn("go"),
		snippetIn("python"),
		snippetIn("go"),
	})
	if got != "go" {
		t.Fatalf("most used = %q, want go", got)
	}
}

func TestMostUsedLanguageTieBreaksToEarliest(t *testing.T) {
	got := MostUsedLanguage([]model.Snippet{
		snippetIn("javascript"),
		snippetIn("python"),
		snippetIn("python"),
		snippetIn("javascript"),
	})
	if got != "javascript" {
		t.Fatalf("tie broke to %q, want javascript (earliest created)", got)
	}
}

func sessionOf(start time.Time, minutes int, ended bool) model.Session {
	s := model.Session{RoomID: "r", StartedAt: start}
	if ended {
		end := start.Add(time.Duration(minutes) * time.Minute)
		s.EndedAt = &end
	}
	return s
}

func TestAverageSessionDuration(t *testing.T) {
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	sessions := []model.Session{
		sessionOf(start, 10, true),
		sessionOf(start, 20, true),
		sessionOf(start, 0, false), // still active
	}

	// Default policy keeps the active session in the denominator at zero
	// contribution: (10 + 20 + 0) / 3.
	if got := AverageSessionDurationMinutes(sessions, ActiveCountsAsZero); got != 10 {
		t.Fatalf("count-as-zero average = %v, want 10", got)
	}

	// Excluding active sessions: (10 + 20) / 2.
	if got := AverageSessionDurationMinutes(sessions, ActiveExcluded); got != 15 {
		t.Fatalf("exclude-active average = %v, want 15", got)
	}
}

func TestAverageSessionDurationEmptyDenominator(t *testing.T) {
	if got := AverageSessionDurationMinutes(nil, ActiveCountsAsZero); got != 0 {
		t.Fatalf("no sessions = %v, want 0", got)
	}
	active := []model.Session{sessionOf(time.Now(), 0, false)}
	if got := AverageSessionDurationMinutes(active, ActiveExcluded); got != 0 {
		t.Fatalf("only-active under exclude policy = %v, want 0", got)
	}
}

func TestParseActivePolicy(t *testing.T) {
	if ParseActivePolicy("exclude-active") != ActiveExcluded {
		t.Fatalf("exclude-active not recognized")
	}
	for _, raw := range []string{"", "count-as-zero", "bogus"} {
		if ParseActivePolicy(raw) != ActiveCountsAsZero {
			t.Fatalf("%q should fall back to count-as-zero", raw)
		}
	}
}

func TestFormatSessionDuration(t *testing.T) {
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	now := start.Add(95 * time.Second)

	if got := FormatSessionDuration(start, nil, now); got != "1m 35s" {
		t.Fatalf("active session = %q, want 1m 35s", got)
	}

	end := start.Add(3 * time.Minute)
	if got := FormatSessionDuration(start, &end, now); got != "3m 0s" {
		t.Fatalf("ended session = %q, want 3m 0s", got)
	}

	before := start.Add(-time.Minute)
	if got := FormatSessionDuration(start, &before, now); got != "0m 0s" {
		t.Fatalf("negative interval = %q, want clamp to 0m 0s", got)
	}
}
