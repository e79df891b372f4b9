package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StepType tags what a single execution step did.
type StepType string

const (
	StepAssignment StepType = "assignment"
	StepCondition  StepType = "condition"
	StepLoop       StepType = "loop"
	StepOutput     StepType = "output"
	StepCall       StepType = "call"
	StepReturn     StepType = "return"
	StepOther      StepType = "other"
)

// ParseStepType normalizes a raw tag from the tracer service. Unknown
// tags collapse to StepOther; a malformed step is a display detail, not
// an error.
func ParseStepType(raw string) StepType {
	switch StepType(strings.ToLower(strings.TrimSpace(raw))) {
	case StepAssignment:
		return StepAssignment
	case StepCondition:
		return StepCondition
	case StepLoop:
		return StepLoop
	case StepOutput:
		return StepOutput
	case StepCall:
		return StepCall
	case StepReturn:
		return StepReturn
	default:
		return StepOther
	}
}

// VariableBinding is one live variable at a point in the execution.
// Value is the displayable scalar as decoded from the tracer payload;
// Type is the tracer's semantic type tag ("string", "number", ...).
type VariableBinding struct {
	Name  string
	Value any
	Type  string
}

// ExecutionStep is one point-in-time snapshot of a traced run. Steps are
// produced externally and immutable once received. Variables carry the
// full live set at that point, not a diff, in display order.
type ExecutionStep struct {
	LineNumber      int         `json:"lineNumber"`
	Code            string      `json:"code"`
	Type            StepType    `json:"type"`
	Variables       VariableSet `json:"variables"`
	Output          *string     `json:"output,omitempty"`
	ConditionResult *bool       `json:"conditionResult,omitempty"`
}

// Snippet is a named, saved piece of source code.
type Snippet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Language    string    `json:"language"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SnippetInput is the caller-supplied part of a new snippet.
type SnippetInput struct {
	Title       string
	Language    string
	Code        string
	Description string
}

// NewSnippet validates the input and mints a snippet with a fresh unique
// id and createdAt == updatedAt == now.
func NewSnippet(input SnippetInput, now time.Time) (Snippet, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Snippet{}, fmt.Errorf("snippet title is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return Snippet{
		ID:          uuid.NewString(),
		Title:       title,
		Language:    strings.ToLower(strings.TrimSpace(input.Language)),
		Code:        input.Code,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SnippetPatch is a partial update; nil fields are left unchanged.
type SnippetPatch struct {
	Title       *string
	Language    *string
	Code        *string
	Description *string
}

// Apply merges the patch into s and reports whether anything changed.
func (p SnippetPatch) Apply(s *Snippet) bool {
	changed := false
	if p.Title != nil {
		if title := strings.TrimSpace(*p.Title); title != "" && title != s.Title {
			s.Title = title
			changed = true
		}
	}
	if p.Language != nil {
		if lang := strings.ToLower(strings.TrimSpace(*p.Language)); lang != s.Language {
			s.Language = lang
			changed = true
		}
	}
	if p.Code != nil && *p.Code != s.Code {
		s.Code = *p.Code
		changed = true
	}
	if p.Description != nil && *p.Description != s.Description {
		s.Description = *p.Description
		changed = true
	}
	return changed
}

// Session is a recorded collaboration interval. EndedAt is nil while the
// session is still active and is set at most once.
type Session struct {
	ID        string     `json:"id"`
	RoomID    string     `json:"roomId"`
	Username  string     `json:"username"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

// NewSession mints an active session starting now.
func NewSession(roomID, username string, now time.Time) (Session, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return Session{}, fmt.Errorf("session room id is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return Session{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Username:  strings.TrimSpace(username),
		StartedAt: now,
	}, nil
}

// Counter names accepted by Stats.Add and Store.IncrementStat.
const (
	CounterRuns            = "runs"
	CounterAIExplains      = "aiExplains"
	CounterAIDebugs        = "aiDebugs"
	CounterVisualizes      = "visualizes"
	CounterSnippetsCreated = "snippetsCreated"
	CounterSessionsJoined  = "sessionsJoined"
)

// Stats is the singleton usage-counter record for the local profile.
// Every counter is monotonically non-decreasing; the zero value is the
// defined empty shape.
type Stats struct {
	Runs            int64      `json:"runs"`
	AIExplains      int64      `json:"aiExplains"`
	AIDebugs        int64      `json:"aiDebugs"`
	Visualizes      int64      `json:"visualizes"`
	SnippetsCreated int64      `json:"snippetsCreated"`
	SessionsJoined  int64      `json:"sessionsJoined"`
	LastActiveAt    *time.Time `json:"lastActiveAt,omitempty"`
}

// Counter returns the named counter value; ok is false for unknown names.
func (s Stats) Counter(name string) (int64, bool) {
	switch name {
	case CounterRuns:
		return s.Runs, true
	case CounterAIExplains:
		return s.AIExplains, true
	case CounterAIDebugs:
		return s.AIDebugs, true
	case CounterVisualizes:
		return s.Visualizes, true
	case CounterSnippetsCreated:
		return s.SnippetsCreated, true
	case CounterSessionsJoined:
		return s.SessionsJoined, true
	default:
		return 0, false
	}
}

// Add increments the named counter. Negative deltas are rejected: the
// counters are monotonic and reset is intentionally not exposed.
func (s *Stats) Add(name string, delta int64) error {
	if delta < 0 {
		return fmt.Errorf("counter %q: negative delta %d", name, delta)
	}
	switch name {
	case CounterRuns:
		s.Runs += delta
	case CounterAIExplains:
		s.AIExplains += delta
	case CounterAIDebugs:
		s.AIDebugs += delta
	case CounterVisualizes:
		s.Visualizes += delta
	case CounterSnippetsCreated:
		s.SnippetsCreated += delta
	case CounterSessionsJoined:
		s.SessionsJoined += delta
	default:
		return fmt.Errorf("unknown counter %q", name)
	}
	return nil
}

// Profile is the singleton local profile record. The zero value is the
// defined default shape returned on first access.
type Profile struct {
	DisplayName     string `json:"displayName"`
	Bio             string `json:"bio"`
	PhotoURL        string `json:"photoURL"`
	GithubURL       string `json:"githubUrl"`
	LinkedinURL     string `json:"linkedinUrl"`
	WebsiteURL      string `json:"websiteUrl"`
	TwitterURL      string `json:"twitterUrl"`
	PortfolioPublic bool   `json:"portfolioPublic"`
}

// ProfilePatch is a partial profile update; nil fields keep their value.
type ProfilePatch struct {
	DisplayName     *string
	Bio             *string
	PhotoURL        *string
	GithubURL       *string
	LinkedinURL     *string
	WebsiteURL      *string
	TwitterURL      *string
	PortfolioPublic *bool
}

// Apply merges the patch into p.
func (patch ProfilePatch) Apply(p *Profile) {
	if patch.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.PhotoURL != nil {
		p.PhotoURL = *patch.PhotoURL
	}
	if patch.GithubURL != nil {
		p.GithubURL = *patch.GithubURL
	}
	if patch.LinkedinURL != nil {
		p.LinkedinURL = *patch.LinkedinURL
	}
	if patch.WebsiteURL != nil {
		p.WebsiteURL = *patch.WebsiteURL
	}
	if patch.TwitterURL != nil {
		p.TwitterURL = *patch.TwitterURL
	}
	if patch.PortfolioPublic != nil {
		p.PortfolioPublic = *patch.PortfolioPublic
	}
}
