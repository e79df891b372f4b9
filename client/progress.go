package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Event is one usage event reported to the progress service. Metadata
// is event-specific: code runs carry language and codeLength, AI events
// add errorLength when debugging.
type Event struct {
	UserID    string         `json:"userId"`
	EventType string         `json:"eventType"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Event types accepted by the progress service.
const (
	EventCodeRun   = "code_run"
	EventAIExplain = "ai_explain"
	EventAIDebug   = "ai_debug"
	EventVisualize = "visualize"
)

// Dashboard is the server-side gamification snapshot for one user.
type Dashboard struct {
	User        DashboardUser        `json:"user"`
	DailyStreak int                  `json:"dailyStreak"`
	EventStats  map[string]EventStat `json:"eventStats"`
	Badges      []Badge              `json:"badges"`
}

type DashboardUser struct {
	TotalPoints int `json:"totalPoints"`
	Level       int `json:"level"`
}

type EventStat struct {
	Count int `json:"count"`
}

type Badge struct {
	BadgeID     string `json:"badgeId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Rarity      string `json:"rarity"`
}

// ProgressClient reports usage events to the remote progress service and
// reads back the dashboard. It is advisory: local counters are the
// source of truth and callers treat every failure here as non-fatal.
type ProgressClient struct {
	base
}

func NewProgressClient(baseURL string, httpClient *http.Client) *ProgressClient {
	return &ProgressClient{base: newBase(baseURL, httpClient)}
}

// WithUnaryTimeout returns a copy of the client whose calls are bounded
// by timeout instead of the default.
func (c *ProgressClient) WithUnaryTimeout(timeout time.Duration) *ProgressClient {
	if c == nil {
		return nil
	}
	clone := *c
	clone.unaryTimeout = timeout
	return &clone
}

// RecordEvent posts one usage event.
func (c *ProgressClient) RecordEvent(ctx context.Context, ev Event) error {
	_, err := c.request(ctx, http.MethodPost, "/api/progress/event", nil, ev)
	return err
}

type dashboardResponse struct {
	Success bool      `json:"success"`
	Data    Dashboard `json:"data"`
	Error   string    `json:"error"`
}

// GetDashboard fetches the gamification snapshot for the given user.
func (c *ProgressClient) GetDashboard(ctx context.Context, userID string) (Dashboard, error) {
	payload, err := c.request(ctx, http.MethodGet, "/api/progress/dashboard/"+userID, nil, nil)
	if err != nil {
		return Dashboard{}, err
	}
	var resp dashboardResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return Dashboard{}, fmt.Errorf("decode dashboard response: %w", err)
	}
	if !resp.Success {
		message := resp.Error
		if message == "" {
			message = "dashboard unavailable"
		}
		return Dashboard{}, &ServiceError{Message: message}
	}
	return resp.Data, nil
}
