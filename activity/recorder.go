// Package activity routes user actions into the local counters and,
// when a signed-in user is present, mirrors them to the remote progress
// service. Local counters are authoritative; the remote mirror is
// best-effort and its failures are logged and swallowed.
package activity

import (
	"context"
	"log/slog"

	"github.com/justcode-dev/justcode/client"
	"github.com/justcode-dev/justcode/model"
)

// EventRecorder is the remote side of activity recording, satisfied by
// *client.ProgressClient.
type EventRecorder interface {
	RecordEvent(ctx context.Context, ev client.Event) error
}

// Counters is the local side, satisfied by *store.Store.
type Counters interface {
	IncrementStat(ctx context.Context, name string, delta int64) error
	TouchLastActive(ctx context.Context) error
}

// Recorder fans each user action out to the remote event stream and the
// local counter. The remote call goes first so its metadata reflects
// the action as submitted; the local increment always runs, whether or
// not the remote call succeeded.
type Recorder struct {
	counters Counters
	events   EventRecorder
	userID   string
	log      *slog.Logger
}

// NewRecorder builds a recorder for the given user. An empty userID or
// nil events means guest mode: remote reporting is skipped entirely and
// only local counters move.
func NewRecorder(counters Counters, events EventRecorder, userID string, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Recorder{counters: counters, events: events, userID: userID, log: log}
}

// CodeRun records one code execution in the given language.
func (r *Recorder) CodeRun(ctx context.Context, language string, codeLength int) error {
	r.report(ctx, client.EventCodeRun, map[string]any{
		"language":   language,
		"codeLength": codeLength,
	})
	return r.counters.IncrementStat(ctx, model.CounterRuns, 1)
}

// AIExplain records one use of the AI explain action.
func (r *Recorder) AIExplain(ctx context.Context, language string, codeLength int) error {
	r.report(ctx, client.EventAIExplain, map[string]any{
		"language":   language,
		"codeLength": codeLength,
	})
	return r.counters.IncrementStat(ctx, model.CounterAIExplains, 1)
}

// AIDebug records one use of the AI debug action.
func (r *Recorder) AIDebug(ctx context.Context, language string, codeLength, errorLength int) error {
	r.report(ctx, client.EventAIDebug, map[string]any{
		"language":    language,
		"codeLength":  codeLength,
		"errorLength": errorLength,
	})
	return r.counters.IncrementStat(ctx, model.CounterAIDebugs, 1)
}

// Visualize records one execution-trace generation.
func (r *Recorder) Visualize(ctx context.Context, language string, codeLength int) error {
	r.report(ctx, client.EventVisualize, map[string]any{
		"language":   language,
		"codeLength": codeLength,
	})
	return r.counters.IncrementStat(ctx, model.CounterVisualizes, 1)
}

// SnippetSaved records a snippet save. Saves are local-only: the counter
// moves and lastActiveAt is bumped, but no remote event is emitted.
func (r *Recorder) SnippetSaved(ctx context.Context) error {
	return r.counters.IncrementStat(ctx, model.CounterSnippetsCreated, 1)
}

// SessionJoined records a collaboration session join.
func (r *Recorder) SessionJoined(ctx context.Context) error {
	return r.counters.IncrementStat(ctx, model.CounterSessionsJoined, 1)
}

// Touch bumps lastActiveAt without moving any counter.
func (r *Recorder) Touch(ctx context.Context) error {
	return r.counters.TouchLastActive(ctx)
}

func (r *Recorder) report(ctx context.Context, eventType string, metadata map[string]any) {
	if r.events == nil || r.userID == "" {
		return
	}
	err := r.events.RecordEvent(ctx, client.Event{
		UserID:    r.userID,
		EventType: eventType,
		Metadata:  metadata,
	})
	if err != nil {
		r.log.Warn("progress event not recorded", "eventType", eventType, "error", err)
	}
}
