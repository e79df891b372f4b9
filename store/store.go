// Package store is the durable local progress repository: snippets,
// collaboration sessions, usage counters and the profile record, kept on
// one device with no server-side source of truth.
//
// The persistence substrate is SQLite holding one encoded JSON blob per
// logical key. Every mutation is a read-decode-mutate-encode-write of a
// single record inside one transaction, so a collection is replaced
// atomically or not at all.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/justcode-dev/justcode/model"
)

var ErrNotFound = errors.New("not found")

// Logical keys, one blob each.
const (
	keySnippets = "snippets"
	keySessions = "sessions"
	keyStats    = "stats"
	keyProfile  = "profile"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the store at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("chmod store path: %w", err)
	}
	if err := ApplyMigrations(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

// AddSnippet validates the input, mints a fresh id and appends the
// snippet to the collection.
func (s *Store) AddSnippet(ctx context.Context, input model.SnippetInput) (model.Snippet, error) {
	snippet, err := model.NewSnippet(input, s.now())
	if err != nil {
		return model.Snippet{}, err
	}
	err = mutateRecord(ctx, s, keySnippets, func(snippets *[]model.Snippet) error {
		*snippets = append(*snippets, snippet)
		return nil
	})
	if err != nil {
		return model.Snippet{}, err
	}
	return snippet, nil
}

// UpdateSnippet merges the patch into the snippet with the given id and
// bumps updatedAt. A missing id reports ErrNotFound and leaves the
// collection untouched; callers are free to ignore the error.
func (s *Store) UpdateSnippet(ctx context.Context, id string, patch model.SnippetPatch) error {
	return mutateRecord(ctx, s, keySnippets, func(snippets *[]model.Snippet) error {
		for i := range *snippets {
			if (*snippets)[i].ID != id {
				continue
			}
			if patch.Apply(&(*snippets)[i]) {
				(*snippets)[i].UpdatedAt = s.now()
			}
			return nil
		}
		return ErrNotFound
	})
}

// DeleteSnippet removes the snippet with the given id. Deleting an
// absent id is a silent no-op.
func (s *Store) DeleteSnippet(ctx context.Context, id string) error {
	return mutateRecord(ctx, s, keySnippets, func(snippets *[]model.Snippet) error {
		for i := range *snippets {
			if (*snippets)[i].ID == id {
				*snippets = append((*snippets)[:i], (*snippets)[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// ListSnippets returns the full collection in insertion order.
func (s *Store) ListSnippets(ctx context.Context) ([]model.Snippet, error) {
	var snippets []model.Snippet
	if err := readRecord(ctx, s, keySnippets, &snippets); err != nil {
		return nil, err
	}
	if snippets == nil {
		snippets = []model.Snippet{}
	}
	return snippets, nil
}

// RecordSessionJoin appends a new active session.
func (s *Store) RecordSessionJoin(ctx context.Context, roomID, username string) (model.Session, error) {
	session, err := model.NewSession(roomID, username, s.now())
	if err != nil {
		return model.Session{}, err
	}
	err = mutateRecord(ctx, s, keySessions, func(sessions *[]model.Session) error {
		*sessions = append(*sessions, session)
		return nil
	})
	if err != nil {
		return model.Session{}, err
	}
	return session, nil
}

// EndSession sets endedAt on the session with the given id. endedAt is
// set exactly once: ending an already-ended session is a no-op that
// keeps the original end time. A missing id reports ErrNotFound.
// Sessions are never deleted.
func (s *Store) EndSession(ctx context.Context, id string) error {
	now := s.now()
	return mutateRecord(ctx, s, keySessions, func(sessions *[]model.Session) error {
		for i := range *sessions {
			if (*sessions)[i].ID != id {
				continue
			}
			if (*sessions)[i].EndedAt == nil {
				(*sessions)[i].EndedAt = &now
			}
			return nil
		}
		return ErrNotFound
	})
}

// ListSessions returns the session collection in join order.
func (s *Store) ListSessions(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	if err := readRecord(ctx, s, keySessions, &sessions); err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	return sessions, nil
}

// IncrementStat adds delta to the named counter and bumps lastActiveAt.
// This is the single write path for all usage counters; routing every
// increment through here is what keeps the counters from drifting.
func (s *Store) IncrementStat(ctx context.Context, name string, delta int64) error {
	now := s.now()
	return mutateRecord(ctx, s, keyStats, func(stats *model.Stats) error {
		if err := stats.Add(name, delta); err != nil {
			return err
		}
		stats.LastActiveAt = &now
		return nil
	})
}

// TouchLastActive sets lastActiveAt to now without changing any counter.
func (s *Store) TouchLastActive(ctx context.Context) error {
	now := s.now()
	return mutateRecord(ctx, s, keyStats, func(stats *model.Stats) error {
		stats.LastActiveAt = &now
		return nil
	})
}

// GetStats returns the counters record; the defined empty shape when
// nothing was recorded yet, never a missing value.
func (s *Store) GetStats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	if err := readRecord(ctx, s, keyStats, &stats); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}

// GetProfile returns the profile record, defaulting to the empty shape.
func (s *Store) GetProfile(ctx context.Context) (model.Profile, error) {
	var profile model.Profile
	if err := readRecord(ctx, s, keyProfile, &profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

// UpdateProfile merges the patch into the profile record and returns the
// merged result.
func (s *Store) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (model.Profile, error) {
	var merged model.Profile
	err := mutateRecord(ctx, s, keyProfile, func(profile *model.Profile) error {
		patch.Apply(profile)
		merged = *profile
		return nil
	})
	if err != nil {
		return model.Profile{}, err
	}
	return merged, nil
}

// readRecord decodes the blob under key into out; an absent key leaves
// out at its zero value.
func readRecord[T any](ctx context.Context, s *Store, key string, out *T) error {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("read record %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode record %s: %w", key, err)
	}
	return nil
}

// mutateRecord is the read-decode-mutate-encode-write cycle every write
// goes through. The whole cycle runs in one transaction against the
// single connection, so two writes to the same key can never interleave
// and there is no lost-update window.
func mutateRecord[T any](ctx context.Context, s *Store, key string, fn func(*T) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}

	var value T
	row := tx.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("read record %s: %w", key, err)
		}
	} else if err := json.Unmarshal([]byte(raw), &value); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("decode record %s: %w", key, err)
	}

	if err := fn(&value); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("encode record %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO records(key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	value = excluded.value,
	updated_at = excluded.updated_at
`, key, string(encoded), ts(s.now())); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("write record %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record %s: %w", key, err)
	}
	return nil
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
