// Package history keeps the watch history in a local SQLite database. One
// row exists per title/season/episode; opening it again refreshes the row.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite"

	"streamit/internal/media"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id        TEXT    NOT NULL,
	title     TEXT    NOT NULL,
	type      TEXT    NOT NULL,
	season    INTEGER NOT NULL DEFAULT 0,
	episode   INTEGER NOT NULL DEFAULT 0,
	played    INTEGER NOT NULL DEFAULT 0,
	viewed_at INTEGER NOT NULL,
	PRIMARY KEY (id, season, episode)
);
CREATE INDEX IF NOT EXISTS history_viewed_at ON history (viewed_at DESC);
`

// Store is a watch history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	// A single connection serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts or refreshes an entry. Once an entry has been played it
// stays marked as played.
func (s *Store) Record(ctx context.Context, e media.HistoryEntry) error {
	if e.ViewedAt.IsZero() {
		e.ViewedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, title, type, season, episode, played, viewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id, season, episode) DO UPDATE SET
			title     = excluded.title,
			type      = excluded.type,
			played    = MAX(history.played, excluded.played),
			viewed_at = excluded.viewed_at
	`, e.ID, e.Title, e.Type.String(), e.Season, e.Episode, boolInt(e.Played), e.ViewedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving history entry %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns up to limit entries, most recently viewed first. A limit
// of zero or less returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]media.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, type, season, episode, played, viewed_at
		FROM history
		ORDER BY viewed_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []media.HistoryEntry
	for rows.Next() {
		var (
			e      media.HistoryEntry
			kind   string
			played int
			viewed int64
		)
		if err := rows.Scan(&e.ID, &e.Title, &kind, &e.Season, &e.Episode, &played, &viewed); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		if mt, err := media.ParseMediaType(kind); err == nil {
			e.Type = mt
		}
		e.Played = played != 0
		e.ViewedAt = time.Unix(0, viewed)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return entries, nil
}

// Remove deletes an entry from the history.
func (s *Store) Remove(ctx context.Context, id string, season, episode int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM history WHERE id = ? AND season = ? AND episode = ?`, id, season, episode)
	if err != nil {
		return fmt.Errorf("removing history entry %s: %w", id, err)
	}
	return nil
}

// Clear deletes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// FormatForDisplay creates one display line per entry.
func FormatForDisplay(entries []media.HistoryEntry, now time.Time) []string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		display := e.Title
		if e.Type == media.TV && e.Season > 0 {
			display += fmt.Sprintf(" S%02dE%02d", e.Season, e.Episode)
		}
		if e.Played {
			display += " [played]"
		}
		display += " - " + humanize.RelTime(e.ViewedAt, now, "ago", "from now")
		items = append(items, display)
	}
	return items
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
