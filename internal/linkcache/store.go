package linkcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed map from long URL to short URL.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or connects to the cache database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("link cache path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached short URL for longURL.
func (s *Store) Get(ctx context.Context, longURL string) (string, bool, error) {
	var short string
	err := s.db.QueryRowContext(ctx, `SELECT short_url FROM short_links WHERE long_url = ?`, longURL).Scan(&short)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get short link: %w", err)
	}
	return short, true, nil
}

// Put stores or replaces the short URL for longURL.
func (s *Store) Put(ctx context.Context, longURL, shortURL string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO short_links (long_url, short_url, created_at) VALUES (?, ?, ?)
         ON CONFLICT(long_url) DO UPDATE SET short_url = excluded.short_url, created_at = excluded.created_at`,
		longURL, shortURL, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put short link: %w", err)
	}
	return nil
}

// Count returns the number of cached links.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM short_links`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count short links: %w", err)
	}
	return n, nil
}

// Stats summarizes the cache for the CLI.
type Stats struct {
	Path     string
	Entries  int
	Oldest   time.Time
	Newest   time.Time
	FileSize int64
}

// Stats reports entry counts, age range and file size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}
	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), MIN(created_at), MAX(created_at) FROM short_links`,
	).Scan(&stats.Entries, &oldest, &newest)
	if err != nil {
		return stats, fmt.Errorf("query cache stats: %w", err)
	}
	stats.Oldest = parseTime(oldest)
	stats.Newest = parseTime(newest)
	if info, err := os.Stat(s.path); err == nil {
		stats.FileSize = info.Size()
	}
	return stats, nil
}

// Clear removes every cached link and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM short_links`)
	if err != nil {
		return 0, fmt.Errorf("clear short links: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Remove deletes the database files at path. It is the recovery path for
// ErrSchemaMismatch, where the store cannot be opened at all.
func Remove(path string) error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path+suffix, err)
		}
	}
	return nil
}

func parseTime(value sql.NullString) time.Time {
	if !value.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
