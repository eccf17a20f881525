package store

import (
	"context"
	"database/sql"
	"os"

	_ "modernc.org/sqlite"

	"loom/internal/config"
	"loom/internal/faults"
)

// Store wraps the SQLite library database.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the library database under the configured library
// directory and brings its schema up to date.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "open", "prepare library directory", err)
	}

	path := cfg.StorePath()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "open", "open database "+path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, faults.Wrap(faults.ErrTransient, "store", "open", "apply "+pragma, err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.applyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Stats summarizes the library for status output.
type Stats struct {
	Documents int64
	Hubs      int64
	Bonds     int64
	Edges     int64
	FileBytes int64
}

// LibraryStats counts stored documents, hubs, and bonds, and sums edge
// traversals across the whole library.
func (s *Store) LibraryStats(ctx context.Context) (Stats, error) {
	var stats Stats
	queries := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM documents`, &stats.Documents},
		{`SELECT COUNT(*) FROM hubs`, &stats.Hubs},
		{`SELECT COUNT(*) FROM bonds`, &stats.Bonds},
		{`SELECT COALESCE(SUM(count), 0) FROM bonds`, &stats.Edges},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return Stats{}, faults.Wrap(faults.ErrTransient, "store", "stats", "count library rows", err)
		}
	}
	if info, err := os.Stat(s.path); err == nil {
		stats.FileBytes = info.Size()
	}
	return stats, nil
}
