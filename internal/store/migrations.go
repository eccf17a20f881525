package store

import (
	"context"
	"embed"
	"sort"
	"time"

	"loom/internal/faults"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// applyMigrations brings the schema up to date. Each migration file runs in
// its own transaction and is recorded in schema_migrations so reopening a
// store is idempotent.
func (s *Store) applyMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "migrate", "create schema_migrations table", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return faults.Wrap(faults.ErrIntegrity, "store", "migrate", "read embedded migrations", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		applied, err := s.migrationApplied(ctx, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := s.runMigration(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) migrationApplied(ctx context.Context, version string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&count)
	if err != nil {
		return false, faults.Wrap(faults.ErrTransient, "store", "migrate", "check migration "+version, err)
	}
	return count > 0, nil
}

func (s *Store) runMigration(ctx context.Context, version string) error {
	script, err := migrationFiles.ReadFile("migrations/" + version)
	if err != nil {
		return faults.Wrap(faults.ErrIntegrity, "store", "migrate", "read migration "+version, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "migrate", "begin migration "+version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(script)); err != nil {
		return faults.Wrap(faults.ErrIntegrity, "store", "migrate", "apply migration "+version, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
		version, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "migrate", "record migration "+version, err)
	}
	if err := tx.Commit(); err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "migrate", "commit migration "+version, err)
	}
	return nil
}
