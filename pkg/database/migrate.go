package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-admin-api/pkg/database/migrations"
)

// Migration is one versioned schema change.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// LoadMigrations reads the paired NNN_name.up.sql / NNN_name.down.sql files from fsys in version order.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		name := entry.Name()
		var direction string
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			direction = "up"
		case strings.HasSuffix(name, ".down.sql"):
			direction = "down"
		default:
			continue
		}

		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", name, err)
		}

		m, ok := byVersion[version]
		if !ok {
			base := strings.TrimSuffix(strings.TrimSuffix(name, ".up.sql"), ".down.sql")
			m = &Migration{Version: version, Name: base}
			byVersion[version] = m
		}
		if direction == "up" {
			m.Up = string(content)
		} else {
			m.Down = string(content)
		}
	}

	result := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" {
			return nil, fmt.Errorf("migration %s has no up script", m.Name)
		}
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Version < result[j].Version })
	return result, nil
}

// Migrate applies every embedded migration newer than the recorded schema version.
// It returns the versions applied during this call.
func Migrate(ctx context.Context, db *sqlx.DB) ([]int, error) {
	all, err := LoadMigrations(migrations.FS)
	if err != nil {
		return nil, err
	}
	return apply(ctx, db, all)
}

// Rollback reverts the most recently applied migration and returns its version, or 0 when none is applied.
func Rollback(ctx context.Context, db *sqlx.DB) (int, error) {
	all, err := LoadMigrations(migrations.FS)
	if err != nil {
		return 0, err
	}
	if err := ensureVersionTable(ctx, db); err != nil {
		return 0, err
	}
	current, err := CurrentVersion(ctx, db)
	if err != nil || current == 0 {
		return 0, err
	}

	for _, m := range all {
		if m.Version != current {
			continue
		}
		if m.Down == "" {
			return 0, fmt.Errorf("migration %s has no down script", m.Name)
		}
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return 0, fmt.Errorf("begin rollback %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, m.Down); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("executing rollback %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, db.Rebind("DELETE FROM schema_migrations WHERE version = ?"), m.Version); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("unrecord migration %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("commit rollback %s: %w", m.Name, err)
		}
		return m.Version, nil
	}
	return 0, fmt.Errorf("applied version %d has no migration file", current)
}

// CurrentVersion returns the highest applied schema version.
func CurrentVersion(ctx context.Context, db *sqlx.DB) (int, error) {
	var version int
	if err := db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return 0, fmt.Errorf("getting current version: %w", err)
	}
	return version, nil
}

func apply(ctx context.Context, db *sqlx.DB, all []Migration) ([]int, error) {
	if err := ensureVersionTable(ctx, db); err != nil {
		return nil, err
	}
	current, err := CurrentVersion(ctx, db)
	if err != nil {
		return nil, err
	}

	var applied []int
	for _, m := range all {
		if m.Version <= current {
			continue
		}
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("begin migration %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("executing migration %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, db.Rebind("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)"), m.Version, time.Now().UTC()); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("record migration %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("commit migration %s: %w", m.Name, err)
		}
		applied = append(applied, m.Version)
	}
	return applied, nil
}

func ensureVersionTable(ctx context.Context, db *sqlx.DB) error {
	const query = `CREATE TABLE IF NOT EXISTS schema_migrations (
        version INTEGER PRIMARY KEY,
        applied_at TIMESTAMP NOT NULL
    )`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}
	return nil
}
