package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	machine     TEXT NOT NULL DEFAULT '',
	input       TEXT NOT NULL,
	succeeded   INTEGER NOT NULL,
	started_at  INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL,
	outcome     TEXT NOT NULL
)`

// Store implements ports.RunStore backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts or replaces the run.
func (s *Store) Save(ctx context.Context, record *domain.RunRecord) error {
	outcome, err := json.Marshal(record.Outcome)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	succeeded := 0
	if record.Outcome != nil && record.Outcome.Succeeded {
		succeeded = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, machine, input, succeeded, started_at, duration_ns, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			machine = excluded.machine,
			input = excluded.input,
			succeeded = excluded.succeeded,
			started_at = excluded.started_at,
			duration_ns = excluded.duration_ns,
			outcome = excluded.outcome`,
		record.ID, record.Machine, record.Input, succeeded,
		record.StartedAt.UnixNano(), int64(record.Duration), string(outcome),
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", record.ID, err)
	}
	return nil
}

// Load retrieves a run by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.RunRecord, error) {
	var (
		record    domain.RunRecord
		startedAt int64
		duration  int64
		outcome   string
	)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, machine, input, started_at, duration_ns, outcome FROM runs WHERE id = ?`, id)
	if err := row.Scan(&record.ID, &record.Machine, &record.Input, &startedAt, &duration, &outcome); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(outcome), &record.Outcome); err != nil {
		return nil, fmt.Errorf("unmarshal outcome: %w", err)
	}
	record.StartedAt = time.Unix(0, startedAt).UTC()
	record.Duration = time.Duration(duration)

	return &record, nil
}

// Delete removes a run.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	return nil
}

// List returns run IDs, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
