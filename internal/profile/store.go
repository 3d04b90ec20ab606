package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("profile run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	program     TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL,
	result      TEXT NOT NULL,
	profile     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_program ON runs (program, started_at);
`

// Store persists snapshots in a sqlite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the database at path.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize profile store %s: %w", path, err)
	}
	log.Debug().Str("path", path).Msg("profile store opened")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts snap. Saving the same run twice replaces it.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	data, err := snap.JSON()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, program, started_at, duration_ns, result, profile) VALUES (?, ?, ?, ?, ?, ?)`,
		snap.RunID.String(), snap.Program, snap.StartedAt.UnixNano(), int64(snap.Duration), snap.Result, string(data))
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", snap.RunID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT profile FROM runs WHERE id = ?`, id.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return ParseJSON([]byte(data))
}

// List returns the most recent runs first. An empty program lists every
// program; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, program string, limit int) ([]*Snapshot, error) {
	query := `SELECT profile FROM runs`
	var args []any
	if program != "" {
		query += ` WHERE program = ?`
		args = append(args, program)
	}
	query += ` ORDER BY started_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Snapshot
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		snap, err := ParseJSON([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Prune deletes runs that started before cutoff and reports how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
