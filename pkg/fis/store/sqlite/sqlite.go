package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/cognicore/fis/pkg/fis/internalerr"
	"github.com/cognicore/fis/pkg/fis/membership"
	"github.com/cognicore/fis/pkg/fis/store"
)

// timeLayout is fixed width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: pragmas are per connection and writers serialize anyway.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT,
	created_at TEXT NOT NULL,
	inputs TEXT
);

CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);

CREATE TABLE IF NOT EXISTS run_firings (
	run_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	rule TEXT NOT NULL,
	output TEXT NOT NULL,
	degree REAL NOT NULL,
	kind TEXT NOT NULL DEFAULT '',
	points TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY(run_id, idx),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS run_outputs (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	variable TEXT NOT NULL,
	label TEXT NOT NULL,
	kind TEXT NOT NULL,
	points TEXT NOT NULL,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts a run with its firings and outputs in one transaction
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id: %w", internalerr.ErrInvalidInput)
	}

	inputs, err := json.Marshal(r.Inputs)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, created_at, inputs) VALUES (?, ?, ?, ?)`,
		r.ID, r.Source, r.CreatedAt.UTC().Format(timeLayout), string(inputs),
	)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("save run %s: %w", r.ID, internalerr.ErrDuplicate)
		}
		return err
	}

	if err := insertFirings(ctx, tx, r.ID, r.Firings); err != nil {
		return err
	}
	if err := insertOutputs(ctx, tx, r.ID, r.Outputs); err != nil {
		return err
	}

	return tx.Commit()
}

func insertFirings(ctx context.Context, tx *sql.Tx, runID string, firings []store.Firing) error {
	if len(firings) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_firings (run_id, idx, rule, output, degree, kind, points) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, f := range firings {
		points, err := json.Marshal(f.Function.Points)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, f.Index, f.Rule, f.Output, f.Degree, string(f.Function.Kind), string(points)); err != nil {
			return err
		}
	}
	return nil
}

func insertOutputs(ctx context.Context, tx *sql.Tx, runID string, outputs []store.OutputValue) error {
	if len(outputs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_outputs (run_id, position, variable, label, kind, points) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, o := range outputs {
		points, err := json.Marshal(o.Function.Points)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, i, o.Variable, o.Label, string(o.Function.Kind), string(points)); err != nil {
			return err
		}
	}
	return nil
}

// GetRun retrieves a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	r, err := s.loadRun(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// ListRuns returns the most recent runs first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	runs := make([]store.Run, 0, len(ids))
	for _, id := range ids {
		r, err := s.loadRun(ctx, id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, nil
}

func (s *sqliteStore) loadRun(ctx context.Context, id string) (store.Run, error) {
	var (
		r         store.Run
		createdAt string
		inputs    sql.NullString
		source    sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, created_at, inputs FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &source, &createdAt, &inputs)
	if err != nil {
		return store.Run{}, err
	}
	r.Source = source.String

	r.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("run %s created_at: %w", id, err)
	}
	if inputs.Valid && inputs.String != "" && inputs.String != "null" {
		if err := json.Unmarshal([]byte(inputs.String), &r.Inputs); err != nil {
			return store.Run{}, fmt.Errorf("run %s inputs: %w", id, err)
		}
	}

	if r.Firings, err = s.loadFirings(ctx, id); err != nil {
		return store.Run{}, err
	}
	if r.Outputs, err = s.loadOutputs(ctx, id); err != nil {
		return store.Run{}, err
	}
	return r, nil
}

func (s *sqliteStore) loadFirings(ctx context.Context, id string) ([]store.Firing, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT idx, rule, output, degree, kind, points FROM run_firings WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var firings []store.Firing
	for rows.Next() {
		var (
			f      store.Firing
			kind   string
			points string
		)
		if err := rows.Scan(&f.Index, &f.Rule, &f.Output, &f.Degree, &kind, &points); err != nil {
			return nil, err
		}
		f.Function.Kind = membership.Kind(kind)
		if err := json.Unmarshal([]byte(points), &f.Function.Points); err != nil {
			return nil, fmt.Errorf("run %s firing %d: %w", id, f.Index, err)
		}
		firings = append(firings, f)
	}
	return firings, rows.Err()
}

func (s *sqliteStore) loadOutputs(ctx context.Context, id string) ([]store.OutputValue, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT variable, label, kind, points FROM run_outputs WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outputs []store.OutputValue
	for rows.Next() {
		var (
			o      store.OutputValue
			kind   string
			points string
		)
		if err := rows.Scan(&o.Variable, &o.Label, &kind, &points); err != nil {
			return nil, err
		}
		o.Function.Kind = membership.Kind(kind)
		if err := json.Unmarshal([]byte(points), &o.Function.Points); err != nil {
			return nil, fmt.Errorf("run %s output %s = %s: %w", id, o.Variable, o.Label, err)
		}
		outputs = append(outputs, o)
	}
	return outputs, rows.Err()
}

func isConstraint(err error) bool {
	var se *msqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
