package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/contact-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	source     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	summary    TEXT,
	error      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS run_fixes (
	id        TEXT PRIMARY KEY,
	run_id    TEXT NOT NULL REFERENCES runs(id),
	line      INTEGER NOT NULL,
	company   TEXT NOT NULL,
	email     TEXT NOT NULL,
	old_first TEXT NOT NULL,
	old_last  TEXT NOT NULL,
	new_first TEXT NOT NULL,
	new_last  TEXT NOT NULL,
	outcome   TEXT NOT NULL,
	reason    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_unresolved (
	id             TEXT PRIMARY KEY,
	run_id         TEXT NOT NULL REFERENCES runs(id),
	line           INTEGER NOT NULL,
	company        TEXT NOT NULL,
	email          TEXT NOT NULL,
	first_name     TEXT NOT NULL,
	last_name      TEXT NOT NULL,
	reason         TEXT NOT NULL,
	proposed_first TEXT NOT NULL DEFAULT '',
	proposed_last  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_run_fixes_run_id ON run_fixes(run_id);
CREATE INDEX IF NOT EXISTS idx_run_unresolved_run_id ON run_unresolved(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, kind model.RunKind, source string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, source, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(kind), source, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Kind:      kind,
		Source:    source,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, summary map[string]any) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET summary = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(summaryJSON), string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, msg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET error = ?, status = ?, updated_at = ? WHERE id = ?`,
		msg, string(model.RunStatusFailed), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, source, status, summary, error, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, kind, source, status, summary, error, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, filter.Source)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// SaveFixes appends the fix audit rows of a run in one transaction.
func (s *SQLiteStore) SaveFixes(ctx context.Context, runID string, fixes []model.FixEntry) error {
	return s.inTx(ctx, "save fixes", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_fixes (id, run_id, line, company, email, old_first, old_last, new_first, new_last, outcome, reason)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close() //nolint:errcheck

		for _, f := range fixes {
			if _, err := stmt.ExecContext(ctx,
				uuid.New().String(), runID, f.Line, f.Company, f.Email,
				f.OldFirst, f.OldLast, f.NewFirst, f.NewLast, f.Outcome, f.Reason,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveUnresolved appends the manual review rows of a run in one transaction.
func (s *SQLiteStore) SaveUnresolved(ctx context.Context, runID string, entries []model.UnresolvedEntry) error {
	return s.inTx(ctx, "save unresolved", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_unresolved (id, run_id, line, company, email, first_name, last_name, reason, proposed_first, proposed_last)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close() //nolint:errcheck

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx,
				uuid.New().String(), runID, e.Line, e.Company, e.Email,
				e.FirstName, e.LastName, e.Reason, e.ProposedFirst, e.ProposedLast,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) ListFixes(ctx context.Context, runID string) ([]model.FixEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT line, company, email, old_first, old_last, new_first, new_last, outcome, reason
		 FROM run_fixes WHERE run_id = ? ORDER BY line`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list fixes %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	var out []model.FixEntry
	for rows.Next() {
		var f model.FixEntry
		if err := rows.Scan(&f.Line, &f.Company, &f.Email, &f.OldFirst, &f.OldLast,
			&f.NewFirst, &f.NewLast, &f.Outcome, &f.Reason); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan fix")
		}
		out = append(out, f)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list fixes iterate")
}

func (s *SQLiteStore) ListUnresolved(ctx context.Context, runID string) ([]model.UnresolvedEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT line, company, email, first_name, last_name, reason, proposed_first, proposed_last
		 FROM run_unresolved WHERE run_id = ? ORDER BY line`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list unresolved %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	var out []model.UnresolvedEntry
	for rows.Next() {
		var e model.UnresolvedEntry
		if err := rows.Scan(&e.Line, &e.Company, &e.Email, &e.FirstName, &e.LastName,
			&e.Reason, &e.ProposedFirst, &e.ProposedLast); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan unresolved")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list unresolved iterate")
}

// helpers

func (s *SQLiteStore) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrapf(err, "sqlite: %s: begin", op)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return eris.Wrapf(err, "sqlite: %s", op)
	}
	return eris.Wrapf(tx.Commit(), "sqlite: %s: commit", op)
}

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var summaryJSON sql.NullString

	err := row.Scan(&r.ID, &r.Kind, &r.Source, &r.Status, &summaryJSON, &r.Error, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if summaryJSON.Valid && summaryJSON.String != "" {
		if err := json.Unmarshal([]byte(summaryJSON.String), &r.Summary); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal summary")
		}
	}
	return &r, nil
}
