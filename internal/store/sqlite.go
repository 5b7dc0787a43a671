package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/SeanTater/llm-pareto/internal/curate"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS apply_runs (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	status     TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	inserted   INTEGER NOT NULL DEFAULT 0,
	updated    INTEGER NOT NULL DEFAULT 0,
	skipped    INTEGER NOT NULL DEFAULT 0,
	errors     INTEGER NOT NULL DEFAULT 0,
	warnings   INTEGER NOT NULL DEFAULT 0,
	outcome    TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS apply_findings (
	id       TEXT PRIMARY KEY,
	run_id   TEXT NOT NULL REFERENCES apply_runs(id),
	ord      INTEGER NOT NULL,
	kind     TEXT NOT NULL,
	severity TEXT NOT NULL,
	record   TEXT,
	field    TEXT,
	message  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_apply_runs_status ON apply_runs(status);
CREATE INDEX IF NOT EXISTS idx_apply_runs_kind ON apply_runs(kind);
CREATE INDEX IF NOT EXISTS idx_apply_findings_run_id ON apply_findings(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordApply(ctx context.Context, rec ApplyRecord) (*ApplyRecord, error) {
	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO apply_runs (id, kind, status, source, inserted, updated, skipped, errors, warnings, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Kind, string(rec.Status), rec.Source,
		rec.Inserted, rec.Updated, rec.Skipped, rec.Errors, rec.Warnings,
		nullableJSON(rec.Outcome), rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert apply run")
	}

	for i, f := range rec.Findings {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO apply_findings (id, run_id, ord, kind, severity, record, field, message)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), rec.ID, i, string(f.Kind), string(f.Severity), f.Record, f.Field, f.Message,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert finding for run %s", rec.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit apply run")
	}
	return &rec, nil
}

func (s *SQLiteStore) GetApply(ctx context.Context, id string) (*ApplyRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, status, source, inserted, updated, skipped, errors, warnings, outcome, created_at
		 FROM apply_runs WHERE id = ?`,
		id,
	)
	rec, err := scanApply(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, severity, record, field, message FROM apply_findings WHERE run_id = ? ORDER BY ord`,
		id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: findings for run %s", id)
	}
	defer rows.Close()

	for rows.Next() {
		var f curate.Finding
		if err := rows.Scan(&f.Kind, &f.Severity, &f.Record, &f.Field, &f.Message); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan finding")
		}
		rec.Findings = append(rec.Findings, f)
	}
	return rec, eris.Wrap(rows.Err(), "sqlite: findings iterate")
}

func (s *SQLiteStore) ListApplies(ctx context.Context, filter ApplyFilter) ([]ApplyRecord, error) {
	query := `SELECT id, kind, status, source, inserted, updated, skipped, errors, warnings, outcome, created_at
	          FROM apply_runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, filter.Kind)
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
		return nil, eris.Wrap(err, "sqlite: list apply runs")
	}
	defer rows.Close()

	var recs []ApplyRecord
	for rows.Next() {
		r, err := scanApply(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *r)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: list apply runs iterate")
}

// helpers

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanApply(row scannable) (*ApplyRecord, error) {
	var r ApplyRecord
	var outcome sql.NullString

	err := row.Scan(&r.ID, &r.Kind, &r.Status, &r.Source,
		&r.Inserted, &r.Updated, &r.Skipped, &r.Errors, &r.Warnings,
		&outcome, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("apply run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan apply run")
	}

	if outcome.Valid {
		r.Outcome = []byte(outcome.String)
	}
	return &r, nil
}
