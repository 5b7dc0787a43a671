package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/SeanTater/llm-pareto/internal/curate"
	"github.com/SeanTater/llm-pareto/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_apply_run": `INSERT INTO apply_runs (id, kind, status, source, inserted, updated, skipped, errors, warnings, outcome, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
	"get_apply_run":    `SELECT id, kind, status, source, inserted, updated, skipped, errors, warnings, outcome, created_at FROM apply_runs WHERE id = $1`,
	"get_findings":     `SELECT kind, severity, record, field, message FROM apply_findings WHERE run_id = $1 ORDER BY ord`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
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
	outcome    JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS apply_findings (
	id       TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
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
CREATE INDEX IF NOT EXISTS idx_apply_runs_created_at ON apply_runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_apply_findings_run_id ON apply_findings(run_id);
CREATE INDEX IF NOT EXISTS idx_apply_findings_severity ON apply_findings(severity);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) RecordApply(ctx context.Context, rec ApplyRecord) (*ApplyRecord, error) {
	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()

	var outcome any
	if len(rec.Outcome) > 0 {
		outcome = []byte(rec.Outcome)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO apply_runs (id, kind, status, source, inserted, updated, skipped, errors, warnings, outcome, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.Kind, string(rec.Status), rec.Source,
		rec.Inserted, rec.Updated, rec.Skipped, rec.Errors, rec.Warnings,
		outcome, rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert apply run")
	}

	if len(rec.Findings) > 0 {
		rows := make([][]any, 0, len(rec.Findings))
		for i, f := range rec.Findings {
			rows = append(rows, []any{
				uuid.New().String(), rec.ID, i,
				string(f.Kind), string(f.Severity), f.Record, f.Field, f.Message,
			})
		}
		cols := []string{"id", "run_id", "ord", "kind", "severity", "record", "field", "message"}
		if _, err := db.CopyFrom(ctx, s.pool, "apply_findings", cols, rows); err != nil {
			return nil, eris.Wrapf(err, "postgres: copy findings for run %s", rec.ID)
		}
	}

	return &rec, nil
}

func (s *PostgresStore) GetApply(ctx context.Context, id string) (*ApplyRecord, error) {
	var r ApplyRecord
	var outcomeNull *[]byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, kind, status, source, inserted, updated, skipped, errors, warnings, outcome, created_at
		 FROM apply_runs WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Kind, &r.Status, &r.Source,
		&r.Inserted, &r.Updated, &r.Skipped, &r.Errors, &r.Warnings,
		&outcomeNull, &r.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get apply run %s", id)
	}
	if outcomeNull != nil {
		r.Outcome = *outcomeNull
	}

	rows, err := s.pool.Query(ctx,
		`SELECT kind, severity, record, field, message FROM apply_findings WHERE run_id = $1 ORDER BY ord`,
		id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: findings for run %s", id)
	}
	defer rows.Close()

	for rows.Next() {
		var f curate.Finding
		if err := rows.Scan(&f.Kind, &f.Severity, &f.Record, &f.Field, &f.Message); err != nil {
			return nil, eris.Wrap(err, "postgres: scan finding")
		}
		r.Findings = append(r.Findings, f)
	}
	return &r, eris.Wrap(rows.Err(), "postgres: findings iterate")
}

func (s *PostgresStore) ListApplies(ctx context.Context, filter ApplyFilter) ([]ApplyRecord, error) {
	query := `SELECT id, kind, status, source, inserted, updated, skipped, errors, warnings, outcome, created_at FROM apply_runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Kind != "" {
		query += fmt.Sprintf(` AND kind = $%d`, argIdx)
		args = append(args, filter.Kind)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list apply runs")
	}
	defer rows.Close()

	var recs []ApplyRecord
	for rows.Next() {
		var r ApplyRecord
		var outcomeNull *[]byte

		if err := rows.Scan(&r.ID, &r.Kind, &r.Status, &r.Source,
			&r.Inserted, &r.Updated, &r.Skipped, &r.Errors, &r.Warnings,
			&outcomeNull, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan apply run")
		}
		if outcomeNull != nil {
			r.Outcome = *outcomeNull
		}
		recs = append(recs, r)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: list apply runs iterate")
}
