package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SeanTater/llm-pareto/internal/curate"
)

// ApplyRecord is one recorded curation run: what came in, how validation
// ended, and what the apply wrote. Findings carry the full report so the
// warnings accepted at apply time stay queryable later.
type ApplyRecord struct {
	ID        string           `json:"id"`
	Kind      string           `json:"kind"` // "add-models" or "add-benchmarks"
	Status    curate.Status    `json:"status"`
	Source    string           `json:"source"` // change-set path, "-" for stdin
	Inserted  int              `json:"inserted"`
	Updated   int              `json:"updated"`
	Skipped   int              `json:"skipped"`
	Errors    int              `json:"errors"`
	Warnings  int              `json:"warnings"`
	Outcome   json.RawMessage  `json:"outcome,omitempty"` // full outcome snapshot
	Findings  []curate.Finding `json:"findings,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// ApplyFilter specifies criteria for listing apply records.
type ApplyFilter struct {
	Status curate.Status `json:"status,omitempty"`
	Kind   string        `json:"kind,omitempty"`
	Limit  int           `json:"limit,omitempty"`
	Offset int           `json:"offset,omitempty"`
}

// Store defines the persistence interface for the curation audit trail.
type Store interface {
	RecordApply(ctx context.Context, rec ApplyRecord) (*ApplyRecord, error)
	GetApply(ctx context.Context, id string) (*ApplyRecord, error)
	ListApplies(ctx context.Context, filter ApplyFilter) ([]ApplyRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// NewRecord builds an ApplyRecord from a curation outcome. The store stamps
// ID and CreatedAt on insert.
func NewRecord(out *curate.Outcome, source string) (ApplyRecord, error) {
	rec := ApplyRecord{
		Kind:   out.Kind,
		Status: out.Status,
		Source: source,
	}
	if out.Report != nil {
		rec.Findings = out.Report.Findings
		rec.Errors = len(out.Report.Errors())
		rec.Warnings = len(out.Report.Warnings())
	}
	switch {
	case out.ModelPlan != nil:
		rec.Inserted, rec.Updated, rec.Skipped = out.ModelPlan.Counts()
	case out.BenchmarkPlan != nil:
		rec.Inserted, rec.Updated, rec.Skipped = out.BenchmarkPlan.Counts()
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return ApplyRecord{}, err
	}
	rec.Outcome = raw
	return rec, nil
}
