package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeanTater/llm-pareto/internal/curate"
)

func TestNewRecord_FromModelOutcome(t *testing.T) {
	t.Parallel()

	out := &curate.Outcome{
		Kind:   "add-models",
		Status: curate.StatusApplied,
		Report: &curate.Report{Findings: []curate.Finding{
			{Kind: curate.KindReference, Severity: curate.SeverityWarning, Record: "m1", Message: "unknown benchmark"},
			{Kind: curate.KindNote, Severity: curate.SeverityInfo, Record: "m2", Message: "will update existing record"},
		}},
		ModelPlan: &curate.ModelPlan{Ops: []curate.ModelOp{
			{Action: curate.ActionInsert, ID: "m1"},
			{Action: curate.ActionUpdate, ID: "m2"},
			{Action: curate.ActionSkip, ID: "m3"},
		}},
	}

	rec, err := NewRecord(out, "changes.json")
	require.NoError(t, err)

	assert.Equal(t, "add-models", rec.Kind)
	assert.Equal(t, curate.StatusApplied, rec.Status)
	assert.Equal(t, "changes.json", rec.Source)
	assert.Equal(t, 1, rec.Inserted)
	assert.Equal(t, 1, rec.Updated)
	assert.Equal(t, 1, rec.Skipped)
	assert.Equal(t, 0, rec.Errors)
	assert.Equal(t, 1, rec.Warnings)
	assert.Len(t, rec.Findings, 2)
	assert.Contains(t, string(rec.Outcome), `"kind":"add-models"`)
	assert.Empty(t, rec.ID, "store assigns the id on insert")
}

func TestNewRecord_FromRejectedBenchmarkOutcome(t *testing.T) {
	t.Parallel()

	out := &curate.Outcome{
		Kind:   "add-benchmarks",
		Status: curate.StatusRejected,
		Report: &curate.Report{Findings: []curate.Finding{
			{Kind: curate.KindSchema, Severity: curate.SeverityError, Record: "mmlu", Field: "name", Message: "name is required"},
		}},
	}

	rec, err := NewRecord(out, "-")
	require.NoError(t, err)

	assert.Equal(t, curate.StatusRejected, rec.Status)
	assert.Equal(t, "-", rec.Source)
	assert.Equal(t, 1, rec.Errors)
	assert.Zero(t, rec.Inserted+rec.Updated+rec.Skipped, "no plan when rejected")
}
