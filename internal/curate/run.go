package curate

import (
	"time"

	"github.com/SeanTater/llm-pareto/internal/catalog"
	"github.com/SeanTater/llm-pareto/internal/registry"
)

// Status is the terminal state of one curation invocation.
type Status string

const (
	StatusReported Status = "reported" // dry-run: validated and planned, nothing written
	StatusApplied  Status = "applied"
	StatusRejected Status = "rejected" // validation errors, nothing written
)

// Options controls one curation run.
type Options struct {
	DryRun bool
	Now    time.Time // manifest/shard stamp; zero means time.Now
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Outcome is the result of one change-set run: the validation report, the
// merge plan (absent when rejected), and the apply result (absent unless
// applied).
type Outcome struct {
	Kind          string         `json:"kind"`
	Status        Status         `json:"status"`
	Report        *Report        `json:"report,omitempty"`
	ModelPlan     *ModelPlan     `json:"model_plan,omitempty"`
	BenchmarkPlan *BenchmarkPlan `json:"benchmark_plan,omitempty"`
	Applied       *ApplyResult   `json:"applied,omitempty"`
}

// AddModels runs the full add-models path: parse, validate, plan, then apply
// or report. A returned error is a fatal input or IO failure; validation
// problems come back inside the Outcome.
func AddModels(st *catalog.Store, raw []byte, opts Options) (*Outcome, error) {
	cs, err := ParseModelChangeSet(raw)
	if err != nil {
		return nil, err
	}
	cat, err := st.Load()
	if err != nil {
		return nil, err
	}
	reg := registry.New(cat)

	out := &Outcome{Kind: "add-models"}
	out.Report = ValidateModelChangeSet(cs, cat, reg)
	if out.Report.HasErrors() {
		out.Status = StatusRejected
		return out, nil
	}

	out.ModelPlan = PlanModelMerge(cs, cat)
	if opts.DryRun {
		out.Status = StatusReported
		return out, nil
	}

	out.Applied, err = ApplyModelPlan(st, out.ModelPlan, opts.now())
	if err != nil {
		return nil, err
	}
	out.Status = StatusApplied
	return out, nil
}

// AddBenchmarks runs the full add-benchmarks path, mirroring AddModels.
func AddBenchmarks(st *catalog.Store, raw []byte, opts Options) (*Outcome, error) {
	cs, err := ParseBenchmarkChangeSet(raw)
	if err != nil {
		return nil, err
	}
	cat, err := st.Load()
	if err != nil {
		return nil, err
	}
	reg := registry.New(cat)

	out := &Outcome{Kind: "add-benchmarks"}
	out.Report = ValidateBenchmarkChangeSet(cs, cat, reg)
	if out.Report.HasErrors() {
		out.Status = StatusRejected
		return out, nil
	}

	out.BenchmarkPlan = PlanBenchmarkMerge(cs, cat)
	if opts.DryRun {
		out.Status = StatusReported
		return out, nil
	}

	out.Applied, err = ApplyBenchmarkPlan(st, out.BenchmarkPlan, opts.now())
	if err != nil {
		return nil, err
	}
	out.Status = StatusApplied
	return out, nil
}

// Validate loads every shard and re-runs the schema and referential checks
// at catalog scope.
func Validate(st *catalog.Store) (*Report, error) {
	cat, err := st.Load()
	if err != nil {
		return nil, err
	}
	return ValidateCatalog(cat, registry.New(cat)), nil
}
