package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/SeanTater/llm-pareto/internal/catalog"
	"github.com/SeanTater/llm-pareto/internal/curate"
	"github.com/SeanTater/llm-pareto/internal/store"
)

// catalogStore returns the sharded catalog rooted at the configured data dir.
func catalogStore() *catalog.Store {
	return catalog.New(cfg.Catalog.Dir)
}

// readChangeSet loads a change-set file, honoring "-" for stdin. The second
// return is the source label recorded in the audit trail.
func readChangeSet(path string) ([]byte, string, error) {
	if path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", eris.Wrap(err, "read change-set from stdin")
		}
		return raw, "-", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", eris.Wrapf(err, "read change-set %s", path)
	}
	return raw, path, nil
}

// printOutcome renders one curation outcome: findings first, then the plan
// diff, then what happened.
func printOutcome(w io.Writer, out *curate.Outcome) {
	if out.Report != nil && len(out.Report.Findings) > 0 {
		fmt.Fprint(w, out.Report.Render())
	}
	switch {
	case out.ModelPlan != nil:
		fmt.Fprint(w, out.ModelPlan.Render())
	case out.BenchmarkPlan != nil:
		fmt.Fprint(w, out.BenchmarkPlan.Render())
	}

	switch out.Status {
	case curate.StatusApplied:
		a := out.Applied
		fmt.Fprintf(w, "Applied: %d inserted, %d updated, %d skipped (%s)\n",
			a.Inserted, a.Updated, a.Skipped, strings.Join(a.WrittenShards, ", "))
	case curate.StatusReported:
		fmt.Fprintln(w, "Dry run: no files written.")
	case curate.StatusRejected:
		fmt.Fprintln(w, "Rejected: no files written.")
	}
}

// recordApplyRun stores the outcome in the audit database. Best-effort: a
// missing or broken audit store never fails the curation itself.
func recordApplyRun(ctx context.Context, out *curate.Outcome, source string) {
	st, err := initStore(ctx)
	if err != nil {
		zap.L().Warn("audit store unavailable, run not recorded", zap.Error(err))
		return
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		zap.L().Warn("audit store migrate failed, run not recorded", zap.Error(err))
		return
	}

	rec, err := store.NewRecord(out, source)
	if err != nil {
		zap.L().Warn("audit record build failed", zap.Error(err))
		return
	}
	saved, err := st.RecordApply(ctx, rec)
	if err != nil {
		zap.L().Warn("audit record write failed", zap.Error(err))
		return
	}
	zap.L().Debug("curation run recorded", zap.String("id", saved.ID))
}
