package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/SeanTater/llm-pareto/internal/curate"
	"github.com/SeanTater/llm-pareto/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded curation runs",
	Long:  "Lists the audit trail of curation runs: what came in, how validation ended, and what the apply wrote.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("history"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		kind, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")

		recs, err := st.ListApplies(ctx, store.ApplyFilter{
			Status: curate.Status(status),
			Kind:   kind,
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "history list")
		}

		if len(recs) == 0 {
			fmt.Fprintln(os.Stderr, "No curation runs recorded.")
			return nil
		}

		formatHistory(os.Stdout, recs)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the full outcome of one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("history"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		rec, err := st.GetApply(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "history show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	historyCmd.Flags().String("status", "", "filter by status (applied, reported, rejected)")
	historyCmd.Flags().String("kind", "", "filter by kind (add-models, add-benchmarks)")
	historyCmd.Flags().Int("limit", 50, "max number of runs to display")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

// formatHistory writes a tabular list of recorded runs to w.
func formatHistory(out io.Writer, recs []store.ApplyRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tSTATUS\tINS\tUPD\tSKIP\tERR\tWARN\tSOURCE\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t----\t------\t---\t---\t----\t---\t----\t------\t-------")

	for _, r := range recs {
		source := r.Source
		if len(source) > 30 {
			source = source[:27] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			truncateID(r.ID),
			r.Kind,
			r.Status,
			r.Inserted,
			r.Updated,
			r.Skipped,
			r.Errors,
			r.Warnings,
			source,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
