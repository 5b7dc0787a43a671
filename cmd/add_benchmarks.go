package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/SeanTater/llm-pareto/internal/curate"
)

var addBenchmarksCmd = &cobra.Command{
	Use:   "add-benchmarks <change-set.json>",
	Short: "Validate and merge an add-benchmarks change-set into the catalog",
	Long:  "Parses an add-benchmarks change-set, validates it, plans the merge, and applies it to the category shards. Use - to read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("curate"); err != nil {
			return err
		}

		raw, source, err := readChangeSet(args[0])
		if err != nil {
			return err
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		out, err := curate.AddBenchmarks(catalogStore(), raw, curate.Options{DryRun: dryRun})
		if err != nil {
			return err
		}

		printOutcome(os.Stdout, out)
		recordApplyRun(cmd.Context(), out, source)

		if out.Status == curate.StatusRejected {
			return eris.Errorf("add-benchmarks: rejected with %d validation error(s)", len(out.Report.Errors()))
		}
		return nil
	},
}

func init() {
	addBenchmarksCmd.Flags().Bool("dry-run", false, "validate and print the merge plan without writing")
	rootCmd.AddCommand(addBenchmarksCmd)
}
