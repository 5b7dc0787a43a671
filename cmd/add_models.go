package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/SeanTater/llm-pareto/internal/curate"
)

var addModelsCmd = &cobra.Command{
	Use:   "add-models <change-set.json>",
	Short: "Validate and merge an add-models change-set into the catalog",
	Long:  "Parses an add-models change-set, validates it against the catalog, plans the merge, and applies it shard by shard. Use - to read from stdin.",
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

		out, err := curate.AddModels(catalogStore(), raw, curate.Options{DryRun: dryRun})
		if err != nil {
			return err
		}

		printOutcome(os.Stdout, out)
		recordApplyRun(cmd.Context(), out, source)

		if out.Status == curate.StatusRejected {
			return eris.Errorf("add-models: rejected with %d validation error(s)", len(out.Report.Errors()))
		}
		return nil
	},
}

func init() {
	addModelsCmd.Flags().Bool("dry-run", false, "validate and print the merge plan without writing")
	rootCmd.AddCommand(addModelsCmd)
}
