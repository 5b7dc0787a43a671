package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/SeanTater/llm-pareto/internal/curate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run whole-catalog validation",
	Long:  "Loads every shard and checks schema conformance, cross-shard id uniqueness, and benchmark references. Unresolved references are errors at catalog scope.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("curate"); err != nil {
			return err
		}

		report, err := curate.Validate(catalogStore())
		if err != nil {
			return err
		}

		fmt.Print(report.Render())
		if report.HasErrors() {
			return eris.Errorf("validate: catalog has %d error(s)", len(report.Errors()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
