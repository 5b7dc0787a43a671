package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SeanTater/llm-pareto/internal/model"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog models",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("curate"); err != nil {
			return err
		}

		provider, _ := cmd.Flags().GetString("provider")
		family, _ := cmd.Flags().GetString("family")

		cat, err := catalogStore().Load()
		if err != nil {
			return err
		}

		var models []*model.ModelRecord
		for _, e := range cat.Models() {
			if provider != "" && !strings.EqualFold(e.Record.Provider, provider) {
				continue
			}
			if family != "" && e.Record.Family != family {
				continue
			}
			models = append(models, e.Record)
		}

		if len(models) == 0 {
			fmt.Fprintln(os.Stderr, "No models found.")
			return nil
		}

		sort.Slice(models, func(i, j int) bool {
			if models[i].Provider != models[j].Provider {
				return models[i].Provider < models[j].Provider
			}
			return models[i].ID < models[j].ID
		})

		formatModelsList(os.Stdout, models)
		return nil
	},
}

func init() {
	listCmd.Flags().String("provider", "", "filter by provider (case-insensitive)")
	listCmd.Flags().String("family", "", "filter by family")
	rootCmd.AddCommand(listCmd)
}

// formatModelsList writes a tabular model listing to w.
func formatModelsList(out io.Writer, models []*model.ModelRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tFAMILY\tPARAMS_B\tACTIVE_B\tIN_$/1M\tOUT_$/1M\tBENCHES")
	_, _ = fmt.Fprintln(w, "--\t----\t--------\t------\t--------\t--------\t-------\t--------\t-------")

	for _, m := range models {
		name := m.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}

		in, outPrice := "-", "-"
		if m.Pricing != nil {
			in = fmt.Sprintf("%.2f", m.Pricing.InputPer1MTokens)
			outPrice = fmt.Sprintf("%.2f", m.Pricing.OutputPer1MTokens)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			m.ID,
			name,
			m.Provider,
			m.Family,
			formatParamCell(m.ParametersBillions),
			formatParamCell(m.ActiveParametersBillions),
			in,
			outPrice,
			len(m.Benchmarks),
		)
	}
	_ = w.Flush()
}

func formatParamCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatBillions(*v)
}
