package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/SeanTater/llm-pareto/internal/model"
)

var queryCmd = &cobra.Command{
	Use:   "query <model-id>",
	Short: "Show one model with its citations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("curate"); err != nil {
			return err
		}

		cat, err := catalogStore().Load()
		if err != nil {
			return err
		}

		rec, shard, ok := cat.FindModel(args[0])
		if !ok {
			return eris.Errorf("query: model %q not found", args[0])
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}

		printModelDetail(os.Stdout, rec, shard)
		return nil
	},
}

func init() {
	queryCmd.Flags().Bool("json", false, "print the raw record as JSON")
	rootCmd.AddCommand(queryCmd)
}

// printModelDetail writes the human-readable model view: identity, sourced
// parameter counts, pricing, and benchmark scores.
func printModelDetail(w io.Writer, m *model.ModelRecord, shard string) {
	fmt.Fprintf(w, "%s  %s\n", m.ID, m.Name)
	fmt.Fprintf(w, "  shard:      %s\n", shard)
	if m.Provider != "" {
		fmt.Fprintf(w, "  provider:   %s\n", m.Provider)
	}
	if m.Family != "" {
		fmt.Fprintf(w, "  family:     %s\n", m.Family)
	}

	if m.ParametersBillions != nil || m.ActiveParametersBillions != nil {
		var parts []string
		if m.ParametersBillions != nil {
			parts = append(parts, formatBillions(*m.ParametersBillions)+"B total")
		}
		if m.ActiveParametersBillions != nil {
			parts = append(parts, formatBillions(*m.ActiveParametersBillions)+"B active")
		}
		line := strings.Join(parts, ", ")
		if cite := formatCitation(m.ParametersSource); cite != "" {
			line += "  " + cite
		}
		fmt.Fprintf(w, "  parameters: %s\n", line)
	}

	if p := m.Pricing; p != nil {
		line := fmt.Sprintf("$%.2f in / $%.2f out per 1M tokens", p.InputPer1MTokens, p.OutputPer1MTokens)
		if cite := formatCitation(p.Source); cite != "" {
			line += "  " + cite
		}
		fmt.Fprintf(w, "  pricing:    %s\n", line)
	}

	if len(m.Benchmarks) > 0 {
		fmt.Fprintln(w, "  benchmarks:")
		ids := make([]string, 0, len(m.Benchmarks))
		for id := range m.Benchmarks {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, id := range ids {
			s := m.Benchmarks[id]
			fmt.Fprintf(tw, "    %s\t%.2f\t%s\n", id, s.Score, formatCitation(s.Source))
		}
		_ = tw.Flush()
	}
}

// formatCitation renders a citation as "[type url (date)]", empty for nil.
func formatCitation(c *model.Citation) string {
	if c == nil {
		return ""
	}
	s := string(c.Type)
	if c.URL != "" {
		s += " " + c.URL
	}
	if c.Collected != "" {
		s += " (" + c.Collected + ")"
	}
	return "[" + s + "]"
}

// formatBillions prints a parameter count without trailing zeros.
func formatBillions(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
