package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SeanTater/llm-pareto/internal/config"
	"github.com/SeanTater/llm-pareto/internal/frontier"
)

var frontierCmd = &cobra.Command{
	Use:   "frontier",
	Short: "Compute the Pareto frontier for one benchmark",
	Long:  "Resolves every model's position on the chosen axis against a benchmark score, marks the Pareto-optimal subset, and prints the plane. Missing axis values exclude a model; estimated values are flagged.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("curate"); err != nil {
			return err
		}

		benchID, _ := cmd.Flags().GetString("bench")
		axisName, _ := cmd.Flags().GetString("axis")
		family, _ := cmd.Flags().GetString("family")
		jsonOut, _ := cmd.Flags().GetBool("json")

		axis, err := frontier.ParseAxis(axisName)
		if err != nil {
			return err
		}

		cat, err := catalogStore().Load()
		if err != nil {
			return err
		}

		cal := calibrationFromConfig(cfg.Frontier.Calibration)
		points := frontier.BuildPoints(cat, axis, benchID, family, cal)
		front := frontier.ParetoFrontier(points)

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(frontierResponse{
				Axis:      string(axis),
				Benchmark: benchID,
				Family:    family,
				Points:    points,
				Frontier:  front,
			})
		}

		if len(points) == 0 {
			fmt.Fprintln(os.Stderr, "No models have values on both axes.")
			return nil
		}
		formatFrontier(os.Stdout, axis, benchID, points)
		return nil
	},
}

func init() {
	frontierCmd.Flags().String("bench", "", "benchmark id for the Y axis (required)")
	frontierCmd.Flags().String("axis", string(frontier.AxisCost), "x axis: active_parameters, total_parameters, or cost")
	frontierCmd.Flags().String("family", "", "restrict to one model family")
	frontierCmd.Flags().Bool("json", false, "print points and frontier as JSON")
	_ = frontierCmd.MarkFlagRequired("bench")
	rootCmd.AddCommand(frontierCmd)
}

// frontierResponse is the payload shape shared by the frontier command's
// --json output and the serve API.
type frontierResponse struct {
	Axis      string           `json:"axis"`
	Benchmark string           `json:"benchmark"`
	Family    string           `json:"family,omitempty"`
	Points    []frontier.Point `json:"points"`
	Frontier  []frontier.Point `json:"frontier"`
}

// calibrationFromConfig maps the viper-backed coefficients onto the engine
// type, falling back to the built-in reference calibration when unset.
func calibrationFromConfig(c config.CalibrationConfig) frontier.Calibration {
	cal := frontier.Calibration{
		Active: frontier.Coefficients{
			InputPerBillion:  c.Active.InputPerBillion,
			OutputPerBillion: c.Active.OutputPerBillion,
		},
		Total: frontier.Coefficients{
			InputPerBillion:  c.Total.InputPerBillion,
			OutputPerBillion: c.Total.OutputPerBillion,
		},
	}
	if cal == (frontier.Calibration{}) {
		return frontier.DefaultCalibration()
	}
	return cal
}

// formatFrontier writes the point table in ascending-X order. Frontier
// members are starred; estimated axis values are marked with a tilde.
func formatFrontier(out io.Writer, axis frontier.Axis, benchID string, points []frontier.Point) {
	sorted := make([]frontier.Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "MODEL\t%s\t%s\tFRONTIER\n", strings.ToUpper(string(axis)), strings.ToUpper(benchID))
	for _, p := range sorted {
		x := fmt.Sprintf("%.2f", p.X)
		if p.XEstimated {
			x = "~" + x
		}
		marker := ""
		if p.OnFrontier {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", p.Model.ID, x, p.Y, marker)
	}
	_ = w.Flush()
}
