package frontier

import (
	"github.com/rotisserie/eris"

	"github.com/SeanTater/llm-pareto/internal/model"
)

// Axis selects the X dimension of a comparison.
type Axis string

const (
	AxisActiveParameters Axis = "active_parameters"
	AxisTotalParameters  Axis = "total_parameters"
	AxisCost             Axis = "cost"
)

// ParseAxis validates an axis name from the CLI or API.
func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case AxisActiveParameters, AxisTotalParameters, AxisCost:
		return Axis(s), nil
	}
	return "", eris.Errorf("frontier: unknown axis %q (want active_parameters, total_parameters, or cost)", s)
}

// Value is one resolved axis value. Estimated marks values that came
// through a calibration path rather than a sourced figure, so presentation
// layers can caveat them.
type Value struct {
	V         float64
	Estimated bool
}

// AxisValue resolves a model's value on an axis. ok is false when nothing
// can produce a value; that silently excludes the model from the point set,
// it is never an error.
//
// Resolution order:
//   - active_parameters: active count, else total count, else a
//     pricing-derived estimate.
//   - total_parameters: total count, else the pricing-derived estimate. The
//     active count never substitutes for a total.
//   - cost: mean of the two published prices, else a parameter-derived
//     estimate.
func AxisValue(m *model.ModelRecord, axis Axis, cal Calibration) (Value, bool) {
	switch axis {
	case AxisActiveParameters:
		if m.ActiveParametersBillions != nil {
			return Value{V: *m.ActiveParametersBillions}, true
		}
		if m.ParametersBillions != nil {
			return Value{V: *m.ParametersBillions}, true
		}
		if est, ok := estimateParamsFromPricing(m.Pricing, cal); ok {
			return Value{V: est, Estimated: true}, true
		}
	case AxisTotalParameters:
		if m.ParametersBillions != nil {
			return Value{V: *m.ParametersBillions}, true
		}
		if est, ok := estimateParamsFromPricing(m.Pricing, cal); ok {
			return Value{V: est, Estimated: true}, true
		}
	case AxisCost:
		if m.Pricing != nil {
			return Value{V: (m.Pricing.InputPer1MTokens + m.Pricing.OutputPer1MTokens) / 2}, true
		}
		if est, ok := estimateCost(m, cal); ok {
			return Value{V: est, Estimated: true}, true
		}
	}
	return Value{}, false
}

// BenchmarkValue looks up a model's score for a benchmark id. Scores are
// never estimated.
func BenchmarkValue(m *model.ModelRecord, benchID string) (float64, bool) {
	return m.BenchmarkValue(benchID)
}
