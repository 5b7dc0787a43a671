// Package frontier resolves per-model axis values, estimates missing cost
// and parameter figures through fixed linear calibrations, and computes the
// Pareto-optimal frontier of the catalog.
package frontier

import (
	"github.com/SeanTater/llm-pareto/internal/model"
)

// Coefficients are linear cost factors in USD per 1M tokens per billion
// parameters, one pair per direction of traffic.
type Coefficients struct {
	InputPerBillion  float64 `json:"input_per_billion"`
	OutputPerBillion float64 `json:"output_per_billion"`
}

func (c Coefficients) usable() bool {
	return c.InputPerBillion > 0 && c.OutputPerBillion > 0
}

// Calibration carries the two fixed linear calibrations: one against active
// parameter counts, one against totals. Estimation never fits anything at
// runtime; recalibrating means supplying new coefficients.
type Calibration struct {
	Active Coefficients `json:"active"`
	Total  Coefficients `json:"total"`
}

// The default calibration derives from one reference model with published
// prices and both parameter counts (coefficient = known price / known
// parameter count). DeepSeek-V3: 671B total, 37B active, $0.27 in / $1.10
// out per 1M tokens.
const (
	referenceTotalBillions  = 671.0
	referenceActiveBillions = 37.0
	referenceInputPer1M     = 0.27
	referenceOutputPer1M    = 1.10
)

// DefaultCalibration returns the built-in reference calibration.
func DefaultCalibration() Calibration {
	return Calibration{
		Active: Coefficients{
			InputPerBillion:  referenceInputPer1M / referenceActiveBillions,
			OutputPerBillion: referenceOutputPer1M / referenceActiveBillions,
		},
		Total: Coefficients{
			InputPerBillion:  referenceInputPer1M / referenceTotalBillions,
			OutputPerBillion: referenceOutputPer1M / referenceTotalBillions,
		},
	}
}

// estimateCostFrom computes the blended cost estimate for a parameter count
// under one coefficient pair: input and output estimated separately, then
// averaged for the single cost axis value.
func estimateCostFrom(paramsBillions float64, c Coefficients) (float64, bool) {
	if !c.usable() || paramsBillions <= 0 {
		return 0, false
	}
	in := paramsBillions * c.InputPerBillion
	out := paramsBillions * c.OutputPerBillion
	return (in + out) / 2, true
}

// estimateParamsFromPricing reverses the linear mapping using the total
// calibration only: the average of input-price/input-coefficient and
// output-price/output-coefficient. A best-effort reverse mapping, not an
// inference; it assumes the same linear relationship holds everywhere.
func estimateParamsFromPricing(p *model.Pricing, cal Calibration) (float64, bool) {
	if p == nil || !cal.Total.usable() {
		return 0, false
	}
	fromIn := p.InputPer1MTokens / cal.Total.InputPerBillion
	fromOut := p.OutputPer1MTokens / cal.Total.OutputPerBillion
	est := (fromIn + fromOut) / 2
	if est <= 0 {
		return 0, false
	}
	return est, true
}

// estimateCost picks the calibration basis for a parameter-derived cost:
// active counts when recorded (serving cost tracks active weights on sparse
// models), else totals.
func estimateCost(m *model.ModelRecord, cal Calibration) (float64, bool) {
	if m.ActiveParametersBillions != nil {
		if v, ok := estimateCostFrom(*m.ActiveParametersBillions, cal.Active); ok {
			return v, true
		}
	}
	if m.ParametersBillions != nil {
		if v, ok := estimateCostFrom(*m.ParametersBillions, cal.Total); ok {
			return v, true
		}
	}
	return 0, false
}
