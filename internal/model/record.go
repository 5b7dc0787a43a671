package model

// Pricing holds per-token prices in USD per million tokens.
type Pricing struct {
	InputPer1MTokens  float64   `json:"input_per_1m_tokens"`
	OutputPer1MTokens float64   `json:"output_per_1m_tokens"`
	Source            *Citation `json:"source,omitempty"`
}

// BenchmarkScore is a model's sourced result on one benchmark.
type BenchmarkScore struct {
	Score  float64   `json:"score"`
	Source *Citation `json:"source,omitempty"`
}

// ModelRecord is one catalog entry for a language model. Parameter counts
// are in billions; ActiveParametersBillions applies to sparse/MoE models and
// must not exceed ParametersBillions when both are present.
type ModelRecord struct {
	ID                       string                    `json:"id"`
	Name                     string                    `json:"name"`
	Provider                 string                    `json:"provider,omitempty"`
	Family                   string                    `json:"family,omitempty"`
	ParametersBillions       *float64                  `json:"parameters_billions,omitempty"`
	ActiveParametersBillions *float64                  `json:"active_parameters_billions,omitempty"`
	ParametersSource         *Citation                 `json:"parameters_source,omitempty"`
	Pricing                  *Pricing                  `json:"pricing,omitempty"`
	Benchmarks               map[string]BenchmarkScore `json:"benchmarks,omitempty"`
}

// BenchmarkValue returns the model's score for the given benchmark id.
func (m *ModelRecord) BenchmarkValue(benchID string) (float64, bool) {
	s, ok := m.Benchmarks[benchID]
	if !ok {
		return 0, false
	}
	return s.Score, true
}

// Clone returns a deep copy, so merge previews never alias stored records.
func (m *ModelRecord) Clone() *ModelRecord {
	out := *m
	out.ParametersBillions = cloneFloat(m.ParametersBillions)
	out.ActiveParametersBillions = cloneFloat(m.ActiveParametersBillions)
	out.ParametersSource = cloneCitation(m.ParametersSource)
	if m.Pricing != nil {
		p := *m.Pricing
		p.Source = cloneCitation(m.Pricing.Source)
		out.Pricing = &p
	}
	if m.Benchmarks != nil {
		out.Benchmarks = make(map[string]BenchmarkScore, len(m.Benchmarks))
		for k, v := range m.Benchmarks {
			v.Source = cloneCitation(v.Source)
			out.Benchmarks[k] = v
		}
	}
	return &out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneCitation(c *Citation) *Citation {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
