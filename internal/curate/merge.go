package curate

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/SeanTater/llm-pareto/internal/model"
)

// FieldChange records a single before/after cell for diff reporting.
type FieldChange struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

func (c FieldChange) String() string {
	return fmt.Sprintf("%s: %s -> %s", c.Field, formatValue(c.Old), formatValue(c.New))
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<none>"
	case string:
		if x == "" {
			return "<none>"
		}
		return fmt.Sprintf("%q", x)
	case float64:
		return fmt.Sprintf("%g", x)
	case *float64:
		if x == nil {
			return "<none>"
		}
		return fmt.Sprintf("%g", *x)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return "<none>"
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}

// mergeModel applies a change on top of an existing record (nil for inserts)
// and returns the merged copy plus the effective field changes. Every field
// present in the change overwrites the stored value; absent fields stay
// untouched; explicit nulls clear. Fields set to their current value produce
// no change entry.
func mergeModel(existing *model.ModelRecord, ch ModelChange, defaultProvider string) (*model.ModelRecord, []FieldChange) {
	var out *model.ModelRecord
	if existing != nil {
		out = existing.Clone()
	} else {
		out = &model.ModelRecord{ID: ch.ID, Provider: defaultProvider}
	}

	var changes []FieldChange
	setString := func(field string, opt model.Optional[string], dst *string) {
		if !opt.IsSet() {
			return
		}
		v, _ := opt.Get()
		if *dst != v {
			changes = append(changes, FieldChange{field, *dst, v})
			*dst = v
		}
	}
	setString("name", ch.Name, &out.Name)
	setString("provider", ch.Provider, &out.Provider)
	setString("family", ch.Family, &out.Family)

	setFloat := func(field string, opt model.Optional[float64], dst **float64) {
		if !opt.IsSet() {
			return
		}
		if v, ok := opt.Get(); ok {
			if *dst == nil || **dst != v {
				changes = append(changes, FieldChange{field, *dst, v})
				*dst = &v
			}
		} else if *dst != nil {
			changes = append(changes, FieldChange{field, *dst, nil})
			*dst = nil
		}
	}
	setFloat("parameters_billions", ch.ParametersBillions, &out.ParametersBillions)
	setFloat("active_parameters_billions", ch.ActiveParametersBillions, &out.ActiveParametersBillions)

	if ch.ParametersSource.IsSet() {
		if v, ok := ch.ParametersSource.Get(); ok {
			if out.ParametersSource == nil || *out.ParametersSource != v {
				changes = append(changes, FieldChange{"parameters_source", out.ParametersSource, v})
				out.ParametersSource = &v
			}
		} else if out.ParametersSource != nil {
			changes = append(changes, FieldChange{"parameters_source", out.ParametersSource, nil})
			out.ParametersSource = nil
		}
	}

	if ch.Pricing.IsSet() {
		if v, ok := ch.Pricing.Get(); ok {
			if out.Pricing == nil || !reflect.DeepEqual(*out.Pricing, v) {
				changes = append(changes, FieldChange{"pricing", out.Pricing, v})
				out.Pricing = &v
			}
		} else if out.Pricing != nil {
			changes = append(changes, FieldChange{"pricing", out.Pricing, nil})
			out.Pricing = nil
		}
	}

	if ch.Benchmarks.IsSet() {
		v, _ := ch.Benchmarks.Get()
		if len(v) == 0 {
			// An empty map and an explicit null both clear the scores;
			// normalizing keeps a re-applied change-set diff-free.
			v = nil
		}
		if !reflect.DeepEqual(out.Benchmarks, v) {
			changes = append(changes, FieldChange{"benchmarks", out.Benchmarks, v})
			out.Benchmarks = v
		}
	}

	return out, changes
}

// mergeBenchmark applies a change on top of an existing definition (nil for
// inserts). Inserts with no category default to the knowledge category.
func mergeBenchmark(id string, existing *model.BenchmarkDefinition, ch BenchmarkChange) (model.BenchmarkDefinition, []FieldChange) {
	var out model.BenchmarkDefinition
	if existing != nil {
		out = *existing
	} else {
		out = model.BenchmarkDefinition{ID: id, Category: model.DefaultCategory}
	}
	out.ID = id

	var changes []FieldChange
	setString := func(field string, opt model.Optional[string], dst *string) {
		if !opt.IsSet() {
			return
		}
		v, _ := opt.Get()
		if *dst != v {
			changes = append(changes, FieldChange{field, *dst, v})
			*dst = v
		}
	}
	setString("name", ch.Name, &out.Name)
	setString("full_name", ch.FullName, &out.FullName)
	setString("description", ch.Description, &out.Description)
	setString("category", ch.Category, &out.Category)
	setString("scale", ch.Scale, &out.Scale)

	if ch.HigherIsBetter.IsSet() {
		v, _ := ch.HigherIsBetter.Get()
		if out.HigherIsBetter != v {
			changes = append(changes, FieldChange{"higher_is_better", out.HigherIsBetter, v})
			out.HigherIsBetter = v
		}
	}

	return out, changes
}
