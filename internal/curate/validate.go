package curate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SeanTater/llm-pareto/internal/catalog"
	"github.com/SeanTater/llm-pareto/internal/model"
	"github.com/SeanTater/llm-pareto/internal/registry"
)

// ValidateModelChangeSet checks an add-models change-set against the loaded
// catalog and benchmark registry. Unresolved benchmark references are
// warnings here, so benchmarks and models can arrive in either order within
// a session; the whole-catalog pass escalates the same condition to an error.
func ValidateModelChangeSet(cs *ModelChangeSet, cat *catalog.Catalog, reg *registry.Registry) *Report {
	r := &Report{}

	seen := map[string]bool{}
	for _, ch := range cs.Models {
		if ch.ID == "" {
			continue
		}
		if seen[ch.ID] {
			r.errorf(KindIntegrity, ch.ID, "", "duplicate id within change-set")
		}
		seen[ch.ID] = true
	}

	for i, ch := range cs.Models {
		label := ch.ID
		if label == "" {
			label = fmt.Sprintf("models[%d]", i)
			r.errorf(KindSchema, label, "id", "missing required field")
			continue
		}

		existing, _, found := cat.FindModel(ch.ID)
		var merged *model.ModelRecord
		var changes []FieldChange
		if found {
			merged, changes = mergeModel(existing, ch, cs.Provider)
		} else {
			merged, _ = mergeModel(nil, ch, cs.Provider)
		}

		checkModelRecord(r, label, merged, reg, SeverityWarning)

		if found {
			if len(changes) == 0 {
				r.notef(label, "identical to stored record, will skip")
			} else {
				r.notef(label, "will update existing record, changing fields {%s}", changedFieldNames(changes))
			}
		}
	}
	return r
}

// ValidateBenchmarkChangeSet checks an add-benchmarks change-set. Category
// mapping is advisory: an unregistered category warns and never blocks.
func ValidateBenchmarkChangeSet(cs *BenchmarkChangeSet, cat *catalog.Catalog, reg *registry.Registry) *Report {
	r := &Report{}

	owners := map[string]string{}
	for _, categoryID := range cat.CategoryIDs() {
		for id := range cat.BenchmarkShards[categoryID].Benchmarks {
			if _, ok := owners[id]; !ok {
				owners[id] = categoryID
			}
		}
	}

	for _, id := range cs.IDs() {
		ch := cs.Benchmarks[id]

		owner, found := owners[id]
		var merged model.BenchmarkDefinition
		var changes []FieldChange
		if found {
			def := cat.BenchmarkShards[owner].Benchmarks[id]
			merged, changes = mergeBenchmark(id, &def, ch)
		} else {
			merged, _ = mergeBenchmark(id, nil, ch)
		}

		if merged.Name == "" {
			r.errorf(KindSchema, id, "name", "missing required field")
		}
		if merged.Category == "" {
			r.errorf(KindSchema, id, "category", "category cannot be cleared")
		}

		categoryChanged := false
		for _, c := range changes {
			if c.Field == "category" {
				categoryChanged = true
			}
		}
		if merged.Category != "" && (!found || categoryChanged) && !reg.HasCategory(merged.Category) {
			r.warnf(KindReference, id, "category", "category %q has no registry entry", merged.Category)
		}
		if found && categoryChanged {
			r.warnf(KindReference, id, "category", "category now %q but definition remains in shard %q", merged.Category, owner)
		}

		if found {
			if len(changes) == 0 {
				r.notef(id, "identical to stored record, will skip")
			} else {
				r.notef(id, "will update existing record, changing fields {%s}", changedFieldNames(changes))
			}
		}
	}
	return r
}

// ValidateCatalog re-runs the schema and referential checks across every
// shard. Catalog-wide duplicate ids and unresolved benchmark references are
// hard errors at this scope.
func ValidateCatalog(cat *catalog.Catalog, reg *registry.Registry) *Report {
	r := &Report{}

	for _, id := range reg.DuplicateIDs() {
		r.errorf(KindIntegrity, id, "", "benchmark id appears in multiple category shards")
	}

	shardsByModel := map[string][]string{}
	for _, e := range cat.Models() {
		shardsByModel[e.Record.ID] = append(shardsByModel[e.Record.ID], e.Shard)
	}
	dupIDs := make([]string, 0)
	for id, shards := range shardsByModel {
		if len(shards) > 1 {
			dupIDs = append(dupIDs, id)
		}
	}
	sort.Strings(dupIDs)
	for _, id := range dupIDs {
		r.errorf(KindIntegrity, id, "", "model id appears in multiple shards: %s", strings.Join(shardsByModel[id], ", "))
	}

	for _, e := range cat.Models() {
		label := e.Record.ID
		if label == "" {
			r.errorf(KindSchema, e.Shard, "id", "record with missing id")
			continue
		}
		checkModelRecord(r, label, e.Record, reg, SeverityError)
	}

	for _, categoryID := range cat.CategoryIDs() {
		shard := cat.BenchmarkShards[categoryID]
		ids := make([]string, 0, len(shard.Benchmarks))
		for id := range shard.Benchmarks {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			def := shard.Benchmarks[id]
			if def.Name == "" {
				r.errorf(KindSchema, id, "name", "missing required field")
			}
			if def.Category != "" && !reg.HasCategory(def.Category) {
				r.warnf(KindReference, id, "category", "category %q has no registry entry", def.Category)
			}
			if def.Category != categoryID {
				r.warnf(KindReference, id, "category", "category %q differs from owning shard %q", def.Category, categoryID)
			}
		}
	}

	return r
}

// checkModelRecord runs the numeric plausibility and referential checks
// shared by change-set and whole-catalog validation. refSeverity selects how
// unresolved benchmark references are reported.
func checkModelRecord(r *Report, label string, m *model.ModelRecord, reg *registry.Registry, refSeverity Severity) {
	if m.Name == "" {
		r.errorf(KindSchema, label, "name", "missing required field")
	}
	if m.ParametersBillions != nil && *m.ParametersBillions <= 0 {
		r.errorf(KindSchema, label, "parameters_billions", "must be > 0, got %g", *m.ParametersBillions)
	}
	if m.ActiveParametersBillions != nil && *m.ActiveParametersBillions <= 0 {
		r.errorf(KindSchema, label, "active_parameters_billions", "must be > 0, got %g", *m.ActiveParametersBillions)
	}
	if m.ParametersBillions != nil && m.ActiveParametersBillions != nil &&
		*m.ActiveParametersBillions > *m.ParametersBillions {
		r.errorf(KindSchema, label, "active_parameters_billions",
			"active count %g exceeds total count %g", *m.ActiveParametersBillions, *m.ParametersBillions)
	}
	if m.Pricing != nil {
		if m.Pricing.InputPer1MTokens < 0 {
			r.errorf(KindSchema, label, "pricing.input_per_1m_tokens", "must be >= 0, got %g", m.Pricing.InputPer1MTokens)
		}
		if m.Pricing.OutputPer1MTokens < 0 {
			r.errorf(KindSchema, label, "pricing.output_per_1m_tokens", "must be >= 0, got %g", m.Pricing.OutputPer1MTokens)
		}
	}

	benchIDs := make([]string, 0, len(m.Benchmarks))
	for id := range m.Benchmarks {
		benchIDs = append(benchIDs, id)
	}
	sort.Strings(benchIDs)
	for _, benchID := range benchIDs {
		def := reg.Benchmark(benchID)
		if def == nil {
			if refSeverity == SeverityError {
				r.errorf(KindIntegrity, label, "benchmarks", "references unknown benchmark: %s", benchID)
			} else {
				r.warnf(KindReference, label, "benchmarks", "references unknown benchmark: %s", benchID)
			}
			continue
		}
		score := m.Benchmarks[benchID].Score
		if lo, hi, ok := def.ScaleBounds(); ok && (score < lo || score > hi) {
			r.errorf(KindSchema, label, "benchmarks."+benchID,
				"score %g outside scale %q", score, def.Scale)
		}
	}
}

func changedFieldNames(changes []FieldChange) string {
	names := make([]string, len(changes))
	for i, c := range changes {
		names[i] = c.Field
	}
	return strings.Join(names, ", ")
}
