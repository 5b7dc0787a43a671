package registry

import (
	"sort"

	"github.com/SeanTater/llm-pareto/internal/catalog"
	"github.com/SeanTater/llm-pareto/internal/model"
)

// Registry is an indexed view of the benchmark and category shards: id
// lookups for referential checks, category lookups for the advisory mapping,
// and the duplicate list the whole-catalog validator reports.
type Registry struct {
	byID       map[string]*model.BenchmarkDefinition
	categories map[string]model.CategoryInfo
	duplicates []string
}

// New indexes the loaded catalog. When an id appears in more than one
// category shard the lexicographically first category's definition wins and
// the id is recorded as a duplicate.
func New(cat *catalog.Catalog) *Registry {
	r := &Registry{
		byID:       map[string]*model.BenchmarkDefinition{},
		categories: map[string]model.CategoryInfo{},
	}
	for id, info := range cat.Categories {
		r.categories[id] = info
	}

	seen := map[string]bool{}
	for _, categoryID := range cat.CategoryIDs() {
		shard := cat.BenchmarkShards[categoryID]
		ids := make([]string, 0, len(shard.Benchmarks))
		for id := range shard.Benchmarks {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if seen[id] {
				r.duplicates = append(r.duplicates, id)
				continue
			}
			seen[id] = true
			def := shard.Benchmarks[id]
			r.byID[id] = &def
		}
	}
	sort.Strings(r.duplicates)
	return r
}

// FromDefinitions builds a Registry straight from definitions, for callers
// that have no shard layout (change-set previews, tests).
func FromDefinitions(defs []model.BenchmarkDefinition, categories map[string]model.CategoryInfo) *Registry {
	r := &Registry{
		byID:       make(map[string]*model.BenchmarkDefinition, len(defs)),
		categories: map[string]model.CategoryInfo{},
	}
	for id, info := range categories {
		r.categories[id] = info
	}
	for i := range defs {
		d := defs[i]
		if _, ok := r.byID[d.ID]; ok {
			r.duplicates = append(r.duplicates, d.ID)
			continue
		}
		r.byID[d.ID] = &d
	}
	sort.Strings(r.duplicates)
	return r
}

// Benchmark returns the definition for an id, or nil if unregistered.
func (r *Registry) Benchmark(id string) *model.BenchmarkDefinition {
	return r.byID[id]
}

// Has reports whether a benchmark id is registered.
func (r *Registry) Has(id string) bool {
	return r.byID[id] != nil
}

// HasCategory reports whether a category id has a display registry entry.
func (r *Registry) HasCategory(id string) bool {
	_, ok := r.categories[id]
	return ok
}

// Category returns display metadata for a category id.
func (r *Registry) Category(id string) (model.CategoryInfo, bool) {
	info, ok := r.categories[id]
	return info, ok
}

// BenchmarkIDs returns every registered id in sorted order.
func (r *Registry) BenchmarkIDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DuplicateIDs returns ids that appeared in more than one category shard.
func (r *Registry) DuplicateIDs() []string {
	return r.duplicates
}

// CategoriesByOrder returns category ids sorted by their display order,
// then name, for stable presentation.
func (r *Registry) CategoriesByOrder() []string {
	ids := make([]string, 0, len(r.categories))
	for id := range r.categories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.categories[ids[i]], r.categories[ids[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return ids[i] < ids[j]
	})
	return ids
}
