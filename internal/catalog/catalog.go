package catalog

import (
	"sort"

	"github.com/SeanTater/llm-pareto/internal/model"
)

// Catalog is the fully loaded in-memory view of the sharded store. The
// curation engine is the only writer; frontier computation and validation
// treat it as read-only.
type Catalog struct {
	ModelShards     map[string]*ModelShard      // keyed by data-dir-relative path
	BenchmarkShards map[string]*BenchmarkShard  // keyed by category id
	Categories      map[string]model.CategoryInfo
}

// Entry pairs a model record with the shard that owns it.
type Entry struct {
	Record *model.ModelRecord
	Shard  string
}

// ShardPaths returns the loaded model shard paths in sorted order.
func (c *Catalog) ShardPaths() []string {
	paths := make([]string, 0, len(c.ModelShards))
	for p := range c.ModelShards {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// CategoryIDs returns the loaded benchmark category ids in sorted order.
func (c *Catalog) CategoryIDs() []string {
	ids := make([]string, 0, len(c.BenchmarkShards))
	for id := range c.BenchmarkShards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Models iterates every record in shard-path order, preserving in-shard
// positions.
func (c *Catalog) Models() []Entry {
	var out []Entry
	for _, p := range c.ShardPaths() {
		shard := c.ModelShards[p]
		for i := range shard.Models {
			out = append(out, Entry{Record: &shard.Models[i], Shard: p})
		}
	}
	return out
}

// FindModel locates a record by id, returning the owning shard path.
// With a healthy catalog ids are unique; on a corrupted one the first
// shard in sorted order wins.
func (c *Catalog) FindModel(id string) (*model.ModelRecord, string, bool) {
	for _, p := range c.ShardPaths() {
		if m, ok := c.ModelShards[p].FindModel(id); ok {
			return m, p, true
		}
	}
	return nil, "", false
}

// HasModel reports whether any shard contains the id.
func (c *Catalog) HasModel(id string) bool {
	_, _, ok := c.FindModel(id)
	return ok
}

// AllBenchmarks merges every category shard into one id-keyed map. On
// duplicate ids the lexicographically later category wins; duplicate
// detection itself is the registry's job.
func (c *Catalog) AllBenchmarks() map[string]model.BenchmarkDefinition {
	out := map[string]model.BenchmarkDefinition{}
	for _, id := range c.CategoryIDs() {
		for benchID, def := range c.BenchmarkShards[id].Benchmarks {
			out[benchID] = def
		}
	}
	return out
}
