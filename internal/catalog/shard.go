package catalog

import (
	"sort"

	"github.com/SeanTater/llm-pareto/internal/model"
)

// ModelShard is the on-disk shape of one provider model file
// (models/<provider>.json, or models/<provider>/<file>.json for providers
// split by generation).
type ModelShard struct {
	Provider    string              `json:"provider,omitempty"`
	Models      []model.ModelRecord `json:"models"`
	LastUpdated string              `json:"last_updated,omitempty"`
}

// FindModel returns a pointer into Models for the given id.
func (s *ModelShard) FindModel(id string) (*model.ModelRecord, bool) {
	for i := range s.Models {
		if s.Models[i].ID == id {
			return &s.Models[i], true
		}
	}
	return nil, false
}

// BenchmarkShard is the on-disk shape of one benchmark category file
// (benchmarks/<category>.json), keyed by benchmark id.
type BenchmarkShard struct {
	Benchmarks map[string]model.BenchmarkDefinition `json:"benchmarks"`
}

// CategoriesShard (benchmarks/categories.json) maps category ids to display
// metadata. Purely advisory: an unmapped category never blocks curation.
type CategoriesShard struct {
	Categories map[string]model.CategoryInfo `json:"categories"`
}

// Manifest lists every model shard path (relative to the data dir) plus the
// catalog-wide update stamp. Updated only by a successful apply or an
// explicit rebuild.
type Manifest struct {
	ModelFiles  []string `json:"model_files"`
	LastUpdated string   `json:"last_updated"`
}

// AddFile inserts a shard path into the manifest, keeping the list sorted
// and free of duplicates.
func (m *Manifest) AddFile(rel string) {
	for _, f := range m.ModelFiles {
		if f == rel {
			return
		}
	}
	m.ModelFiles = append(m.ModelFiles, rel)
	sort.Strings(m.ModelFiles)
}
