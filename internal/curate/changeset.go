package curate

import (
	"encoding/json"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/SeanTater/llm-pareto/internal/catalog"
	"github.com/SeanTater/llm-pareto/internal/model"
)

// BenchmarkChange is one incoming definition in an add-benchmarks change-set,
// keyed by benchmark id. Every field is wrapped so that an absent key, an
// explicit null, and a value stay distinguishable through the merge.
type BenchmarkChange struct {
	Name           model.Optional[string] `json:"name,omitzero"`
	FullName       model.Optional[string] `json:"full_name,omitzero"`
	Description    model.Optional[string] `json:"description,omitzero"`
	Category       model.Optional[string] `json:"category,omitzero"`
	Scale          model.Optional[string] `json:"scale,omitzero"`
	HigherIsBetter model.Optional[bool]   `json:"higher_is_better,omitzero"`
}

// BenchmarkChangeSet is the parsed shape of an add-benchmarks input file.
type BenchmarkChangeSet struct {
	Benchmarks map[string]BenchmarkChange `json:"benchmarks"`
}

// IDs returns the incoming benchmark ids in sorted order.
func (cs *BenchmarkChangeSet) IDs() []string {
	ids := make([]string, 0, len(cs.Benchmarks))
	for id := range cs.Benchmarks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ModelChange is one incoming record in an add-models change-set. The
// benchmarks map, when present, replaces the stored map wholesale; individual
// score edits resubmit the full map.
type ModelChange struct {
	ID                       string                                          `json:"id"`
	Name                     model.Optional[string]                          `json:"name,omitzero"`
	Provider                 model.Optional[string]                          `json:"provider,omitzero"`
	Family                   model.Optional[string]                          `json:"family,omitzero"`
	ParametersBillions       model.Optional[float64]                         `json:"parameters_billions,omitzero"`
	ActiveParametersBillions model.Optional[float64]                         `json:"active_parameters_billions,omitzero"`
	ParametersSource         model.Optional[model.Citation]                  `json:"parameters_source,omitzero"`
	Pricing                  model.Optional[model.Pricing]                   `json:"pricing,omitzero"`
	Benchmarks               model.Optional[map[string]model.BenchmarkScore] `json:"benchmarks,omitzero"`
}

// ModelChangeSet is the parsed shape of an add-models input file. TargetFile,
// when set, overrides the default models/<provider>.json shard for inserts.
type ModelChangeSet struct {
	Provider   string        `json:"provider"`
	TargetFile string        `json:"target_file,omitempty"`
	Models     []ModelChange `json:"models"`
}

// TargetShard returns the shard new records land in.
func (cs *ModelChangeSet) TargetShard() string {
	if cs.TargetFile != "" {
		return cs.TargetFile
	}
	return catalog.ModelPath(cs.Provider)
}

// ParseBenchmarkChangeSet decodes an add-benchmarks file. Any error here is
// a fatal input error: nothing was validated and nothing will be applied.
func ParseBenchmarkChangeSet(raw []byte) (*BenchmarkChangeSet, error) {
	var cs BenchmarkChangeSet
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, eris.Wrap(err, "curate: parse add-benchmarks change-set")
	}
	if cs.Benchmarks == nil {
		cs.Benchmarks = map[string]BenchmarkChange{}
	}
	return &cs, nil
}

// ParseModelChangeSet decodes an add-models file. A change-set that names
// neither a provider nor a target file has no defined shard and is rejected
// as a fatal input error.
func ParseModelChangeSet(raw []byte) (*ModelChangeSet, error) {
	var cs ModelChangeSet
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, eris.Wrap(err, "curate: parse add-models change-set")
	}
	if cs.Provider == "" && cs.TargetFile == "" {
		return nil, eris.New("curate: change-set must specify provider or target_file")
	}
	return &cs, nil
}
