package curate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeanTater/llm-pareto/internal/catalog"
	"github.com/SeanTater/llm-pareto/internal/model"
	"github.com/SeanTater/llm-pareto/internal/registry"
)

func curationCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		ModelShards: map[string]*catalog.ModelShard{
			"models/openai.json": {Provider: "openai", Models: []model.ModelRecord{*storedGPT4o()}},
		},
		BenchmarkShards: map[string]*catalog.BenchmarkShard{
			"knowledge": {Benchmarks: map[string]model.BenchmarkDefinition{
				"mmlu": {ID: "mmlu", Name: "MMLU", Category: "knowledge", Scale: "0-100", HigherIsBetter: true},
			}},
		},
		Categories: map[string]model.CategoryInfo{
			"knowledge": {Name: "Knowledge", Order: 1},
		},
	}
}

func mustModelCS(t *testing.T, raw string) *ModelChangeSet {
	t.Helper()
	cs, err := ParseModelChangeSet([]byte(raw))
	require.NoError(t, err)
	return cs
}

func mustBenchCS(t *testing.T, raw string) *BenchmarkChangeSet {
	t.Helper()
	cs, err := ParseBenchmarkChangeSet([]byte(raw))
	require.NoError(t, err)
	return cs
}

func TestValidateModelChangeSetClean(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	cs := mustModelCS(t, `{"provider":"m1co","models":[{"id":"m1","name":"M1","parameters_billions":100,"pricing":{"input_per_1m_tokens":1.0,"output_per_1m_tokens":2.0},"benchmarks":{"mmlu":{"score":80}}}]}`)

	r := ValidateModelChangeSet(cs, cat, registry.New(cat))
	assert.Empty(t, r.Errors())
	assert.Empty(t, r.Warnings())
	assert.False(t, r.HasErrors())
}

func TestValidateModelChangeSetDuplicateIDs(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	cs := mustModelCS(t, `{"provider":"x","models":[{"id":"m1","name":"A"},{"id":"m1","name":"B"}]}`)

	r := ValidateModelChangeSet(cs, cat, registry.New(cat))
	require.True(t, r.HasErrors())
	errs := r.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, KindIntegrity, errs[0].Kind)
	assert.Contains(t, errs[0].Message, "duplicate id")
}

func TestValidateModelChangeSetSchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		field   string
		message string
	}{
		{
			"missing name on insert",
			`{"provider":"x","models":[{"id":"m1"}]}`,
			"name", "missing required field",
		},
		{
			"negative price",
			`{"provider":"x","models":[{"id":"m1","name":"M1","pricing":{"input_per_1m_tokens":-1,"output_per_1m_tokens":2}}]}`,
			"pricing.input_per_1m_tokens", "must be >= 0",
		},
		{
			"zero parameters",
			`{"provider":"x","models":[{"id":"m1","name":"M1","parameters_billions":0}]}`,
			"parameters_billions", "must be > 0",
		},
		{
			"active exceeds total",
			`{"provider":"x","models":[{"id":"m1","name":"M1","parameters_billions":70,"active_parameters_billions":100}]}`,
			"active_parameters_billions", "exceeds total",
		},
		{
			"score outside scale",
			`{"provider":"x","models":[{"id":"m1","name":"M1","benchmarks":{"mmlu":{"score":120}}}]}`,
			"benchmarks.mmlu", "outside scale",
		},
		{
			"missing id",
			`{"provider":"x","models":[{"name":"M1"}]}`,
			"id", "missing required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cat := curationCatalog()
			cs := mustModelCS(t, tt.raw)
			r := ValidateModelChangeSet(cs, cat, registry.New(cat))
			require.True(t, r.HasErrors(), "expected errors, report: %s", r.Render())
			errs := r.Errors()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Contains(t, errs[0].Message, tt.message)
		})
	}
}

func TestValidateModelChangeSetUnknownBenchmarkWarns(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	cs := mustModelCS(t, `{"provider":"x","models":[{"id":"m1","name":"M1","benchmarks":{"arena-elo":{"score":1300}}}]}`)

	r := ValidateModelChangeSet(cs, cat, registry.New(cat))
	assert.False(t, r.HasErrors())
	warns := r.Warnings()
	require.Len(t, warns, 1)
	assert.Equal(t, KindReference, warns[0].Kind)
	assert.Contains(t, warns[0].Message, "unknown benchmark: arena-elo")
}

func TestValidateModelChangeSetUpdateNote(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	cs := mustModelCS(t, `{"provider":"openai","models":[{"id":"gpt-4o","family":"gpt-4o"}]}`)

	r := ValidateModelChangeSet(cs, cat, registry.New(cat))
	assert.False(t, r.HasErrors())
	notes := r.Notes()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "will update existing record")
	assert.Contains(t, notes[0].Message, "family")
}

func TestValidateModelChangeSetClearRequiredFieldRejected(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	cs := mustModelCS(t, `{"provider":"openai","models":[{"id":"gpt-4o","name":null}]}`)

	r := ValidateModelChangeSet(cs, cat, registry.New(cat))
	require.True(t, r.HasErrors())
	assert.Equal(t, "name", r.Errors()[0].Field)
}

func TestValidateBenchmarkChangeSetUnknownCategoryWarns(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	cs := mustBenchCS(t, `{"benchmarks":{"swe-bench":{"name":"SWE-bench","category":"agentic","scale":"0-100","higher_is_better":true}}}`)

	r := ValidateBenchmarkChangeSet(cs, cat, registry.New(cat))
	assert.False(t, r.HasErrors(), "category mapping is advisory")
	warns := r.Warnings()
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, `category "agentic" has no registry entry`)
}

func TestValidateBenchmarkChangeSetInsertRequiresName(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	cs := mustBenchCS(t, `{"benchmarks":{"gpqa":{"category":"knowledge"}}}`)

	r := ValidateBenchmarkChangeSet(cs, cat, registry.New(cat))
	require.True(t, r.HasErrors())
	assert.Equal(t, "name", r.Errors()[0].Field)
}

func TestValidateBenchmarkChangeSetCategoryChangeWarnsAndStays(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	cs := mustBenchCS(t, `{"benchmarks":{"mmlu":{"category":"reasoning"}}}`)

	r := ValidateBenchmarkChangeSet(cs, cat, registry.New(cat))
	assert.False(t, r.HasErrors())
	warns := r.Warnings()
	require.Len(t, warns, 2)
	assert.Contains(t, warns[0].Message, `category "reasoning" has no registry entry`)
	assert.Contains(t, warns[1].Message, `definition remains in shard "knowledge"`)
}

func TestValidateCatalogClean(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	r := ValidateCatalog(cat, registry.New(cat))
	assert.False(t, r.HasErrors(), r.Render())
	assert.Empty(t, r.Warnings())
}

func TestValidateCatalogDuplicateModelIDs(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	cat.ModelShards["models/azure.json"] = &catalog.ModelShard{
		Provider: "azure",
		Models:   []model.ModelRecord{{ID: "gpt-4o", Name: "GPT-4o on Azure"}},
	}

	r := ValidateCatalog(cat, registry.New(cat))
	require.True(t, r.HasErrors())
	var found bool
	for _, f := range r.Errors() {
		if f.Kind == KindIntegrity && f.Record == "gpt-4o" {
			found = true
			assert.Contains(t, f.Message, "multiple shards")
		}
	}
	assert.True(t, found)
}

func TestValidateCatalogDuplicateBenchmarkIDs(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	cat.BenchmarkShards["coding"] = &catalog.BenchmarkShard{
		Benchmarks: map[string]model.BenchmarkDefinition{
			"mmlu": {ID: "mmlu", Name: "MMLU again", Category: "coding"},
		},
	}

	r := ValidateCatalog(cat, registry.New(cat))
	require.True(t, r.HasErrors())
	assert.Contains(t, r.Errors()[0].Message, "multiple category shards")
}

func TestValidateCatalogEscalatesUnknownReferences(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	shard := cat.ModelShards["models/openai.json"]
	shard.Models[0].Benchmarks["arena-elo"] = model.BenchmarkScore{Score: 1300}

	r := ValidateCatalog(cat, registry.New(cat))
	require.True(t, r.HasErrors())
	errs := r.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, KindIntegrity, errs[0].Kind)
	assert.Contains(t, errs[0].Message, "unknown benchmark: arena-elo")
}

func TestValidateCatalogUnmappedCategoryIsAdvisory(t *testing.T) {
	t.Parallel()

	cat := curationCatalog()
	cat.BenchmarkShards["agentic"] = &catalog.BenchmarkShard{
		Benchmarks: map[string]model.BenchmarkDefinition{
			"swe-bench": {ID: "swe-bench", Name: "SWE-bench", Category: "agentic", Scale: "0-100"},
		},
	}

	r := ValidateCatalog(cat, registry.New(cat))
	assert.False(t, r.HasErrors(), "category mapping is advisory at catalog scope too")
	require.NotEmpty(t, r.Warnings())
	assert.Contains(t, r.Warnings()[0].Message, `category "agentic" has no registry entry`)
}

func TestReportRender(t *testing.T) {
	t.Parallel()

	r := &Report{}
	assert.Equal(t, "No findings.\n", r.Render())

	r.errorf(KindSchema, "m1", "name", "missing required field")
	r.warnf(KindReference, "m1", "benchmarks", "references unknown benchmark: x")
	r.notef("m2", "will update existing record, changing fields {family}")

	out := r.Render()
	assert.Contains(t, out, "Errors (1):")
	assert.Contains(t, out, "x m1.name: missing required field")
	assert.Contains(t, out, "Warnings (1):")
	assert.Contains(t, out, "Notes (1):")
}
