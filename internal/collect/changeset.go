package collect

import (
	"strings"
	"time"

	"github.com/SeanTater/llm-pareto/internal/curate"
	"github.com/SeanTater/llm-pareto/internal/extract"
	"github.com/SeanTater/llm-pareto/internal/model"
)

// familyStems maps id substrings to provisional family labels. Curators
// refine these after review; "Other" is the catch-all.
var familyStems = []struct{ stem, family string }{
	{"gpt", "GPT"},
	{"claude", "Claude"},
	{"gemini", "Gemini"},
	{"llama", "Llama"},
	{"mistral", "Mistral"},
	{"qwen", "Qwen"},
	{"deepseek", "DeepSeek"},
}

// GuessFamily infers a provisional model family from a model id.
func GuessFamily(id string) string {
	lower := strings.ToLower(id)
	for _, s := range familyStems {
		if strings.Contains(lower, s.stem) {
			return s.family
		}
	}
	return "Other"
}

// BuildChangeSet converts one source's extracted rows into an add-models
// change-set. Models already in the catalog only get their pricing updated;
// new models additionally get a name and a guessed family. Every price
// carries a primary citation back to the page it was read from.
func BuildChangeSet(src Source, rows []extract.PricingRow, existingIDs map[string]bool, collected time.Time) *curate.ModelChangeSet {
	cs := &curate.ModelChangeSet{Provider: src.Provider}

	for _, row := range rows {
		ch := curate.ModelChange{
			ID: row.ModelID,
			Pricing: model.Some(model.Pricing{
				InputPer1MTokens:  row.InputPer1MTokens,
				OutputPer1MTokens: row.OutputPer1MTokens,
				Source: &model.Citation{
					URL:       src.URL,
					Type:      model.CitationPrimary,
					Collected: collected.Format("2006-01-02"),
					Notes:     row.Notes,
				},
			}),
		}

		if !existingIDs[row.ModelID] {
			name := row.ModelName
			if name == "" {
				name = row.ModelID
			}
			ch.Name = model.Some(name)
			ch.Family = model.Some(GuessFamily(row.ModelID))
		}

		cs.Models = append(cs.Models, ch)
	}

	return cs
}
