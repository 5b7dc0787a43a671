// Package collect orchestrates the pricing collection pipeline: fetch each
// configured provider page, extract pricing rows with the LLM, and convert
// the rows into add-models change-sets for the standard curation path.
package collect

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Source is one provider pricing page the collect pipeline reads.
type Source struct {
	Provider string `yaml:"provider"`
	URL      string `yaml:"url"`
}

// LoadSources reads the source registry from a YAML file.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "collect: read sources %s", path)
	}

	// The YAML has a top-level "sources" key
	var wrapper struct {
		Sources []Source `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "collect: parse sources")
	}

	if len(wrapper.Sources) == 0 {
		return nil, eris.Errorf("collect: no sources defined in %s", path)
	}
	for i, s := range wrapper.Sources {
		if s.Provider == "" || s.URL == "" {
			return nil, eris.Errorf("collect: source %d must set provider and url", i)
		}
	}

	return wrapper.Sources, nil
}
