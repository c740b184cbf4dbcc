package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type sourcesFile struct {
	Feeds []FeedSource `yaml:"feeds"`
}

// LoadSources reads the watched-feed list from a YAML file.
func LoadSources(path string) ([]FeedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %w", err)
	}

	var parsed sourcesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file: %w", err)
	}

	for i, source := range parsed.Feeds {
		if source.Name == "" {
			return nil, &ValidationError{Field: "feed name", Message: fmt.Sprintf("empty at index %d", i)}
		}
		if source.URL == "" {
			return nil, &ValidationError{Field: "feed url", Message: fmt.Sprintf("empty for feed %q", source.Name)}
		}
	}

	return parsed.Feeds, nil
}
