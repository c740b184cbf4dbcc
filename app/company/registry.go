package company

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry is an immutable keyed catalog of company configurations. It is
// built once at startup; lookups never mutate it, so it is safe for
// concurrent use without locking.
type Registry struct {
	configs map[string]Config
	keys    []string
}

type catalogFile struct {
	Companies []Config `yaml:"companies"`
}

// LoadRegistry reads the company catalog from a YAML file and validates
// every entry. A catalog with duplicate or empty keys is rejected outright.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read companies file: %w", err)
	}

	var parsed catalogFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse companies file: %w", err)
	}

	configs := make(map[string]Config, len(parsed.Companies))
	for i, cfg := range parsed.Companies {
		if err := validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid company at index %d: %w", i, err)
		}
		if _, exists := configs[cfg.Key]; exists {
			return nil, fmt.Errorf("duplicate company key: %s", cfg.Key)
		}
		if cfg.RateLimitSeconds == 0 {
			cfg.RateLimitSeconds = 2
		}
		configs[cfg.Key] = cfg
	}

	keys := make([]string, 0, len(configs))
	for key := range configs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	slog.Debug("Company catalog loaded", "count", len(configs))

	return &Registry{configs: configs, keys: keys}, nil
}

func validate(cfg Config) error {
	if cfg.Key == "" {
		return fmt.Errorf("company key is required")
	}
	if cfg.BlogURL == "" {
		return fmt.Errorf("blog URL is required")
	}
	if cfg.ArticleListSelector == "" || cfg.TitleSelector == "" || cfg.DateSelector == "" {
		return fmt.Errorf("all three selectors are required")
	}
	if cfg.RateLimitSeconds < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

// Get returns the configuration for key.
func (r *Registry) Get(key string) (Config, bool) {
	cfg, ok := r.configs[key]
	return cfg, ok
}

// Keys returns all company keys in stable sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// All returns every configuration in key order.
func (r *Registry) All() []Config {
	configs := make([]Config, 0, len(r.keys))
	for _, key := range r.keys {
		configs = append(configs, r.configs[key])
	}
	return configs
}

func (r *Registry) Len() int {
	return len(r.configs)
}
