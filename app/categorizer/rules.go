package categorizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRules is the built-in priority-ordered rule set for corporate news.
// Earlier entries strictly dominate later ones.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: "earnings",
			Keywords: []string{"決算", "業績", "earnings", "quarterly results", "fiscal year", "revenue", "営業利益"},
		},
		{
			Category: "m&a",
			Keywords: []string{"買収", "合併", "acquisition", "merger", "takeover", "子会社化"},
		},
		{
			Category: "product",
			Keywords: []string{"新製品", "新サービス", "product launch", "新機能", "release", "リリース"},
		},
		{
			Category: "partnership",
			Keywords: []string{"提携", "協業", "partnership", "collaboration", "joint venture", "資本提携"},
		},
		{
			Category: "personnel",
			Keywords: []string{"人事", "社長", "代表取締役", "appointment", "executive", "就任"},
		},
		{
			Category: "ir",
			Keywords: []string{"株主", "配当", "dividend", "shareholder", "自社株買い", "ir情報"},
		},
	}
}

type rulesFile struct {
	Categories []Rule `yaml:"categories"`
}

// LoadRules reads a priority-ordered rule list from a YAML file. The file
// shape is consumed here, not owned: an ordered `categories` list of
// {category, keywords} entries.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}

	var parsed rulesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse keywords file: %w", err)
	}
	if len(parsed.Categories) == 0 {
		return nil, fmt.Errorf("keywords file %s contains no categories", path)
	}

	for i, r := range parsed.Categories {
		if r.Category == "" {
			return nil, fmt.Errorf("category at index %d has no name", i)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", r.Category)
		}
	}

	return parsed.Categories, nil
}
