package categorizer

import (
	"os"
	"path/filepath"
	"testing"
)

func testRules() []Rule {
	return []Rule{
		{Category: "earnings", Keywords: []string{"earnings", "quarterly results"}},
		{Category: "m&a", Keywords: []string{"acquisition", "merger", "takeover"}},
		{Category: "product", Keywords: []string{"launch", "release"}},
	}
}

func TestCategorizePriorityDominatesMatchCount(t *testing.T) {
	c := New(testRules())

	// One earnings keyword against all three m&a keywords: the
	// higher-priority category still wins.
	result := c.Categorize(
		"Earnings call discusses acquisition",
		"The merger follows a takeover battle.",
	)

	if result.Category != "earnings" {
		t.Errorf("Expected 'earnings' to win on priority, got: %s", result.Category)
	}
	if len(result.MatchedKeywords) != 1 || result.MatchedKeywords[0] != "earnings" {
		t.Errorf("Expected matched keywords from winning category only, got: %v", result.MatchedKeywords)
	}
}

func TestCategorizeCaseInsensitive(t *testing.T) {
	c := New(testRules())

	result := c.Categorize("QUARTERLY RESULTS Announced", "")
	if result.Category != "earnings" {
		t.Errorf("Expected 'earnings', got: %s", result.Category)
	}
}

func TestCategorizeFallback(t *testing.T) {
	c := New(testRules())

	tests := []struct {
		name    string
		title   string
		content string
	}{
		{"no keywords match", "Weather report", "Sunny skies expected."},
		{"empty title and content", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Categorize(tt.title, tt.content)
			if result.Category != FallbackCategory {
				t.Errorf("Expected fallback category, got: %s", result.Category)
			}
			if result.Confidence != 0 {
				t.Errorf("Expected zero confidence, got: %f", result.Confidence)
			}
			if len(result.MatchedKeywords) != 0 {
				t.Errorf("Expected no matched keywords, got: %v", result.MatchedKeywords)
			}
		})
	}
}

func TestCategorizeSingleFieldOnly(t *testing.T) {
	c := New(testRules())

	if got := c.Categorize("merger announced", "").Category; got != "m&a" {
		t.Errorf("Expected title-only match, got: %s", got)
	}
	if got := c.Categorize("", "the product launch happened").Category; got != "product" {
		t.Errorf("Expected content-only match, got: %s", got)
	}
}

func TestCategorizeConfidenceBounds(t *testing.T) {
	c := New([]Rule{
		{Category: "dense", Keywords: []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7", "h8"}},
	})

	result := c.Categorize("a1 b2 c3 d4 e5 f6 g7 h8", "")
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("Expected confidence in [0,1], got: %f", result.Confidence)
	}
	if result.Confidence <= c.Categorize("a1", "").Confidence {
		t.Error("Expected more matches to raise confidence")
	}
}

func TestCategorizeBatch(t *testing.T) {
	c := New(testRules())

	items := [][2]string{
		{"Quarterly results beat estimates", ""},
		{"Nothing relevant", ""},
		{"New release shipped", ""},
	}

	results := c.CategorizeBatch(items)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got: %d", len(results))
	}

	want := []string{"earnings", FallbackCategory, "product"}
	for i, w := range want {
		if results[i].Category != w {
			t.Errorf("Result %d: expected %s, got %s", i, w, results[i].Category)
		}
	}
}

func TestDefaultRulesOrderStable(t *testing.T) {
	rules := DefaultRules()
	if len(rules) == 0 {
		t.Fatal("Expected built-in rules")
	}
	if rules[0].Category != "earnings" {
		t.Errorf("Expected 'earnings' to be highest priority, got: %s", rules[0].Category)
	}

	c := New(rules)
	result := c.Categorize("決算発表と新製品リリース", "")
	if result.Category != "earnings" {
		t.Errorf("Expected earnings to dominate product, got: %s", result.Category)
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yml")

	content := `categories:
  - category: earnings
    keywords: ["決算", "earnings"]
  - category: product
    keywords: ["release"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("Expected 2 rules, got: %d", len(rules))
	}
	if rules[0].Category != "earnings" || rules[1].Category != "product" {
		t.Errorf("Expected file order preserved, got: %v", rules)
	}
}

func TestLoadRulesInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"no categories", "categories: []"},
		{"missing name", "categories:\n  - keywords: [\"x\"]"},
		{"missing keywords", "categories:\n  - category: a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadRules(path); err == nil {
				t.Error("Expected error for invalid rules file")
			}
		})
	}
}
