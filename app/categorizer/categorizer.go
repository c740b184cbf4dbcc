package categorizer

import (
	"strings"
)

// FallbackCategory is assigned when no rule matches.
const FallbackCategory = "other"

// Rule pairs a category with its keyword phrases. Rules are evaluated in
// slice order: priority is a structural property of the list, not of any
// map iteration order.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Result is the outcome of categorizing one item. Confidence is advisory
// and bounded [0,1]; it never determines which category wins.
type Result struct {
	Category        string
	Confidence      float64
	MatchedKeywords []string
}

// Categorizer assigns the first (highest-priority) matching category. The
// keyword lists are lowercased once at construction so per-item matching is
// a single pass of substring scans.
type Categorizer struct {
	rules []rule
}

type rule struct {
	category string
	keywords []string
}

func New(rules []Rule) *Categorizer {
	compiled := make([]rule, 0, len(rules))
	for _, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		compiled = append(compiled, rule{category: r.Category, keywords: keywords})
	}
	return &Categorizer{rules: compiled}
}

// Categorize scans the combined title and content. The first rule with at
// least one keyword hit wins regardless of how many keywords later rules
// would match.
func (c *Categorizer) Categorize(title, content string) Result {
	text := strings.ToLower(strings.TrimSpace(title + " " + content))
	if text == "" {
		return Result{Category: FallbackCategory, Confidence: 0, MatchedKeywords: []string{}}
	}

	for _, r := range c.rules {
		var matched []string
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			return Result{
				Category:        r.category,
				Confidence:      confidence(len(matched), len(r.keywords)),
				MatchedKeywords: matched,
			}
		}
	}

	return Result{Category: FallbackCategory, Confidence: 0, MatchedKeywords: []string{}}
}

// CategorizeBatch categorizes items pairwise: one result per (title,
// content) pair, in input order.
func (c *Categorizer) CategorizeBatch(items [][2]string) []Result {
	results := make([]Result, len(items))
	for i, item := range items {
		results[i] = c.Categorize(item[0], item[1])
	}
	return results
}

// confidence reflects match strength within the winning rule only. A single
// hit starts at 0.5 and each additional hit adds 0.1, capped at 1.0.
func confidence(matches, total int) float64 {
	if matches == 0 || total == 0 {
		return 0
	}
	score := 0.5 + 0.1*float64(matches-1)
	if score > 1.0 {
		return 1.0
	}
	return score
}
