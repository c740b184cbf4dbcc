package batch

import (
	"fmt"
	"time"
)

// FeedSource declares one watched feed.
type FeedSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FetchResult is one feed's outcome within a single run. Immutable after
// construction; a failed feed never aborts its siblings.
type FetchResult struct {
	Feed      string
	URL       string
	Success   bool
	ItemCount int
	Error     string
	Duration  time.Duration
}

// Stats aggregates all FetchResults of one run.
type Stats struct {
	StartedAt      time.Time
	FinishedAt     time.Time
	Duration       time.Duration
	FeedsTotal     int
	FeedsSucceeded int
	FeedsFailed    int
	ItemsTotal     int
	CategoryCounts map[string]int
	Results        []FetchResult
}

// ValidationError marks bad parameters: empty identifiers or an
// out-of-range schedule time.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
