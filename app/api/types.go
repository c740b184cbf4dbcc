package api

import (
	"time"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// StatsResponse is returned by GET /stats.
type StatsResponse struct {
	NextRunAt *time.Time `json:"next_run_at"`
	LastRun   *RunStats  `json:"last_run"`
	Companies int        `json:"companies"`
	Feeds     int        `json:"feeds"`
}

// RunStats mirrors batch.Stats for the wire.
type RunStats struct {
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	DurationMS     int64          `json:"duration_ms"`
	FeedsTotal     int            `json:"feeds_total"`
	FeedsSucceeded int            `json:"feeds_succeeded"`
	FeedsFailed    int            `json:"feeds_failed"`
	ItemsTotal     int            `json:"items_total"`
	CategoryCounts map[string]int `json:"category_counts,omitempty"`
	Results        []RunResult    `json:"results"`
}

type RunResult struct {
	Feed      string `json:"feed"`
	URL       string `json:"url"`
	Success   bool   `json:"success"`
	ItemCount int    `json:"item_count"`
	Error     string `json:"error,omitempty"`
}

// ExtractRequest is the body of POST /api/extract.
type ExtractRequest struct {
	URLs             []string `json:"urls"`
	RateLimitSeconds int      `json:"rate_limit_seconds"`
}

// AccessResponse is returned by GET /api/access. The raw page text is
// not exposed on the wire.
type AccessResponse struct {
	Status        string `json:"status"`
	ContentLength int    `json:"content_length"`
	Reason        string `json:"reason,omitempty"`
	TierUsed      string `json:"tier_used,omitempty"`
}

// StructureResponse is returned by GET /api/structure/:company.
type StructureResponse struct {
	CompanyKey      string  `json:"company_key"`
	ArticleListHits int     `json:"article_list_hits"`
	TitleFoundCount int     `json:"title_found_count"`
	DateFoundCount  int     `json:"date_found_count"`
	HitRate         float64 `json:"hit_rate"`
}
