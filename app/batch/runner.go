package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"feedwatch/app/categorizer"
	"feedwatch/app/feed"
	"feedwatch/app/fetcher"
)

// Runner executes one synchronous pass over all configured feeds,
// aggregating per-feed outcomes into run statistics.
type Runner struct {
	client      *fetcher.Client
	validator   *feed.Validator
	parser      *feed.Parser
	categorizer *categorizer.Categorizer
	sources     []FeedSource
}

func NewRunner(client *fetcher.Client, cat *categorizer.Categorizer, sources []FeedSource) *Runner {
	return &Runner{
		client:      client,
		validator:   feed.NewValidator(),
		parser:      feed.NewParser(),
		categorizer: cat,
		sources:     sources,
	}
}

// Run processes every configured feed. A single feed's fetch or parse
// failure is isolated in its FetchResult and never aborts the remaining
// feeds.
func (r *Runner) Run(ctx context.Context) Stats {
	stats := Stats{
		StartedAt:      time.Now().UTC(),
		FeedsTotal:     len(r.sources),
		Results:        make([]FetchResult, 0, len(r.sources)),
		CategoryCounts: make(map[string]int),
	}

	for _, source := range r.sources {
		result, categories := r.processFeed(ctx, source)
		if result.Success {
			stats.FeedsSucceeded++
			stats.ItemsTotal += result.ItemCount
		} else {
			stats.FeedsFailed++
		}
		for category, count := range categories {
			stats.CategoryCounts[category] += count
		}
		stats.Results = append(stats.Results, result)
	}

	stats.FinishedAt = time.Now().UTC()
	stats.Duration = stats.FinishedAt.Sub(stats.StartedAt)

	slog.Info("Batch run completed",
		"feeds_total", stats.FeedsTotal,
		"feeds_succeeded", stats.FeedsSucceeded,
		"feeds_failed", stats.FeedsFailed,
		"items_total", stats.ItemsTotal,
		"duration", stats.Duration.String())

	return stats
}

func (r *Runner) processFeed(ctx context.Context, source FeedSource) (result FetchResult, categories map[string]int) {
	start := time.Now()
	result = FetchResult{Feed: source.Name, URL: source.URL}

	// Item boundary: an unanticipated panic becomes a failed result plus a
	// logged error, preserving forward progress for the remaining feeds.
	defer func() {
		result.Duration = time.Since(start)
		if rec := recover(); rec != nil {
			slog.Error("Feed processing panic recovered", "feed", source.Name, "panic", rec)
			result.Success = false
			result.Error = fmt.Sprintf("panic: %v", rec)
		}
	}()

	resp, err := r.client.Fetch(ctx, source.URL)
	if err != nil {
		result.Error = err.Error()
		slog.Warn("Feed fetch failed", "feed", source.Name, "error", err)
		return result, nil
	}

	validation := r.validator.Run(resp.Body, resp.Header.Get("Content-Type"))
	if !validation.IsValid {
		result.Error = "validation failed: " + validation.Reason
		slog.Warn("Feed validation failed", "feed", source.Name, "reason", validation.Reason)
		return result, nil
	}

	items, err := r.parser.Run(resp.Body)
	if err != nil {
		result.Error = err.Error()
		slog.Warn("Feed parse failed", "feed", source.Name, "error", err)
		return result, nil
	}

	result.Success = true
	result.ItemCount = len(items)

	if r.categorizer != nil {
		categories = make(map[string]int)
		for _, item := range items {
			summary := ""
			if item.Summary != nil {
				summary = *item.Summary
			}
			categories[r.categorizer.Categorize(item.Title, summary).Category]++
		}
	}

	slog.Debug("Feed processed", "feed", source.Name, "items", len(items))
	return result, categories
}
