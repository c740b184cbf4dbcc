package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

// ExtractBatch extracts many URLs concurrently. Pacing is per host: requests
// to the same host are spaced at least rateLimit apart, while independent
// hosts proceed in parallel. The result slice always has one entry per input
// URL in input order; per-URL failure never aborts siblings.
func (e *Extractor) ExtractBatch(ctx context.Context, urls []string, rateLimit time.Duration) []Article {
	results := make([]Article, len(urls))
	if len(urls) == 0 {
		return results
	}

	// Group input indices by host so each host gets its own pacing lane.
	lanes := make(map[string][]int)
	for i, rawURL := range urls {
		parsed, err := url.Parse(rawURL)
		if err != nil || parsed.Hostname() == "" {
			// Give unparseable URLs their own lane so they fail fast
			// without delaying anything else.
			lanes[fmt.Sprintf("\x00bad-%d", i)] = []int{i}
			continue
		}
		host := parsed.Hostname()
		lanes[host] = append(lanes[host], i)
	}

	var wg sync.WaitGroup
	for _, indices := range lanes {
		wg.Add(1)
		go func(indices []int) {
			defer wg.Done()
			for pos, idx := range indices {
				if pos > 0 && rateLimit > 0 {
					select {
					case <-time.After(rateLimit):
					case <-ctx.Done():
					}
				}

				if err := ctx.Err(); err != nil {
					results[idx] = failedArticle(urls[idx], err)
					continue
				}

				results[idx] = e.extractSafe(ctx, urls[idx])
			}
		}(indices)
	}
	wg.Wait()

	return results
}

// extractSafe converts a panic during one URL's processing into a failed
// result so the batch keeps its one-result-per-URL guarantee.
func (e *Extractor) extractSafe(ctx context.Context, rawURL string) (art Article) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Extraction panic recovered", "url", rawURL, "panic", r)
			art = Article{URL: rawURL, Status: StatusFailed, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()

	return e.Extract(ctx, rawURL)
}
