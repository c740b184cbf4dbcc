package structure

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"feedwatch/app/company"
	"feedwatch/app/fetcher"
)

// Severity bands for the structural-health score.
const (
	healthyRate  = 0.8
	degradedRate = 0.5
)

// Report scores how well a page still matches a company's selector
// configuration. One per validation call; not persisted here.
type Report struct {
	CompanyKey      string
	ArticleListHits int
	TitleFoundCount int
	DateFoundCount  int
	HitRate         float64
}

// Validator scores fetched pages against company selector configurations
// and emits severity-banded alerts when the structure has drifted.
type Validator struct {
	client *fetcher.Client
}

func NewValidator(client *fetcher.Client) *Validator {
	return &Validator{client: client}
}

// Run validates html against cfg. For every matched article container the
// title and date selectors are tested independently within its subtree, so
// partial drift (one selector broken, one intact) is visible in the counts.
func (v *Validator) Run(html string, cfg company.Config) (Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Report{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	report := Report{CompanyKey: cfg.Key}

	containers := doc.Find(cfg.ArticleListSelector)
	report.ArticleListHits = containers.Length()

	containers.Each(func(_ int, s *goquery.Selection) {
		if s.Find(cfg.TitleSelector).Length() > 0 {
			report.TitleFoundCount++
		}
		if s.Find(cfg.DateSelector).Length() > 0 {
			report.DateFoundCount++
		}
	})

	if report.ArticleListHits > 0 {
		report.HitRate = float64(report.TitleFoundCount+report.DateFoundCount) /
			float64(2*report.ArticleListHits)
	}

	v.alert(report)

	return report, nil
}

// CheckCompany fetches the company's blog page and validates its structure.
func (v *Validator) CheckCompany(ctx context.Context, cfg company.Config) (Report, error) {
	resp, err := v.client.Fetch(ctx, cfg.BlogURL)
	if err != nil {
		return Report{}, fmt.Errorf("failed to fetch %s: %w", cfg.BlogURL, err)
	}

	return v.Run(string(resp.Body), cfg)
}

// alert distinguishes complete breakage from partial drift from normal
// operation without manual inspection. Alerts are emitted as structured log
// records, not returned in the report.
func (v *Validator) alert(report Report) {
	args := []any{
		"company", report.CompanyKey,
		"hit_rate", report.HitRate,
		"article_list_hits", report.ArticleListHits,
		"title_found", report.TitleFoundCount,
		"date_found", report.DateFoundCount,
	}

	switch {
	case report.HitRate == 0:
		slog.Error("Page structure broken: no selectors match", args...)
	case report.HitRate < degradedRate:
		slog.Warn("Page structure severely degraded", args...)
	case report.HitRate < healthyRate:
		slog.Warn("Page structure partially changed", args...)
	default:
		slog.Info("Page structure healthy", args...)
	}
}
