package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"feedwatch/app/access"
	"feedwatch/app/batch"
	"feedwatch/app/cfg"
	"feedwatch/app/company"
	"feedwatch/app/extractor"
	"feedwatch/app/structure"
)

type Handler struct {
	scheduler *batch.Scheduler
	registry  *company.Registry
	validator *structure.Validator
	extractor *extractor.Extractor
	checker   *access.Checker
	feedCount int
}

func NewHandler(scheduler *batch.Scheduler, registry *company.Registry, validator *structure.Validator,
	ext *extractor.Extractor, checker *access.Checker, feedCount int) *Handler {
	return &Handler{
		scheduler: scheduler,
		registry:  registry,
		validator: validator,
		extractor: ext,
		checker:   checker,
		feedCount: feedCount,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: cfg.Get().Version,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	resp := StatsResponse{
		NextRunAt: h.scheduler.NextRunTime(),
		Companies: h.registry.Len(),
		Feeds:     h.feedCount,
	}

	if stats := h.scheduler.LastStats(); stats != nil {
		resp.LastRun = convertStats(stats)
	}

	c.JSON(http.StatusOK, resp)
}

// TriggerRun starts a batch run immediately. A run already in progress is
// not interrupted; the request is rejected with 409 instead.
func (h *Handler) TriggerRun(c *gin.Context) {
	stats, ran := h.scheduler.RunNow(c.Request.Context())
	if !ran {
		c.JSON(http.StatusConflict, gin.H{
			"error": "a batch run is already in progress",
		})
		return
	}

	c.JSON(http.StatusOK, convertStats(&stats))
}

// CheckStructure runs an on-demand structure validation for one company.
func (h *Handler) CheckStructure(c *gin.Context) {
	key := c.Param("company")

	companyCfg, ok := h.registry.Get(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown company: " + key,
		})
		return
	}

	report, err := h.validator.CheckCompany(c.Request.Context(), companyCfg)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, StructureResponse{
		CompanyKey:      report.CompanyKey,
		ArticleListHits: report.ArticleListHits,
		TitleFoundCount: report.TitleFoundCount,
		DateFoundCount:  report.DateFoundCount,
		HitRate:         report.HitRate,
	})
}

// ExtractArticles runs batch extraction for an ad-hoc URL list.
func (h *Handler) ExtractArticles(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "urls must not be empty"})
		return
	}

	rateLimitSeconds := req.RateLimitSeconds
	if rateLimitSeconds <= 0 {
		rateLimitSeconds = cfg.Get().ExtractRateLimit
	}
	articles := h.extractor.ExtractBatch(c.Request.Context(), req.URLs, time.Duration(rateLimitSeconds)*time.Second)

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// CheckAccess classifies one article URL's accessibility.
func (h *Handler) CheckAccess(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	result := h.checker.Check(c.Request.Context(), url)

	c.JSON(http.StatusOK, AccessResponse{
		Status:        string(result.Status),
		ContentLength: result.ContentLength,
		Reason:        result.Reason,
		TierUsed:      result.TierUsed,
	})
}

func convertStats(stats *batch.Stats) *RunStats {
	results := make([]RunResult, 0, len(stats.Results))
	for _, r := range stats.Results {
		results = append(results, RunResult{
			Feed:      r.Feed,
			URL:       r.URL,
			Success:   r.Success,
			ItemCount: r.ItemCount,
			Error:     r.Error,
		})
	}

	return &RunStats{
		StartedAt:      stats.StartedAt,
		FinishedAt:     stats.FinishedAt,
		DurationMS:     stats.Duration.Milliseconds(),
		FeedsTotal:     stats.FeedsTotal,
		FeedsSucceeded: stats.FeedsSucceeded,
		FeedsFailed:    stats.FeedsFailed,
		ItemsTotal:     stats.ItemsTotal,
		CategoryCounts: stats.CategoryCounts,
		Results:        results,
	}
}
