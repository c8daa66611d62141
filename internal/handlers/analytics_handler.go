package handlers

import (
	"net/http"
	"time"

	"tutsin-digital/configs"
	"tutsin-digital/internal/cache"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"

	"github.com/gin-gonic/gin"
)

const overviewCacheKey = "analytics:overview"
const overviewWindowDays = 30

// AnalyticsHandler aggregates the website_metrics table. The public and the
// admin overview share one computation path; neither serves canned numbers.
type AnalyticsHandler struct {
	store    storage.Storage
	cacheMgr *cache.CacheManager
}

func NewAnalyticsHandler(store storage.Storage, cacheMgr *cache.CacheManager) *AnalyticsHandler {
	return &AnalyticsHandler{store: store, cacheMgr: cacheMgr}
}

type AnalyticsOverview struct {
	PeriodDays         int       `json:"periodDays"`
	TotalViews         int       `json:"totalViews"`
	UniqueVisitors     int       `json:"uniqueVisitors"`
	AvgBounceRate      float64   `json:"avgBounceRate"`
	AvgSessionDuration int       `json:"avgSessionDuration"`
	TopPages           []string  `json:"topPages"`
	TopReferrers       []string  `json:"topReferrers"`
	GeneratedAt        time.Time `json:"generatedAt"`
}

func (h *AnalyticsHandler) computeOverview(c *gin.Context) (*AnalyticsOverview, error) {
	rows, err := h.store.ListWebsiteMetrics(c.Request.Context(), overviewWindowDays)
	if err != nil {
		return nil, err
	}

	overview := &AnalyticsOverview{
		PeriodDays:   overviewWindowDays,
		TopPages:     []string{},
		TopReferrers: []string{},
		GeneratedAt:  time.Now(),
	}
	var bounceSum float64
	var durationSum int
	for _, r := range rows {
		overview.TotalViews += r.TotalViews
		overview.UniqueVisitors += r.UniqueVisitors
		bounceSum += r.BounceRate
		durationSum += r.AvgSessionDuration
	}
	if len(rows) > 0 {
		overview.AvgBounceRate = bounceSum / float64(len(rows))
		overview.AvgSessionDuration = durationSum / len(rows)
		// Rows come back newest first; the latest day carries the rankings.
		overview.TopPages = rows[0].TopPages
		overview.TopReferrers = rows[0].TopReferrers
	}
	return overview, nil
}

// Overview serves the aggregate, cached briefly to keep the marketing pages
// cheap.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	var cached AnalyticsOverview
	if found, err := h.cacheMgr.Get(overviewCacheKey, &cached); found && err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	overview, err := h.computeOverview(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to compute analytics"})
		return
	}

	h.cacheMgr.Set(overviewCacheKey, overview, configs.AppConfig.CacheTTL)
	c.JSON(http.StatusOK, overview)
}

type UpsertMetricsRequest struct {
	Date               string   `json:"date" binding:"required"`
	TotalViews         int      `json:"totalViews"`
	UniqueVisitors     int      `json:"uniqueVisitors"`
	BounceRate         float64  `json:"bounceRate"`
	AvgSessionDuration int      `json:"avgSessionDuration"`
	TopPages           []string `json:"topPages"`
	TopReferrers       []string `json:"topReferrers"`
}

// UpsertMetrics records one day of website metrics, keyed by date.
func (h *AnalyticsHandler) UpsertMetrics(c *gin.Context) {
	var req UpsertMetricsRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Date must be YYYY-MM-DD"})
		return
	}

	metrics := &models.WebsiteMetrics{
		Date:               req.Date,
		TotalViews:         req.TotalViews,
		UniqueVisitors:     req.UniqueVisitors,
		BounceRate:         req.BounceRate,
		AvgSessionDuration: req.AvgSessionDuration,
		TopPages:           models.StringList(req.TopPages),
		TopReferrers:       models.StringList(req.TopReferrers),
	}
	if err := h.store.UpsertWebsiteMetrics(c.Request.Context(), metrics); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to store metrics"})
		return
	}

	// The cached overview is stale now.
	h.cacheMgr.Delete(overviewCacheKey)
	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}
