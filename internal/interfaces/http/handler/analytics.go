package handler

import (
	"github.com/foodstory/analytics/internal/application/analytics"
	"github.com/foodstory/analytics/internal/domain/sales"
	"github.com/foodstory/analytics/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the dashboard query endpoints
type AnalyticsHandler struct {
	BaseHandler
	service *analytics.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// RegisterRoutes registers the analytics routes on the API group
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/summary", h.GetSummary)
	rg.GET("/revenue", h.GetRevenue)
	rg.GET("/groups", h.GetGroups)
	rg.GET("/dwell", h.GetDwell)
	rg.GET("/filters", h.GetFilters)

	menu := rg.Group("/menu")
	{
		menu.GET("/performance", h.GetMenuPerformance)
		menu.GET("/trends", h.GetCategoryTrends)
		menu.GET("/combinations", h.GetCombinations)
		menu.GET("/discounts", h.GetDiscounts)
	}
}

// GetSummary returns headline metrics for the requested window
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	var req dto.RangeRequest
	if !h.bindRange(c, &req) {
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	metrics, err := h.service.Summary(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}

// GetRevenue returns the bucketed revenue series
func (h *AnalyticsHandler) GetRevenue(c *gin.Context) {
	var req dto.RevenueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	granularity := sales.ByDay
	if req.Period != "" {
		granularity = sales.Granularity(req.Period)
	}

	series, err := h.service.Revenue(c.Request.Context(), start, end, granularity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if series == nil {
		series = []sales.PeriodRevenue{}
	}
	h.Success(c, series)
}

// GetGroups returns party-size economics
func (h *AnalyticsHandler) GetGroups(c *gin.Context) {
	var req dto.RangeRequest
	if !h.bindRange(c, &req) {
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	metrics, err := h.service.Groups(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if metrics == nil {
		metrics = []sales.GroupMetric{}
	}
	h.Success(c, metrics)
}

// DwellResponse pairs the occupancy samples with their statistics
type DwellResponse struct {
	Samples []sales.DwellSample `json:"samples"`
	Stats   sales.DwellStats    `json:"stats"`
}

// GetDwell returns the table-occupancy estimate
func (h *AnalyticsHandler) GetDwell(c *gin.Context) {
	var req dto.RangeRequest
	if !h.bindRange(c, &req) {
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	samples, stats, err := h.service.Dwell(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if samples == nil {
		samples = []sales.DwellSample{}
	}
	h.Success(c, DwellResponse{Samples: samples, Stats: stats})
}

// GetMenuPerformance returns ranked menu item economics
func (h *AnalyticsHandler) GetMenuPerformance(c *gin.Context) {
	perf, err := h.service.MenuPerformance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if perf == nil {
		perf = []sales.MenuPerformance{}
	}
	h.Success(c, perf)
}

// GetCategoryTrends returns monthly category revenue with growth
func (h *AnalyticsHandler) GetCategoryTrends(c *gin.Context) {
	var req dto.TrendsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	trends, err := h.service.CategoryTrends(c.Request.Context(), req.Category)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if trends == nil {
		trends = []sales.CategoryTrend{}
	}
	h.Success(c, trends)
}

// GetCombinations returns frequently co-ordered item pairs
func (h *AnalyticsHandler) GetCombinations(c *gin.Context) {
	var req dto.RangeRequest
	if !h.bindRange(c, &req) {
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	combos, err := h.service.Combinations(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if combos == nil {
		combos = []sales.Combination{}
	}
	h.Success(c, combos)
}

// GetDiscounts returns the per-item discount breakdown
func (h *AnalyticsHandler) GetDiscounts(c *gin.Context) {
	var req dto.RangeRequest
	if !h.bindRange(c, &req) {
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stats, err := h.service.Discounts(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if stats == nil {
		stats = []sales.DiscountStat{}
	}
	h.Success(c, stats)
}

// GetFilters returns the available date range and category choices
func (h *AnalyticsHandler) GetFilters(c *gin.Context) {
	filters, err := h.service.AvailableFilters(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if filters.Categories == nil {
		filters.Categories = []string{}
	}
	h.Success(c, filters)
}

func (h *AnalyticsHandler) bindRange(c *gin.Context, req *dto.RangeRequest) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}
