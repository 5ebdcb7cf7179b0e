package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"invoice-analytics-backend/internal/logger"
	"invoice-analytics-backend/internal/services/analytics"
)

type AnalyticsHandler struct {
	service *analytics.Service
	log     zerolog.Logger
}

func NewAnalyticsHandler(service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, log: logger.WithComponent("analytics")}
}

func (h *AnalyticsHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		h.log.Error().Err(err).Msg("stats query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) GetInvoiceTrends(c *gin.Context) {
	trends, err := h.service.InvoiceTrends()
	if err != nil {
		h.log.Error().Err(err).Msg("invoice trends query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoice trends"})
		return
	}
	c.JSON(http.StatusOK, trends)
}

func (h *AnalyticsHandler) GetTopVendors(c *gin.Context) {
	vendors, err := h.service.TopVendors()
	if err != nil {
		h.log.Error().Err(err).Msg("top vendors query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch top vendors"})
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func (h *AnalyticsHandler) GetCategorySpend(c *gin.Context) {
	spend, err := h.service.CategorySpendByCategory()
	if err != nil {
		h.log.Error().Err(err).Msg("category spend query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch category spend"})
		return
	}
	c.JSON(http.StatusOK, spend)
}

func (h *AnalyticsHandler) GetCashOutflow(c *gin.Context) {
	buckets, err := h.service.CashOutflow()
	if err != nil {
		h.log.Error().Err(err).Msg("cash outflow query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cash outflow forecast"})
		return
	}
	c.JSON(http.StatusOK, buckets)
}
