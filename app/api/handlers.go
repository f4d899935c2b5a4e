package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YosoyAryan/it-financial-dashboard/app/cfg"
	"github.com/YosoyAryan/it-financial-dashboard/app/database"
	"github.com/YosoyAryan/it-financial-dashboard/app/exchange"
	"github.com/YosoyAryan/it-financial-dashboard/app/news"
)

func NewHandler(aggregator NewsAggregator, generator GeneratorInterface, rates exchange.RateSource,
	board ForexBoard, pairs []exchange.Pair, alertRepo database.AlertRepository) *Handler {
	return &Handler{
		aggregator: aggregator,
		generator:  generator,
		rates:      rates,
		board:      board,
		pairs:      pairs,
		alertRepo:  alertRepo,
	}
}

func (h *Handler) version() string {
	return cfg.GetVersion()
}

// collectNews runs a fresh aggregation and applies the optional source and
// sentiment query filters.
func (h *Handler) collectNews(c *gin.Context) ([]news.Item, bool) {
	var sentiment news.Sentiment
	if raw := c.Query("sentiment"); raw != "" {
		parsed, ok := news.ParseSentiment(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sentiment must be Positive, Negative or Neutral"})
			return nil, false
		}
		sentiment = parsed
	}

	items := h.aggregator.Run(c.Request.Context())
	return news.Filter(items, c.Query("source"), sentiment), true
}

func (h *Handler) GetNews(c *gin.Context) {
	items, ok := h.collectNews(c)
	if !ok {
		return
	}

	c.Header("X-News-Items", strconv.Itoa(len(items)))
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"count":      len(items),
		"sentiments": news.CountBySentiment(items),
	})
}

func (h *Handler) GetNewsCSV(c *gin.Context) {
	items, ok := h.collectNews(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := news.WriteCSV(&buf, items); err != nil {
		slog.Error("CSV export error", "export", "news", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export news"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", news.CSVFilename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) GetNewsFeed(c *gin.Context) {
	items, ok := h.collectNews(c)
	if !ok {
		return
	}

	builtAt := time.Now()
	rss, err := h.generator.Run(items, builtAt)
	if err != nil {
		slog.Error("RSS generation error", "feed", "news", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(items)))
	c.Header("X-Last-Updated", builtAt.In(time.Local).Format(time.RFC3339))

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetRate(c *gin.Context) {
	pair, err := exchange.NewPair(c.Query("base"), c.DefaultQuery("target", "INR"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rate, ok := h.rates.Rate(c.Request.Context(), pair.Base, pair.Target)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "Exchange rate unavailable",
			"base":   pair.Base,
			"target": pair.Target,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"base":   pair.Base,
		"target": pair.Target,
		"rate":   rate,
	})
}

// buildBoard fetches the forex board for the configured pairs, or for the
// repeated "pair" query (e.g. pair=USD/INR&pair=EUR/INR) when given.
func (h *Handler) buildBoard(c *gin.Context) ([]exchange.Quote, bool) {
	pairs := h.pairs
	if raw := c.QueryArray("pair"); len(raw) > 0 {
		pairs = make([]exchange.Pair, 0, len(raw))
		for _, label := range raw {
			pair, err := exchange.ParsePair(label)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return nil, false
			}
			pairs = append(pairs, pair)
		}
	}

	alerts, err := h.alertRepo.GetAlerts(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_alerts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}

	thresholds := make(map[exchange.Pair]float64, len(alerts))
	for _, alert := range alerts {
		thresholds[exchange.Pair{Base: alert.Base, Target: alert.Target}] = alert.Threshold
	}

	quotes, err := h.board.Run(c.Request.Context(), pairs, thresholds)
	if err != nil {
		slog.Error("Forex board error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build forex board"})
		return nil, false
	}

	return quotes, true
}

func (h *Handler) GetForex(c *gin.Context) {
	quotes, ok := h.buildBoard(c)
	if !ok {
		return
	}

	triggered := 0
	for _, q := range quotes {
		if q.AlertTriggered {
			triggered++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"quotes":    quotes,
		"count":     len(quotes),
		"triggered": triggered,
	})
}

func (h *Handler) GetForexCSV(c *gin.Context) {
	quotes, ok := h.buildBoard(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exchange.WriteCSV(&buf, quotes); err != nil {
		slog.Error("CSV export error", "export", "forex", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export exchange rates"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exchange.CSVFilename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"version":   h.version(),
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   len(h.aggregator.Sources()),
		"pairs":     len(h.pairs),
	}

	if alertCount, err := h.alertRepo.GetAlertCount(c.Request.Context()); err == nil {
		health["alerts"] = alertCount
	} else {
		slog.Error("Database error", "operation", "get_alert_count", "error", err)
		health["status"] = "degraded"
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListAlerts(c *gin.Context) {
	alerts, err := h.alertRepo.GetAlerts(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_alerts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"total":  len(alerts),
	})
}

func (h *Handler) SetAlert(c *gin.Context) {
	pair, err := exchange.NewPair(c.Param("base"), c.Param("target"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req setAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be {\"threshold\": <number>}"})
		return
	}
	if *req.Threshold < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be non-negative"})
		return
	}

	alert, err := h.alertRepo.UpsertAlert(c.Request.Context(), pair.Base, pair.Target, *req.Threshold)
	if err != nil {
		slog.Error("Database error", "operation", "upsert_alert", "pair", pair.String(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	slog.Info("Alert threshold set", "pair", pair.String(), "threshold", *req.Threshold)
	c.JSON(http.StatusOK, alert)
}

func (h *Handler) DeleteAlert(c *gin.Context) {
	pair, err := exchange.NewPair(c.Param("base"), c.Param("target"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.alertRepo.DeleteAlert(c.Request.Context(), pair.Base, pair.Target)
	if err != nil {
		slog.Error("Database error", "operation", "delete_alert", "pair", pair.String(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}

	slog.Info("Alert threshold removed", "pair", pair.String())
	c.Status(http.StatusNoContent)
}
