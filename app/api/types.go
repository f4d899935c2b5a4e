package api

import (
	"context"
	"time"

	"github.com/YosoyAryan/it-financial-dashboard/app/database"
	"github.com/YosoyAryan/it-financial-dashboard/app/exchange"
	"github.com/YosoyAryan/it-financial-dashboard/app/news"
)

type NewsAggregator interface {
	Run(ctx context.Context) []news.Item
	Sources() []news.SourceConfig
}

type GeneratorInterface interface {
	Run(items []news.Item, builtAt time.Time) (string, error)
}

type ForexBoard interface {
	Run(ctx context.Context, pairs []exchange.Pair, thresholds map[exchange.Pair]float64) ([]exchange.Quote, error)
}

var (
	_ NewsAggregator     = (*news.Aggregator)(nil)
	_ GeneratorInterface = (*news.Generator)(nil)
	_ ForexBoard         = (*exchange.Board)(nil)
)

type Handler struct {
	aggregator NewsAggregator
	generator  GeneratorInterface
	rates      exchange.RateSource
	board      ForexBoard
	pairs      []exchange.Pair
	alertRepo  database.AlertRepository
}

type setAlertRequest struct {
	Threshold *float64 `json:"threshold" binding:"required"`
}
