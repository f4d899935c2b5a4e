package exchange

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// CSVFilename is the download name used for the forex board export.
const CSVFilename = "exchange_rates.csv"

const defaultWorkers = 4

type Pair struct {
	Base   string `json:"base"`
	Target string `json:"target"`
}

func (p Pair) String() string {
	return p.Base + "/" + p.Target
}

// ParsePair reads a "BASE/TARGET" label.
func ParsePair(s string) (Pair, error) {
	base, target, ok := strings.Cut(s, "/")
	if !ok {
		return Pair{}, fmt.Errorf("invalid currency pair %q", s)
	}
	return NewPair(base, target)
}

// NewPair validates and normalizes both currency codes.
func NewPair(base, target string) (Pair, error) {
	b, err := normalizeCode(base)
	if err != nil {
		return Pair{}, err
	}
	t, err := normalizeCode(target)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Base: b, Target: t}, nil
}

// DefaultPairs are the INR pairs shown on the dashboard.
func DefaultPairs() []Pair {
	return []Pair{
		{Base: "USD", Target: "INR"},
		{Base: "EUR", Target: "INR"},
		{Base: "JPY", Target: "INR"},
		{Base: "CHF", Target: "INR"},
		{Base: "KRW", Target: "INR"},
	}
}

// Quote is one row of the forex board.
type Quote struct {
	Pair           string  `json:"pair"`
	Base           string  `json:"base"`
	Target         string  `json:"target"`
	Rate           float64 `json:"rate"`
	Date           string  `json:"date"`
	Threshold      float64 `json:"threshold"`
	AlertTriggered bool    `json:"alert_triggered"`
}

// Board fetches a set of pairs concurrently.
type Board struct {
	source  RateSource
	workers int
	now     func() time.Time
}

func NewBoard(source RateSource, workers int) *Board {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Board{
		source:  source,
		workers: workers,
		now:     time.Now,
	}
}

// Run returns a quote for every pair whose rate is available, in the order of
// pairs. A pair's threshold defaults to zero.
func (b *Board) Run(ctx context.Context, pairs []Pair, thresholds map[Pair]float64) ([]Quote, error) {
	results := make([]*Quote, len(pairs))
	date := b.now().In(time.Local).Format(time.DateOnly)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, pair := range pairs {
		g.Go(func() error {
			rate, ok := b.source.Rate(gctx, pair.Base, pair.Target)
			if !ok {
				slog.Debug("Rate unavailable", "pair", pair.String())
				return nil
			}

			threshold := thresholds[pair]
			results[i] = &Quote{
				Pair:           pair.String(),
				Base:           pair.Base,
				Target:         pair.Target,
				Rate:           roundRate(rate),
				Date:           date,
				Threshold:      threshold,
				AlertTriggered: rate > threshold,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build forex board: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to build forex board: %w", err)
	}

	quotes := make([]Quote, 0, len(pairs))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}

	slog.Debug("Forex board built", "pairs", len(pairs), "quotes", len(quotes))
	return quotes, nil
}

func roundRate(rate float64) float64 {
	return math.Round(rate*1e4) / 1e4
}

var csvHeader = []string{"currency_pair", "rate", "date", "alert_threshold", "alert_triggered"}

// WriteCSV writes board quotes as CSV with a header row.
func WriteCSV(w io.Writer, quotes []Quote) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, q := range quotes {
		triggered := "No"
		if q.AlertTriggered {
			triggered = "Yes"
		}
		record := []string{
			q.Pair,
			strconv.FormatFloat(q.Rate, 'f', -1, 64),
			q.Date,
			strconv.FormatFloat(q.Threshold, 'f', -1, 64),
			triggered,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
