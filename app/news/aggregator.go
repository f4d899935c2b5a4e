package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Source pairs a configured source with the adapter that lists it.
type Source struct {
	Config  SourceConfig
	Adapter SourceAdapter
}

// Aggregator collects news from its sources one at a time, in order.
type Aggregator struct {
	sources    []Source
	extractor  ArticleExtractor
	classifier SentimentClassifier
	filterer   *Filterer
}

func NewAggregator(sources []Source, extractor ArticleExtractor, classifier SentimentClassifier) *Aggregator {
	return &Aggregator{
		sources:    sources,
		extractor:  extractor,
		classifier: classifier,
		filterer:   NewFilterer(),
	}
}

func (a *Aggregator) Sources() []SourceConfig {
	configs := make([]SourceConfig, 0, len(a.sources))
	for _, src := range a.sources {
		configs = append(configs, src.Config)
	}
	return configs
}

// Run fetches every source and returns the resulting items. Failures are
// reported as items, so Run never fails.
func (a *Aggregator) Run(ctx context.Context) []Item {
	runID := uuid.NewString()
	startedAt := time.Now()

	items := make([]Item, 0, len(a.sources)*MaxItemCap)
	sourceErrors := 0
	articleErrors := 0

	for _, src := range a.sources {
		slog.Debug("Scraping source", "run_id", runID, "source", src.Config.Name, "kind", src.Config.Kind)

		candidates, err := a.fetchCandidates(ctx, src)
		if err != nil {
			slog.Warn("Source failed", "run_id", runID, "source", src.Config.Name, "error", err)
			items = append(items, sourceFailureItem(src.Config.Name, err))
			sourceErrors++
			continue
		}

		for _, candidate := range candidates {
			item := a.processCandidate(ctx, src.Config.Name, candidate)
			if item.Summary == ArticleErrorSummary {
				articleErrors++
			}
			items = append(items, item)
		}
	}

	slog.Info("Aggregation completed",
		"run_id", runID,
		"duration", time.Since(startedAt),
		"sources", len(a.sources),
		"items", len(items),
		"source_errors", sourceErrors,
		"article_errors", articleErrors)

	return items
}

func (a *Aggregator) fetchCandidates(ctx context.Context, src Source) ([]Candidate, error) {
	if src.Adapter == nil {
		return nil, &SourceError{Source: src.Config.Name, Err: fmt.Errorf("no adapter configured")}
	}

	candidates, err := src.Adapter.FetchCandidates(ctx)
	if err != nil {
		var sourceErr *SourceError
		if errors.As(err, &sourceErr) {
			return nil, sourceErr
		}
		return nil, &SourceError{Source: src.Config.Name, Err: err}
	}

	if limit := itemCap(src.Config); len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return a.filterer.Run(src.Config.Name, candidates, src.Config.Filters), nil
}

func (a *Aggregator) processCandidate(ctx context.Context, source string, candidate Candidate) Item {
	item := Item{
		Source:    source,
		Title:     candidate.Title,
		Link:      candidate.Link,
		Summary:   ArticleErrorSummary,
		Sentiment: SentimentNeutral,
	}
	if item.Title == "" {
		item.Title = candidate.Link
	}

	summary, err := a.extractor.Extract(ctx, candidate.Link)
	if err != nil {
		slog.Debug("Article extraction failed", "source", source, "url", candidate.Link, "error", err)
		return item
	}
	if summary == "" {
		slog.Debug("Article extraction returned an empty summary", "source", source, "url", candidate.Link)
		return item
	}

	item.Summary = summary
	item.Sentiment = a.classifier.Classify(summary)
	return item
}

func sourceFailureItem(source string, err error) Item {
	message := err.Error()
	var sourceErr *SourceError
	if errors.As(err, &sourceErr) && sourceErr.Err != nil {
		message = sourceErr.Err.Error()
	}

	return Item{
		Source:    source,
		Title:     fmt.Sprintf("Error fetching from %s", source),
		Link:      FailureLink,
		Summary:   message,
		Sentiment: SentimentNeutral,
	}
}
