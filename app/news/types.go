package news

import (
	"context"
	"fmt"
)

// News aggregation types

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

const (
	// ArticleErrorSummary replaces the summary of an article that could not be extracted.
	ArticleErrorSummary = "Error parsing article."
	// FailureLink marks a record that stands in for a whole failed source.
	FailureLink = "#"
	// MaxItemCap bounds the candidates attempted per source.
	MaxItemCap = 5
)

// Item is a single rendered news record. All fields are always populated.
type Item struct {
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Summary   string    `json:"summary"`
	Sentiment Sentiment `json:"sentiment"`
}

// Candidate is a (title, link) pair yielded by a source listing.
type Candidate struct {
	Title string
	Link  string
}

type SourceAdapter interface {
	FetchCandidates(ctx context.Context) ([]Candidate, error)
}

type ArticleExtractor interface {
	Extract(ctx context.Context, link string) (string, error)
}

type SentimentClassifier interface {
	Classify(text string) Sentiment
}

// Configuration types

type SourceKind string

const (
	SourceKindRSS         SourceKind = "rss"
	SourceKindHTMLListing SourceKind = "html_listing"
)

type SourceConfig struct {
	Name     string         `yaml:"name"`
	Kind     SourceKind     `yaml:"kind"`
	Endpoint string         `yaml:"endpoint"`
	ItemCap  int            `yaml:"item_cap"`
	Selector string         `yaml:"selector"` // html_listing only
	Filters  []FilterConfig `yaml:"filters"`
}

// FilterConfig keeps or drops candidates by case-insensitive substring match on a field.
type FilterConfig struct {
	Field    string   `yaml:"field"` // title or link
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

type SourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// Error types

// SourceError reports that a source listing could not be fetched or parsed.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ExtractError reports that a single article could not be turned into a summary.
type ExtractError struct {
	Link string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Link, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// HTTPError is returned by the fetcher for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %s", e.Status)
}
