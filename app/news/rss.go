package news

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses an RSS/Atom document and returns at most limit candidates in feed order.
func (p *Parser) Run(data []byte, limit int) ([]Candidate, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	candidates := make([]Candidate, 0, len(items))
	for i, item := range items {
		if item == nil {
			continue
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			return nil, fmt.Errorf("feed item %d has no link", i)
		}
		candidates = append(candidates, Candidate{
			Title: cmp.Or(strings.TrimSpace(item.Title), link),
			Link:  link,
		})
	}

	return candidates, nil
}

type RSSAdapter struct {
	config  SourceConfig
	fetcher *Fetcher
	parser  *Parser
}

var _ SourceAdapter = (*RSSAdapter)(nil)

func NewRSSAdapter(config SourceConfig, fetcher *Fetcher, parser *Parser) *RSSAdapter {
	return &RSSAdapter{
		config:  config,
		fetcher: fetcher,
		parser:  parser,
	}
}

func (a *RSSAdapter) FetchCandidates(ctx context.Context) ([]Candidate, error) {
	resp, err := a.fetcher.Run(ctx, a.config.Endpoint)
	if err != nil {
		return nil, err
	}

	candidates, err := a.parser.Run(resp.Body, itemCap(a.config))
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		link, err := resolveLink(resp.URL, candidates[i].Link)
		if err != nil {
			return nil, err
		}
		candidates[i].Link = link
	}

	return candidates, nil
}
