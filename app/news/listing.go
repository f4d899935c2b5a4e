package news

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultListingSelector matches headline blocks on the Moneycontrol technology listing.
const DefaultListingSelector = ".clearfix .title"

type ListingScraper struct{}

func NewListingScraper() *ListingScraper {
	return &ListingScraper{}
}

// Run selects up to limit elements matching selector and reads a headline and
// the href of the anchor inside each one.
func (s *ListingScraper) Run(data []byte, selector string, limit int) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	matches := doc.Find(selector)
	if limit > 0 && matches.Length() > limit {
		matches = matches.Slice(0, limit)
	}

	candidates := make([]Candidate, 0, matches.Length())
	var scrapeErr error
	matches.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		title := strings.Join(strings.Fields(sel.Text()), " ")

		href, ok := anchorHref(sel)
		if !ok {
			scrapeErr = fmt.Errorf("listing element %d (%q) has no link", i, title)
			return false
		}

		candidates = append(candidates, Candidate{
			Title: title,
			Link:  href,
		})
		return true
	})
	if scrapeErr != nil {
		return nil, scrapeErr
	}

	return candidates, nil
}

func anchorHref(sel *goquery.Selection) (string, bool) {
	if href, ok := sel.Find("a").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		return strings.TrimSpace(href), true
	}
	if goquery.NodeName(sel) == "a" {
		if href, ok := sel.Attr("href"); ok && strings.TrimSpace(href) != "" {
			return strings.TrimSpace(href), true
		}
	}
	return "", false
}

type ListingAdapter struct {
	config  SourceConfig
	fetcher *Fetcher
	scraper *ListingScraper
}

var _ SourceAdapter = (*ListingAdapter)(nil)

func NewListingAdapter(config SourceConfig, fetcher *Fetcher, scraper *ListingScraper) *ListingAdapter {
	if config.Selector == "" {
		config.Selector = DefaultListingSelector
	}
	return &ListingAdapter{
		config:  config,
		fetcher: fetcher,
		scraper: scraper,
	}
}

func (a *ListingAdapter) FetchCandidates(ctx context.Context) ([]Candidate, error) {
	resp, err := a.fetcher.Run(ctx, a.config.Endpoint)
	if err != nil {
		return nil, err
	}

	candidates, err := a.scraper.Run(resp.Body, a.config.Selector, itemCap(a.config))
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		link, err := resolveLink(resp.URL, candidates[i].Link)
		if err != nil {
			return nil, err
		}
		candidates[i].Link = link
		if candidates[i].Title == "" {
			candidates[i].Title = link
		}
	}

	return candidates, nil
}

func resolveLink(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	if base == nil || ref.IsAbs() {
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}
