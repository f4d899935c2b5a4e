package news

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JesusIslam/tldr"
	"github.com/go-shiori/go-readability"
)

const DefaultSummarySentences = 5

type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Run returns the readable plain text of an HTML page.
func (e *ContentExtractor) Run(data []byte, pageURL *url.URL) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(text))

	return text, nil
}

type Summarizer struct {
	sentences int
}

func NewSummarizer(sentences int) *Summarizer {
	if sentences <= 0 {
		sentences = DefaultSummarySentences
	}
	return &Summarizer{sentences: sentences}
}

// Run keeps the highest ranked sentences of text. Text that is already short
// enough is returned unchanged.
func (s *Summarizer) Run(text string) (summary string, err error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", fmt.Errorf("nothing to summarize")
	}
	if countSentences(text) <= s.sentences {
		return text, nil
	}

	defer func() {
		if r := recover(); r != nil {
			summary, err = "", fmt.Errorf("summarizer panic: %v", r)
		}
	}()

	bag := tldr.New()
	sentences, err := bag.Summarize(text, s.sentences)
	if err != nil {
		return "", fmt.Errorf("failed to summarize: %w", err)
	}

	summary = strings.TrimSpace(strings.Join(sentences, " "))
	if summary == "" {
		return "", fmt.Errorf("summary is empty")
	}
	return summary, nil
}

func countSentences(text string) int {
	count := 0
	runes := []rune(text)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i == len(runes)-1 || runes[i+1] == ' ' {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

// ArticleSummarizer downloads an article page and condenses it into a short summary.
type ArticleSummarizer struct {
	fetcher    *Fetcher
	extractor  *ContentExtractor
	summarizer *Summarizer
}

var _ ArticleExtractor = (*ArticleSummarizer)(nil)

func NewArticleSummarizer(fetcher *Fetcher, extractor *ContentExtractor, summarizer *Summarizer) *ArticleSummarizer {
	return &ArticleSummarizer{
		fetcher:    fetcher,
		extractor:  extractor,
		summarizer: summarizer,
	}
}

func (a *ArticleSummarizer) Extract(ctx context.Context, link string) (string, error) {
	if link == "" || link == FailureLink {
		return "", &ExtractError{Link: link, Err: fmt.Errorf("item has no link")}
	}

	resp, err := a.fetcher.Run(ctx, link)
	if err != nil {
		return "", &ExtractError{Link: link, Err: fmt.Errorf("failed to fetch article content: %w", err)}
	}

	contentType := strings.ToLower(resp.ContentType)
	if contentType != "" && !strings.Contains(contentType, "html") {
		return "", &ExtractError{Link: link, Err: fmt.Errorf("content type is not HTML: %s", resp.ContentType)}
	}

	text, err := a.extractor.Run(resp.Body, resp.URL)
	if err != nil {
		return "", &ExtractError{Link: link, Err: err}
	}

	summary, err := a.summarizer.Run(text)
	if err != nil {
		return "", &ExtractError{Link: link, Err: err}
	}

	return summary, nil
}
