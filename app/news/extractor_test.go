package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const articleHTML = `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Chipmakers Expand Capacity</title>
	</head>
	<body>
		<header>
			<h1>Site Header</h1>
			<nav>Navigation</nav>
		</header>
		<main>
			<article>
				<h1>Chipmakers Expand Capacity</h1>
				<p>Semiconductor companies announced new fabrication plants across India this week. The investments are expected to create thousands of engineering jobs over the next decade.</p>
				<p>Analysts said the expansion would reduce dependence on imported components. Several state governments have offered land and power subsidies to attract the projects.</p>
				<p>Industry groups welcomed the announcements but warned about the shortage of skilled technicians. Training programmes are being set up with local universities to close the gap.</p>
				<p>The first plant is scheduled to begin trial production late next year. Executives expect output to reach full capacity within three years of launch.</p>
			</article>
		</main>
		<aside>
			<div>Advertisement</div>
			<div>Related Links</div>
		</aside>
		<footer>
			<p>Copyright 2024</p>
		</footer>
	</body>
	</html>
	`

func TestContentExtractorValidHTML(t *testing.T) {
	extractor := NewContentExtractor()

	result, err := extractor.Run([]byte(articleHTML), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(result, "Semiconductor companies announced new fabrication plants") {
		t.Errorf("Expected result to contain article text, got: %s", result)
	}
	if strings.Contains(result, "<p>") {
		t.Errorf("Expected plain text without markup, got: %s", result)
	}
	if strings.Contains(result, "\n") {
		t.Errorf("Expected whitespace to be collapsed, got: %q", result)
	}
}

func TestContentExtractorEmptyData(t *testing.T) {
	extractor := NewContentExtractor()

	if _, err := extractor.Run([]byte{}, nil); err == nil {
		t.Error("Expected error for empty data")
	}
}

func TestSummarizerShortTextUnchanged(t *testing.T) {
	summarizer := NewSummarizer(5)

	text := "Markets rose today. Tech stocks led the gains."
	summary, err := summarizer.Run(text)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if summary != text {
		t.Errorf("Expected short text unchanged, got: %s", summary)
	}
}

func TestSummarizerLongText(t *testing.T) {
	summarizer := NewSummarizer(3)

	sentences := []string{
		"Infosys reported strong quarterly revenue growth driven by cloud contracts.",
		"The company raised its full year guidance after several large deals.",
		"Wipro shares fell after weaker than expected margins in consulting.",
		"Analysts expect hiring across the sector to recover next year.",
		"Cloud migration projects remain the main driver of new contracts.",
		"Currency movements added a small boost to reported dollar revenue.",
		"Attrition rates declined for the third consecutive quarter.",
		"Management said artificial intelligence services are seeing rising demand.",
	}
	text := strings.Join(sentences, " ")

	summary, err := summarizer.Run(text)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if summary == "" {
		t.Fatal("Expected non-empty summary")
	}
	if summary == text {
		t.Error("Expected long text to be shortened")
	}
	if n := countSentences(summary); n > 3 {
		t.Errorf("Expected at most 3 sentences, got %d: %s", n, summary)
	}
}

func TestSummarizerEmptyText(t *testing.T) {
	if _, err := NewSummarizer(5).Run("   "); err == nil {
		t.Error("Expected error for empty text")
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"One sentence.", 1},
		{"First. Second! Third?", 3},
		{"Version 1.5 shipped. It works.", 2},
		{"no terminator", 1},
	}

	for _, tt := range tests {
		if got := countSentences(tt.text); got != tt.expected {
			t.Errorf("countSentences(%q) = %d, expected %d", tt.text, got, tt.expected)
		}
	}
}

func newTestArticleSummarizer(client *http.Client) *ArticleSummarizer {
	fetcher := NewFetcher(client, "test-agent", 5*time.Second)
	return NewArticleSummarizer(fetcher, NewContentExtractor(), NewSummarizer(DefaultSummarySentences))
}

func TestArticleSummarizerExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	summary, err := newTestArticleSummarizer(server.Client()).Extract(context.Background(), server.URL+"/article")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if summary == "" {
		t.Error("Expected non-empty summary")
	}
	if n := countSentences(summary); n > DefaultSummarySentences {
		t.Errorf("Expected at most %d sentences, got %d", DefaultSummarySentences, n)
	}
}

func TestArticleSummarizerHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newTestArticleSummarizer(server.Client()).Extract(context.Background(), server.URL+"/missing")
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	var extractErr *ExtractError
	if !errors.As(err, &extractErr) {
		t.Fatalf("Expected *ExtractError, got: %T", err)
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected wrapped 404 HTTPError, got: %v", err)
	}
}

func TestArticleSummarizerNonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	if _, err := newTestArticleSummarizer(server.Client()).Extract(context.Background(), server.URL+"/file.pdf"); err == nil {
		t.Error("Expected error for non-HTML content")
	}
}

func TestArticleSummarizerMissingLink(t *testing.T) {
	summarizer := newTestArticleSummarizer(nil)

	for _, link := range []string{"", FailureLink} {
		if _, err := summarizer.Extract(context.Background(), link); err == nil {
			t.Errorf("Expected error for link %q", link)
		}
	}
}
