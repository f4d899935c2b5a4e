package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func listingDocument(count int) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>\n")
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, `<li class="clearfix"><h2 class="title"><a href="/news/technology/story-%d.html">  Headline
  %d </a></h2></li>`+"\n", i, i)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func TestListingScraperCapsMatches(t *testing.T) {
	scraper := NewListingScraper()
	candidates, err := scraper.Run([]byte(listingDocument(20)), DefaultListingSelector, MaxItemCap)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(candidates) != MaxItemCap {
		t.Fatalf("Expected %d candidates, got: %d", MaxItemCap, len(candidates))
	}
	for i, c := range candidates {
		expectedTitle := fmt.Sprintf("Headline %d", i+1)
		if c.Title != expectedTitle {
			t.Errorf("Expected title '%s', got: '%s'", expectedTitle, c.Title)
		}
		expectedLink := fmt.Sprintf("/news/technology/story-%d.html", i+1)
		if c.Link != expectedLink {
			t.Errorf("Expected link '%s', got: '%s'", expectedLink, c.Link)
		}
	}
}

func TestListingScraperNoMatches(t *testing.T) {
	candidates, err := NewListingScraper().Run([]byte("<html><body><p>Nothing</p></body></html>"), DefaultListingSelector, MaxItemCap)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Expected 0 candidates, got: %d", len(candidates))
	}
}

func TestListingScraperMissingAnchorFails(t *testing.T) {
	data := `<html><body>
<div class="clearfix"><h2 class="title"><a href="/ok.html">Fine</a></h2></div>
<div class="clearfix"><h2 class="title">No anchor</h2></div>
</body></html>`

	if _, err := NewListingScraper().Run([]byte(data), DefaultListingSelector, MaxItemCap); err == nil {
		t.Error("Expected error for listing element without a link")
	}
}

func TestListingScraperMatchedAnchor(t *testing.T) {
	data := `<html><body><div class="headlines"><a class="story" href="https://example.com/a">Story A</a></div></body></html>`

	candidates, err := NewListingScraper().Run([]byte(data), "a.story", MaxItemCap)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Link != "https://example.com/a" {
		t.Errorf("Expected anchor href to be used, got: %+v", candidates)
	}
}

func TestListingAdapterResolvesLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, listingDocument(7))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "", 5*time.Second)
	adapter := NewListingAdapter(SourceConfig{Name: "Listing", Kind: SourceKindHTMLListing, Endpoint: server.URL + "/news/technology/"}, fetcher, NewListingScraper())

	candidates, err := adapter.FetchCandidates(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(candidates) != MaxItemCap {
		t.Fatalf("Expected %d candidates, got: %d", MaxItemCap, len(candidates))
	}
	if candidates[0].Link != server.URL+"/news/technology/story-1.html" {
		t.Errorf("Expected resolved link, got: %s", candidates[0].Link)
	}
}

func TestListingAdapterCustomCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingDocument(7))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "", 5*time.Second)
	config := SourceConfig{Name: "Listing", Kind: SourceKindHTMLListing, Endpoint: server.URL, ItemCap: 2}
	adapter := NewListingAdapter(config, fetcher, NewListingScraper())

	candidates, err := adapter.FetchCandidates(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(candidates) != 2 {
		t.Errorf("Expected 2 candidates, got: %d", len(candidates))
	}
}
