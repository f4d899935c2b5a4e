package news

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVFilename is the download name used for the news export.
const CSVFilename = "it_tech_news.csv"

var csvHeader = []string{"source", "title", "link", "summary", "sentiment"}

// WriteCSV writes items as CSV with a header row, in the given order.
func WriteCSV(w io.Writer, items []Item) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, item := range items {
		record := []string{item.Source, item.Title, item.Link, item.Summary, string(item.Sentiment)}
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

// Filter returns the items matching source and sentiment. Empty arguments match everything.
func Filter(items []Item, source string, sentiment Sentiment) []Item {
	if source == "" && sentiment == "" {
		return items
	}

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if source != "" && item.Source != source {
			continue
		}
		if sentiment != "" && item.Sentiment != sentiment {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// CountBySentiment tallies items per sentiment label. Every label is present.
func CountBySentiment(items []Item) map[Sentiment]int {
	counts := map[Sentiment]int{
		SentimentPositive: 0,
		SentimentNegative: 0,
		SentimentNeutral:  0,
	}
	for _, item := range items {
		counts[item.Sentiment]++
	}
	return counts
}
