package news

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSources returns the built-in source list used when no sources file exists.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{
			Name:     "Economic Times Tech",
			Kind:     SourceKindRSS,
			Endpoint: "https://economictimes.indiatimes.com/rssfeedstopstories.cms",
			ItemCap:  MaxItemCap,
		},
		{
			Name:     "Moneycontrol Tech",
			Kind:     SourceKindHTMLListing,
			Endpoint: "https://www.moneycontrol.com/news/technology/",
			ItemCap:  MaxItemCap,
			Selector: DefaultListingSelector,
		},
	}
}

// LoadSources reads the source list from a YAML file. A missing file yields
// DefaultSources.
func LoadSources(path string) ([]SourceConfig, error) {
	if path == "" {
		return DefaultSources(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("Sources file not found, using defaults", "path", path)
			return DefaultSources(), nil
		}
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	sources, err := ParseSources(data)
	if err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", path, err)
	}

	slog.Debug("Sources loaded", "path", path, "count", len(sources))
	return sources, nil
}

// ParseSources decodes, defaults and validates a YAML source list.
func ParseSources(data []byte) ([]SourceConfig, error) {
	var file SourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("at least one source is required")
	}

	seen := make(map[string]bool, len(file.Sources))
	for i := range file.Sources {
		src := &file.Sources[i]
		src.Name = strings.TrimSpace(src.Name)
		src.Endpoint = strings.TrimSpace(src.Endpoint)

		if src.ItemCap == 0 {
			src.ItemCap = MaxItemCap
		}
		if src.Kind == SourceKindHTMLListing && src.Selector == "" {
			src.Selector = DefaultListingSelector
		}

		if err := validateSource(*src); err != nil {
			return nil, fmt.Errorf("source at index %d: %w", i, err)
		}
		if seen[src.Name] {
			return nil, fmt.Errorf("duplicate source name: %s", src.Name)
		}
		seen[src.Name] = true
	}

	return file.Sources, nil
}

func validateSource(src SourceConfig) error {
	requiredFields := map[string]string{
		"name":     src.Name,
		"endpoint": src.Endpoint,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	switch src.Kind {
	case SourceKindRSS, SourceKindHTMLListing:
	default:
		return fmt.Errorf("unknown source kind: %q", src.Kind)
	}

	u, err := url.Parse(src.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http(s) URL: %s", src.Endpoint)
	}

	if src.ItemCap < 0 {
		return fmt.Errorf("item cap must be non-negative")
	}
	if src.ItemCap > MaxItemCap {
		return fmt.Errorf("item cap must not exceed %d", MaxItemCap)
	}

	return validateFilters(src.Filters)
}

// itemCap is the number of candidates attempted for a source, at most MaxItemCap.
func itemCap(src SourceConfig) int {
	if src.ItemCap <= 0 || src.ItemCap > MaxItemCap {
		return MaxItemCap
	}
	return src.ItemCap
}

// BuildSources creates the adapter for every configured source.
func BuildSources(configs []SourceConfig, fetcher *Fetcher) []Source {
	parser := NewParser()
	scraper := NewListingScraper()

	sources := make([]Source, 0, len(configs))
	for _, config := range configs {
		var adapter SourceAdapter
		switch config.Kind {
		case SourceKindRSS:
			adapter = NewRSSAdapter(config, fetcher, parser)
		case SourceKindHTMLListing:
			adapter = NewListingAdapter(config, fetcher, scraper)
		default:
			slog.Warn("Unknown source kind", "source", config.Name, "kind", config.Kind)
		}
		sources = append(sources, Source{Config: config, Adapter: adapter})
	}
	return sources
}
