package news

import (
	"fmt"
	"log/slog"
	"strings"
)

var filterFields = map[string]bool{
	"title": true,
	"link":  true,
}

// Filterer drops candidates that do not pass a source's keyword filters.
type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

func (f *Filterer) Run(source string, candidates []Candidate, filters []FilterConfig) []Candidate {
	if len(filters) == 0 {
		return candidates
	}

	kept := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if isFiltered, reason := f.applyFilters(candidate, filters); isFiltered {
			slog.Debug("Candidate filtered", "source", source, "url", candidate.Link, "reason", reason)
			continue
		}
		kept = append(kept, candidate)
	}

	return kept
}

func (f *Filterer) applyFilters(candidate Candidate, filters []FilterConfig) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(candidate, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(candidate Candidate, field string) string {
	switch field {
	case "title":
		return candidate.Title
	case "link":
		return candidate.Link
	default:
		return ""
	}
}

func validateFilters(filters []FilterConfig) error {
	for i, filter := range filters {
		if !filterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}
	return nil
}
