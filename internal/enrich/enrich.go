package enrich

import (
	"regexp"
	"sort"
	"strings"

	"healthjobs-engine/internal/config"
	"healthjobs-engine/internal/domain"
)

type countryEntry struct {
	fragment string
	country  string
}

// Enricher derives the optional description, work-arrangement, and
// country fields. It is pure and additive: Enrich returns a copy and
// never touches a field that is already set, so applying it twice is
// the same as applying it once.
type Enricher struct {
	rules     []config.DescriptionRule
	fallback  string
	countries []countryEntry
}

func New(cfg config.Enrichment) *Enricher {
	entries := make([]countryEntry, 0, len(cfg.Countries))
	for frag, country := range cfg.Countries {
		entries = append(entries, countryEntry{
			fragment: strings.ToLower(strings.TrimSpace(frag)),
			country:  country,
		})
	}
	// Longest fragment first so "south africa" beats "sa" and
	// "canada" beats "ca"; ties break alphabetically for determinism.
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].fragment) != len(entries[j].fragment) {
			return len(entries[i].fragment) > len(entries[j].fragment)
		}
		return entries[i].fragment < entries[j].fragment
	})
	return &Enricher{
		rules:     cfg.Descriptions,
		fallback:  cfg.FallbackDescription,
		countries: entries,
	}
}

func (e *Enricher) Enrich(l domain.Listing) domain.Listing {
	if l.Description == "" {
		l.Description = e.describe(l.Title)
	}
	if l.WorkArrangement == "" {
		l.WorkArrangement = workArrangement(l.Title, l.Location)
	}
	if l.Country == "" {
		l.Country = e.country(l.Location)
	}
	return l
}

// describe picks the first description rule whose keyword family hits
// the title; the generic fallback text covers everything else.
func (e *Enricher) describe(title string) string {
	low := strings.ToLower(title)
	for _, r := range e.rules {
		for _, kw := range r.Any {
			if strings.Contains(low, strings.ToLower(kw)) {
				return r.Text
			}
		}
	}
	return e.fallback
}

func workArrangement(title, location string) string {
	blob := strings.ToLower(title + " " + location)
	switch {
	case strings.Contains(blob, "remote"):
		return "Remote"
	case strings.Contains(blob, "hybrid"):
		return "Hybrid"
	default:
		return "On-site"
	}
}

var tokenSplit = regexp.MustCompile(`[^a-z]+`)

// country scans the normalized location against the lookup table,
// longest fragment first. Short fragments (country codes like "ca" or
// "uk") only match whole tokens, otherwise "ca" would hit inside
// words like "Locations".
func (e *Enricher) country(location string) string {
	low := strings.ToLower(strings.TrimSpace(location))
	if low == "" {
		return "Various"
	}
	tokens := map[string]bool{}
	for _, t := range tokenSplit.Split(low, -1) {
		if t != "" {
			tokens[t] = true
		}
	}
	for _, entry := range e.countries {
		if len(entry.fragment) <= 3 {
			if tokens[entry.fragment] {
				return entry.country
			}
			continue
		}
		if strings.Contains(low, entry.fragment) {
			return entry.country
		}
	}
	return "Various"
}
