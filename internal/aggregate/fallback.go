package aggregate

import (
	"net/url"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"healthjobs-engine/internal/config"
	"healthjobs-engine/internal/domain"
)

var titleCaser = cases.Title(language.English)

// synthesizeFallback builds the placeholder result set for a run that
// produced zero authentic listings: one listing per search term, up to
// the configured cap, each pointing at the first source's search page
// for its term. It is never mixed into a run with authentic records.
func (a *Aggregator) synthesizeFallback(terms []string, sources []config.Source) []domain.Listing {
	limit := a.cfg.Limits.FallbackCap
	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}

	out := make([]domain.Listing, 0, len(terms))
	for i, term := range terms {
		score := 0.70 + float64(i)*0.05
		if score > 1 {
			score = 1
		}
		out = append(out, domain.Listing{
			Title:          "Public Health " + titleCaser.String(term) + " Position",
			Organization:   "International Health Organization",
			Location:       "Various Locations",
			PostedDate:     time.Now().Format("2006-01-02"),
			URL:            searchURL(sources, term),
			Source:         "Multiple Sources",
			IsRecent:       true,
			RelevanceScore: score,
			Authentic:      false,
		})
	}
	return out
}

func searchURL(sources []config.Source, term string) string {
	if len(sources) == 0 {
		return ""
	}
	src := sources[0]
	return src.Endpoint + "?" + src.QueryParam + "=" + url.QueryEscape(term)
}
