package extract

import (
	"bytes"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"healthjobs-engine/internal/config"
	"healthjobs-engine/internal/domain"
)

// minTitleLen rejects fragments too short to be a real title.
const minTitleLen = 5

// genericRecordPattern drives the fallback scan when no configured
// record selector matches: any li/div/article whose class looks
// job-ish is taken as a candidate.
var genericRecordPattern = regexp.MustCompile(`(?i)job|listing|item|card|result`)

// Extractor locates job records inside one source's markup using an
// ordered selector cascade and extracts normalized fields from each
// candidate fragment.
type Extractor struct {
	src   config.Source
	vocab config.Vocabulary
}

func New(src config.Source, vocab config.Vocabulary) *Extractor {
	return &Extractor{src: src, vocab: vocab}
}

// Extract parses rawBody and returns the listings it can recover.
// A fragment that fails field extraction is dropped silently; only a
// document that cannot be parsed at all is an error.
func (e *Extractor) Extract(rawBody []byte) ([]domain.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawBody))
	if err != nil {
		return nil, fmt.Errorf("extract parse %s: %w", e.src.ID, err)
	}

	candidates := e.findCandidates(doc)
	if len(candidates) > e.src.MaxCandidates && e.src.MaxCandidates > 0 {
		candidates = candidates[:e.src.MaxCandidates]
	}

	var out []domain.Listing
	for _, frag := range candidates {
		l, ok := e.extractFields(frag)
		if !ok {
			continue
		}
		// the filter sees extracted values only; defaults carry no
		// topical signal
		if e.src.TopicalFilter && !e.topical(l) {
			continue
		}
		if l.Organization == "" {
			l.Organization = e.src.DefaultOrganization
		}
		if l.Location == "" {
			l.Location = e.src.DefaultLocation
		}
		out = append(out, l)
	}
	return out, nil
}

// findCandidates runs the record cascade: the first configured
// selector with at least one match wins and the rest are skipped.
// If none match, the generic class-pattern scan is the fallback tier.
func (e *Extractor) findCandidates(doc *goquery.Document) []*goquery.Selection {
	for _, sel := range e.src.Cascade.Records {
		found := doc.Find(sel)
		if found.Length() > 0 {
			log.Printf("[extract:%s] %d candidates via %q", e.src.ID, found.Length(), sel)
			return splitSelection(found)
		}
	}

	var frags []*goquery.Selection
	doc.Find("li, div, article").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		if genericRecordPattern.MatchString(class) {
			frags = append(frags, s)
		}
	})
	log.Printf("[extract:%s] generic scan found %d candidates", e.src.ID, len(frags))
	return frags
}

// extractFields runs the per-field cascades over one fragment.
// Title and link are mandatory; organization and location stay empty
// here and are defaulted by Extract after the topical filter; a
// missing date defaults to today.
func (e *Extractor) extractFields(frag *goquery.Selection) (domain.Listing, bool) {
	title := firstMatch(frag, e.src.Cascade.Title)
	if len(title) < minTitleLen {
		return domain.Listing{}, false
	}

	link := firstMatch(frag, e.src.Cascade.Link)
	if link == "" {
		return domain.Listing{}, false
	}
	link = e.resolveLink(link)
	if link == "" {
		return domain.Listing{}, false
	}

	org := firstMatch(frag, e.src.Cascade.Organization)
	loc := firstMatch(frag, e.src.Cascade.Location)

	date := firstMatch(frag, e.src.Cascade.Date)
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	return domain.Listing{
		Title:        title,
		Organization: org,
		Location:     loc,
		PostedDate:   date,
		URL:          link,
		Source:       e.src.Name,
		Authentic:    true,
	}, true
}

// resolveLink rewrites a relative href against the source origin.
// Links that resolve to nothing usable are dropped upstream.
func (e *Extractor) resolveLink(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		if e.src.Origin == "" {
			return ""
		}
		return strings.TrimSuffix(e.src.Origin, "/") + href
	default:
		return ""
	}
}

// topical keeps a listing only when its title or organization carries
// at least one vocabulary keyword.
func (e *Extractor) topical(l domain.Listing) bool {
	title := strings.ToLower(l.Title)
	org := strings.ToLower(l.Organization)
	for _, kw := range e.vocab.HealthKeywords {
		if strings.Contains(title, kw) || strings.Contains(org, kw) {
			return true
		}
	}
	return false
}

// firstMatch tries each cascade entry against the fragment and returns
// the first non-empty hit. An entry may carry an "@attr" suffix to
// read an attribute instead of the element text.
func firstMatch(frag *goquery.Selection, cascade []string) string {
	for _, entry := range cascade {
		sel, attr := splitEntry(entry)
		found := frag.Find(sel).First()
		if found.Length() == 0 {
			// the fragment root itself may match (e.g. frag is the <a>)
			if frag.Is(sel) {
				found = frag
			} else {
				continue
			}
		}
		var text string
		if attr != "" {
			text, _ = found.Attr(attr)
		} else {
			text = found.Text()
		}
		text = cleanText(text)
		if text != "" {
			return text
		}
	}
	return ""
}

func splitEntry(entry string) (sel, attr string) {
	if i := strings.LastIndex(entry, "@"); i >= 0 {
		return entry[:i], entry[i+1:]
	}
	return entry, ""
}

func splitSelection(s *goquery.Selection) []*goquery.Selection {
	out := make([]*goquery.Selection, 0, s.Length())
	s.Each(func(_ int, one *goquery.Selection) {
		out = append(out, one)
	})
	return out
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
