package aggregate

import (
	"net/url"
	"sort"
	"strings"

	"healthjobs-engine/internal/domain"
)

// dedupKey is a listing's identity within one run. Primary identity is
// the canonicalized URL; a placeholder URL (a board's search page
// rather than a posting) cannot disambiguate records, so identity
// falls back to title+organization.
func dedupKey(l domain.Listing) string {
	u := canonicalizeURL(l.URL)
	if u == "" || urlIsPlaceholder(u) {
		return "t:" + strings.ToLower(strings.TrimSpace(l.Title)) + "|" + strings.ToLower(strings.TrimSpace(l.Organization))
	}
	return "u:" + u
}

func canonicalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" {
			q.Del(k)
		}
	}

	// deterministic query
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// urlIsPlaceholder reports whether a URL points at a search/index page
// rather than a single posting. Fallback listings and extraction
// defaults use such URLs, and they collide across unrelated records.
func urlIsPlaceholder(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if strings.Contains(strings.ToLower(u.Path), "/search") {
		return true
	}
	q := u.Query()
	for _, k := range []string{"q", "query", "search", "keywords"} {
		if q.Get(k) != "" {
			return true
		}
	}
	return false
}
