package domain

// Listing is one job posting produced by a single aggregation run.
// Mandatory fields are always populated by the extractor (or the
// fallback synthesizer); the enrichment fields are set only when the
// enrichment pass runs and are never overwritten once set.
type Listing struct {
	Title          string  `json:"title"`
	Organization   string  `json:"organization"`
	Location       string  `json:"location"`
	PostedDate     string  `json:"date"` // source-native text, not normalized
	URL            string  `json:"url"`
	Source         string  `json:"source"`
	IsRecent       bool    `json:"is_recent"`
	RelevanceScore float64 `json:"relevance_score"`
	Authentic      bool    `json:"authentic"`

	Description     string `json:"description,omitempty"`
	WorkArrangement string `json:"work_type,omitempty"`
	Country         string `json:"country,omitempty"`
}
