package rank

// Scorer computes a bounded relevance score for a candidate listing
// given the search term that produced it.
type Scorer interface {
	Score(title, organization, term string) float64
}
