package rank

import (
	"strings"

	"healthjobs-engine/internal/config"
)

// KeywordScorer starts from a base score and adds fixed boosts for a
// term-in-title hit, a curated major-organization match, and a curated
// public-health phrase in the title. Boosts are additive but the final
// value is always clamped to [0,1].
//
// Jitter is optional and injected: it must return values in [0,1) and
// be safe for concurrent use; nil means a fully deterministic score.
// The jitter never pushes the result outside the clamped range.
type KeywordScorer struct {
	Weights config.Scoring
	Vocab   config.Vocabulary
	Jitter  func() float64
}

func (s KeywordScorer) Score(title, organization, term string) float64 {
	titleLow := strings.ToLower(title)
	orgLow := strings.ToLower(organization)

	score := s.Weights.Base

	if t := strings.ToLower(strings.TrimSpace(term)); t != "" {
		// light stemming so "epidemiology" still hits "Epidemiologist"
		if strings.Contains(titleLow, t) || strings.Contains(titleLow, stem(t)) {
			score += s.Weights.TermInTitle
		}
	}

	for _, org := range s.Vocab.MajorOrganizations {
		if strings.Contains(orgLow, strings.ToLower(org)) {
			score += s.Weights.MajorOrganization
			break
		}
	}

	for _, phrase := range s.Vocab.PublicHealthPhrases {
		if strings.Contains(titleLow, strings.ToLower(phrase)) {
			score += s.Weights.PhraseInTitle
			break
		}
	}

	if s.Jitter != nil && s.Weights.Jitter > 0 {
		score += (s.Jitter()*2 - 1) * s.Weights.Jitter
	}

	return clamp01(score)
}

func stem(t string) string {
	if len(t) > 5 && strings.HasSuffix(t, "y") {
		return t[:len(t)-1]
	}
	return t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
