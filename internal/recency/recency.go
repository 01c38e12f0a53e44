package recency

import (
	"strings"
	"time"

	"healthjobs-engine/internal/config"
)

// relativeWords short-circuit parsing: a date text carrying one of
// these is recent no matter what the rest of it says.
var relativeWords = []string{"today", "yesterday", "hour"}

// Classifier derives the recent flag from unstructured date text.
// Policy, in priority order: relative-recency words, then the known
// layouts against the recency window, then the injected Fallback.
//
// Fallback and Now are injectable so tests stay deterministic; a nil
// Fallback classifies unparsable text as not recent.
type Classifier struct {
	Layouts  []string
	Window   time.Duration
	Fallback func() bool
	Now      func() time.Time
}

func NewClassifier(cfg config.Recency, fallback func() bool) Classifier {
	return Classifier{
		Layouts:  cfg.Layouts,
		Window:   time.Duration(cfg.WindowDays) * 24 * time.Hour,
		Fallback: fallback,
	}
}

func (c Classifier) IsRecent(dateText string) bool {
	low := strings.ToLower(strings.TrimSpace(dateText))
	for _, w := range relativeWords {
		if strings.Contains(low, w) {
			return true
		}
	}

	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}

	// ISO timestamps carry a time part the layouts don't cover.
	datePart := dateText
	if i := strings.IndexByte(datePart, 'T'); i >= 0 {
		datePart = datePart[:i]
	}
	datePart = strings.TrimSpace(datePart)

	for _, layout := range c.Layouts {
		d, err := time.Parse(layout, datePart)
		if err != nil {
			continue
		}
		return now.Sub(d) <= c.Window
	}

	if c.Fallback != nil {
		return c.Fallback()
	}
	return false
}
