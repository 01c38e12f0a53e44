package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Cascade holds the ordered selector lists for one source: the
// document-level record cascade plus one cascade per extracted field.
// Entries are goquery selectors, optionally suffixed "@attr" to read
// an attribute instead of text (e.g. "a[href]@href", "time@datetime").
type Cascade struct {
	Records      []string `yaml:"records"`
	Title        []string `yaml:"title"`
	Organization []string `yaml:"organization"`
	Location     []string `yaml:"location"`
	Date         []string `yaml:"date"`
	Link         []string `yaml:"link"`
}

type Source struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Endpoint   string `yaml:"endpoint"`
	Origin     string `yaml:"origin"` // base for resolving relative links
	QueryParam string `yaml:"query_param"`
	// QueryTemplate expands the search term before it is sent, e.g.
	// "%s public health OR healthcare". Empty means the raw term.
	QueryTemplate string            `yaml:"query_template"`
	ExtraParams   map[string]string `yaml:"extra_params"`

	TimeoutSeconds int `yaml:"timeout_seconds"`
	MaxCandidates  int `yaml:"max_candidates"`

	// TopicalFilter drops extracted records whose title/organization
	// carry no vocabulary keyword. Needed for sources whose server-side
	// search is too loose; precise sources leave it off.
	TopicalFilter bool `yaml:"topical_filter"`

	DefaultOrganization string  `yaml:"default_organization"`
	DefaultLocation     string  `yaml:"default_location"`
	Cascade             Cascade `yaml:"cascade"`
}

type Vocabulary struct {
	HealthKeywords      []string `yaml:"health_keywords"`
	MajorOrganizations  []string `yaml:"major_organizations"`
	PublicHealthPhrases []string `yaml:"public_health_phrases"`
}

type Scoring struct {
	Base              float64 `yaml:"base"`
	TermInTitle       float64 `yaml:"term_in_title"`
	MajorOrganization float64 `yaml:"major_organization"`
	PhraseInTitle     float64 `yaml:"phrase_in_title"`
	Jitter            float64 `yaml:"jitter"`
}

type Recency struct {
	Layouts    []string `yaml:"layouts"` // Go reference-time layouts
	WindowDays int      `yaml:"window_days"`
}

// DescriptionRule maps keyword families in a title to template text.
// Rules are tried in order; the first hit wins.
type DescriptionRule struct {
	Any  []string `yaml:"any"`
	Text string   `yaml:"text"`
}

type Enrichment struct {
	Descriptions        []DescriptionRule `yaml:"descriptions"`
	FallbackDescription string            `yaml:"fallback_description"`
	Countries           map[string]string `yaml:"countries"` // location fragment -> country
}

type Limits struct {
	Workers           int     `yaml:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // per host
	Burst             int     `yaml:"burst"`
	FallbackCap       int     `yaml:"fallback_cap"`
	MaxResults        int     `yaml:"max_results"` // default run cap
}

type Config struct {
	Sources    []Source   `yaml:"sources"`
	Vocabulary Vocabulary `yaml:"vocabulary"`
	Scoring    Scoring    `yaml:"scoring"`
	Recency    Recency    `yaml:"recency"`
	Enrichment Enrichment `yaml:"enrichment"`
	Limits     Limits     `yaml:"limits"`
}

// Load reads a YAML config file and fills any omitted knobs from the
// built-in defaults.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyFallbacks()
	return cfg, nil
}

// Source returns the source with the given id.
func (c Config) Source(id string) (Source, bool) {
	for _, s := range c.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return Source{}, false
}

func (c *Config) applyFallbacks() {
	def := Default()
	if len(c.Sources) == 0 {
		c.Sources = def.Sources
	}
	for i := range c.Sources {
		s := &c.Sources[i]
		if s.TimeoutSeconds == 0 {
			s.TimeoutSeconds = 20
		}
		if s.MaxCandidates == 0 {
			s.MaxCandidates = 15
		}
		if s.DefaultOrganization == "" {
			s.DefaultOrganization = "Healthcare Organization"
		}
		if s.DefaultLocation == "" {
			s.DefaultLocation = "Multiple Locations"
		}
	}
	if len(c.Vocabulary.HealthKeywords) == 0 {
		c.Vocabulary = def.Vocabulary
	}
	if c.Scoring == (Scoring{}) {
		c.Scoring = def.Scoring
	}
	if len(c.Recency.Layouts) == 0 {
		c.Recency.Layouts = def.Recency.Layouts
	}
	if c.Recency.WindowDays == 0 {
		c.Recency.WindowDays = def.Recency.WindowDays
	}
	if len(c.Enrichment.Descriptions) == 0 {
		c.Enrichment = def.Enrichment
	}
	if c.Limits.Workers == 0 {
		c.Limits.Workers = def.Limits.Workers
	}
	if c.Limits.RequestsPerSecond == 0 {
		c.Limits.RequestsPerSecond = def.Limits.RequestsPerSecond
	}
	if c.Limits.Burst == 0 {
		c.Limits.Burst = def.Limits.Burst
	}
	if c.Limits.FallbackCap == 0 {
		c.Limits.FallbackCap = def.Limits.FallbackCap
	}
	if c.Limits.MaxResults == 0 {
		c.Limits.MaxResults = def.Limits.MaxResults
	}
}
