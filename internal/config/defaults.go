package config

// Default returns the built-in configuration: the two bundled source
// profiles plus the public-health vocabulary, scoring weights, and
// enrichment tables. The engine runs with no config file at all.
func Default() Config {
	return Config{
		Sources: []Source{
			{
				ID:         "reliefweb",
				Name:       "ReliefWeb",
				Endpoint:   "https://reliefweb.int/jobs",
				Origin:     "https://reliefweb.int",
				QueryParam: "search",
				ExtraParams: map[string]string{
					"sort": "date",
					"from": "list",
				},
				TimeoutSeconds:      20,
				MaxCandidates:       10,
				TopicalFilter:       false, // server-side search is precise enough
				DefaultOrganization: "Humanitarian Organization",
				DefaultLocation:     "Various Locations",
				Cascade: Cascade{
					Records: []string{
						"article.job",
						".job-list__item",
						".rw-river-article--job",
						".river--result",
						"[data-content-type='job']",
					},
					Title:        []string{"h3", "h4", "a.title"},
					Organization: []string{".organization", ".org", ".agency", ".source"},
					Location:     []string{".country", ".location", ".place"},
					Date:         []string{"time@datetime", "time", ".date"},
					Link:         []string{"a[href]@href"},
				},
			},
			{
				ID:            "linkedin",
				Name:          "LinkedIn",
				Endpoint:      "https://www.linkedin.com/jobs/search/",
				Origin:        "https://www.linkedin.com",
				QueryParam:    "keywords",
				QueryTemplate: "%s public health OR healthcare OR medical OR hospital OR clinic",
				ExtraParams: map[string]string{
					"location": "Worldwide",
					"f_TPR":    "r86400",
					"f_WT":     "2",
					"f_JT":     "F",
					"position": "1",
					"pageNum":  "0",
				},
				TimeoutSeconds:      25,
				MaxCandidates:       12,
				TopicalFilter:       true, // broad board, post-filter by vocabulary
				DefaultOrganization: "Healthcare Organization",
				DefaultLocation:     "Multiple Locations",
				Cascade: Cascade{
					Records: []string{
						".jobs-search__results-list li",
						".job-search-card",
						".base-card",
						".job-card-container",
						"[data-entity-urn*='jobPosting']",
						".occludable-update",
					},
					Title: []string{
						".base-search-card__title",
						".job-card-list__title",
						"h3",
						"h4",
						".job-card-container__link",
					},
					Organization: []string{
						".base-search-card__subtitle",
						".job-card-container__company-name",
						"h4 a",
					},
					Location: []string{
						".job-search-card__location",
						".job-card-container__metadata-item",
						".artdeco-entity-lockup__caption",
					},
					Date: []string{"time@datetime", "time", ".job-search-card__listdate"},
					Link: []string{"a[href]@href"},
				},
			},
		},
		Vocabulary: Vocabulary{
			HealthKeywords: []string{
				"health", "medical", "hospital", "clinic", "care", "patient",
				"clinical", "healthcare", "public health", "epidemiology",
				"biomedical", "pharmacy", "nursing", "doctor", "physician",
				"surgeon", "dentist", "therapist", "counselor", "psychologist",
				"nutrition", "dietitian", "pharmaceutical", "biotech",
			},
			MajorOrganizations: []string{
				"who", "world health organization", "unicef", "cdc",
				"red cross", "msf", "mayo clinic", "johns hopkins",
				"cleveland clinic", "massachusetts general", "partners health",
			},
			PublicHealthPhrases: []string{
				"public health", "epidemiology", "global health", "community health",
				"health policy", "health equity", "preventive medicine", "health promotion",
			},
		},
		Scoring: Scoring{
			Base:              0.5,
			TermInTitle:       0.3,
			MajorOrganization: 0.4,
			PhraseInTitle:     0.2,
			Jitter:            0.1,
		},
		Recency: Recency{
			Layouts:    []string{"2006-01-02", "2 Jan 2006", "Jan 2, 2006"},
			WindowDays: 7,
		},
		Enrichment: Enrichment{
			Descriptions: []DescriptionRule{
				{
					Any:  []string{"epidemiology", "epidemiologist", "surveillance"},
					Text: "Lead epidemiological investigations and research studies. Analyze public health data and contribute to disease surveillance systems. Work with healthcare teams to monitor and respond to health threats.",
				},
				{
					Any:  []string{"policy", "advisor", "consultant"},
					Text: "Develop and implement public health policies and guidelines. Analyze health legislation and provide strategic recommendations. Collaborate with stakeholders to improve health outcomes.",
				},
				{
					Any:  []string{"manager", "coordinator", "director"},
					Text: "Manage public health programs and initiatives. Coordinate with healthcare providers and community organizations. Monitor program effectiveness and ensure compliance with health standards.",
				},
				{
					Any:  []string{"nurse", "nursing", "clinical"},
					Text: "Provide direct patient care and health education. Conduct health assessments and develop care plans. Collaborate with multidisciplinary healthcare teams.",
				},
			},
			FallbackDescription: "Contribute to public health initiatives and research. Collaborate with healthcare professionals to improve community health outcomes. Analyze health data and support public health programs.",
			Countries: map[string]string{
				"usa": "United States", "us": "United States", "united states": "United States",
				"uk": "United Kingdom", "united kingdom": "United Kingdom", "britain": "United Kingdom",
				"canada": "Canada", "ca": "Canada",
				"zimbabwe": "Zimbabwe", "zw": "Zimbabwe", "harare": "Zimbabwe",
				"south africa": "South Africa", "sa": "South Africa",
				"switzerland": "Switzerland", "ch": "Switzerland", "geneva": "Switzerland",
			},
		},
		Limits: Limits{
			Workers:           4,
			RequestsPerSecond: 0.5, // one call per host every 2s
			Burst:             1,
			FallbackCap:       5,
			MaxResults:        20,
		},
	}
}
