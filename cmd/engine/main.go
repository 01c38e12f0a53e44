package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"healthjobs-engine/internal/aggregate"
	"healthjobs-engine/internal/config"
	"healthjobs-engine/internal/domain"
	"healthjobs-engine/internal/enrich"
	"healthjobs-engine/internal/fetch"
	"healthjobs-engine/internal/rank"
	"healthjobs-engine/internal/recency"
)

// runResult is the envelope printed on stdout after a run.
type runResult struct {
	SearchTerms []string               `json:"search_terms"`
	TotalJobs   int                    `json:"total_jobs"`
	Jobs        []domain.Listing       `json:"jobs"`
	Filters     map[string]interface{} `json:"filters_applied"`
	Timestamp   string                 `json:"timestamp"`
}

func main() {
	var (
		cfgPath      = flag.String("config", "", "path to a YAML config file (built-in defaults when empty)")
		terms        = flag.String("terms", "", "comma-separated search terms (required)")
		sources      = flag.String("sources", "", "comma-separated source ids (all configured when empty)")
		maxResults   = flag.Int("max", 0, "maximum result count (configured default when 0)")
		minRelevance = flag.Float64("min-relevance", 0, "minimum relevance score in [0,1]")
		recentOnly   = flag.Bool("recent", false, "keep only listings classified as recent")
		doEnrich     = flag.Bool("enrich", true, "derive description/work arrangement/country")
		timeout      = flag.Duration("timeout", 3*time.Minute, "overall run timeout")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("config load failed (%s): %v", *cfgPath, err)
		}
		cfg = loaded
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	// cycles run concurrently and math/rand.Rand is not safe to share,
	// so both random dependencies go through one locked source
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var rngMu sync.Mutex
	randFloat := func() float64 {
		rngMu.Lock()
		defer rngMu.Unlock()
		return rng.Float64()
	}

	limiter := fetch.NewHostLimiter(cfg.Limits.RequestsPerSecond, cfg.Limits.Burst)
	client := fetch.NewClient(30*time.Second, limiter)
	scorer := rank.KeywordScorer{
		Weights: cfg.Scoring,
		Vocab:   cfg.Vocabulary,
		Jitter:  randFloat,
	}
	// An unparsable date leans recent more often than not; job boards
	// mostly surface fresh postings.
	classifier := recency.NewClassifier(cfg.Recency, func() bool {
		return randFloat() > 0.3
	})
	enricher := enrich.New(cfg.Enrichment)

	agg := aggregate.New(cfg, client, scorer, classifier, enricher)

	req := aggregate.Request{
		SearchTerms:  splitList(*terms),
		Sources:      splitList(*sources),
		MaxResults:   *maxResults,
		MinRelevance: *minRelevance,
		RecentOnly:   *recentOnly,
		Enrich:       *doEnrich,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	listings, err := agg.Run(ctx, req)
	if err != nil {
		if errors.Is(err, aggregate.ErrNoSearchTerms) {
			fmt.Fprintln(os.Stderr, "usage: engine -terms \"public health,epidemiology\" [-sources reliefweb,linkedin]")
			os.Exit(2)
		}
		log.Fatalf("run failed: %v", err)
	}

	if listings == nil {
		listings = []domain.Listing{}
	}
	out := runResult{
		SearchTerms: req.SearchTerms,
		TotalJobs:   len(listings),
		Jobs:        listings,
		Filters: map[string]interface{}{
			"min_relevance":    req.MinRelevance,
			"show_only_recent": req.RecentOnly,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode results: %v", err)
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
