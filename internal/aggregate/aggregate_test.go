package aggregate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthjobs-engine/internal/config"
	"healthjobs-engine/internal/domain"
	"healthjobs-engine/internal/enrich"
	"healthjobs-engine/internal/fetch"
	"healthjobs-engine/internal/recency"
)

// stubScorer scores from a title lookup so tests control ranking.
type stubScorer struct {
	scores map[string]float64
}

func (s stubScorer) Score(title, organization, term string) float64 {
	if v, ok := s.scores[title]; ok {
		return v
	}
	return 0.5
}

func testCascade() config.Cascade {
	return config.Cascade{
		Records: []string{"article.job"},
		Title:   []string{"h3"},
		Date:    []string{".date"},
		Link:    []string{"a[href]@href"},
	}
}

func testConfig(alphaURL, betaURL string) config.Config {
	cfg := config.Default()
	cfg.Sources = []config.Source{
		{
			ID: "alpha", Name: "Alpha", Endpoint: alphaURL,
			Origin: "https://alpha.example", QueryParam: "search",
			TimeoutSeconds: 5, MaxCandidates: 15,
			DefaultOrganization: "Org A", DefaultLocation: "Anywhere",
			Cascade: testCascade(),
		},
		{
			ID: "beta", Name: "Beta", Endpoint: betaURL,
			Origin: "https://beta.example", QueryParam: "search",
			TimeoutSeconds: 5, MaxCandidates: 15,
			DefaultOrganization: "Org B", DefaultLocation: "Anywhere",
			Cascade: testCascade(),
		},
	}
	cfg.Limits.Workers = 4
	cfg.Limits.RequestsPerSecond = 1000
	cfg.Limits.Burst = 100
	return cfg
}

func newTestAggregator(cfg config.Config, scores map[string]float64) *Aggregator {
	classifier := recency.NewClassifier(cfg.Recency, nil)
	classifier.Now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return New(
		cfg,
		fetch.NewClient(5*time.Second, nil),
		stubScorer{scores: scores},
		classifier,
		enrich.New(cfg.Enrichment),
	)
}

func jobHTML(title, href, date string) string {
	return fmt.Sprintf(`<article class="job"><h3>%s</h3><span class="date">%s</span><a href=%q>x</a></article>`, title, date, href)
}

func TestRunDeduplicatesAcrossSourcesDeterministically(t *testing.T) {
	shared := "https://alpha.example/job/1"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/alpha"):
			fmt.Fprint(w, jobHTML("Alpha First Title", shared, "today"))
		default:
			fmt.Fprint(w, jobHTML("Beta Second Title", shared, "today"))
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL+"/alpha", srv.URL+"/beta")
	agg := newTestAggregator(cfg, nil)

	for i := 0; i < 5; i++ {
		got, err := agg.Run(context.Background(), Request{SearchTerms: []string{"health"}})
		require.NoError(t, err)
		require.Len(t, got, 1, "same URL from both sources must collapse to one")
		// cycle index breaks the tie: alpha is the lower (term,source) pair
		assert.Equal(t, "Alpha First Title", got[0].Title)
	}
}

func TestRunDedupKeyFallsBackToTitleOrg(t *testing.T) {
	// both records carry the same placeholder search URL; identity
	// must come from title+organization
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w,
			jobHTML("Health Officer", "https://alpha.example/jobs/search?q=health", "today"),
			jobHTML("Health Analyst", "https://alpha.example/jobs/search?q=health", "today"),
		)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL+"/alpha", srv.URL+"/beta")
	cfg.Sources = cfg.Sources[:1]
	agg := newTestAggregator(cfg, nil)

	got, err := agg.Run(context.Background(), Request{SearchTerms: []string{"health"}})
	require.NoError(t, err)
	assert.Len(t, got, 2, "distinct titles under a placeholder URL are distinct records")
}

func TestRunFiltersAfterDedup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w,
			jobHTML("High Score Job", "https://alpha.example/job/1", "today"),
			jobHTML("Low Score Job", "https://alpha.example/job/2", "today"),
			jobHTML("Stale High Job", "https://alpha.example/job/3", "2020-01-01"),
		)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL+"/alpha", srv.URL+"/beta")
	cfg.Sources = cfg.Sources[:1]
	agg := newTestAggregator(cfg, map[string]float64{
		"High Score Job": 0.9,
		"Low Score Job":  0.2,
		"Stale High Job": 0.95,
	})

	got, err := agg.Run(context.Background(), Request{
		SearchTerms:  []string{"health"},
		MinRelevance: 0.5,
		RecentOnly:   true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "High Score Job", got[0].Title)

	for _, l := range got {
		assert.GreaterOrEqual(t, l.RelevanceScore, 0.5)
		assert.True(t, l.IsRecent)
	}
}

func TestRunRanksAndTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w,
			jobHTML("Job Bronze", "https://alpha.example/job/1", "today"),
			jobHTML("Job Gold", "https://alpha.example/job/2", "today"),
			jobHTML("Job Silver", "https://alpha.example/job/3", "today"),
		)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL+"/alpha", srv.URL+"/beta")
	cfg.Sources = cfg.Sources[:1]
	agg := newTestAggregator(cfg, map[string]float64{
		"Job Bronze": 0.3,
		"Job Gold":   0.9,
		"Job Silver": 0.6,
	})

	got, err := agg.Run(context.Background(), Request{SearchTerms: []string{"health"}, MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, got, 2, "truncation happens after ranking")
	assert.Equal(t, "Job Gold", got[0].Title)
	assert.Equal(t, "Job Silver", got[1].Title)
}

func TestRunStableSortKeepsInsertionOrderOnTies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w,
			jobHTML("Tie One", "https://alpha.example/job/1", "today"),
			jobHTML("Tie Two", "https://alpha.example/job/2", "today"),
			jobHTML("Tie Three", "https://alpha.example/job/3", "today"),
		)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL+"/alpha", srv.URL+"/beta")
	cfg.Sources = cfg.Sources[:1]
	agg := newTestAggregator(cfg, nil) // stub default scores everything 0.5

	got, err := agg.Run(context.Background(), Request{SearchTerms: []string{"health"}})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Tie One", "Tie Two", "Tie Three"},
		[]string{got[0].Title, got[1].Title, got[2].Title})
}

func TestRunSynthesizesFallbackWhenAllSourcesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL+"/alpha", srv.URL+"/beta")
	agg := newTestAggregator(cfg, nil)

	got, err := agg.Run(context.Background(), Request{
		SearchTerms: []string{"monitoring", "evaluation"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2, "one placeholder per search term")

	titles := []string{got[0].Title, got[1].Title}
	for _, l := range got {
		assert.False(t, l.Authentic)
		assert.True(t, l.IsRecent)
		assert.NotEmpty(t, l.URL)
		assert.GreaterOrEqual(t, l.RelevanceScore, 0.70)
	}
	assert.Contains(t, titles, "Public Health Monitoring Position")
	assert.Contains(t, titles, "Public Health Evaluation Position")
}

func TestRunFallbackCapBoundsPlaceholders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL+"/alpha", srv.URL+"/beta")
	cfg.Limits.FallbackCap = 3
	agg := newTestAggregator(cfg, nil)

	got, err := agg.Run(context.Background(), Request{
		SearchTerms: []string{"a1", "b2", "c3", "d4", "e5", "f6"},
	})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRunNoFallbackWhenAnyAuthenticRecordExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/alpha") {
			fmt.Fprint(w, jobHTML("Only Real Job", "https://alpha.example/job/1", "today"))
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL+"/alpha", srv.URL+"/beta")
	agg := newTestAggregator(cfg, nil)

	got, err := agg.Run(context.Background(), Request{SearchTerms: []string{"health"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Authentic)
}

func TestRunEnrichmentPass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, jobHTML("Remote Epidemiologist", "https://alpha.example/job/1", "today"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL+"/alpha", srv.URL+"/beta")
	cfg.Sources = cfg.Sources[:1]
	agg := newTestAggregator(cfg, nil)

	plain, err := agg.Run(context.Background(), Request{SearchTerms: []string{"health"}})
	require.NoError(t, err)
	require.Len(t, plain, 1)
	assert.Empty(t, plain[0].Description, "enrichment fields absent unless requested")

	enriched, err := agg.Run(context.Background(), Request{SearchTerms: []string{"health"}, Enrich: true})
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Contains(t, enriched[0].Description, "epidemiological")
	assert.Equal(t, "Remote", enriched[0].WorkArrangement)
	assert.Equal(t, "Various", enriched[0].Country)
}

func TestRunInvalidRequests(t *testing.T) {
	cfg := testConfig("https://unused.example", "https://unused.example")
	agg := newTestAggregator(cfg, nil)

	_, err := agg.Run(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNoSearchTerms)

	_, err = agg.Run(context.Background(), Request{SearchTerms: []string{"  ", ""}})
	assert.ErrorIs(t, err, ErrNoSearchTerms)

	_, err = agg.Run(context.Background(), Request{SearchTerms: []string{"health"}, Sources: []string{"nope"}})
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = agg.Run(context.Background(), Request{SearchTerms: []string{"health"}, MinRelevance: 1.5})
	assert.Error(t, err)
}

func listing(title, org, url string) domain.Listing {
	return domain.Listing{Title: title, Organization: org, URL: url}
}

func TestDedupKeyCanonicalizesURLs(t *testing.T) {
	a := dedupKey(listing("Job", "Org", "https://Example.com/job/1?utm_source=x"))
	b := dedupKey(listing("Job", "Org", "https://example.com/job/1"))
	assert.Equal(t, a, b)

	c := dedupKey(listing("Job", "Org", "https://example.com/job/2"))
	assert.NotEqual(t, a, c)
}

func TestDedupKeyPlaceholderFallsBackToTitleOrg(t *testing.T) {
	a := dedupKey(listing("Job A", "Org", "https://example.com/jobs/search?q=x"))
	b := dedupKey(listing("Job B", "Org", "https://example.com/jobs/search?q=x"))
	assert.NotEqual(t, a, b)

	c := dedupKey(listing("Job A", "Org", ""))
	d := dedupKey(listing("job a", "ORG", ""))
	assert.Equal(t, c, d, "title+org identity is case-insensitive")
}
