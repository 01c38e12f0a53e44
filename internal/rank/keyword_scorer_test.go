package rank

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"healthjobs-engine/internal/config"
)

func testScorer(jitter func() float64) KeywordScorer {
	def := config.Default()
	return KeywordScorer{
		Weights: def.Scoring,
		Vocab:   def.Vocabulary,
		Jitter:  jitter,
	}
}

func TestScoreTermInTitle(t *testing.T) {
	s := testScorer(nil)

	got := s.Score("Epidemiologist", "Regional NGO", "epidemiology")
	assert.Greater(t, got, 0.5, "term-in-title boost should lift the base score")
	assert.LessOrEqual(t, got, 1.0)

	base := s.Score("Accountant", "Regional NGO", "epidemiology")
	assert.Equal(t, 0.5, base, "no boost applies")
}

func TestScoreMajorOrganizationBoost(t *testing.T) {
	s := testScorer(nil)

	withOrg := s.Score("Program Officer", "World Health Organization", "monitoring")
	plain := s.Score("Program Officer", "Some Company", "monitoring")
	assert.Greater(t, withOrg, plain)
}

func TestScorePhraseBoost(t *testing.T) {
	s := testScorer(nil)

	withPhrase := s.Score("Community Health Worker", "Some Company", "nothing")
	plain := s.Score("Warehouse Worker", "Some Company", "nothing")
	assert.Greater(t, withPhrase, plain)
}

func TestScoreClampedToUnitRange(t *testing.T) {
	s := testScorer(nil)

	// all boosts at once: 0.5 + 0.3 + 0.4 + 0.2 > 1 before clamping
	got := s.Score("Public Health Epidemiology Lead", "WHO", "epidemiology")
	assert.Equal(t, 1.0, got)
}

func TestScoreJitterStaysInRange(t *testing.T) {
	s := testScorer(rand.New(rand.NewSource(42)).Float64)

	for i := 0; i < 200; i++ {
		got := s.Score("Public Health Epidemiology Lead", "WHO", "epidemiology")
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestScoreDeterministicWithoutJitter(t *testing.T) {
	s := testScorer(nil)

	a := s.Score("Health Policy Advisor", "UNICEF", "policy")
	b := s.Score("Health Policy Advisor", "UNICEF", "policy")
	assert.Equal(t, a, b)
}
