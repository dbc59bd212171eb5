package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateOverallBounds(t *testing.T) {
	agg := newAggregator(nil)
	requester := &Profile{ID: "u1", Age: 30}
	candidate := &Profile{ID: "u2", Age: 30}

	cases := []rawSignals{
		{0, 0, 0, 0, 0, 0},
		{1, 1, 1, 1, 1, 1},
		{0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
		{1, 0, 1, 0, 1, 0},
	}

	for _, signals := range cases {
		overall, score := agg.aggregate(requester, candidate, nil, signals)
		assert.GreaterOrEqual(t, overall, 0.0)
		assert.LessOrEqual(t, overall, 1.0)
		assert.GreaterOrEqual(t, score.Overall, 0.0)
		assert.LessOrEqual(t, score.Overall, 100.0)
		assert.GreaterOrEqual(t, score.Confidence, 0.0)
		assert.LessOrEqual(t, score.Confidence, 100.0)
	}
}

func TestAggregateAppliesWeights(t *testing.T) {
	agg := newAggregator(nil)
	requester := &Profile{ID: "u1", Age: 30}
	candidate := &Profile{ID: "u2", Age: 30}

	overall, score := agg.aggregate(requester, candidate, nil, rawSignals{
		contentBased:      1,
		collaborative:     0,
		graphSimilarity:   0,
		textSimilarity:    0,
		temporalRelevance: 0,
		diversityBonus:    0,
	})

	assert.InDelta(t, 0.35, overall, 1e-9)
	assert.InDelta(t, 35, score.Overall, 1e-9)
	assert.InDelta(t, 100, score.Breakdown.ContentBased, 1e-9)
	assert.Zero(t, score.Breakdown.Collaborative)
}

func TestProfileCompleteness(t *testing.T) {
	assert.Zero(t, profileCompleteness(&Profile{ID: "u", Age: 20}))

	full := &Profile{
		ID:              "u",
		Age:             20,
		Bio:             "a bio definitely longer than twenty characters",
		Interests:       []string{"a", "b", "c"},
		TravelStyles:    []string{"x", "y"},
		Location:        &Coordinates{Latitude: 1, Longitude: 2},
		NextDestination: "Lisbon, Portugal",
	}
	assert.InDelta(t, 1.0, profileCompleteness(full), 1e-9)
}

func TestConfidenceHistoryTiers(t *testing.T) {
	agg := newAggregator(nil)
	a := &Profile{ID: "u1", Age: 30}
	b := &Profile{ID: "u2", Age: 30}

	none := agg.confidence(a, b, nil)

	some := agg.confidence(a, b, &InteractionHistory{
		Decisions: map[string]string{"x": DecisionPositive},
	})

	decisions := map[string]string{}
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"} {
		decisions[id] = DecisionPositive
	}
	deep := agg.confidence(a, b, &InteractionHistory{Decisions: decisions})

	assert.InDelta(t, 0.1, some-none, 1e-9)
	assert.InDelta(t, 0.3, deep-none, 1e-9)
}

func TestQualityRatingBase(t *testing.T) {
	agg := newAggregator(nil)

	// equal ratings: expected 0.5, so 1500 + 50
	assert.InDelta(t, 1550, agg.qualityRating("u1", "u2"), 1e-9)
}

func TestQualityRatingFromStore(t *testing.T) {
	store := NewRatingStore(map[string]float64{"strong": 1700, "weak": 1300}, nil, nil)
	agg := newAggregator(store)

	rating := agg.qualityRating("weak", "strong")
	// average 1500 plus a high expected score for the underdog pairing
	assert.Greater(t, rating, 1550.0)
	assert.Less(t, rating, 1600.0)
}

func TestBuildReasons(t *testing.T) {
	t.Run("only strong signals in the top three emit reasons", func(t *testing.T) {
		reasons := buildReasons(rawSignals{
			contentBased:      0.9,
			collaborative:     0.8,
			graphSimilarity:   0.75,
			textSimilarity:    0.72,
			temporalRelevance: 0.1,
			diversityBonus:    0.1,
		})

		assert.Len(t, reasons, 3)
		assert.Contains(t, reasons, signalReasons["content_based"])
		assert.NotContains(t, reasons, signalReasons["text_similarity"], "fourth-ranked signal is cut")
	})

	t.Run("weak signals emit nothing", func(t *testing.T) {
		assert.Empty(t, buildReasons(rawSignals{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}))
	})
}

func TestBuildSuggestions(t *testing.T) {
	sparse := &Profile{ID: "u", Age: 25}
	suggestions := buildSuggestions(sparse)
	assert.Len(t, suggestions, 5)

	complete := &Profile{
		ID:              "u",
		Age:             25,
		Bio:             "a biography comfortably past the fifty character floor",
		Interests:       []string{"a", "b", "c"},
		TravelStyles:    []string{"x", "y"},
		Location:        &Coordinates{Latitude: 1, Longitude: 2},
		NextDestination: "Oslo, Norway",
	}
	assert.Empty(t, buildSuggestions(complete))
}

func TestCategoryFor(t *testing.T) {
	assert.Equal(t, CategoryPerfect, categoryFor(95))
	assert.Equal(t, CategoryPerfect, categoryFor(90))
	assert.Equal(t, CategoryExcellent, categoryFor(85))
	assert.Equal(t, CategoryGood, categoryFor(72))
	assert.Equal(t, CategoryPotential, categoryFor(61))
	assert.Equal(t, CategoryExploratory, categoryFor(40))
}
