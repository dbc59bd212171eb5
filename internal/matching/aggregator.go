package matching

import (
	"math"
)

// Top-level signal weights, summing to 1.0.
const (
	weightContentBased      = 0.35
	weightCollaborative     = 0.25
	weightGraphSimilarity   = 0.15
	weightTextSimilarity    = 0.15
	weightTemporalRelevance = 0.05
	weightDiversityBonus    = 0.05
)

const (
	baseQualityRating = 1500.0
	reasonThreshold   = 0.7
)

var signalReasons = map[string]string{
	"content_based":      "Strong match on travel preferences and interests",
	"collaborative":      "Liked by travelers with taste similar to yours",
	"graph_similarity":   "Part of your wider travel circle",
	"text_similarity":    "Your profiles tell a very similar story",
	"temporal_relevance": "Travel plans line up well",
	"diversity_bonus":    "A fresh pick outside your usual pattern",
}

// aggregator folds the six raw signals into a CompatibilityScore. The
// rating store feeds in accumulated quality ratings when it has them;
// otherwise both sides sit at the base rating.
type aggregator struct {
	ratings *RatingStore
}

func newAggregator(ratings *RatingStore) *aggregator {
	return &aggregator{ratings: ratings}
}

// aggregate produces the display-scale score for one pair. The overall
// stays on 0-1 internally for ranking; display fields convert once here.
func (a *aggregator) aggregate(requester, candidate *Profile, history *InteractionHistory, signals rawSignals) (float64, *CompatibilityScore) {
	overall := signals.contentBased*weightContentBased +
		signals.collaborative*weightCollaborative +
		signals.graphSimilarity*weightGraphSimilarity +
		signals.textSimilarity*weightTextSimilarity +
		signals.temporalRelevance*weightTemporalRelevance +
		signals.diversityBonus*weightDiversityBonus
	overall = clamp01(overall)

	score := &CompatibilityScore{
		Overall:    round2(overall * 100),
		Confidence: round2(a.confidence(requester, candidate, history) * 100),
		Breakdown: SignalBreakdown{
			ContentBased:      round2(signals.contentBased * 100),
			Collaborative:     round2(signals.collaborative * 100),
			GraphSimilarity:   round2(signals.graphSimilarity * 100),
			TextSimilarity:    round2(signals.textSimilarity * 100),
			TemporalRelevance: round2(signals.temporalRelevance * 100),
			DiversityBonus:    round2(signals.diversityBonus * 100),
		},
		QualityRating: round2(a.qualityRating(requester.ID, candidate.ID)),
		Reasons:       buildReasons(signals),
		Suggestions:   buildSuggestions(requester),
	}

	return overall, score
}

// confidence estimates how much data backed the score: profile
// completeness (0.4), history depth (0.3) and shared data categories
// (up to 0.3).
func (a *aggregator) confidence(requester, candidate *Profile, history *InteractionHistory) float64 {
	completeness := (profileCompleteness(requester) + profileCompleteness(candidate)) / 2

	var historical float64
	switch n := history.InteractionCount(); {
	case n > 10:
		historical = 0.3
	case n >= 1:
		historical = 0.1
	}

	common := math.Min(float64(commonDataPoints(requester, candidate))/10, 0.3)

	return clamp01(completeness*0.4 + historical + common)
}

// profileCompleteness is five binary checks worth 0.2 each.
func profileCompleteness(p *Profile) float64 {
	var score float64
	if len(p.Bio) > 20 {
		score += 0.2
	}
	if len(p.Interests) >= 3 {
		score += 0.2
	}
	if len(p.TravelStyles) >= 2 {
		score += 0.2
	}
	if p.Location != nil {
		score += 0.2
	}
	if p.NextDestination != "" {
		score += 0.2
	}
	return score
}

// commonDataPoints counts the data categories both profiles filled in.
func commonDataPoints(a, b *Profile) int {
	count := 0
	if a.Bio != "" && b.Bio != "" {
		count++
	}
	if len(a.Interests) > 0 && len(b.Interests) > 0 {
		count++
	}
	if len(a.TravelStyles) > 0 && len(b.TravelStyles) > 0 {
		count++
	}
	if a.Location != nil && b.Location != nil {
		count++
	}
	if a.NextDestination != "" && b.NextDestination != "" {
		count++
	}
	if a.TravelDates != "" && b.TravelDates != "" {
		count++
	}
	return count
}

// qualityRating is the descriptive ELO-style pair rating. It never feeds
// back into ranking; RecordOutcome on the rating store is the extension
// point that makes the numbers move.
func (a *aggregator) qualityRating(requesterID, candidateID string) float64 {
	rating1 := baseQualityRating
	rating2 := baseQualityRating
	if a.ratings != nil {
		rating1 = a.ratings.Rating(requesterID)
		rating2 = a.ratings.Rating(candidateID)
	}

	expected := 1 / (1 + math.Pow(10, (rating1-rating2)/400))

	return (rating1+rating2)/2 + expected*100
}

// buildReasons emits one templated sentence per top-3 signal scoring
// above the threshold.
func buildReasons(signals rawSignals) []string {
	type namedSignal struct {
		name  string
		score float64
	}

	ordered := []namedSignal{
		{"content_based", signals.contentBased},
		{"collaborative", signals.collaborative},
		{"graph_similarity", signals.graphSimilarity},
		{"text_similarity", signals.textSimilarity},
		{"temporal_relevance", signals.temporalRelevance},
		{"diversity_bonus", signals.diversityBonus},
	}

	// selection sort of six entries, keeps ties stable
	for i := 0; i < 3; i++ {
		best := i
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].score > ordered[best].score {
				best = j
			}
		}
		ordered[i], ordered[best] = ordered[best], ordered[i]
	}

	var reasons []string
	for _, sig := range ordered[:3] {
		if sig.score > reasonThreshold {
			reasons = append(reasons, signalReasons[sig.name])
		}
	}

	return reasons
}

// buildSuggestions offers static profile improvements to the requester.
// They never reference the candidate.
func buildSuggestions(requester *Profile) []string {
	var suggestions []string

	if len(requester.Interests) < 3 {
		suggestions = append(suggestions, "Add more interests so we can find better travel buddies for you")
	}
	if len(requester.Bio) < 50 {
		suggestions = append(suggestions, "Expand your bio to tell potential buddies more about yourself")
	}
	if len(requester.TravelStyles) < 2 {
		suggestions = append(suggestions, "Pick a couple of travel styles that describe how you like to travel")
	}
	if requester.NextDestination == "" {
		suggestions = append(suggestions, "Set your next destination to meet people heading the same way")
	}
	if requester.Location == nil {
		suggestions = append(suggestions, "Share your location to discover travelers nearby")
	}

	return suggestions
}

// categoryFor maps a display-scale overall score to its label.
func categoryFor(overall float64) string {
	switch {
	case overall >= 90:
		return CategoryPerfect
	case overall >= 80:
		return CategoryExcellent
	case overall >= 70:
		return CategoryGood
	case overall >= 60:
		return CategoryPotential
	default:
		return CategoryExploratory
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
