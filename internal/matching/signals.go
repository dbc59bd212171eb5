package matching

import (
	"context"
	"math"
	"strings"
	"time"
)

// Content-based sub-weights, summing to 1.0.
const (
	weightDestination = 0.25
	weightTravelStyle = 0.20
	weightInterests   = 0.20
	weightLocation    = 0.15
	weightAge         = 0.10
	weightPersonality = 0.10
)

const (
	ageSigma              = 5.0
	locationMidpointKm    = 100.0
	locationSteepness     = 0.03
	neutralLocationScore  = 0.5
	coldStartScore        = 0.5
	localAreaKm           = 50.0
	explorationEpsilon    = 0.10
	explorationThreshold  = 0.6
	explorationScore      = 0.8
	exploitationScore     = 0.5
	defaultFreshnessScore = 0.8
)

// personalityTraits maps the six trait categories to bio keywords. A
// profile exhibits a trait when its bio mentions any keyword.
var personalityTraits = map[string][]string{
	"adventurous": {"adventure", "hiking", "trek", "extreme", "explore", "outdoor"},
	"social":      {"friends", "party", "people", "social", "meet", "nightlife"},
	"creative":    {"art", "music", "photo", "design", "write", "paint"},
	"analytical":  {"plan", "research", "detail", "budget", "organize", "map"},
	"empathetic":  {"volunteer", "help", "care", "community", "local", "culture"},
	"ambitious":   {"goal", "career", "challenge", "achieve", "bucket list", "dream"},
}

// continentBuckets groups destination keywords for the coarse fallback
// when two destinations match neither exactly nor by country.
var continentBuckets = map[string][]string{
	"asia":     {"japan", "china", "thailand", "vietnam", "korea", "india", "indonesia", "singapore", "malaysia", "philippines", "nepal"},
	"europe":   {"france", "italy", "spain", "germany", "portugal", "greece", "netherlands", "croatia", "iceland", "norway", "uk", "england"},
	"americas": {"usa", "united states", "canada", "mexico", "brazil", "peru", "argentina", "colombia", "chile", "costa rica"},
	"africa":   {"morocco", "egypt", "kenya", "tanzania", "south africa", "namibia", "ghana"},
	"oceania":  {"australia", "new zealand", "fiji", "tahiti"},
}

// signalScorer computes the six independent signals for a profile pair.
// It is stateless apart from the injected collaborators; the random
// source for the diversity signal is passed per call so concurrent
// scoring stays reproducible under a seeded engine.
type signalScorer struct {
	graph   SocialGraphProvider
	similar InteractionSimilarityProvider
	now     func() time.Time
}

func newSignalScorer(graph SocialGraphProvider, similar InteractionSimilarityProvider) *signalScorer {
	return &signalScorer{
		graph:   graph,
		similar: similar,
		now:     time.Now,
	}
}

// scoreContentBased is the weighted feature-similarity signal.
func (s *signalScorer) scoreContentBased(requester, candidate *Profile) float64 {
	destination := destinationSimilarity(requester.NextDestination, candidate.NextDestination)
	styles := Jaccard(requester.TravelStyles, candidate.TravelStyles)
	interests := Jaccard(requester.Interests, candidate.Interests)
	location := locationScore(requester.Location, candidate.Location)
	age := GaussianSimilarity(float64(requester.Age), float64(candidate.Age), ageSigma)
	personality := Jaccard(traitSet(requester.Bio), traitSet(candidate.Bio))

	score := destination*weightDestination +
		styles*weightTravelStyle +
		interests*weightInterests +
		location*weightLocation +
		age*weightAge +
		personality*weightPersonality

	return clamp01(score)
}

// scoreCollaborative weights the decisions of users with overlapping
// swipe history. Cold start and no-similar-users both land on 0.5.
func (s *signalScorer) scoreCollaborative(ctx context.Context, history *InteractionHistory, candidate *Profile) float64 {
	if history.InteractionCount() == 0 {
		return coldStartScore
	}

	similar := s.similar.SimilarUsers(ctx, history)
	if len(similar) == 0 {
		return coldStartScore
	}

	var positive, total float64
	for _, user := range similar {
		decision, ok := user.Decisions[candidate.ID]
		if !ok {
			continue
		}
		total += user.Similarity
		if decision == DecisionPositive {
			positive += user.Similarity
		}
	}

	if total == 0 {
		return coldStartScore
	}

	return clamp01(positive / total)
}

// scoreGraph combines mutual connections, destination clustering and
// local proximity into a lightweight social-graph heuristic.
func (s *signalScorer) scoreGraph(ctx context.Context, requester, candidate *Profile) float64 {
	score := math.Min(float64(s.graph.MutualConnections(ctx, requester.ID, candidate.ID))/10, 0.5)

	if sameDestinationCluster(requester.NextDestination, candidate.NextDestination) {
		score += 0.3
	}

	if requester.Location != nil && candidate.Location != nil {
		if HaversineDistanceKm(*requester.Location, *candidate.Location) < localAreaKm {
			score += 0.2
		}
	}

	return clamp01(score)
}

// scoreText is TF-IDF cosine over the two profile documents.
func (s *signalScorer) scoreText(requester, candidate *Profile) float64 {
	return pairDocumentSimilarity(requester, candidate)
}

// scoreTemporal weights travel-date overlap, profile freshness and a
// constant recently-active baseline.
func (s *signalScorer) scoreTemporal(requester, candidate *Profile) float64 {
	overlap := travelDateOverlap(requester.TravelDates, candidate.TravelDates)
	freshness := s.freshness(candidate)
	const activeBaseline = 1.0 // no last-active signal wired in yet

	return clamp01(overlap*0.5 + freshness*0.3 + activeBaseline*0.2)
}

// scoreDiversity is the one stochastic signal: an epsilon-greedy
// exploration bump for sufficiently dissimilar pairs.
func (s *signalScorer) scoreDiversity(requester, candidate *Profile, roll float64) float64 {
	if roll >= explorationEpsilon {
		return exploitationScore
	}

	diversity := 1 - Jaccard(combinedTags(requester), combinedTags(candidate))
	if diversity > explorationThreshold {
		return explorationScore
	}

	return exploitationScore
}

func (s *signalScorer) freshness(p *Profile) float64 {
	if p.UpdatedAt.IsZero() {
		return defaultFreshnessScore
	}

	days := s.now().Sub(p.UpdatedAt).Hours() / 24
	if days < 0 {
		days = 0
	}

	return clamp01(1 - days/90)
}

func locationScore(a, b *Coordinates) float64 {
	if a == nil || b == nil {
		return neutralLocationScore
	}
	return SigmoidFalloff(HaversineDistanceKm(*a, *b), locationMidpointKm, locationSteepness)
}

func destinationSimilarity(a, b string) float64 {
	na := normalizeDestination(a)
	nb := normalizeDestination(b)

	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if sameCountry(na, nb) {
		return 0.7
	}
	if bucketA, ok := continentOf(na); ok {
		if bucketB, okB := continentOf(nb); okB && bucketA == bucketB {
			return 0.4
		}
	}

	return 0.1
}

func normalizeDestination(dest string) string {
	return strings.ToLower(strings.TrimSpace(dest))
}

// sameCountry compares the last comma-separated component, which is the
// country in "City, Country" style destination strings.
func sameCountry(a, b string) bool {
	ca := lastComponent(a)
	cb := lastComponent(b)
	return ca != "" && ca == cb
}

func lastComponent(dest string) string {
	parts := strings.Split(dest, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

func continentOf(dest string) (string, bool) {
	for continent, keywords := range continentBuckets {
		for _, kw := range keywords {
			if strings.Contains(dest, kw) {
				return continent, true
			}
		}
	}
	return "", false
}

// sameDestinationCluster reports whether two destination strings share
// their leading token, e.g. "tokyo, japan" and "tokyo area".
func sameDestinationCluster(a, b string) bool {
	ta := firstToken(normalizeDestination(a))
	tb := firstToken(normalizeDestination(b))
	return ta != "" && ta == tb
}

func firstToken(dest string) string {
	fields := strings.FieldsFunc(dest, func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func traitSet(bio string) []string {
	lowered := strings.ToLower(bio)

	var traits []string
	for trait, keywords := range personalityTraits {
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				traits = append(traits, trait)
				break
			}
		}
	}

	return traits
}

// travelDateOverlap scores how much two declared travel windows overlap.
// Unparseable or absent dates contribute the neutral 0.5.
func travelDateOverlap(a, b string) float64 {
	startA, endA, okA := parseTravelWindow(a)
	startB, endB, okB := parseTravelWindow(b)
	if !okA || !okB {
		return 0.5
	}

	overlapStart := maxTime(startA, startB)
	overlapEnd := minTime(endA, endB)
	if !overlapEnd.After(overlapStart) {
		return 0
	}

	overlap := overlapEnd.Sub(overlapStart)
	shorter := minDuration(endA.Sub(startA), endB.Sub(startB))
	if shorter <= 0 {
		return 0
	}

	return clamp01(float64(overlap) / float64(shorter))
}

// parseTravelWindow accepts "2026-07", "2026-07-15" and "start to end"
// ranges of either form. A single month spans the whole month; a single
// day spans a default two-week trip.
func parseTravelWindow(s string) (time.Time, time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, time.Time{}, false
	}

	if from, to, found := strings.Cut(s, " to "); found {
		start, _, okFrom := parseTravelWindow(from)
		_, end, okTo := parseTravelWindow(to)
		if okFrom && okTo && end.After(start) {
			return start, end, true
		}
		return time.Time{}, time.Time{}, false
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, t.AddDate(0, 0, 14), true
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return t, t.AddDate(0, 1, 0), true
	}

	return time.Time{}, time.Time{}, false
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
