package matching

import (
	"time"
)

// Swipe decisions recorded against a profile.
const (
	DecisionPositive = "positive"
	DecisionNegative = "negative"
)

// Match categories derived from the overall score (display scale).
const (
	CategoryPerfect     = "perfect"
	CategoryExcellent   = "excellent"
	CategoryGood        = "good"
	CategoryPotential   = "potential"
	CategoryExploratory = "exploratory"
)

// Coordinates is a latitude/longitude pair. A profile either has both
// values or neither; a half-set pair is rejected at validation.
type Coordinates struct {
	Latitude  float64 `json:"latitude" db:"location_lat"`
	Longitude float64 `json:"longitude" db:"location_lng"`
}

// PreferenceSettings are per-user settings carried on the profile record.
// The engine only reads the age range and distance; the notification and
// privacy flags belong to other parts of the backend.
type PreferenceSettings struct {
	MinAge              int     `json:"min_age" db:"preferred_min_age"`
	MaxAge              int     `json:"max_age" db:"preferred_max_age"`
	MaxDistanceKm       float64 `json:"max_distance_km" db:"preferred_distance"`
	NotificationsOn     bool    `json:"notifications_on" db:"notifications_on"`
	HideFromDiscovery   bool    `json:"hide_from_discovery" db:"hide_from_discovery"`
	ShowDistanceOnCards bool    `json:"show_distance_on_cards" db:"show_distance"`
}

// Profile is the read-only traveler record the engine scores. It is
// supplied by the profile store; the engine never mutates it.
type Profile struct {
	ID              string              `json:"id" db:"id"`
	DisplayName     string              `json:"display_name" db:"display_name"`
	Age             int                 `json:"age" db:"age"`
	Bio             string              `json:"bio" db:"bio"`
	Location        *Coordinates        `json:"location,omitempty"`
	CurrentCity     string              `json:"current_city" db:"current_city"`
	TravelStyles    []string            `json:"travel_styles" db:"travel_styles"`
	Interests       []string            `json:"interests" db:"interests"`
	NextDestination string              `json:"next_destination" db:"next_destination"`
	TravelDates     string              `json:"travel_dates" db:"travel_dates"`
	IsVerified      bool                `json:"is_verified" db:"is_verified"`
	Preferences     *PreferenceSettings `json:"preferences,omitempty"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}

// InteractionHistory is one user's accumulated swipe record. Absence is a
// valid state (cold start) and every consumer must handle it.
type InteractionHistory struct {
	UserID            string             `json:"user_id"`
	Decisions         map[string]string  `json:"decisions"`
	MutualMatches     map[string]bool    `json:"mutual_matches"`
	ConversationDepth map[string]float64 `json:"conversation_depth"`
}

// InteractionCount returns the number of recorded swipe decisions.
func (h *InteractionHistory) InteractionCount() int {
	if h == nil {
		return 0
	}
	return len(h.Decisions)
}

// FilterSettings holds the hard constraints applied before scoring.
// Zero/empty values mean "no restriction" for that constraint.
type FilterSettings struct {
	MinAge        int       `json:"min_age" validate:"omitempty,min=18"`
	MaxAge        int       `json:"max_age" validate:"omitempty,max=120"`
	MaxDistanceKm float64   `json:"max_distance_km" validate:"omitempty,min=0"`
	VerifiedOnly  bool      `json:"verified_only"`
	TravelStyles  []string  `json:"travel_styles"`
	Destinations  []string  `json:"destinations"`
	DateFrom      time.Time `json:"date_from,omitempty"`
	DateTo        time.Time `json:"date_to,omitempty"`
}

// SignalBreakdown carries the six per-signal sub-scores on the 0-100
// display scale, rounded to two decimals.
type SignalBreakdown struct {
	ContentBased      float64 `json:"content_based"`
	Collaborative     float64 `json:"collaborative"`
	GraphSimilarity   float64 `json:"graph_similarity"`
	TextSimilarity    float64 `json:"text_similarity"`
	TemporalRelevance float64 `json:"temporal_relevance"`
	DiversityBonus    float64 `json:"diversity_bonus"`
}

// CompatibilityScore is the aggregated result for one profile pair.
// Overall and Confidence use the 0-100 display scale; the internal
// pipeline works on 0-1 and converts once, here.
type CompatibilityScore struct {
	Overall       float64         `json:"overall"`
	Confidence    float64         `json:"confidence"`
	Breakdown     SignalBreakdown `json:"breakdown"`
	QualityRating float64         `json:"quality_rating"`
	Reasons       []string        `json:"reasons"`
	Suggestions   []string        `json:"suggestions"`
}

// MatchRecommendation wraps a candidate with its score, final rank and
// category. Built fresh on every FindMatches call.
type MatchRecommendation struct {
	Profile     *Profile            `json:"profile"`
	Score       *CompatibilityScore `json:"score"`
	Rank        int                 `json:"rank"`
	Category    string              `json:"category"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// rawSignals is the internal 0-1 representation produced by the scorers
// and consumed by the aggregator and the ranker.
type rawSignals struct {
	contentBased      float64
	collaborative     float64
	graphSimilarity   float64
	textSimilarity    float64
	temporalRelevance float64
	diversityBonus    float64
}

// scoredCandidate pairs a candidate with its raw signals and aggregate
// before ranking.
type scoredCandidate struct {
	profile *Profile
	signals rawSignals
	score   *CompatibilityScore
	overall float64 // 0-1, ranking input
}

// combinedTags returns the union of a profile's interests and travel
// styles, used for diversity similarity in the ranker and the diversity
// bonus signal.
func combinedTags(p *Profile) []string {
	tags := make([]string, 0, len(p.Interests)+len(p.TravelStyles))
	tags = append(tags, p.Interests...)
	tags = append(tags, p.TravelStyles...)
	return tags
}
