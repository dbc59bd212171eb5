package matching

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultLimit caps the returned list when the caller passes 0.
	DefaultLimit = 20

	scoringWorkers = 8
)

var (
	ErrMissingRequester = errors.New("requester profile is required")
	ErrInvalidProfile   = errors.New("profile failed validation")
)

// Engine is the pure match-ranking core: filter, score, aggregate,
// re-rank. It holds no storage; histories and graph lookups arrive as
// already-resolved data or injected providers, never lazy I/O. The only
// stochastic element is the diversity signal, driven by the injected
// random source so seeded engines are fully deterministic.
type Engine struct {
	scorer *signalScorer
	agg    *aggregator
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithRandSource injects the random source behind the diversity signal.
// Tests pass a fixed seed to force both exploration branches.
func WithRandSource(src rand.Source) EngineOption {
	return func(e *Engine) {
		e.rng = rand.New(src)
	}
}

// WithSocialGraph wires a real mutual-connections source.
func WithSocialGraph(graph SocialGraphProvider) EngineOption {
	return func(e *Engine) {
		e.scorer.graph = graph
	}
}

// WithInteractionSimilarity wires a real cross-user history source for
// the collaborative signal.
func WithInteractionSimilarity(provider InteractionSimilarityProvider) EngineOption {
	return func(e *Engine) {
		e.scorer.similar = provider
	}
}

// WithRatingStore feeds accumulated quality ratings into aggregation.
func WithRatingStore(store *RatingStore) EngineOption {
	return func(e *Engine) {
		e.agg.ratings = store
	}
}

// WithLogger replaces the default nop logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock overrides the freshness clock, for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.scorer.now = now
	}
}

// NewEngine builds an engine with neutral providers and an unseeded
// random source; options override each piece.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		scorer: newSignalScorer(NewNeutralSocialGraph(), NewNeutralInteractionSimilarity()),
		agg:    newAggregator(nil),
		logger: zap.NewNop(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindMatches is the public entry point: filters the pool, scores each
// survivor across the six signals, aggregates, MMR re-ranks and assigns
// final 1-based ranks. An empty pool yields an empty list, not an error.
func (e *Engine) FindMatches(ctx context.Context, requester *Profile, candidates []*Profile, filters *FilterSettings, history *InteractionHistory, limit int) ([]*MatchRecommendation, error) {
	if requester == nil {
		return nil, ErrMissingRequester
	}
	if err := ValidateProfile(requester); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	pool := make([]*Profile, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if err := ValidateProfile(candidate); err != nil {
			e.logger.Warn("skipping malformed candidate",
				zap.String("candidate_id", candidate.ID),
				zap.Error(err))
			continue
		}
		pool = append(pool, candidate)
	}

	pool = FilterCandidates(requester, pool, filters)
	if len(pool) == 0 {
		return []*MatchRecommendation{}, nil
	}

	scored := e.scorePool(ctx, requester, pool, history)

	ranked := rerankMMR(scored)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	now := time.Now()
	recommendations := make([]*MatchRecommendation, len(ranked))
	for i, candidate := range ranked {
		recommendations[i] = &MatchRecommendation{
			Profile:     candidate.profile,
			Score:       candidate.score,
			Rank:        i + 1,
			Category:    categoryFor(candidate.score.Overall),
			GeneratedAt: now,
		}
	}

	return recommendations, nil
}

// Compatibility scores a single pair without filtering or ranking.
func (e *Engine) Compatibility(ctx context.Context, requester, candidate *Profile, history *InteractionHistory) (*CompatibilityScore, error) {
	if requester == nil {
		return nil, ErrMissingRequester
	}
	if err := ValidateProfile(requester); err != nil {
		return nil, err
	}
	if err := ValidateProfile(candidate); err != nil {
		return nil, err
	}

	signals := e.scoreSignals(ctx, requester, candidate, history, e.roll())
	_, score := e.agg.aggregate(requester, candidate, history, signals)
	return score, nil
}

// scorePool evaluates all candidates concurrently. Exploration rolls are
// drawn up front in candidate order so the result does not depend on
// goroutine scheduling.
func (e *Engine) scorePool(ctx context.Context, requester *Profile, pool []*Profile, history *InteractionHistory) []*scoredCandidate {
	rolls := make([]float64, len(pool))
	e.mu.Lock()
	for i := range rolls {
		rolls[i] = e.rng.Float64()
	}
	e.mu.Unlock()

	scored := make([]*scoredCandidate, len(pool))

	workers := scoringWorkers
	if workers > len(pool) {
		workers = len(pool)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				scored[i] = e.scoreCandidate(ctx, requester, pool[i], history, rolls[i])
			}
		}()
	}
	for i := range pool {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return scored
}

// scoreCandidate evaluates one pair. A panicking scorer must not deny
// recommendations for the rest of the pool, so it is swallowed here and
// the candidate gets a neutral all-signals score instead.
func (e *Engine) scoreCandidate(ctx context.Context, requester, candidate *Profile, history *InteractionHistory, roll float64) (result *scoredCandidate) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("scorer panicked, substituting neutral score",
				zap.String("candidate_id", candidate.ID),
				zap.Any("panic", r))

			neutral := rawSignals{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
			overall, score := e.agg.aggregate(requester, candidate, history, neutral)
			result = &scoredCandidate{profile: candidate, signals: neutral, score: score, overall: overall}
		}
	}()

	signals := e.scoreSignals(ctx, requester, candidate, history, roll)
	overall, score := e.agg.aggregate(requester, candidate, history, signals)
	RecordCompatibilityScore(overall)

	return &scoredCandidate{profile: candidate, signals: signals, score: score, overall: overall}
}

func (e *Engine) scoreSignals(ctx context.Context, requester, candidate *Profile, history *InteractionHistory, roll float64) rawSignals {
	return rawSignals{
		contentBased:      e.scorer.scoreContentBased(requester, candidate),
		collaborative:     e.scorer.scoreCollaborative(ctx, history, candidate),
		graphSimilarity:   e.scorer.scoreGraph(ctx, requester, candidate),
		textSimilarity:    e.scorer.scoreText(requester, candidate),
		temporalRelevance: e.scorer.scoreTemporal(requester, candidate),
		diversityBonus:    e.scorer.scoreDiversity(requester, candidate, roll),
	}
}

func (e *Engine) roll() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

// ValidateProfile rejects records the scorers cannot safely handle:
// missing id or non-positive age. Half-set coordinate pairs cannot
// reach here — the Coordinates struct holds both values or is nil, and
// rows with only one are rejected at the repository boundary.
func ValidateProfile(p *Profile) error {
	if p == nil {
		return fmt.Errorf("%w: nil profile", ErrInvalidProfile)
	}
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProfile)
	}
	if p.Age <= 0 {
		return fmt.Errorf("%w: age must be positive, got %d", ErrInvalidProfile, p.Age)
	}
	return nil
}
