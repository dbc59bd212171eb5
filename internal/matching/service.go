package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	historyCacheTTL  = 5 * time.Minute
	dailyPicksTTL    = 24 * time.Hour
	dailyPicksLimit  = 10
	activeWindowDays = 30

	defaultCandidateFetchCap = 500
)

// Service is the embedding layer around the pure engine: it resolves
// profiles, histories and ratings from storage, owns the read-through
// caches, and feeds swipe outcomes back into history and ratings.
type Service interface {
	FindMatches(ctx context.Context, userID string, filters *FilterSettings, limit int) ([]*MatchRecommendation, error)
	GetCompatibility(ctx context.Context, userID, otherID string) (*CompatibilityScore, error)
	RecordSwipe(ctx context.Context, userID, targetID, decision string) error

	GetDailyPicks(ctx context.Context, userID string) ([]*MatchRecommendation, error)
	GenerateDailyPicks(ctx context.Context) error
	CleanupHistoryCache(ctx context.Context) error
}

// ServiceOptions carries the operational knobs main wires from config.
type ServiceOptions struct {
	// CandidateFetchCap bounds how many raw candidates are pulled from
	// storage per request, which in turn bounds scoring latency.
	CandidateFetchCap int
}

type service struct {
	engine   *Engine
	repo     Repository
	ratings  *RatingStore
	cache    *redis.Client
	logger   *zap.Logger
	fetchCap int
}

// NewService wires the engine to its storage collaborators. The cache
// client may be nil; every cache path degrades to the repository.
func NewService(engine *Engine, repo Repository, ratings *RatingStore, cache *redis.Client, logger *zap.Logger, opts ServiceOptions) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CandidateFetchCap <= 0 {
		opts.CandidateFetchCap = defaultCandidateFetchCap
	}
	return &service{
		engine:   engine,
		repo:     repo,
		ratings:  ratings,
		cache:    cache,
		logger:   logger,
		fetchCap: opts.CandidateFetchCap,
	}
}

func (s *service) FindMatches(ctx context.Context, userID string, filters *FilterSettings, limit int) ([]*MatchRecommendation, error) {
	RecordMatchRequest("discover")
	started := time.Now()

	requester, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load requester: %w", err)
	}

	candidates, err := s.repo.FindCandidates(ctx, userID, filters, s.fetchCap)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	RecordCandidatePoolSize(len(candidates))

	history := s.interactionHistory(ctx, userID)

	matches, err := s.engine.FindMatches(ctx, requester, candidates, filters, history, limit)
	if err != nil {
		return nil, err
	}

	RecordScoringDuration(time.Since(started))
	s.logger.Debug("generated match recommendations",
		zap.String("user_id", userID),
		zap.Int("pool", len(candidates)),
		zap.Int("returned", len(matches)))

	return matches, nil
}

func (s *service) GetCompatibility(ctx context.Context, userID, otherID string) (*CompatibilityScore, error) {
	requester, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load requester: %w", err)
	}
	candidate, err := s.repo.GetProfile(ctx, otherID)
	if err != nil {
		return nil, fmt.Errorf("load candidate: %w", err)
	}

	return s.engine.Compatibility(ctx, requester, candidate, s.interactionHistory(ctx, userID))
}

// RecordSwipe persists the decision, invalidates the cached history and
// feeds mutual likes into the quality-rating store.
func (s *service) RecordSwipe(ctx context.Context, userID, targetID, decision string) error {
	if decision != DecisionPositive && decision != DecisionNegative {
		return fmt.Errorf("unknown swipe decision %q", decision)
	}

	if err := s.repo.RecordSwipe(ctx, userID, targetID, decision); err != nil {
		return fmt.Errorf("record swipe: %w", err)
	}
	RecordSwipeDecision(decision)
	s.invalidateHistory(ctx, userID)

	if decision != DecisionPositive || s.ratings == nil {
		return nil
	}

	// a reciprocated like is the only outcome the rating store scores
	history, err := s.repo.GetInteractionHistory(ctx, targetID)
	if err != nil {
		s.logger.Warn("could not check for mutual like", zap.Error(err))
		return nil
	}
	if history.Decisions[userID] == DecisionPositive {
		s.ratings.RecordOutcome(ctx, userID, targetID, OutcomeMutualLike)
	}

	return nil
}

func (s *service) GetDailyPicks(ctx context.Context, userID string) ([]*MatchRecommendation, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, dailyPicksKey(userID)).Bytes()
		if err == nil {
			var picks []*MatchRecommendation
			if err := json.Unmarshal(raw, &picks); err == nil {
				RecordMatchRequest("daily_cache")
				return picks, nil
			}
		}
	}

	picks, err := s.FindMatches(ctx, userID, nil, dailyPicksLimit)
	if err != nil {
		return nil, err
	}

	s.cacheDailyPicks(ctx, userID, picks)
	return picks, nil
}

// GenerateDailyPicks precomputes recommendation lists for recently
// active users. One failing user must not stop the batch.
func (s *service) GenerateDailyPicks(ctx context.Context) error {
	userIDs, err := s.repo.GetActiveUserIDs(ctx, activeWindowDays)
	if err != nil {
		return fmt.Errorf("load active users: %w", err)
	}

	batchID := uuid.NewString()
	generated := 0
	for _, userID := range userIDs {
		picks, err := s.FindMatches(ctx, userID, nil, dailyPicksLimit)
		if err != nil {
			s.logger.Warn("daily picks generation failed for user",
				zap.String("batch_id", batchID),
				zap.String("user_id", userID),
				zap.Error(err))
			continue
		}
		s.cacheDailyPicks(ctx, userID, picks)
		generated++
	}

	s.logger.Info("daily picks batch complete",
		zap.String("batch_id", batchID),
		zap.Int("users", len(userIDs)),
		zap.Int("generated", generated))

	return nil
}

func (s *service) CleanupHistoryCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	iter := s.cache.Scan(ctx, 0, "matching:history:*", 0).Iterator()
	for iter.Next(ctx) {
		s.cache.Del(ctx, iter.Val())
	}
	return iter.Err()
}

// interactionHistory is a read-through cache over the repository. A miss
// or a storage error both degrade to cold start rather than failing the
// request.
func (s *service) interactionHistory(ctx context.Context, userID string) *InteractionHistory {
	key := historyKey(userID)

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var history InteractionHistory
			if err := json.Unmarshal(raw, &history); err == nil {
				return &history
			}
		}
	}

	history, err := s.repo.GetInteractionHistory(ctx, userID)
	if err != nil {
		s.logger.Warn("falling back to cold start, history unavailable",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil
	}

	if s.cache != nil {
		if raw, err := json.Marshal(history); err == nil {
			s.cache.Set(ctx, key, raw, historyCacheTTL)
		}
	}

	return history
}

func (s *service) invalidateHistory(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Del(ctx, historyKey(userID))
	}
}

func (s *service) cacheDailyPicks(ctx context.Context, userID string, picks []*MatchRecommendation) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(picks)
	if err != nil {
		return
	}
	s.cache.Set(ctx, dailyPicksKey(userID), raw, dailyPicksTTL)
}

func historyKey(userID string) string {
	return "matching:history:" + userID
}

func dailyPicksKey(userID string) string {
	return "matching:daily:" + userID
}
