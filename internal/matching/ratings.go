package matching

import (
	"context"
	"math"
	"sync"

	"go.uber.org/zap"
)

// Match outcomes fed into the rating store.
const (
	OutcomeMutualLike = "mutual_like"
	OutcomePass       = "pass"
)

const eloKFactor = 32.0

// RatingPersister saves updated ratings behind the in-memory store.
// The repository implements it; a nil persister keeps ratings
// process-local, which is the minimal configuration.
type RatingPersister interface {
	SaveRating(ctx context.Context, userID string, rating float64) error
}

// RatingStore accumulates per-user ELO-style quality ratings. Every user
// starts at the base rating; RecordOutcome is the additive extension
// point that moves ratings from real swipe outcomes — the scoring
// pipeline itself only reads.
type RatingStore struct {
	mu        sync.RWMutex
	ratings   map[string]float64
	persister RatingPersister
	logger    *zap.Logger
}

// NewRatingStore builds a store seeded with any previously persisted
// ratings.
func NewRatingStore(seed map[string]float64, persister RatingPersister, logger *zap.Logger) *RatingStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	ratings := make(map[string]float64, len(seed))
	for id, r := range seed {
		ratings[id] = r
	}
	return &RatingStore{
		ratings:   ratings,
		persister: persister,
		logger:    logger,
	}
}

// Rating returns the user's current rating, base when unseen.
func (s *RatingStore) Rating(userID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.ratings[userID]; ok {
		return r
	}
	return baseQualityRating
}

// RecordOutcome applies a standard ELO update for a pair outcome. A
// mutual like counts as a draw-leaning win for both sides' desirability;
// a pass scores the passed-over user as the loser of the exchange.
func (s *RatingStore) RecordOutcome(ctx context.Context, userA, userB, outcome string) {
	s.mu.Lock()

	ratingA := s.ratingLocked(userA)
	ratingB := s.ratingLocked(userB)

	expectedA := 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))
	expectedB := 1 - expectedA

	var scoreA, scoreB float64
	switch outcome {
	case OutcomeMutualLike:
		scoreA, scoreB = 1, 1
	case OutcomePass:
		scoreA, scoreB = 1, 0
	default:
		s.mu.Unlock()
		s.logger.Warn("ignoring unknown rating outcome", zap.String("outcome", outcome))
		return
	}

	s.ratings[userA] = ratingA + eloKFactor*(scoreA-expectedA)
	s.ratings[userB] = ratingB + eloKFactor*(scoreB-expectedB)

	newA, newB := s.ratings[userA], s.ratings[userB]
	s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.SaveRating(ctx, userA, newA); err != nil {
			s.logger.Warn("failed to persist rating", zap.String("user_id", userA), zap.Error(err))
		}
		if err := s.persister.SaveRating(ctx, userB, newB); err != nil {
			s.logger.Warn("failed to persist rating", zap.String("user_id", userB), zap.Error(err))
		}
	}
}

func (s *RatingStore) ratingLocked(userID string) float64 {
	if r, ok := s.ratings[userID]; ok {
		return r
	}
	return baseQualityRating
}
