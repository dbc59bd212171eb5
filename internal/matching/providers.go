package matching

import (
	"context"
)

// SocialGraphProvider supplies the mutual-connection count between two
// users for the graph signal. The backend wires a real graph store here
// when one exists; until then the neutral provider reports zero and the
// signal leans on the destination and locality heuristics alone.
type SocialGraphProvider interface {
	MutualConnections(ctx context.Context, userID, otherID string) int
}

// SimilarUser is one user whose swipe pattern overlaps the requester's,
// with a weight in (0,1] and their recorded decision on a candidate.
type SimilarUser struct {
	UserID     string
	Similarity float64
	Decisions  map[string]string
}

// InteractionSimilarityProvider finds users with overlapping swipe
// history for the collaborative signal. The neutral provider returns no
// users, which makes the signal fall back to its cold-start value.
type InteractionSimilarityProvider interface {
	SimilarUsers(ctx context.Context, history *InteractionHistory) []SimilarUser
}

type neutralSocialGraph struct{}

func (neutralSocialGraph) MutualConnections(ctx context.Context, userID, otherID string) int {
	return 0
}

type neutralInteractionSimilarity struct{}

func (neutralInteractionSimilarity) SimilarUsers(ctx context.Context, history *InteractionHistory) []SimilarUser {
	return nil
}

// NewNeutralSocialGraph returns the default no-data graph provider.
func NewNeutralSocialGraph() SocialGraphProvider {
	return neutralSocialGraph{}
}

// NewNeutralInteractionSimilarity returns the default no-data
// collaborative provider.
func NewNeutralInteractionSimilarity() InteractionSimilarityProvider {
	return neutralInteractionSimilarity{}
}
