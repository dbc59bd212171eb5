package matching

import (
	"math"
	"sort"
)

const (
	// mmrLambda trades relevance (1.0) against diversity (0.0).
	mmrLambda = 0.7

	// mmrPreCap bounds the O(n²) selection loop; the filter normally
	// keeps pools well under this.
	mmrPreCap = 200
)

// rerankMMR re-orders scored candidates with Maximal Marginal Relevance
// so the final list is not a pure score sort. The highest-scoring
// candidate seeds the list; every following pick maximizes
// λ*relevance + (1-λ)*min-dissimilarity to the ranked prefix, with
// similarity as Jaccard over combined interest+style tags. Selection is
// inherently sequential and runs single-threaded.
func rerankMMR(scored []*scoredCandidate) []*scoredCandidate {
	if len(scored) <= 1 {
		return scored
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].overall > scored[j].overall
	})

	if len(scored) > mmrPreCap {
		scored = scored[:mmrPreCap]
	}

	ranked := make([]*scoredCandidate, 0, len(scored))
	ranked = append(ranked, scored[0])
	remaining := append([]*scoredCandidate(nil), scored[1:]...)

	for len(remaining) > 0 {
		bestIdx := 0
		bestScore := -math.MaxFloat64

		for i, candidate := range remaining {
			mmr := mmrLambda*candidate.overall + (1-mmrLambda)*minDissimilarity(candidate, ranked)
			if mmr > bestScore {
				bestScore = mmr
				bestIdx = i
			}
		}

		ranked = append(ranked, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return ranked
}

// minDissimilarity is the diversity term: how different the candidate is
// from its most similar already-ranked member.
func minDissimilarity(candidate *scoredCandidate, ranked []*scoredCandidate) float64 {
	minDiversity := 1.0
	tags := combinedTags(candidate.profile)

	for _, member := range ranked {
		diversity := 1 - Jaccard(tags, combinedTags(member.profile))
		if diversity < minDiversity {
			minDiversity = diversity
		}
	}

	return minDiversity
}
