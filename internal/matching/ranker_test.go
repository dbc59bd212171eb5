package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredWith(id string, overall float64, tags ...string) *scoredCandidate {
	return &scoredCandidate{
		profile: &Profile{ID: id, Age: 25, Interests: tags},
		overall: overall,
	}
}

func TestRerankMMRSeedsHighestScore(t *testing.T) {
	ranked := rerankMMR([]*scoredCandidate{
		scoredWith("low", 0.3, "a"),
		scoredWith("high", 0.9, "b"),
		scoredWith("mid", 0.6, "c"),
	})

	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].profile.ID)
}

func TestRerankMMRPrefersDiversityOverMarginalScore(t *testing.T) {
	// A seeds the list. C scores higher than B but duplicates A's tags;
	// B is maximally dissimilar to A, so λ=0.7 puts B second.
	a := scoredWith("A", 0.90, "hiking", "ramen", "temples")
	c := scoredWith("C", 0.85, "hiking", "ramen", "temples")
	b := scoredWith("B", 0.80, "surfing", "salsa", "vineyards")

	ranked := rerankMMR([]*scoredCandidate{a, c, b})

	require.Len(t, ranked, 3)
	assert.Equal(t, "A", ranked[0].profile.ID)
	assert.Equal(t, "B", ranked[1].profile.ID)
	assert.Equal(t, "C", ranked[2].profile.ID)
}

func TestRerankMMRHandlesSmallInputs(t *testing.T) {
	assert.Empty(t, rerankMMR(nil))

	single := []*scoredCandidate{scoredWith("only", 0.5, "a")}
	assert.Equal(t, single, rerankMMR(single))
}

func TestRerankMMRKeepsEveryCandidate(t *testing.T) {
	input := []*scoredCandidate{
		scoredWith("a", 0.1, "x"),
		scoredWith("b", 0.2, "y"),
		scoredWith("c", 0.3, "z"),
		scoredWith("d", 0.4, "x", "y"),
	}

	ranked := rerankMMR(input)

	require.Len(t, ranked, 4)
	seen := map[string]bool{}
	for _, candidate := range ranked {
		seen[candidate.profile.ID] = true
	}
	assert.Len(t, seen, 4)
}
