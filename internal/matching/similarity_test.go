package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"both empty", nil, nil, 0},
		{"identical singletons", []string{"a"}, []string{"a"}, 1},
		{"partial overlap", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{"one empty", []string{"a"}, nil, 0},
		{"duplicates collapse", []string{"a", "a", "b"}, []string{"a", "b", "b"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosine(t *testing.T) {
	v := []float64{0.3, 0.7, 0.1}

	assert.InDelta(t, 1, Cosine(v, v), 1e-9, "self-similarity should be 1")
	assert.Zero(t, Cosine(v, []float64{0, 0, 0}), "zero vector scores 0")
	assert.Zero(t, Cosine(v, []float64{1, 2}), "mismatched lengths score 0")
	assert.Zero(t, Cosine(nil, nil))

	orthogonal := Cosine([]float64{1, 0}, []float64{0, 1})
	assert.InDelta(t, 0, orthogonal, 1e-9)
}

func TestGaussianSimilarity(t *testing.T) {
	assert.InDelta(t, 1, GaussianSimilarity(30, 30, 5), 1e-9)

	closeAges := GaussianSimilarity(30, 32, 5)
	farAges := GaussianSimilarity(30, 45, 5)
	assert.Greater(t, closeAges, farAges)
	assert.Greater(t, farAges, 0.0)
}

func TestSigmoidFalloff(t *testing.T) {
	assert.InDelta(t, 0.5, SigmoidFalloff(100, 100, 0.03), 1e-9, "midpoint scores 0.5")

	near := SigmoidFalloff(5, 100, 0.03)
	far := SigmoidFalloff(500, 100, 0.03)
	assert.Greater(t, near, 0.9)
	assert.Less(t, far, 0.01)
}

func TestHaversineDistanceKm(t *testing.T) {
	tokyo := Coordinates{Latitude: 35.6762, Longitude: 139.6503}
	osaka := Coordinates{Latitude: 34.6937, Longitude: 135.5023}

	assert.Zero(t, HaversineDistanceKm(tokyo, tokyo))

	d := HaversineDistanceKm(tokyo, osaka)
	assert.InDelta(t, 400, d, 20, "Tokyo-Osaka is roughly 400km")
	assert.InDelta(t, d, HaversineDistanceKm(osaka, tokyo), 1e-9, "distance is symmetric")
}
