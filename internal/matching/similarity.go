package matching

import (
	"math"
)

// Jaccard returns |A∩B| / |A∪B| for two tag sets. Two empty sets score 0;
// the union-size guard keeps the division defined.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	set := make(map[string]bool, len(a))
	for _, item := range a {
		set[item] = true
	}

	intersection := 0
	seen := make(map[string]bool, len(b))
	for _, item := range b {
		if seen[item] {
			continue
		}
		seen[item] = true
		if set[item] {
			intersection++
		}
	}

	union := len(set) + len(seen) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// Cosine returns the normalized dot product of two vectors. Mismatched
// lengths and all-zero vectors score 0; callers must build both vectors
// over the same dimension ordering.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// GaussianSimilarity maps the gap between two numeric values to (0,1]
// with falloff controlled by sigma. Used for age proximity.
func GaussianSimilarity(x, y, sigma float64) float64 {
	diff := x - y
	return math.Exp(-(diff * diff) / (2 * sigma * sigma))
}

// SigmoidFalloff is a smooth decay in (0,1): ~1 well below the midpoint,
// 0.5 at the midpoint, approaching 0 beyond it. Used for distance decay.
func SigmoidFalloff(distanceKm, midpoint, steepness float64) float64 {
	return 1 / (1 + math.Exp(steepness*(distanceKm-midpoint)))
}

// HaversineDistanceKm returns the great-circle distance between two
// coordinate pairs. Callers with absent coordinates must short-circuit
// to the neutral location score instead of calling this.
func HaversineDistanceKm(a, b Coordinates) float64 {
	const earthRadiusKm = 6371

	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Latitude*math.Pi/180)*math.Cos(b.Latitude*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// clamp01 bounds a score to [0,1].
func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
