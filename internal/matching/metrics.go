package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_requests_total",
			Help: "Total number of match recommendation requests",
		},
		[]string{"source"},
	)

	swipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_swipes_total",
			Help: "Total number of recorded swipe decisions",
		},
		[]string{"decision"},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of computed compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	scoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_scoring_duration_seconds",
			Help:    "Time spent scoring and ranking a candidate pool",
			Buckets: prometheus.DefBuckets,
		},
	)

	candidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_candidate_pool_size",
			Help:    "Candidate pool size after filtering",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

func RecordMatchRequest(source string) {
	matchRequestsTotal.WithLabelValues(source).Inc()
}

func RecordSwipeDecision(decision string) {
	swipesTotal.WithLabelValues(decision).Inc()
}

func RecordCompatibilityScore(score float64) {
	compatibilityScores.Observe(score)
}

func RecordScoringDuration(d time.Duration) {
	scoringDuration.Observe(d.Seconds())
}

func RecordCandidatePoolSize(n int) {
	candidatePoolSize.Observe(float64(n))
}
