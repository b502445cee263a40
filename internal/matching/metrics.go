package matching

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    batchesGenerated = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "matching_daily_batches_generated_total",
            Help: "Total number of daily match batches generated",
        },
    )

    recordsCreated = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "matching_records_created_total",
            Help: "Total number of match records created",
        },
    )

    decisionsRecorded = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "matching_decisions_total",
            Help: "Total number of interest decisions recorded",
        },
        []string{"decision"},
    )

    mutualMatches = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "matching_mutual_matches_total",
            Help: "Total number of mutual matches",
        },
    )

    compatibilityScores = promauto.NewHistogram(
        prometheus.HistogramOpts{
            Name:    "matching_compatibility_scores",
            Help:    "Distribution of compatibility scores of offered candidates",
            Buckets: prometheus.LinearBuckets(0, 0.1, 11),
        },
    )
)

func RecordBatchGenerated(size int) {
    batchesGenerated.Inc()
    recordsCreated.Add(float64(size))
}

func RecordDecision(decision Decision) {
    decisionsRecorded.WithLabelValues(string(decision)).Inc()
}

func RecordMutualMatch() {
    mutualMatches.Inc()
}

func RecordCompatibilityScore(score float64) {
    compatibilityScores.Observe(score)
}
