package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Low-cardinality counters for the write path plus a histogram for
// snapshot recomputation, which is the only operation whose cost grows
// with log size. Exposed on /metrics via promhttp.
var (
	MessagesAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "convolog_messages_appended_total",
		Help: "Messages accepted into conversation logs.",
	})
	ReactionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "convolog_reactions_recorded_total",
		Help: "Reactions recorded against messages.",
	})
	SnapshotDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "convolog_snapshot_build_seconds",
		Help:    "Time spent recomputing analytics snapshots.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)
