package syncer

import "github.com/prometheus/client_golang/prometheus"

var (
	roundsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitsync",
		Subsystem: "syncer",
		Name:      "rounds_total",
		Help:      "Number of sync rounds attempted.",
	})

	failedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitsync",
		Subsystem: "syncer",
		Name:      "rounds_failed_total",
		Help:      "Number of sync rounds that ended without a confirmed server reply.",
	})

	actionsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitsync",
		Subsystem: "syncer",
		Name:      "actions_processed_total",
		Help:      "Number of queued actions acknowledged by the server.",
	})

	roundDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fitsync",
		Subsystem: "syncer",
		Name:      "round_duration_seconds",
		Help:      "Time spent draining, shipping, and merging one sync round.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(roundsCounter, failedCounter, actionsCounter, roundDuration)
}
