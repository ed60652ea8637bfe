package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshCycles counts completed refresh cycles by outcome.
	RefreshCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supt_refresh_cycles_total",
			Help: "Total dashboard refresh cycles by outcome",
		},
		[]string{"outcome"},
	)

	// FeedFetches counts feed fetch attempts by feed and outcome.
	FeedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supt_feed_fetches_total",
			Help: "Total feed fetch attempts by feed and outcome",
		},
		[]string{"feed", "outcome"},
	)

	// FetchDuration measures feed fetch latency.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supt_feed_fetch_duration_seconds",
			Help:    "Feed fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"feed"},
	)

	// LatestStress is the most recent k(ΔΦ) stress value.
	LatestStress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "supt_stress_latest",
			Help: "Most recent k stress value computed from the drift series",
		},
	)

	// LatestEII is the most recent Energetic Instability Index.
	LatestEII = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "supt_eii_latest",
			Help: "Most recent Energetic Instability Index",
		},
	)

	// LatestKp is the most recent planetary Kp index.
	LatestKp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "supt_kp_latest",
			Help: "Most recent planetary Kp index",
		},
	)

	// AlertActive is 1 while the stress alert banner is active.
	AlertActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "supt_alert_active",
			Help: "1 when the latest stress value is below the alert threshold",
		},
	)

	// ConnectedClients tracks active dashboard WebSocket connections.
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "supt_ws_clients",
			Help: "Number of connected dashboard WebSocket clients",
		},
	)
)
