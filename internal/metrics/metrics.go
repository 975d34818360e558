// Package metrics holds the player's Prometheus instruments.
//
// Instruments live on a private registry so tests and embedders never collide
// with the default one.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wavedeck"

// Registry is the registry every instrument in this package is registered on.
var Registry = prometheus.NewRegistry()

var (
	PlaysStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plays_started_total",
		Help:      "Tracks handed to the engine for playback.",
	})
	PlaysFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plays_failed_total",
		Help:      "Playback attempts that failed, by failing step.",
	}, []string{"op"})
	Preloads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "preloads_total",
		Help:      "Preload requests issued to the secondary player.",
	})
	EndReached = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "end_reached_total",
		Help:      "Tracks that played to their natural end.",
	})
	Volume = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "volume",
		Help:      "Current output volume (0-100).",
	})
	QueueLength = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_length",
		Help:      "Number of tracks in the playback queue.",
	})
	HistoryEntries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_entries_total",
		Help:      "Listening-history outcomes, by result.",
	}, []string{"result"})
	SessionSaves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_saves_total",
		Help:      "Session save attempts, by result.",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(
		PlaysStarted,
		PlaysFailed,
		Preloads,
		EndReached,
		Volume,
		QueueLength,
		HistoryEntries,
		SessionSaves,
	)
}

// Result label values.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)
