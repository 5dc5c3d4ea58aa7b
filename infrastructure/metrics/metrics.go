package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SourceFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "godam",
		Name:      "payload_source_failures_total",
		Help:      "Delivery-note payload sources that failed to load, by source.",
	}, []string{"source"})

	SurfaceMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "godam",
		Name:      "print_surface_messages_total",
		Help:      "Messages sent to print surfaces, by message type and outcome.",
	}, []string{"type", "result"})

	ActivePrintSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "godam",
		Name:      "print_sessions_active",
		Help:      "Open print sessions held by the surface registry.",
	})

	PrintRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "godam",
		Name:      "print_runs_total",
		Help:      "Delivery notes printed, by format.",
	}, []string{"format"})

	StageUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "godam",
		Name:      "order_stage_updates_total",
		Help:      "Movement events applied to order progress, by result (advanced, unchanged, ignored).",
	}, []string{"result"})

	UnknownMovementCodes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "godam",
		Name:      "unknown_movement_codes_total",
		Help:      "Movement events whose type code maps to no picking stage.",
	})

	PickFeedReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "godam",
		Name:      "pick_feed_reconnects_total",
		Help:      "Reconnect attempts against the backend pick-event stream.",
	})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "godam",
		Name:      "exports_total",
		Help:      "Exports downloaded, by export type.",
	}, []string{"type"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
