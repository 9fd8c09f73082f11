package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchErrors counts failed upstream fetches by source.
	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketdigest_fetch_errors_total",
			Help: "Total number of failed upstream fetches",
		},
		[]string{"source"},
	)

	// EngineRuns counts change computations by series kind and result status.
	EngineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketdigest_engine_runs_total",
			Help: "Total number of change computations",
		},
		[]string{"kind", "status"},
	)

	// SeriesDates tracks how many dates each persisted series holds after a refresh.
	SeriesDates = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marketdigest_series_dates",
			Help: "Number of dates stored in a persisted series",
		},
		[]string{"kind"},
	)

	// RecordedInstruments counts change records delivered per digest kind.
	RecordedInstruments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketdigest_change_records_total",
			Help: "Total number of per-instrument change records produced",
		},
		[]string{"kind"},
	)
)
