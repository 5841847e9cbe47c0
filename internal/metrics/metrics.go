// Package metrics exposes Prometheus counters for the typing pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all pipeline metrics.
type Metrics struct {
	FramesTotal     prometheus.Counter
	NoFaceFrames    prometheus.Counter
	Blinks          prometheus.Counter
	Dots            prometheus.Counter
	Dashes          prometheus.Counter
	Characters      prometheus.Counter
	UnknownSymbols  prometheus.Counter
	CellSelections  prometheus.Counter
	CalibrationDone prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		FramesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "blinktalk_frames_total",
			Help: "Frames read from the capture source",
		}),
		NoFaceFrames: factory.NewCounter(prometheus.CounterOpts{
			Name: "blinktalk_no_face_frames_total",
			Help: "Frames where no face was detected",
		}),
		Blinks: factory.NewCounter(prometheus.CounterOpts{
			Name: "blinktalk_blinks_total",
			Help: "Completed blink events",
		}),
		Dots: factory.NewCounter(prometheus.CounterOpts{
			Name: "blinktalk_dots_total",
			Help: "Blinks classified as dots",
		}),
		Dashes: factory.NewCounter(prometheus.CounterOpts{
			Name: "blinktalk_dashes_total",
			Help: "Blinks classified as dashes",
		}),
		Characters: factory.NewCounter(prometheus.CounterOpts{
			Name: "blinktalk_characters_total",
			Help: "Characters appended to the decoded message",
		}),
		UnknownSymbols: factory.NewCounter(prometheus.CounterOpts{
			Name: "blinktalk_unknown_symbols_total",
			Help: "Symbol sequences with no Morse table entry",
		}),
		CellSelections: factory.NewCounter(prometheus.CounterOpts{
			Name: "blinktalk_cell_selections_total",
			Help: "Grid cells selected by gaze typing",
		}),
		CalibrationDone: factory.NewGauge(prometheus.GaugeOpts{
			Name: "blinktalk_calibration_done",
			Help: "1 when gaze calibration is complete",
		}),
		registry: reg,
	}
}

// Handler returns an HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
