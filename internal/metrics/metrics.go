// Package metrics exposes strip activity as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coreman2200/funtimes-lightstrip/internal/command"
)

const namespace = "lightstrip"

type Metrics struct {
	Commands       *prometheus.CounterVec
	Ignored        prometheus.Counter
	Dropped        prometheus.Counter
	PatternChanges *prometheus.CounterVec
	Frames         prometheus.Counter
	WriteErrors    prometheus.Counter
	Pattern        prometheus.Gauge
	Brightness     prometheus.Gauge
	LimiterScale   prometheus.Gauge
	RenderSeconds  prometheus.Histogram
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Command bytes consumed, by effect.",
		}, []string{"kind"}),
		Ignored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_ignored_total",
			Help:      "Command bytes outside the pattern and brightness ranges.",
		}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_dropped_total",
			Help:      "Command bytes lost to a full queue.",
		}),
		PatternChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pattern_changes_total",
			Help:      "Pattern switches, by cause.",
		}, []string{"cause"}),
		Frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames submitted to the LED driver.",
		}),
		WriteErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "driver_write_errors_total",
			Help:      "Failed LED driver writes.",
		}),
		Pattern: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pattern_index",
			Help:      "Active pattern index.",
		}),
		Brightness: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "brightness",
			Help:      "Hardware brightness 0..255.",
		}),
		LimiterScale: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "limiter_scale",
			Help:      "Scale applied by the power limiter to the last frame.",
		}),
		RenderSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_seconds",
			Help:      "Time spent rendering and submitting one frame.",
			Buckets:   []float64{.0005, .001, .002, .005, .01, .02, .05},
		}),
	}
}

// Command records one interpreted byte.
func (m *Metrics) Command(r command.Result) {
	m.Commands.WithLabelValues(r.Kind.String()).Inc()
	switch r.Kind {
	case command.Ignored:
		m.Ignored.Inc()
	case command.Pattern:
		m.Pattern.Set(float64(r.Value))
	case command.Brightness:
		m.Brightness.Set(float64(r.Value))
	}
}

// Frame records one submitted frame.
func (m *Metrics) Frame(totalMS, scale float64) {
	m.Frames.Inc()
	m.RenderSeconds.Observe(totalMS / 1000)
	m.LimiterScale.Set(scale)
}
