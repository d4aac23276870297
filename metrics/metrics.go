// Package metrics exposes Prometheus counters for decode outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ericlevine/dmscan"
)

// Fallback outcomes.
const (
	FallbackUsed        = "used"        // backup grid decoded
	FallbackUnavailable = "unavailable" // primary text empty, backup invalid
	FallbackFailed      = "failed"      // backup decode returned an error
)

// Recorder records reader activity. A nil *Recorder records nothing.
type Recorder struct {
	decodes    *prometheus.CounterVec
	hypotheses *prometheus.CounterVec
	fallbacks  *prometheus.CounterVec
	duration   prometheus.Histogram
}

// NewRecorder registers the dmscan metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		decodes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmscan_decode_total",
				Help: "Total number of decode calls by outcome",
			},
			[]string{"status"},
		),
		hypotheses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmscan_hypotheses_total",
				Help: "Detector hypotheses by strategy and validity",
			},
			[]string{"hypothesis", "valid"},
		),
		fallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmscan_fallback_total",
				Help: "Empty primary decodes by fallback outcome",
			},
			[]string{"outcome"},
		),
		duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dmscan_decode_duration_seconds",
				Help:    "Decode call duration in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
	}
}

// Decode records the outcome and duration of one decode call.
func (r *Recorder) Decode(status dmscan.Status, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.decodes.WithLabelValues(status.String()).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// Hypothesis records one detector hypothesis, "primary" or "backup".
func (r *Recorder) Hypothesis(name string, valid bool) {
	if r == nil {
		return
	}
	v := "false"
	if valid {
		v = "true"
	}
	r.hypotheses.WithLabelValues(name, v).Inc()
}

// Fallback records what happened after an empty primary decode.
func (r *Recorder) Fallback(outcome string) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(outcome).Inc()
}
