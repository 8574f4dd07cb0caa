// Package metrics defines the Prometheus instruments the decoder pipeline
// reports through.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "beast"

// Metrics bundles every instrument the pipeline touches. Create one per
// process with New.
type Metrics struct {
	Frames        *prometheus.CounterVec
	Desyncs       *prometheus.CounterVec
	GarbageBytes  prometheus.Counter
	DecodeErrors  prometheus.Counter
	ModeSFrames   *prometheus.CounterVec
	ModeACReplies *prometheus.CounterVec
	Published     *prometheus.CounterVec
	PublishErrors *prometheus.CounterVec
	CaptureBytes  prometheus.Counter
	SignalPower   prometheus.Histogram
	SourceUp      prometheus.Gauge
	Reconnects    prometheus.Counter
}

// New registers the instruments with reg and returns them. Pass
// prometheus.DefaultRegisterer outside of tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames decoded from the input stream, by packet type.",
		}, []string{"type"}),
		Desyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "desyncs_total",
			Help:      "Framing errors while scanning the input stream, by reason.",
		}, []string{"reason"}),
		GarbageBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "garbage_bytes_total",
			Help:      "Bytes discarded outside of recognized frames.",
		}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Mode S payloads whose length contradicted their format.",
		}),
		ModeSFrames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "modes_frames_total",
			Help:      "Decoded Mode S frames, by downlink format.",
		}, []string{"df"}),
		ModeACReplies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "modeac_replies_total",
			Help:      "Decoded Mode A/C words, by guessed mode.",
		}, []string{"mode"}),
		Published: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "Messages published to the stream, by subject.",
		}, []string{"subject"}),
		PublishErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed publishes, by subject.",
		}, []string{"subject"}),
		CaptureBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capture_bytes_total",
			Help:      "Raw frame bytes written to the capture file.",
		}),
		SignalPower: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "signal_power",
			Help:      "Normalized signal power of received frames.",
			Buckets:   prometheus.LinearBuckets(0.05, 0.05, 19),
		}),
		SourceUp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_up",
			Help:      "Whether the input source is currently connected.",
		}),
		Reconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_reconnects_total",
			Help:      "Reconnection attempts to the input source.",
		}),
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
