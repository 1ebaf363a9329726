// Package metrics exposes Prometheus collectors for the relay.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tnetkit/tnet/pkg/protocol"
)

// Config configures the relay metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "tnet").
	Namespace string

	// Subsystem is the metrics subsystem (default: "relay").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for frame processing duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the relay metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "tnet",
		Subsystem: "relay",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Drop reasons.
const (
	ReasonCanceled    = "canceled"
	ReasonBlocked     = "blocked"
	ReasonDecodeError = "decode_error"
)

// Metrics holds the relay collectors. A nil *Metrics records nothing.
type Metrics struct {
	framesTotal   *prometheus.CounterVec
	frameBytes    *prometheus.HistogramVec
	frameDuration *prometheus.HistogramVec
	decodeErrors  *prometheus.CounterVec
	rewritten     *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	activeConns   prometheus.Gauge
	connsTotal    prometheus.Counter
}

// New registers the relay collectors and returns them.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Buckets == nil {
		config.Buckets = prometheus.DefBuckets
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		framesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_total",
			Help:        "Total number of frames relayed, by direction and message",
			ConstLabels: config.ConstLabels,
		}, []string{"direction", "message"}),

		frameBytes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame_bytes",
			Help:        "Size of relayed frames in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(8, 4, 7),
		}, []string{"direction"}),

		frameDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame_duration_seconds",
			Help:        "Time spent decoding, dispatching and re-encoding a frame",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"direction"}),

		decodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "decode_errors_total",
			Help:        "Total number of frames that failed to decode",
			ConstLabels: config.ConstLabels,
		}, []string{"direction", "kind"}),

		rewritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_rewritten_total",
			Help:        "Total number of frames re-encoded after a handler changed them",
			ConstLabels: config.ConstLabels,
		}, []string{"direction"}),

		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_dropped_total",
			Help:        "Total number of frames not forwarded",
			ConstLabels: config.ConstLabels,
		}, []string{"direction", "reason"}),

		activeConns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_connections",
			Help:        "Number of client connections being relayed",
			ConstLabels: config.ConstLabels,
		}),

		connsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "connections_total",
			Help:        "Total number of client connections accepted",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveFrame records one relayed frame.
func (m *Metrics) ObserveFrame(dir protocol.Direction, message string, size int, took time.Duration) {
	if m == nil {
		return
	}
	d := label(dir)
	m.framesTotal.WithLabelValues(d, message).Inc()
	m.frameBytes.WithLabelValues(d).Observe(float64(size))
	m.frameDuration.WithLabelValues(d).Observe(took.Seconds())
}

// DecodeError records a frame that failed to decode. kind is
// protocol.ErrorKind of the failure.
func (m *Metrics) DecodeError(dir protocol.Direction, kind string) {
	if m == nil {
		return
	}
	m.decodeErrors.WithLabelValues(label(dir), kind).Inc()
}

// Rewritten records a frame that was re-encoded.
func (m *Metrics) Rewritten(dir protocol.Direction) {
	if m == nil {
		return
	}
	m.rewritten.WithLabelValues(label(dir)).Inc()
}

// Dropped records a frame that was not forwarded.
func (m *Metrics) Dropped(dir protocol.Direction, reason string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(label(dir), reason).Inc()
}

// ConnOpened records an accepted client connection.
func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}
	m.connsTotal.Inc()
	m.activeConns.Inc()
}

// ConnClosed records a finished client connection.
func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	m.activeConns.Dec()
}

func label(dir protocol.Direction) string {
	if dir == protocol.ToClient {
		return "to_client"
	}
	return "to_server"
}
