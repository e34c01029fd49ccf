package app

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// DefaultEventQueue is the default capacity of a window's input queue.
const DefaultEventQueue = 64

// options are shared by App and Window.
type options struct {
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
	eventQueue int
	renderers  []Renderer
}

func defaultOptions() options {
	return options{
		eventQueue: DefaultEventQueue,
	}
}

// Option configures an App or a Window.
type Option func(*options)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer. Default: the global OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithEventQueue sets the capacity of the input queue.
func WithEventQueue(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.eventQueue = n
		}
	}
}

// WithRenderer adds a renderer.
func WithRenderer(r Renderer) Option {
	return func(o *options) {
		o.renderers = append(o.renderers, r)
	}
}
