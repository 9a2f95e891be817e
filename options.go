package bootnav

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a Coordinator via the functional options pattern.
type Option func(*Coordinator)

// WithPolicy selects the timing policy. The value is validated by
// NewCoordinator.
func WithPolicy(p TimingPolicy) Option {
	return func(c *Coordinator) {
		c.policy = p
	}
}

// WithLocationGate configures the gate awaited before the pre-bootstrap
// phase decides anything. Defaults to ReadyGate.
func WithLocationGate(g LocationGate) Option {
	return func(c *Coordinator) {
		if g != nil {
			c.gate = g
		}
	}
}

// WithLogger configures the Coordinator logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// WithTracerProvider configures the provider used for phase spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Coordinator) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithPublisher configures a sink for lifecycle events.
func WithPublisher(p EventPublisher) Option {
	return func(c *Coordinator) {
		c.publisher = p
	}
}
