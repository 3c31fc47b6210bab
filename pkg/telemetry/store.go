package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/connect/pkg/store"
)

// Default tracer name.
const defaultTracerName = "connect"

// StoreConfig configures an instrumented store.
type StoreConfig struct {
	// TracerName is the name of the tracer (default: "connect"). Ignored
	// when Tracer is set.
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer

	// Metrics receives dispatch counts and durations. Optional.
	Metrics *Metrics

	// Filter determines which actions to trace. If nil, all actions are
	// traced.
	Filter func(action store.Action) bool
}

// StoreOption configures an instrumented store.
type StoreOption func(*StoreConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) StoreOption {
	return func(c *StoreConfig) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer directly.
func WithTracer(tracer trace.Tracer) StoreOption {
	return func(c *StoreConfig) {
		c.Tracer = tracer
	}
}

// WithMetrics records dispatches on m.
func WithMetrics(m *Metrics) StoreOption {
	return func(c *StoreConfig) {
		c.Metrics = m
	}
}

// WithActionFilter sets a filter function for traced actions.
func WithActionFilter(filter func(action store.Action) bool) StoreOption {
	return func(c *StoreConfig) {
		c.Filter = filter
	}
}

// Store decorates a store.Store with a span per dispatch and dispatch
// metrics. GetState and Subscribe pass through, so identity-based change
// detection is unaffected.
type Store struct {
	next   store.Store
	tracer trace.Tracer
	config StoreConfig
}

var _ store.Store = (*Store)(nil)

// Instrument wraps s.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracer is given. Configure the provider in main() before dispatching.
func Instrument(s store.Store, opts ...StoreOption) *Store {
	config := StoreConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Store{next: s, tracer: tracer, config: config}
}

// Unwrap returns the decorated store.
func (s *Store) Unwrap() store.Store {
	return s.next
}

// GetState implements store.Store.
func (s *Store) GetState() any {
	return s.next.GetState()
}

// Subscribe implements store.Store.
func (s *Store) Subscribe(listener func()) func() {
	return s.next.Subscribe(listener)
}

// Dispatch implements store.Store. Listeners run inside the span.
func (s *Store) Dispatch(action store.Action) store.Action {
	start := time.Now()
	if s.config.Metrics != nil {
		defer func() {
			s.config.Metrics.RecordDispatch(action.Type, time.Since(start))
		}()
	}

	if s.config.Filter != nil && !s.config.Filter(action) {
		return s.next.Dispatch(action)
	}

	_, span := s.tracer.Start(
		context.Background(),
		fmt.Sprintf("store.dispatch %s", action.Type),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("connect.action", action.Type),
			attribute.Bool("connect.action.payload", action.Payload != nil),
		),
		trace.WithTimestamp(start),
	)
	defer span.End()

	return s.next.Dispatch(action)
}
