// Package orchestrator drives one user message through the pipeline:
// sanitize, invoke, parse, validate, execute, record. It owns the retry
// policy and guarantees that every run, however it terminates, persists
// exactly one call record.
package orchestrator

import (
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/codemarcinu/steward/internal/dispatch"
	"github.com/codemarcinu/steward/internal/events"
	"github.com/codemarcinu/steward/internal/llm"
	"github.com/codemarcinu/steward/internal/prompt"
	"github.com/codemarcinu/steward/internal/record"
	"github.com/codemarcinu/steward/internal/sanitize"
	"github.com/codemarcinu/steward/internal/tool"
	"github.com/codemarcinu/steward/internal/types"
)

// Status is the terminal state of one processed message.
type Status string

const (
	// StatusExecuted means a validated tool call was dispatched. The
	// dispatch itself may still have failed; ExecutionSuccess on the
	// record distinguishes the two.
	StatusExecuted Status = "executed"

	// StatusShortCircuit means the sanitizer rejected the input and the
	// model was never invoked.
	StatusShortCircuit Status = "short_circuit"

	// StatusFailedTerminal means no attempt produced a usable tool call
	// and the run fell back to a direct answer.
	StatusFailedTerminal Status = "failed_terminal"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Session identifies where a message came from. Session state travels
// explicitly with each call; the orchestrator holds nothing between
// messages.
type Session struct {
	ID     string
	Source string
	Locale string
}

// Result is the outcome of one processed message.
type Result struct {
	// RecordID is the persisted call record's ID.
	RecordID types.ID

	// Reply is the user-facing text produced by the run.
	Reply string

	// Status is the terminal state the run reached.
	Status Status

	// Record is the full audit record, also available when persistence
	// failed.
	Record *record.CallRecord
}

const (
	// DefaultMaxRetries bounds the parse/validation correction loop.
	DefaultMaxRetries = 2

	// DefaultRefusalText is the reply for inputs rejected as probable
	// prompt injection.
	DefaultRefusalText = "I can't act on that message. It looks like an attempt to change my instructions, so I did not process it."

	// fallbackText is the reply when every attempt produced an unusable
	// response.
	fallbackText = "I couldn't turn that into a valid action. Please rephrase your request and try again."

	// persistTimeout bounds record persistence after the run has reached
	// a terminal state, independent of the caller's context.
	persistTimeout = 5 * time.Second
)

// Orchestrator coordinates the pipeline stages. All fields are set at
// construction; Process is safe for concurrent use.
type Orchestrator struct {
	sanitizer  *sanitize.Sanitizer
	builder    *prompt.Builder
	client     llm.Client
	registry   *tool.Registry
	dispatcher *dispatch.Dispatcher
	store      record.Store

	bus         events.Bus
	logger      *slog.Logger
	tracer      trace.Tracer
	clock       func() time.Time
	maxRetries  int
	modelOpts   llm.Options
	refusalText string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxRetries sets how many correction cycles follow a failed parse
// or validation. Zero disables retries; negative values are ignored.
func WithMaxRetries(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer sets the tracer for run spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithEventBus sets the bus for pipeline lifecycle events.
func WithEventBus(bus events.Bus) Option {
	return func(o *Orchestrator) {
		if bus != nil {
			o.bus = bus
		}
	}
}

// WithClock sets the time source used for duration measurement and
// event timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithRefusalText sets the reply used when input is rejected as a
// probable prompt injection.
func WithRefusalText(text string) Option {
	return func(o *Orchestrator) {
		if text != "" {
			o.refusalText = text
		}
	}
}

// WithModelOptions sets per-invocation model options.
func WithModelOptions(opts llm.Options) Option {
	return func(o *Orchestrator) {
		o.modelOpts = opts
	}
}

// New creates an Orchestrator over the given pipeline components. Every
// tool in the registry must have a handler in the dispatcher, so a
// validated call can never fail dispatch on lookup.
func New(
	sanitizer *sanitize.Sanitizer,
	builder *prompt.Builder,
	client llm.Client,
	registry *tool.Registry,
	dispatcher *dispatch.Dispatcher,
	store record.Store,
	options ...Option,
) (*Orchestrator, error) {
	switch {
	case sanitizer == nil:
		return nil, fmt.Errorf("orchestrator: sanitizer is required")
	case builder == nil:
		return nil, fmt.Errorf("orchestrator: prompt builder is required")
	case client == nil:
		return nil, fmt.Errorf("orchestrator: model client is required")
	case registry == nil:
		return nil, fmt.Errorf("orchestrator: tool registry is required")
	case dispatcher == nil:
		return nil, fmt.Errorf("orchestrator: dispatcher is required")
	case store == nil:
		return nil, fmt.Errorf("orchestrator: record store is required")
	}

	for _, name := range registry.Names() {
		if !dispatcher.Has(name) {
			return nil, types.NewError(types.TOOL_NOT_FOUND,
				fmt.Sprintf("registered tool %q has no handler", name))
		}
	}

	o := &Orchestrator{
		sanitizer:   sanitizer,
		builder:     builder,
		client:      client,
		registry:    registry,
		dispatcher:  dispatcher,
		store:       store,
		logger:      slog.Default(),
		tracer:      otel.Tracer("steward/orchestrator"),
		clock:       time.Now,
		maxRetries:  DefaultMaxRetries,
		refusalText: DefaultRefusalText,
	}

	for _, opt := range options {
		opt(o)
	}

	return o, nil
}
