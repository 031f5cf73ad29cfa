// Package dispatch routes a validated tool call to its handler. The
// table is built once at startup; lookup is a plain map access so the
// set of executable tools is fixed for the life of the process.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/codemarcinu/steward/internal/tool"
	"github.com/codemarcinu/steward/internal/types"
)

// DefaultTimeout bounds a single handler execution.
const DefaultTimeout = 10 * time.Second

// Dispatcher executes tool calls against a static handler table.
type Dispatcher struct {
	handlers map[string]tool.Handler
	timeout  time.Duration
	tracer   trace.Tracer
}

// New builds a Dispatcher from handlers. Handler names must be unique;
// a non-positive timeout uses DefaultTimeout.
func New(handlers []tool.Handler, timeout time.Duration) (*Dispatcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	table := make(map[string]tool.Handler, len(handlers))
	for _, h := range handlers {
		def := h.Definition()
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, exists := table[def.Name]; exists {
			return nil, types.NewError(types.TOOL_ALREADY_EXISTS,
				fmt.Sprintf("handler %q registered twice", def.Name))
		}
		table[def.Name] = h
	}

	return &Dispatcher{
		handlers: table,
		timeout:  timeout,
		tracer:   otel.Tracer("steward/dispatch"),
	}, nil
}

// Definitions returns the definitions of all registered handlers.
func (d *Dispatcher) Definitions() []tool.Definition {
	defs := make([]tool.Definition, 0, len(d.handlers))
	for _, h := range d.handlers {
		defs = append(defs, h.Definition())
	}
	return defs
}

// Has reports whether a handler is registered for name.
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.handlers[name]
	return ok
}

type outcome struct {
	result string
	err    error
}

// Execute runs the handler for name exactly once under the configured
// timeout. A panicking handler is converted to an execution error; a
// handler that outlives its deadline is abandoned (it still holds a
// canceled context and is expected to unwind on its own).
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	ctx, span := d.tracer.Start(ctx, "Dispatcher.Execute",
		trace.WithAttributes(attribute.String("tool.name", name)))
	defer span.End()

	handler, ok := d.handlers[name]
	if !ok {
		err := types.NewError(types.TOOL_NOT_FOUND, fmt.Sprintf("no handler registered for tool %q", name))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	execCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				ch <- outcome{err: types.NewError(types.EXECUTION_HANDLER_EXCEPTION,
					fmt.Sprintf("tool %q panicked: %v", name, p))}
			}
		}()
		result, err := handler.Execute(execCtx, args)
		ch <- outcome{result: result, err: err}
	}()

	select {
	case <-execCtx.Done():
		var err error
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			err = types.NewError(types.EXECUTION_HANDLER_TIMEOUT,
				fmt.Sprintf("tool %q exceeded its %s execution budget", name, d.timeout))
		} else {
			err = types.WrapError(types.EXECUTION_HANDLER_EXCEPTION,
				fmt.Sprintf("tool %q execution canceled", name), execCtx.Err())
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err

	case out := <-ch:
		if out.err != nil {
			err := out.err
			if types.CodeOf(err) == "" {
				err = types.WrapError(types.EXECUTION_HANDLER_EXCEPTION,
					fmt.Sprintf("tool %q failed", name), err)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}
		span.SetAttributes(attribute.Int("result.length", len(out.result)))
		return out.result, nil
	}
}
