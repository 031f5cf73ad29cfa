package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/codemarcinu/steward/internal/events"
	"github.com/codemarcinu/steward/internal/llm"
	"github.com/codemarcinu/steward/internal/parse"
	"github.com/codemarcinu/steward/internal/prompt"
	"github.com/codemarcinu/steward/internal/record"
	"github.com/codemarcinu/steward/internal/sanitize"
	"github.com/codemarcinu/steward/internal/tool"
	"github.com/codemarcinu/steward/internal/types"
	"github.com/codemarcinu/steward/internal/validate"
)

// Process runs one user message to a terminal state and persists its
// call record. The record is persisted on every path, including caller
// cancellation mid-run; the only error Process returns is a record
// store append failure, reported alongside the in-memory record.
func (o *Orchestrator) Process(ctx context.Context, session Session, input string) (*Result, error) {
	start := o.clock()

	ctx, span := o.tracer.Start(ctx, "Orchestrator.Process",
		trace.WithAttributes(
			attribute.String("session.id", session.ID),
			attribute.String("session.source", session.Source),
		))
	defer span.End()

	rec := record.New(session.ID, session.Source, input)

	o.publish(ctx, events.Event{
		Type:      events.EventRunStarted,
		SessionID: session.ID,
		Attrs: map[string]any{
			"source": session.Source,
			"locale": session.Locale,
		},
	})

	assessment := o.sanitizer.Check(input)
	rec.SanitizedInput = assessment.Clean
	rec.RaiseRisk(assessment.Risk)

	if assessment.Risk == sanitize.RiskHigh {
		return o.shortCircuit(ctx, span, session, rec, assessment, start)
	}

	reply, status := o.runAttempts(ctx, session, rec, assessment.Clean)
	return o.finalize(ctx, span, session, rec, reply, status, start)
}

// shortCircuit refuses high-risk input without invoking the model. The
// refusal is recorded as a successful forced answer_directly call.
func (o *Orchestrator) shortCircuit(
	ctx context.Context,
	span trace.Span,
	session Session,
	rec *record.CallRecord,
	assessment sanitize.Assessment,
	start time.Time,
) (*Result, error) {
	span.SetAttributes(attribute.String("injection.risk", string(assessment.Risk)))

	o.logger.Warn("input rejected as probable prompt injection",
		"session_id", session.ID,
		"risk", string(assessment.Risk),
		"score", assessment.Score,
		"matched_rules", len(assessment.Matches),
	)

	rec.ParsedTool = tool.AnswerDirectly
	rec.ParsedArguments = map[string]any{"text": o.refusalText}
	rec.ValidationSuccess = true
	rec.ExecutionSuccess = true

	o.publish(ctx, events.Event{
		Type:      events.EventRunShortCircuit,
		SessionID: session.ID,
		Tool:      tool.AnswerDirectly,
		Attrs: map[string]any{
			"risk":  string(assessment.Risk),
			"score": assessment.Score,
		},
	})

	return o.finalize(ctx, span, session, rec, o.refusalText, StatusShortCircuit, start)
}

// runAttempts drives the invoke-parse-validate loop until it produces a
// dispatched call or exhausts the retry budget. It mutates rec so the
// latest attempt's fields are the ones that get persisted.
func (o *Orchestrator) runAttempts(ctx context.Context, session Session, rec *record.CallRecord, input string) (string, Status) {
	messages := o.builder.Build(input)

	for {
		o.publish(ctx, events.Event{
			Type:      events.EventRunAttempt,
			SessionID: session.ID,
			Attrs: map[string]any{
				"attempt": rec.RetryCount + 1,
				"model":   o.client.Model(),
			},
		})

		feedback, usable := o.attemptOnce(ctx, session, rec, messages)
		if usable {
			return o.execute(ctx, session, rec), StatusExecuted
		}

		if rec.RetryCount >= o.maxRetries || ctx.Err() != nil {
			break
		}

		rec.RetryCount++
		o.logger.Warn("retrying after unusable model response",
			"session_id", session.ID,
			"retry", rec.RetryCount,
			"max_retries", o.maxRetries,
			"feedback", feedback,
		)
		o.publish(ctx, events.Event{
			Type:      events.EventRunRetry,
			SessionID: session.ID,
			Attrs: map[string]any{
				"retry":    rec.RetryCount,
				"feedback": feedback,
			},
		})
		messages = o.builder.BuildWithFeedback(input, feedback)
	}

	// Retry budget spent (or the caller has gone away): answer directly
	// instead of dispatching anything.
	rec.ParsedTool = tool.AnswerDirectly
	rec.ParsedArguments = map[string]any{"text": fallbackText}
	rec.ValidationSuccess = false
	rec.ExecutionSuccess = false
	rec.SetConfidence(nil)

	o.logger.Warn("no usable tool call after final attempt",
		"session_id", session.ID,
		"retries", rec.RetryCount,
		"last_error", rec.ValidationError,
	)

	return fallbackText, StatusFailedTerminal
}

// attemptOnce performs one invoke-parse-validate cycle. On success rec
// carries the validated call and the returned feedback is empty; on
// failure the feedback is what the next prompt should correct.
func (o *Orchestrator) attemptOnce(ctx context.Context, session Session, rec *record.CallRecord, messages prompt.Messages) (string, bool) {
	rec.ModelUsed = o.client.Model()

	resp, err := o.client.Invoke(ctx, llm.InvokeRequest{
		System:  messages.System,
		User:    messages.User,
		Options: o.modelOpts,
	})
	if err != nil {
		err = classifyModelError(err)
		rec.RawResponse = ""
		rec.ValidationSuccess = false
		rec.ValidationError = err.Error()
		o.logger.Warn("model invocation failed",
			"session_id", session.ID,
			"model", rec.ModelUsed,
			"error", err,
		)
		return err.Error(), false
	}

	rec.RawResponse = resp.Text
	if resp.Model != "" {
		rec.ModelUsed = resp.Model
	}

	call, err := parse.Parse(resp.Text)
	if err != nil {
		rec.ValidationSuccess = false
		rec.ValidationError = err.Error()
		o.logger.Warn("model response did not parse",
			"session_id", session.ID,
			"error", err,
		)
		return err.Error(), false
	}

	rec.ParsedTool = call.Tool
	rec.SetConfidence(call.Confidence)

	outcome := validate.Validate(call, o.registry)
	if !outcome.OK {
		rec.ValidationSuccess = false
		rec.ValidationError = outcome.ErrorText()
		o.logger.Warn("tool call failed validation",
			"session_id", session.ID,
			"tool", call.Tool,
			"violations", len(outcome.Violations),
		)
		return outcome.ErrorText(), false
	}

	rec.ParsedTool = outcome.Tool.Name
	rec.ParsedArguments = outcome.Arguments
	rec.ValidationSuccess = true
	rec.ValidationError = ""

	return "", true
}

// execute dispatches the validated call exactly once. Execution is
// never retried; a failure here is terminal and lands in the record.
func (o *Orchestrator) execute(ctx context.Context, session Session, rec *record.CallRecord) string {
	result, err := o.dispatcher.Execute(ctx, rec.ParsedTool, rec.ParsedArguments)
	if err != nil {
		rec.ExecutionSuccess = false
		rec.ExecutionError = err.Error()
		o.logger.Error("tool execution failed",
			"session_id", session.ID,
			"tool", rec.ParsedTool,
			"error", err,
		)
		o.publish(ctx, events.Event{
			Type:      events.EventToolFailed,
			SessionID: session.ID,
			Tool:      rec.ParsedTool,
			Attrs:     map[string]any{"error": err.Error()},
		})
		return fmt.Sprintf("I couldn't complete %s: %v", rec.ParsedTool, err)
	}

	rec.ExecutionSuccess = true
	o.logger.Info("tool executed",
		"session_id", session.ID,
		"tool", rec.ParsedTool,
	)
	o.publish(ctx, events.Event{
		Type:      events.EventToolExecuted,
		SessionID: session.ID,
		Tool:      rec.ParsedTool,
		Attrs:     map[string]any{"result_length": len(result)},
	})

	return result
}

// finalize stamps the duration, emits the terminal event, and persists
// the record. Persistence runs on a context detached from the caller's
// so a canceled run still leaves its audit trail.
func (o *Orchestrator) finalize(
	ctx context.Context,
	span trace.Span,
	session Session,
	rec *record.CallRecord,
	reply string,
	status Status,
	start time.Time,
) (*Result, error) {
	rec.TotalTimeMS = o.clock().Sub(start).Milliseconds()

	span.SetAttributes(
		attribute.String("run.status", status.String()),
		attribute.String("run.tool", rec.ParsedTool),
		attribute.Int("run.retries", rec.RetryCount),
	)

	o.publish(ctx, events.Event{
		Type:      events.EventRunTerminal,
		SessionID: session.ID,
		Tool:      rec.ParsedTool,
		Attrs: map[string]any{
			"status":             status.String(),
			"retries":            rec.RetryCount,
			"validation_success": rec.ValidationSuccess,
			"execution_success":  rec.ExecutionSuccess,
			"total_time_ms":      rec.TotalTimeMS,
		},
	})

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	id, err := o.store.Append(persistCtx, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist call record")
		o.logger.Error("failed to persist call record",
			"session_id", session.ID,
			"record_id", rec.ID.String(),
			"error", err,
		)
		return &Result{RecordID: rec.ID, Reply: reply, Status: status, Record: rec}, err
	}

	o.logger.Info("run finished",
		"session_id", session.ID,
		"record_id", id.String(),
		"status", status.String(),
		"tool", rec.ParsedTool,
		"retries", rec.RetryCount,
		"total_time_ms", rec.TotalTimeMS,
	)

	return &Result{RecordID: id, Reply: reply, Status: status, Record: rec}, nil
}

// publish emits an event when a bus is configured. Delivery is best
// effort; a full subscriber or closed bus never affects the run.
func (o *Orchestrator) publish(ctx context.Context, event events.Event) {
	if o.bus == nil {
		return
	}
	event.Timestamp = o.clock()
	if err := o.bus.Publish(ctx, event); err != nil {
		o.logger.Debug("event publish failed",
			"type", string(event.Type),
			"error", err,
		)
	}
}

// classifyModelError folds model transport failures into the parse
// error class so they consume a retry like any other unusable response.
func classifyModelError(err error) error {
	if types.CodeOf(err) == types.MODEL_TIMEOUT {
		return types.WrapError(types.PARSE_TIMEOUT, "model call timed out", err)
	}
	return err
}
