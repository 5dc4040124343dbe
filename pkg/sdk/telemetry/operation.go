// Package telemetry describes a multi-step operation as OpenTelemetry spans.
//
// The root span carries the plan (the ordered list of steps) so renderers
// can draw every step before it starts. Each step runs in a child span named
// by the step id. A step may attach a one-line detail that renderers show
// next to the finished step.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	PlanEventName      = "minerconf.plan"
	PlanVersion        = "1"
	PlanVersionKey     = "minerconf.plan.version"
	PlanJSONKey        = "minerconf.plan.json"
	StepDetailKey      = "minerconf.step.detail"
	defaultOperationID = "operation"
)

type PlannedStep struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Plan struct {
	Steps []PlannedStep `json:"steps"`
}

// Operation is a running plan. A nil Operation runs steps without tracing.
type Operation struct {
	ctx    context.Context
	tracer trace.Tracer
	span   trace.Span
	steps  map[string]struct{}
}

func EmitPlan(ctx context.Context, tracer trace.Tracer, operation string, plan Plan) (*Operation, error) {
	if tracer == nil {
		return nil, fmt.Errorf("emit telemetry plan: tracer is required")
	}
	steps, err := validatePlan(plan)
	if err != nil {
		return nil, fmt.Errorf("emit telemetry plan: %w", err)
	}

	operation = strings.TrimSpace(operation)
	if operation == "" {
		operation = defaultOperationID
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("emit telemetry plan: marshal plan: %w", err)
	}
	attrs := []attribute.KeyValue{
		attribute.String(PlanVersionKey, PlanVersion),
		attribute.String(PlanJSONKey, string(planJSON)),
	}

	spanCtx, span := tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
	span.AddEvent(PlanEventName, trace.WithAttributes(attrs...))

	return &Operation{ctx: spanCtx, tracer: tracer, span: span, steps: steps}, nil
}

func (o *Operation) Context() context.Context {
	if o == nil {
		return context.Background()
	}
	return o.ctx
}

// RunStep runs fn inside the span of the planned step id.
func (o *Operation) RunStep(ctx context.Context, id string, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}

	stepID := strings.TrimSpace(id)
	if stepID == "" {
		return fmt.Errorf("run telemetry step: step id is required")
	}
	if ctx == nil {
		ctx = o.Context()
	}
	if o == nil || o.tracer == nil {
		return fn(ctx)
	}
	if _, planned := o.steps[stepID]; !planned {
		return fmt.Errorf("run telemetry step: %q is not in the plan", stepID)
	}

	stepCtx, span := o.tracer.Start(ctx, stepID)
	defer span.End()

	if err := fn(stepCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, strings.TrimSpace(err.Error()))
		return err
	}
	return nil
}

// Detail attaches a one-line summary to the step running in ctx.
func Detail(ctx context.Context, format string, args ...any) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(attribute.String(StepDetailKey, fmt.Sprintf(format, args...)))
}

func (o *Operation) End(err error) {
	if o == nil || o.span == nil {
		return
	}
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, strings.TrimSpace(err.Error()))
	}
	o.span.End()
}

func validatePlan(plan Plan) (map[string]struct{}, error) {
	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("plan has no steps")
	}
	ids := make(map[string]struct{}, len(plan.Steps))
	for i, step := range plan.Steps {
		stepID := strings.TrimSpace(step.ID)
		if stepID == "" {
			return nil, fmt.Errorf("step %d has empty id", i)
		}
		if _, exists := ids[stepID]; exists {
			return nil, fmt.Errorf("duplicate step id %q", stepID)
		}
		ids[stepID] = struct{}{}
	}
	return ids, nil
}
