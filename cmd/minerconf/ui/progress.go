package ui

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"minerconf/pkg/sdk/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Progress draws the steps of a telemetry plan on stderr while they run.
// Terminals get a live checklist, anything else one line per change.
type Progress struct {
	provider *sdktrace.TracerProvider
	view     progressView
}

func NewProgress() *Progress {
	if IsInteractive() {
		return newProgress(newLiveView(os.Stderr))
	}
	return newProgress(newLogView(os.Stderr))
}

func newProgress(view progressView) *Progress {
	tracker := &stepTracker{view: view, index: make(map[string]int)}
	return &Progress{
		provider: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(tracker)),
		view:     view,
	}
}

// Tracer returns a tracer whose plans and steps are drawn by p.
func (p *Progress) Tracer(name string) trace.Tracer {
	return p.provider.Tracer(name)
}

// Close flushes the last state and leaves it on screen.
func (p *Progress) Close() {
	_ = p.provider.Shutdown(context.Background())
	p.view.finish()
}

type stepStatus int

const (
	stepPending stepStatus = iota
	stepRunning
	stepDone
	stepFailed
)

type stepState struct {
	ID     string
	Title  string
	Status stepStatus
	// Note is the failure reason of a failed step and the detail of a
	// finished one.
	Note string
	Took time.Duration
}

// progressView receives the full ordered step list after every change.
type progressView interface {
	update(steps []stepState)
	finish()
}

// stepTracker is a span processor. The root span announces the plan and
// every child span is one step, named by its id.
type stepTracker struct {
	mu    sync.Mutex
	steps []stepState
	index map[string]int
	view  progressView
}

func (t *stepTracker) OnStart(_ context.Context, span sdktrace.ReadWriteSpan) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if span.Parent().IsValid() {
		s := t.stepLocked(span.Name())
		s.Status, s.Note, s.Took = stepRunning, "", 0
		t.publishLocked()
		return
	}

	var plan telemetry.Plan
	raw := spanString(span.Attributes(), telemetry.PlanJSONKey)
	if raw == "" || json.Unmarshal([]byte(raw), &plan) != nil {
		return
	}
	for _, planned := range plan.Steps {
		if strings.TrimSpace(planned.ID) == "" {
			continue
		}
		s := t.stepLocked(planned.ID)
		if title := strings.TrimSpace(planned.Title); title != "" {
			s.Title = title
		}
	}
	t.publishLocked()
}

func (t *stepTracker) OnEnd(span sdktrace.ReadOnlySpan) {
	if !span.Parent().IsValid() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stepLocked(span.Name())
	s.Took = span.EndTime().Sub(span.StartTime())
	if st := span.Status(); st.Code == codes.Error {
		s.Status, s.Note = stepFailed, strings.TrimSpace(st.Description)
	} else {
		s.Status, s.Note = stepDone, spanString(span.Attributes(), telemetry.StepDetailKey)
	}
	t.publishLocked()
}

func (t *stepTracker) Shutdown(context.Context) error   { return nil }
func (t *stepTracker) ForceFlush(context.Context) error { return nil }

// stepLocked returns the step with id, appending it when unplanned.
func (t *stepTracker) stepLocked(id string) *stepState {
	id = strings.TrimSpace(id)
	if i, ok := t.index[id]; ok {
		return &t.steps[i]
	}
	t.index[id] = len(t.steps)
	t.steps = append(t.steps, stepState{ID: id, Title: id})
	return &t.steps[len(t.steps)-1]
}

func (t *stepTracker) publishLocked() {
	t.view.update(append([]stepState(nil), t.steps...))
}

func spanString(attrs []attribute.KeyValue, key string) string {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return strings.TrimSpace(kv.Value.AsString())
		}
	}
	return ""
}
