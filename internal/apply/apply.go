// Package apply turns a completed wizard state into a configuration on the
// controller: probe devices, scale intensity, build the command, commit it.
package apply

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"minerconf/infra/sqlite"
	"minerconf/internal/commit"
	"minerconf/internal/configcmd"
	"minerconf/internal/hardware"
	"minerconf/internal/wizard"
	"minerconf/pkg/sdk/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DoneMessage closes every finished run.
const DoneMessage = "We're done here."

const (
	StepProbe  = "probe"
	StepScale  = "scale"
	StepBuild  = "build"
	StepCommit = "commit"
)

var plan = telemetry.Plan{Steps: []telemetry.PlannedStep{
	{ID: StepProbe, Title: "Probing compute devices"},
	{ID: StepScale, Title: "Scaling intensity to hardware"},
	{ID: StepBuild, Title: "Building configuration"},
	{ID: StepCommit, Title: "Saving configuration and reloading"},
}}

// Channel is the command channel the pipeline talks to.
type Channel interface {
	hardware.Requester
	commit.Channel
}

// History records commit attempts.
type History interface {
	Append(ctx context.Context, r sqlite.Record) (int64, error)
}

// Request is one apply run.
type Request struct {
	State      wizard.State
	Reference  hardware.Reference
	SessionID  string
	Controller string
}

// Result reports what a run did. Fields are filled as far as the run got.
type Result struct {
	Devices []hardware.Device
	Slowest hardware.Device
	Scaling hardware.Scaling
	Command configcmd.Command
	Outcome commit.Outcome
}

// Runner executes apply runs against one channel.
type Runner struct {
	ch       Channel
	tracer   trace.Tracer
	history  History
	eligible hardware.Eligibility
}

type Option func(*Runner)

// WithTracer routes step spans to tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) { r.tracer = tracer }
}

// WithHistory records every commit attempt.
func WithHistory(h History) Option {
	return func(r *Runner) { r.history = h }
}

// WithEligibility replaces the device eligibility predicate.
func WithEligibility(e hardware.Eligibility) Option {
	return func(r *Runner) { r.eligible = e }
}

func NewRunner(ch Channel, opts ...Option) *Runner {
	r := &Runner{ch: ch, eligible: hardware.GPUOnly}
	for _, o := range opts {
		o(r)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer("minerconf/apply")
	}
	return r
}

// Run probes, scales, builds and commits. A run that finds no eligible
// device stops with hardware.ErrNoDevices before anything is saved.
func (r *Runner) Run(ctx context.Context, req Request) (res Result, err error) {
	op, err := telemetry.EmitPlan(ctx, r.tracer, "setup.apply", plan)
	if err != nil {
		return Result{}, err
	}
	defer func() { op.End(err) }()

	if req.State.ScaledIntensity <= 0 {
		slog.Warn("intensity scaling is not positive; the controller will get a non-positive linear intensity",
			"scaling", req.State.ScaledIntensity)
	}

	var slowest int
	err = op.RunStep(op.Context(), StepProbe, func(ctx context.Context) error {
		devices, err := hardware.NewProber(r.ch, r.eligible).Probe(ctx)
		if err != nil {
			return err
		}
		slowest, err = hardware.Slowest(devices)
		if err != nil {
			return err
		}
		res.Devices = devices
		res.Slowest = devices[slowest]
		telemetry.Detail(ctx, "%d eligible", len(devices))
		return nil
	})
	if err != nil {
		return res, err
	}

	err = op.RunStep(op.Context(), StepScale, func(ctx context.Context) error {
		res.Scaling = hardware.Scale(req.Reference, res.Slowest.EstimatedThroughput(), req.State.ScaledIntensity)
		telemetry.Detail(ctx, "slowest is %s, linear intensity %d",
			hardware.DescribeRatio(res.Scaling.Ratio), res.Scaling.LinearIntensity)
		slog.Debug("intensity scaled",
			"device", slowest,
			"chip", res.Slowest.Chip,
			"ratio", res.Scaling.Ratio,
			"linear_intensity", res.Scaling.LinearIntensity)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = op.RunStep(op.Context(), StepBuild, func(ctx context.Context) error {
		cmd, err := configcmd.Build(req.State, res.Scaling.LinearIntensity)
		if err != nil {
			return err
		}
		res.Command = cmd
		telemetry.Detail(ctx, "%s to %s", cmd.Configuration.Algo, cmd.Destination)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = op.RunStep(op.Context(), StepCommit, func(ctx context.Context) error {
		outcome, err := commit.New(r.ch).Commit(ctx, res.Command)
		res.Outcome = outcome
		r.record(ctx, req, res, err)
		if err != nil {
			return err
		}
		telemetry.Detail(ctx, "%s", outcome)
		return nil
	})
	return res, err
}

func (r *Runner) record(ctx context.Context, req Request, res Result, commitErr error) {
	if r.history == nil || req.SessionID == "" {
		return
	}
	configuration, err := json.Marshal(res.Command.Configuration.Redacted())
	if err != nil {
		slog.Warn("encode configuration for history", "err", err)
		return
	}
	rec := sqlite.Record{
		SessionID:       req.SessionID,
		Controller:      req.Controller,
		Destination:     res.Command.Destination,
		Algo:            string(res.Command.Configuration.Algo),
		LinearIntensity: res.Scaling.LinearIntensity,
		Outcome:         outcomeLabel(res.Outcome, commitErr),
		Configuration:   configuration,
	}
	if commitErr != nil {
		rec.Error = commitErr.Error()
	}
	if _, err := r.history.Append(context.WithoutCancel(ctx), rec); err != nil {
		slog.Warn("record commit history", "err", err)
	}
}

func outcomeLabel(o commit.Outcome, err error) string {
	switch {
	case o != 0:
		return o.String()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "failed"
	}
}

// Describe renders the run's hardware summary for humans.
func (res Result) Describe() string {
	if len(res.Devices) == 0 {
		return ""
	}
	return fmt.Sprintf("%d device(s) eligible. Slowest device (%s) is %s; linear intensity %d.",
		len(res.Devices), res.Slowest.Chip, hardware.DescribeRatio(res.Scaling.Ratio), res.Scaling.LinearIntensity)
}
