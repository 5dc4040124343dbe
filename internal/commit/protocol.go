// Package commit saves a configuration on the controller and asks it to
// reload.
//
// The save reply is judged by truthiness: false, null, 0, "" or a missing
// value mean the controller refused. Only after a truthy save is the reload
// sent. Its outcome is decided by whichever comes first: the reload reply or
// the channel closing.
package commit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"minerconf/internal/configcmd"
	"minerconf/sdk"
)

// ReloadCommand asks the controller to restart with its saved configuration.
const ReloadCommand = "reload"

var (
	// ErrSaveRejected is returned with OutcomeRejected.
	ErrSaveRejected = errors.New("controller rejected configuration")
	// ErrAlreadySubmitted is returned when a Protocol is asked to commit twice.
	ErrAlreadySubmitted = errors.New("configuration already submitted")
	// ErrUnexpectedReply marks a reload reply that is not a boolean.
	ErrUnexpectedReply = errors.New("unexpected reload reply")
)

// Channel is the part of the command channel a commit needs.
type Channel interface {
	Send(ctx context.Context, cmd sdk.Command) (*sdk.Future, error)
	Closed() <-chan struct{}
}

// Protocol runs one save/reload exchange.
type Protocol struct {
	ch    Channel
	phase Phase
}

func New(ch Channel) *Protocol {
	return &Protocol{ch: ch, phase: PhaseIdle}
}

// Phase returns the current phase.
func (p *Protocol) Phase() Phase {
	return p.phase
}

// Commit saves cmd and, when the controller accepts it, requests a reload.
// It runs at most once per Protocol.
func (p *Protocol) Commit(ctx context.Context, cmd configcmd.Command) (Outcome, error) {
	if p.phase != PhaseIdle {
		return 0, fmt.Errorf("commit to %s: %w", cmd.Destination, ErrAlreadySubmitted)
	}
	p.phase = p.phase.Transition(PhaseSaving)
	defer func() { p.phase = p.phase.Transition(PhaseDone) }()

	saved, err := p.save(ctx, cmd)
	if err != nil {
		return 0, err
	}
	if !saved {
		slog.Debug("controller rejected configuration", "destination", cmd.Destination)
		return OutcomeRejected, ErrSaveRejected
	}

	p.phase = p.phase.Transition(PhaseWaitingReload)
	return p.reload(ctx)
}

func (p *Protocol) save(ctx context.Context, cmd configcmd.Command) (bool, error) {
	f, err := p.ch.Send(ctx, cmd.Request())
	if err != nil {
		return false, fmt.Errorf("send %s: %w", configcmd.SaveCommand, err)
	}
	reply, err := f.Wait(ctx)
	if err != nil {
		return false, fmt.Errorf("save configuration: %w", err)
	}
	return truthy(reply), nil
}

func (p *Protocol) reload(ctx context.Context) (Outcome, error) {
	// Taken before the reload goes out so a close caused by the reload
	// itself is observed.
	closed := p.ch.Closed()

	f, err := p.ch.Send(ctx, sdk.Command{Name: ReloadCommand})
	if err != nil {
		if errors.Is(err, sdk.ErrClosed) {
			return OutcomeClosedNoReply, nil
		}
		return 0, fmt.Errorf("send %s: %w", ReloadCommand, err)
	}

	select {
	case <-f.Done():
		return reloadOutcome(ctx, f)
	case <-closed:
		// A reply resolved before the close still counts as first.
		select {
		case <-f.Done():
			return reloadOutcome(ctx, f)
		default:
			slog.Debug("channel closed before reload reply")
			return OutcomeClosedNoReply, nil
		}
	case <-ctx.Done():
		return 0, fmt.Errorf("waiting for %s reply: %w", ReloadCommand, ctx.Err())
	}
}

func reloadOutcome(ctx context.Context, f *sdk.Future) (Outcome, error) {
	reply, err := f.Wait(ctx)
	if err != nil {
		if errors.Is(err, sdk.ErrClosed) {
			return OutcomeClosedNoReply, nil
		}
		return 0, err
	}
	var v any
	if err := json.Unmarshal(reply, &v); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnexpectedReply, reply)
	}
	open, ok := v.(bool)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnexpectedReply, reply)
	}
	if open {
		return OutcomeRestartOpen, nil
	}
	return OutcomeRestartClosed, nil
}

// truthy applies the controller's notion of a successful reply.
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}
