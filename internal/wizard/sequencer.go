package wizard

import (
	"fmt"
	"log/slog"
	"strconv"

	"minerconf/internal/algo"
)

// DefaultIntensityPercent is prefilled on the hardware intensity step.
const DefaultIntensityPercent = 100

// View renders wizard steps. Implementations only draw; they never touch
// State.
type View interface {
	// Teardown removes the content of a step that is being left.
	Teardown(step StepID)
	// Install displays a step.
	Install(step StepID, st State)
	// Prefill sets the initial value of an input.
	Prefill(field Field, value string)
	// Show displays a read-only value next to the inputs.
	Show(field Field, value string)
	// Focus moves input focus.
	Focus(field Field)
}

// Sequencer drives a single wizard session.
type Sequencer struct {
	view    View
	state   State
	current StepID
}

// NewSequencer creates a session writing to destination on the controller.
func NewSequencer(view View, destination string) *Sequencer {
	return &Sequencer{
		view:  view,
		state: State{Destination: destination},
	}
}

// Start installs the first step.
func (s *Sequencer) Start() error {
	if s.current != 0 {
		return &IntegrityError{Op: "start", Err: ErrAlreadyStarted}
	}
	s.current = StepAlgorithm
	s.view.Install(StepAlgorithm, s.State())
	return nil
}

// Current returns the step on screen, or 0 before Start.
func (s *Sequencer) Current() StepID {
	return s.current
}

// Done reports whether the terminal step is on screen.
func (s *Sequencer) Done() bool {
	return s.current == StepSaveAndReboot
}

// State returns a copy of the accumulated state.
func (s *Sequencer) State() State {
	return s.state.clone()
}

// Advance moves to target after its validator accepts in.
//
// A *ValidationError leaves the session exactly as it was. A *IntegrityError
// means target is not a step, is not the next step, or the post-render hook
// hit an invariant violation.
func (s *Sequencer) Advance(target StepID, in Input) error {
	if !target.Valid() {
		return &IntegrityError{Op: "advance", Err: fmt.Errorf("%w: %d", ErrUnknownStep, uint8(target))}
	}
	if s.current == 0 {
		return &IntegrityError{Op: "advance", Err: ErrNotStarted}
	}
	if next, ok := s.current.Next(); !ok || next != target {
		return &IntegrityError{Op: "advance", Err: fmt.Errorf("%w: %s -> %s", ErrOutOfOrder, s.current, target)}
	}

	staged := s.state.clone()
	if err := validate(target, in, &staged); err != nil {
		slog.Debug("wizard step rejected", "from", s.current, "to", target, "err", err)
		return err
	}
	s.state = staged

	s.view.Teardown(s.current)
	s.view.Install(target, s.State())
	slog.Debug("wizard step installed", "from", s.current, "to", target)
	s.current = target
	return s.afterRender(target)
}

// afterRender runs the post-render hook of step. Hooks only read State.
func (s *Sequencer) afterRender(step StepID) error {
	switch step {
	case StepPoolDiffMultiplier:
		profile, err := algo.ProfileOf(s.state.Algo)
		if err != nil {
			return &IntegrityError{Op: "prefill pool difficulty", Err: err}
		}
		s.view.Prefill(FieldPoolDiffMultiplier, strconv.Itoa(profile.Stratum))
		s.view.Focus(FieldPoolDiffMultiplier)
	case StepPool:
		s.view.Show(FieldAlgorithm, string(s.state.Algo))
		s.view.Focus(FieldPoolURL)
	case StepHWIntensity:
		s.view.Prefill(FieldScaledIntensity, strconv.Itoa(DefaultIntensityPercent))
		s.view.Focus(FieldScaledIntensity)
	}
	return nil
}
