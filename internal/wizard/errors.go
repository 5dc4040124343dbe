package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStep indicates a step id outside the closed step set.
	ErrUnknownStep = errors.New("no such wizard step")
	// ErrOutOfOrder indicates a transition other than to the next step.
	ErrOutOfOrder = errors.New("wizard steps must be visited in order")
	// ErrNotStarted indicates Advance before Start.
	ErrNotStarted = errors.New("wizard not started")
	// ErrAlreadyStarted indicates a second Start on the same session.
	ErrAlreadyStarted = errors.New("wizard already started")
)

// ValidationError is a recoverable input problem reported to the user.
type ValidationError struct {
	Step    StepID
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IntegrityError reports a broken internal invariant. It is fatal for the
// session.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("wizard integrity violation: %s: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

func invalid(step StepID, field Field, msg string) error {
	return &ValidationError{Step: step, Field: field, Message: msg}
}
