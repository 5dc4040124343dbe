package commit

import "minerconf/internal/check"

// Phase is where a Protocol is in its save/reload exchange.
type Phase uint8

const (
	PhaseIdle Phase = iota + 1
	PhaseSaving
	PhaseWaitingReload
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSaving:
		return "saving"
	case PhaseWaitingReload:
		return "waiting_reload"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Transition returns to when p may move there, and p otherwise.
func (p Phase) Transition(to Phase) Phase {
	ok := false
	switch p {
	case PhaseIdle:
		ok = to == PhaseSaving
	case PhaseSaving:
		ok = to == PhaseWaitingReload || to == PhaseDone
	case PhaseWaitingReload:
		ok = to == PhaseDone
	case PhaseDone:
		ok = false
	}
	check.Assertf(ok, "commit phase transition: %s -> %s", p, to)
	if !ok {
		return p
	}
	return to
}
