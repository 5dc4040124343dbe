package commit

// Outcome is how a commit ended.
type Outcome uint8

const (
	// OutcomeRejected: the controller did not save the configuration. No
	// reload was requested.
	OutcomeRejected Outcome = iota + 1
	// OutcomeRestartOpen: the controller will reload and keep the command
	// channel port open.
	OutcomeRestartOpen
	// OutcomeRestartClosed: the controller will reload with its ports closed.
	OutcomeRestartClosed
	// OutcomeClosedNoReply: the channel closed before the reload reply
	// arrived. Presented like OutcomeRestartClosed.
	OutcomeClosedNoReply
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeRestartOpen:
		return "restart_open"
	case OutcomeRestartClosed:
		return "restart_closed"
	case OutcomeClosedNoReply:
		return "closed_no_reply"
	default:
		return "unknown"
	}
}

// Message is the headline shown to the user.
func (o Outcome) Message() string {
	switch o {
	case OutcomeRejected:
		return "Miner did not save the given configuration."
	case OutcomeRestartOpen:
		return "Miner will restart with open connection."
	case OutcomeRestartClosed, OutcomeClosedNoReply:
		return "Miner will restart with closed ports."
	default:
		return ""
	}
}

// Detail tells the user what to do next.
func (o Outcome) Detail() string {
	switch o {
	case OutcomeRejected:
		return "State not changed. Nothing to do."
	case OutcomeRestartOpen:
		return "Please wait a few seconds before attempting to connect again."
	case OutcomeRestartClosed, OutcomeClosedNoReply:
		return "To connect again, you'll have to open port by using miner menu first."
	default:
		return ""
	}
}

// Reconnectable reports whether the controller is expected back on the same
// address after the reload.
func (o Outcome) Reconnectable() bool {
	return o == OutcomeRestartOpen
}
