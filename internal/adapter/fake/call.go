package fake

import (
	"sync"

	"minerconf/sdk"
)

// Method names recorded by Channel.
const (
	MethodSend   = "Send"
	MethodClosed = "Closed"
)

// Call is one interaction with a fake channel. Command is set for Send only.
type Call struct {
	Method  string
	Command sdk.Command
}

// Label is the command name for a Send and the method name otherwise, so a
// whole exchange reads as one ordered list.
func (c Call) Label() string {
	if c.Method == MethodSend {
		return c.Command.Name
	}
	return c.Method
}

// CallFilter selects recorded calls. A nil filter selects every call.
type CallFilter func(Call) bool

// ByMethod selects calls to method.
func ByMethod(method string) CallFilter {
	return func(c Call) bool { return c.Method == method }
}

// ByCommand selects Send calls carrying the named command.
func ByCommand(name string) CallFilter {
	return func(c Call) bool { return c.Method == MethodSend && c.Command.Name == name }
}

// CallRecorder keeps the order in which a fake was used.
type CallRecorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *CallRecorder) record(method string, cmd sdk.Command) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Method: method, Command: cmd})
	r.mu.Unlock()
}

// Calls returns the recorded calls accepted by filter, in order.
func (r *CallRecorder) Calls(filter CallFilter) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Call
	for _, c := range r.calls {
		if filter == nil || filter(c) {
			out = append(out, c)
		}
	}
	return out
}

// Commands returns the commands sent so far, in order.
func (r *CallRecorder) Commands() []sdk.Command {
	var out []sdk.Command
	for _, c := range r.Calls(ByMethod(MethodSend)) {
		out = append(out, c.Command)
	}
	return out
}

// Trace returns the label of every call accepted by filter.
func (r *CallRecorder) Trace(filter CallFilter) []string {
	var out []string
	for _, c := range r.Calls(filter) {
		out = append(out, c.Label())
	}
	return out
}
