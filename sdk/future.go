package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Future is an in-flight request. It resolves exactly once, with the reply
// or with the error that closed the connection.
type Future struct {
	name string

	once  sync.Once
	done  chan struct{}
	reply json.RawMessage
	err   error
}

// NewFuture returns an unresolved future for the named request. Channel
// implementations other than [Client] use it together with [Future.Resolve].
func NewFuture(name string) *Future {
	return &Future{name: name, done: make(chan struct{})}
}

// Command returns the name of the request this future waits on.
func (f *Future) Command() string {
	return f.name
}

// Done is closed once the future resolves.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the reply arrives, the connection closes, or ctx ends.
func (f *Future) Wait(ctx context.Context) (json.RawMessage, error) {
	select {
	case <-f.done:
		if f.err != nil {
			return nil, fmt.Errorf("waiting for %s reply: %w", f.name, f.err)
		}
		return f.reply, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for %s reply: %w", f.name, ctx.Err())
	}
}

// Resolve completes the future. Only the first call has an effect.
func (f *Future) Resolve(reply json.RawMessage, err error) {
	f.once.Do(func() {
		f.reply = reply
		f.err = err
		close(f.done)
	})
}
