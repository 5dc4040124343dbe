package fake

import (
	"context"
	"encoding/json"
	"sync"

	"minerconf/sdk"
)

// ChannelStep scripts how the fake controller answers one command.
type ChannelStep struct {
	// Reply is marshaled to JSON and delivered as the reply. A nil Reply is
	// delivered as null.
	Reply any
	// SendErr makes Send fail without queueing the request.
	SendErr error
	// NoReply leaves the request pending until the channel closes.
	NoReply bool
	// CloseBeforeReply drops the connection instead of answering.
	CloseBeforeReply bool
	// CloseAfterReply answers and then drops the connection.
	CloseAfterReply bool
}

// Channel is an in-memory command channel with scripted replies. Commands
// without a script stay pending until Close.
type Channel struct {
	CallRecorder

	mu      sync.Mutex
	script  map[string]ChannelStep
	pending []*sdk.Future

	closed    chan struct{}
	closeOnce sync.Once
}

func NewChannel() *Channel {
	return &Channel{
		script: make(map[string]ChannelStep),
		closed: make(chan struct{}),
	}
}

// On sets the answer for every future request named name.
func (c *Channel) On(name string, step ChannelStep) {
	c.mu.Lock()
	c.script[name] = step
	c.mu.Unlock()
}

func (c *Channel) Send(_ context.Context, cmd sdk.Command) (*sdk.Future, error) {
	c.record(MethodSend, cmd)

	select {
	case <-c.closed:
		return nil, sdk.ErrClosed
	default:
	}

	c.mu.Lock()
	step, scripted := c.script[cmd.Name]
	c.mu.Unlock()

	if step.SendErr != nil {
		return nil, step.SendErr
	}

	f := sdk.NewFuture(cmd.Name)
	switch {
	case !scripted || step.NoReply:
		c.hold(f)
	case step.CloseBeforeReply:
		c.hold(f)
		c.Close()
	default:
		raw, err := json.Marshal(step.Reply)
		if err != nil {
			return nil, err
		}
		f.Resolve(raw, nil)
		if step.CloseAfterReply {
			c.Close()
		}
	}
	return f, nil
}

func (c *Channel) Request(ctx context.Context, cmd sdk.Command) (json.RawMessage, error) {
	f, err := c.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return f.Wait(ctx)
}

func (c *Channel) RequestSimple(ctx context.Context, name string) (json.RawMessage, error) {
	return c.Request(ctx, sdk.Command{Name: name})
}

func (c *Channel) Closed() <-chan struct{} {
	c.record(MethodClosed, sdk.Command{})
	return c.closed
}

// Close drops the connection and fails every pending request with
// sdk.ErrClosed.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.mu.Lock()
		pending := c.pending
		c.pending = nil
		c.mu.Unlock()
		for _, f := range pending {
			f.Resolve(nil, sdk.ErrClosed)
		}
	})
}

// Sent returns the names of the commands sent so far, in order.
func (c *Channel) Sent() []string {
	return c.Trace(ByMethod(MethodSend))
}

func (c *Channel) hold(f *sdk.Future) {
	c.mu.Lock()
	c.pending = append(c.pending, f)
	c.mu.Unlock()
}
