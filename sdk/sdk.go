// Package sdk provides a Go client for a mining controller's command channel.
//
// The channel is a websocket carrying JSON text frames. Each request is an
// object {"command": name, "params": ...}; the controller answers every
// request exactly once with {"command": name, "reply": value}, in the order
// the requests were sent. A request is therefore matched to the oldest
// outstanding one, and a reply naming a different command is a protocol
// violation that tears the connection down.
//
// When the connection drops, every outstanding [Future] fails with
// [ErrClosed] and the channel returned by [Client.Closed] is closed. Callers
// that must distinguish "no reply because the controller went away" select on
// both.
package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	// ErrClosed is returned for requests that cannot complete because the
	// connection is gone.
	ErrClosed = errors.New("command channel closed")
	// ErrProtocol marks a reply that does not match the outstanding request.
	ErrProtocol = errors.New("command channel protocol violation")
)

// Command is a request frame. Params is omitted for simple requests.
type Command struct {
	Name   string `json:"command"`
	Params any    `json:"params,omitempty"`
}

type replyFrame struct {
	Command string          `json:"command"`
	Reply   json.RawMessage `json:"reply"`
}

// Client is a connection to one controller.
type Client struct {
	conn   *websocket.Conn
	target string

	// writeMu orders enqueue+write so the pending queue matches wire order.
	writeMu sync.Mutex

	mu      sync.Mutex
	pending []*Future

	closed    chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func newClient(conn *websocket.Conn, target string) *Client {
	c := &Client{
		conn:   conn,
		target: target,
		closed: make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Target returns the address the client dialed.
func (c *Client) Target() string {
	return c.target
}

// Send writes cmd and returns a Future for its reply.
func (c *Client) Send(ctx context.Context, cmd Command) (*Future, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("send: command name is required")
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", cmd.Name, err)
	}

	f := NewFuture(cmd.Name)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.closed:
		return nil, c.Err()
	default:
	}

	c.mu.Lock()
	c.pending = append(c.pending, f)
	c.mu.Unlock()

	deadline := time.Time{}
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.shutdown(fmt.Errorf("%w: write %s: %v", ErrClosed, cmd.Name, err))
		return nil, c.Err()
	}
	slog.Debug("channel request sent", "command", cmd.Name, "target", c.target)
	return f, nil
}

// Request sends cmd and waits for its reply.
func (c *Client) Request(ctx context.Context, cmd Command) (json.RawMessage, error) {
	f, err := c.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return f.Wait(ctx)
}

// RequestSimple sends a command without parameters and waits for its reply.
func (c *Client) RequestSimple(ctx context.Context, name string) (json.RawMessage, error) {
	return c.Request(ctx, Command{Name: name})
}

// Closed is closed once the connection is gone.
func (c *Client) Closed() <-chan struct{} {
	return c.closed
}

// Err returns why the connection closed, or nil while it is open.
func (c *Client) Err() error {
	select {
	case <-c.closed:
		return c.closeErr
	default:
		return nil
	}
}

// Close sends a close frame and releases the connection. Safe to call
// multiple times.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	c.shutdown(ErrClosed)
	return nil
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.shutdown(fmt.Errorf("%w: %v", ErrClosed, err))
			return
		}

		var frame replyFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.shutdown(fmt.Errorf("%w: decode reply: %v", ErrProtocol, err))
			return
		}

		c.mu.Lock()
		if len(c.pending) == 0 {
			c.mu.Unlock()
			slog.Debug("channel frame without pending request", "command", frame.Command)
			continue
		}
		head := c.pending[0]
		if head.name != frame.Command {
			c.mu.Unlock()
			c.shutdown(fmt.Errorf("%w: reply for %q while waiting on %q", ErrProtocol, frame.Command, head.name))
			return
		}
		c.pending = c.pending[1:]
		c.mu.Unlock()

		slog.Debug("channel reply received", "command", frame.Command)
		head.Resolve(frame.Reply, nil)
	}
}

func (c *Client) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.closeErr = err
		close(c.closed)
		_ = c.conn.Close()

		c.mu.Lock()
		pending := c.pending
		c.pending = nil
		c.mu.Unlock()

		for _, f := range pending {
			f.Resolve(nil, err)
		}
		slog.Debug("channel closed", "target", c.target, "err", err)
	})
}
