package sdk

import "time"

// DefaultSubprotocol is the websocket subprotocol of the administration
// channel.
const DefaultSubprotocol = "M8M-admin"

// DialOption configures how the SDK connects to a controller.
type DialOption func(*dialConfig)

type dialConfig struct {
	origin           string
	subprotocol      string
	handshakeTimeout time.Duration
}

func defaultDialConfig() dialConfig {
	return dialConfig{
		subprotocol:      DefaultSubprotocol,
		handshakeTimeout: 10 * time.Second,
	}
}

// WithOrigin sets the Origin header. Controllers that only accept their own
// web console check it.
func WithOrigin(origin string) DialOption {
	return func(c *dialConfig) { c.origin = origin }
}

// WithSubprotocol overrides the websocket subprotocol. Empty disables
// negotiation.
func WithSubprotocol(name string) DialOption {
	return func(c *dialConfig) { c.subprotocol = name }
}

// WithHandshakeTimeout bounds the websocket handshake.
func WithHandshakeTimeout(d time.Duration) DialOption {
	return func(c *dialConfig) { c.handshakeTimeout = d }
}
