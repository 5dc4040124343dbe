package sdk

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// Dial connects to a controller. target is either a websocket URL
// ("ws://host:port/path") or a bare "host:port".
func Dial(ctx context.Context, target string, opts ...DialOption) (*Client, error) {
	cfg := defaultDialConfig()
	for _, o := range opts {
		o(&cfg)
	}

	u, err := NormalizeTarget(target)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: cfg.handshakeTimeout,
	}
	if cfg.subprotocol != "" {
		dialer.Subprotocols = []string{cfg.subprotocol}
	}
	header := http.Header{}
	if cfg.origin != "" {
		header.Set("Origin", cfg.origin)
	}

	conn, _, err := dialer.DialContext(ctx, u, header)
	if err != nil {
		return nil, fmt.Errorf("dial controller %s: %w", u, err)
	}
	return newClient(conn, u), nil
}

// WaitReachable dials target with exponential backoff until it answers or
// maxElapsed passes. It is meant for waiting on a controller that is
// restarting.
func WaitReachable(ctx context.Context, target string, maxElapsed time.Duration, opts ...DialOption) (*Client, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 3 * time.Second
	policy.MaxElapsedTime = maxElapsed

	var client *Client
	attempt := 0
	op := func() error {
		attempt++
		c, err := Dial(ctx, target, opts...)
		if err != nil {
			slog.Debug("controller not reachable yet", "target", target, "attempt", attempt, "err", err)
			return err
		}
		client = c
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return nil, fmt.Errorf("controller %s unreachable after %d attempts: %w", target, attempt, err)
	}
	return client, nil
}

// NormalizeTarget turns "host:port" into "ws://host:port/" and validates
// explicit URLs.
func NormalizeTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("controller address is required")
	}
	if !strings.Contains(target, "://") {
		target = "ws://" + target
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse controller address %q: %w", target, err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("controller address %q: unsupported scheme %q", target, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("controller address %q: missing host", target)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}
