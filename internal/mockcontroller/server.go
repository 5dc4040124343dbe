// Package mockcontroller is a stand-in mining controller speaking the
// administration channel protocol. It answers systemInfo, saveRawConfig and
// reload the way a real controller does and records what it was sent.
package mockcontroller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"minerconf/internal/commit"
	"minerconf/internal/configcmd"
	"minerconf/internal/hardware"
	"minerconf/sdk"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// ReloadMode selects how the controller answers reload.
type ReloadMode string

const (
	// ReloadOpen replies true and then drops the connection.
	ReloadOpen ReloadMode = "open"
	// ReloadClosed replies false and then drops the connection.
	ReloadClosed ReloadMode = "closed"
	// ReloadDrop drops the connection without replying.
	ReloadDrop ReloadMode = "drop"
)

// ParseReloadMode validates a mode name.
func ParseReloadMode(s string) (ReloadMode, error) {
	switch m := ReloadMode(s); m {
	case ReloadOpen, ReloadClosed, ReloadDrop:
		return m, nil
	default:
		return "", fmt.Errorf("unknown reload mode %q (want open, closed or drop)", s)
	}
}

type Config struct {
	Snapshot hardware.Snapshot
	// RejectSave answers every saveRawConfig with false.
	RejectSave bool
	Reload     ReloadMode
	// RestartDelay refuses new connections for this long after a reload.
	RestartDelay time.Duration
}

// Server is a mock controller. Use Handler with any http.Server, or
// ListenAndServe.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader

	mu        sync.Mutex
	saved     map[string]json.RawMessage
	requests  []string
	downUntil time.Time
	conns     map[*websocket.Conn]struct{}
}

func New(cfg Config) *Server {
	if cfg.Reload == "" {
		cfg.Reload = ReloadOpen
	}
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			Subprotocols: []string{sdk.DefaultSubprotocol},
			CheckOrigin:  func(*http.Request) bool { return true },
		},
		saved: make(map[string]json.RawMessage),
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handler serves the command channel on every path.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleWebSocket)
}

// ListenAndServe serves on addr until ctx is cancelled. ready, when not nil,
// receives the bound address once the listener is up.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	if ready != nil {
		ready(ln.Addr())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve mock controller: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// Shutdown does not track hijacked websocket connections.
		s.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Debug("mock controller shutdown", "err", err)
		}
		return nil
	})
	return g.Wait()
}

// Saved returns the configuration stored under destination.
func (s *Server) Saved(destination string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.saved[destination]
	return v, ok
}

// Requests returns the command names received so far, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

type request struct {
	Command string          `json:"command"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type reply struct {
	Command string `json:"command"`
	Reply   any    `json:"reply"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	down := time.Now().Before(s.downUntil)
	s.mu.Unlock()
	if down {
		http.Error(w, "restarting", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("mock controller upgrade failed", "err", err)
		return
	}
	s.track(conn, true)
	defer s.track(conn, false)
	defer conn.Close()

	slog.Info("mock controller client connected", "remote", r.RemoteAddr)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("mock controller read failed", "err", err)
			}
			return
		}
		var req request
		if err := json.Unmarshal(data, &req); err != nil {
			slog.Warn("mock controller got malformed request", "err", err)
			return
		}
		s.mu.Lock()
		s.requests = append(s.requests, req.Command)
		s.mu.Unlock()

		if !s.dispatch(conn, req) {
			return
		}
	}
}

// dispatch answers req. It returns false when the connection must end.
func (s *Server) dispatch(conn *websocket.Conn, req request) bool {
	switch req.Command {
	case hardware.SystemInfoCommand:
		return send(conn, req.Command, s.cfg.Snapshot)

	case configcmd.SaveCommand:
		return send(conn, req.Command, s.save(req.Params))

	case commit.ReloadCommand:
		s.mu.Lock()
		s.downUntil = time.Now().Add(s.cfg.RestartDelay)
		s.mu.Unlock()
		slog.Info("mock controller reloading", "mode", s.cfg.Reload)
		switch s.cfg.Reload {
		case ReloadOpen:
			send(conn, req.Command, true)
		case ReloadClosed:
			send(conn, req.Command, false)
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "reloading"),
			time.Now().Add(time.Second))
		return false

	default:
		slog.Warn("mock controller got unknown command", "command", req.Command)
		return send(conn, req.Command, nil)
	}
}

func (s *Server) save(params json.RawMessage) bool {
	if s.cfg.RejectSave {
		return false
	}
	var p struct {
		Destination   string          `json:"destination"`
		Configuration json.RawMessage `json:"configuration"`
	}
	if err := json.Unmarshal(params, &p); err != nil || p.Destination == "" || len(p.Configuration) == 0 {
		slog.Warn("mock controller refusing malformed save", "err", err)
		return false
	}
	s.mu.Lock()
	s.saved[p.Destination] = p.Configuration
	s.mu.Unlock()
	slog.Info("mock controller saved configuration", "destination", p.Destination, "bytes", len(p.Configuration))
	return true
}

func send(conn *websocket.Conn, command string, v any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(reply{Command: command, Reply: v}); err != nil {
		slog.Debug("mock controller write failed", "err", err)
		return false
	}
	return true
}

func (s *Server) track(conn *websocket.Conn, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.conns[conn] = struct{}{}
		return
	}
	delete(s.conns, conn)
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
}

// DefaultSnapshot is a rig with two GPUs and a CPU.
func DefaultSnapshot() hardware.Snapshot {
	return hardware.Snapshot{Platforms: []hardware.Platform{
		{
			Name:    "AMD Accelerated Parallel Processing",
			Vendor:  "Advanced Micro Devices, Inc.",
			Version: "OpenCL 2.0 AMD-APP",
			Devices: []hardware.Device{
				{Type: "GPU", Chip: "Tahiti", Vendor: "AMD", CoreClock: 1000, Clusters: 32, GlobalMemBytes: 3 << 30},
				{Type: "GPU", Chip: "Capeverde", Vendor: "AMD", CoreClock: 850, Clusters: 8, GlobalMemBytes: 1 << 30},
				{Type: "CPU", Chip: "x86-64", Vendor: "AuthenticAMD", CoreClock: 3600, Clusters: 8, GlobalMemBytes: 16 << 30},
			},
		},
	}}
}
