package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type frame struct {
	Command string          `json:"command"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// serve starts a controller stub; handle is called for every request and
// may write any number of frames.
func serve(t *testing.T, handle func(conn *websocket.Conn, req frame)) string {
	t.Helper()
	upgrader := websocket.Upgrader{Subprotocols: []string{DefaultSubprotocol}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req frame
			if err := json.Unmarshal(data, &req); err != nil {
				return
			}
			handle(conn, req)
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func reply(conn *websocket.Conn, name string, v any) {
	raw, _ := json.Marshal(v)
	data, _ := json.Marshal(replyFrame{Command: name, Reply: raw})
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRequestSimple(t *testing.T) {
	url := serve(t, func(conn *websocket.Conn, req frame) {
		if len(req.Params) != 0 {
			t.Errorf("simple request carried params %s", req.Params)
		}
		reply(conn, req.Command, map[string]string{"hello": "world"})
	})

	ctx := testContext(t)
	c, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	got, err := c.RequestSimple(ctx, "systemInfo")
	if err != nil {
		t.Fatalf("RequestSimple() error = %v", err)
	}
	if string(got) != `{"hello":"world"}` {
		t.Fatalf("reply = %s", got)
	}
}

func TestRequestCarriesParams(t *testing.T) {
	url := serve(t, func(conn *websocket.Conn, req frame) {
		reply(conn, req.Command, json.RawMessage(req.Params))
	})

	ctx := testContext(t)
	c, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	got, err := c.Request(ctx, Command{Name: "saveRawConfig", Params: map[string]int{"n": 3}})
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if string(got) != `{"n":3}` {
		t.Fatalf("echoed params = %s", got)
	}
}

func TestRepliesMatchInOrder(t *testing.T) {
	url := serve(t, func(conn *websocket.Conn, req frame) {
		reply(conn, req.Command, req.Command)
	})

	ctx := testContext(t)
	c, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	names := []string{"a", "b", "c"}
	futures := make([]*Future, 0, len(names))
	for _, n := range names {
		f, err := c.Send(ctx, Command{Name: n})
		if err != nil {
			t.Fatalf("Send(%s) error = %v", n, err)
		}
		futures = append(futures, f)
	}
	for i, f := range futures {
		got, err := f.Wait(ctx)
		if err != nil {
			t.Fatalf("Wait(%s) error = %v", names[i], err)
		}
		if want := `"` + names[i] + `"`; string(got) != want {
			t.Fatalf("reply %d = %s, want %s", i, got, want)
		}
	}
}

func TestPendingFailsWhenServerDrops(t *testing.T) {
	url := serve(t, func(conn *websocket.Conn, req frame) {
		_ = conn.Close()
	})

	ctx := testContext(t)
	c, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	_, err = c.RequestSimple(ctx, "reload")
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("RequestSimple() error = %v, want ErrClosed", err)
	}
	select {
	case <-c.Closed():
	default:
		t.Fatal("Closed() not closed after drop")
	}
	if !errors.Is(c.Err(), ErrClosed) {
		t.Fatalf("Err() = %v, want ErrClosed", c.Err())
	}
}

func TestMismatchedReplyIsProtocolError(t *testing.T) {
	url := serve(t, func(conn *websocket.Conn, req frame) {
		reply(conn, "somethingElse", true)
	})

	ctx := testContext(t)
	c, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	_, err = c.RequestSimple(ctx, "reload")
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("RequestSimple() error = %v, want ErrProtocol", err)
	}
}

func TestSendAfterCloseFails(t *testing.T) {
	url := serve(t, func(conn *websocket.Conn, req frame) {
		reply(conn, req.Command, nil)
	})

	ctx := testContext(t)
	c, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if _, err := c.Send(ctx, Command{Name: "systemInfo"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Send() after Close error = %v, want ErrClosed", err)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	url := serve(t, func(conn *websocket.Conn, req frame) {})

	ctx := testContext(t)
	c, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	f, err := c.Send(ctx, Command{Name: "systemInfo"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := f.Wait(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() error = %v, want deadline exceeded", err)
	}
}

func TestSendRequiresName(t *testing.T) {
	url := serve(t, func(conn *websocket.Conn, req frame) {})
	ctx := testContext(t)
	c, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()
	if _, err := c.Send(ctx, Command{}); err == nil {
		t.Fatal("Send() with empty name succeeded")
	}
}

func TestNormalizeTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "127.0.0.1:31000", want: "ws://127.0.0.1:31000/"},
		{in: "ws://rig:31000/admin", want: "ws://rig:31000/admin"},
		{in: "http://rig:31000", want: "ws://rig:31000/"},
		{in: "https://rig", want: "wss://rig/"},
		{in: "  rig:1  ", want: "ws://rig:1/"},
		{in: "", wantErr: true},
		{in: "ftp://rig", wantErr: true},
		{in: "ws://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTarget(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeTarget(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeTarget(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeTarget(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWaitReachableGivesUp(t *testing.T) {
	ctx := testContext(t)
	start := time.Now()
	_, err := WaitReachable(ctx, "127.0.0.1:1", 600*time.Millisecond, WithHandshakeTimeout(100*time.Millisecond))
	if err == nil {
		t.Fatal("WaitReachable() succeeded against a closed port")
	}
	if time.Since(start) > 4*time.Second {
		t.Fatalf("WaitReachable() took %s", time.Since(start))
	}
}

func TestWaitReachableConnects(t *testing.T) {
	url := serve(t, func(conn *websocket.Conn, req frame) {
		reply(conn, req.Command, true)
	})
	ctx := testContext(t)
	c, err := WaitReachable(ctx, url, time.Second)
	if err != nil {
		t.Fatalf("WaitReachable() error = %v", err)
	}
	defer c.Close()
	if c.Target() != url+"/" && c.Target() != url {
		t.Fatalf("Target() = %q", c.Target())
	}
}
