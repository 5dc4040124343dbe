package fake

import (
	"context"
	"errors"
	"testing"

	"minerconf/sdk"
)

func TestChannelScriptedReply(t *testing.T) {
	ch := NewChannel()
	ch.On("systemInfo", ChannelStep{Reply: map[string]int{"n": 1}})

	got, err := ch.RequestSimple(context.Background(), "systemInfo")
	if err != nil {
		t.Fatalf("RequestSimple() error = %v", err)
	}
	if string(got) != `{"n":1}` {
		t.Fatalf("reply = %s", got)
	}
	if sent := ch.Sent(); len(sent) != 1 || sent[0] != "systemInfo" {
		t.Fatalf("Sent() = %v", sent)
	}
}

func TestChannelCloseFailsPending(t *testing.T) {
	ch := NewChannel()
	f, err := ch.Send(context.Background(), sdk.Command{Name: "reload"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	select {
	case <-f.Done():
		t.Fatal("unscripted request resolved before Close")
	default:
	}

	ch.Close()
	if _, err := f.Wait(context.Background()); !errors.Is(err, sdk.ErrClosed) {
		t.Fatalf("Wait() error = %v, want ErrClosed", err)
	}
	if _, err := ch.Send(context.Background(), sdk.Command{Name: "reload"}); !errors.Is(err, sdk.ErrClosed) {
		t.Fatalf("Send() after Close error = %v, want ErrClosed", err)
	}
}

func TestChannelCloseAfterReply(t *testing.T) {
	ch := NewChannel()
	ch.On("reload", ChannelStep{Reply: true, CloseAfterReply: true})

	got, err := ch.RequestSimple(context.Background(), "reload")
	if err != nil {
		t.Fatalf("RequestSimple() error = %v", err)
	}
	if string(got) != "true" {
		t.Fatalf("reply = %s", got)
	}
	select {
	case <-ch.Closed():
	default:
		t.Fatal("channel still open after CloseAfterReply")
	}
}

func TestChannelSendErr(t *testing.T) {
	ch := NewChannel()
	boom := errors.New("boom")
	ch.On("saveRawConfig", ChannelStep{SendErr: boom})
	if _, err := ch.Send(context.Background(), sdk.Command{Name: "saveRawConfig"}); !errors.Is(err, boom) {
		t.Fatalf("Send() error = %v, want %v", err, boom)
	}
}
