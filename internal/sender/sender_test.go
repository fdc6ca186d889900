package sender

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/rasterctl/internal/protocol"
	"github.com/danmuck/rasterctl/internal/testutil/testlog"
	"github.com/gorilla/websocket"
)

func TestDialUnknownTransport(t *testing.T) {
	testlog.Start(t)
	_, err := Dial(context.Background(), "carrier-pigeon", "127.0.0.1:1")
	if !errors.Is(err, ErrUnknownTransport) {
		t.Fatalf("expected ErrUnknownTransport, got %v", err)
	}
}

func TestWebSocketURL(t *testing.T) {
	if got := WebSocketURL("127.0.0.1:7780"); got != "ws://127.0.0.1:7780/ws" {
		t.Fatalf("unexpected url: %q", got)
	}
	if got := WebSocketURL("ws://display/custom"); got != "ws://display/custom" {
		t.Fatalf("unexpected url: %q", got)
	}
}

func TestUDPSendOneDatagramPerCommand(t *testing.T) {
	testlog.Start(t)
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	ctx := context.Background()
	client, err := Dial(ctx, TransportUDP, pc.LocalAddr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	cmds := []protocol.Command{
		protocol.ClearDisplay{Color: protocol.White},
		protocol.DrawRectangle{X: 5, Y: 16, Width: 21, Height: 32, Color: 0xEEFF},
	}
	sent, err := client.SendAll(ctx, cmds, time.Millisecond)
	if err != nil || sent != len(cmds) {
		t.Fatalf("send all: sent=%d err=%v", sent, err)
	}

	buf := make([]byte, 64)
	for i, cmd := range cmds {
		_ = pc.SetReadDeadline(time.Now().Add(3 * time.Second))
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			t.Fatalf("read datagram %d: %v", i, err)
		}
		if !bytes.Equal(buf[:n], protocol.Encode(cmd)) {
			t.Fatalf("datagram %d: got % x", i, buf[:n])
		}
	}
}

func TestSendAllStopsOnCancel(t *testing.T) {
	testlog.Start(t)
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	client, err := Dial(context.Background(), TransportUDP, pc.LocalAddr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sent, err := client.SendAll(ctx, []protocol.Command{protocol.ClearDisplay{}}, 0)
	if !errors.Is(err, context.Canceled) || sent != 0 {
		t.Fatalf("expected cancellation before first send: sent=%d err=%v", sent, err)
	}
}

func TestSendAfterClose(t *testing.T) {
	testlog.Start(t)
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	client, err := Dial(context.Background(), TransportUDP, pc.LocalAddr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := client.SendRaw([]byte{1, 0, 0}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestWebSocketSendsBinaryMessages(t *testing.T) {
	testlog.Start(t)
	received := make(chan []byte, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		kind, data, err := conn.ReadMessage()
		if err != nil || kind != websocket.BinaryMessage {
			return
		}
		received <- data
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := Dial(ctx, TransportWebSocket, "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	cmd := protocol.DrawEllipse{X: 8, Y: 18, RX: 9, RY: 7, Color: 0x3344}
	n, err := client.Send(cmd)
	if err != nil || n != protocol.ShapeSize {
		t.Fatalf("send: n=%d err=%v", n, err)
	}
	select {
	case data := <-received:
		if !bytes.Equal(data, protocol.Encode(cmd)) {
			t.Fatalf("unexpected payload: % x", data)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for message")
	}
}
