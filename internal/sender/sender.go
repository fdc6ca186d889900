// Package sender delivers encoded display commands to a receiver.
package sender

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/danmuck/rasterctl/internal/logging"
	"github.com/danmuck/rasterctl/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	TransportUDP       = "udp"
	TransportWebSocket = "ws"
)

var (
	ErrUnknownTransport = errors.New("sender: unknown transport")
	ErrClosed           = errors.New("sender: client closed")
)

// Client sends one command per datagram (udp) or per binary message (ws).
type Client struct {
	transport string
	target    string
	udp       net.Conn
	ws        *websocket.Conn
	log       zerolog.Logger
}

// Dial connects to a receiver. For udp, addr is host:port. For ws, addr is
// either a full ws:// URL or a host:port of the receiver admin listener.
func Dial(ctx context.Context, transport, addr string) (*Client, error) {
	addr = strings.TrimSpace(addr)
	c := &Client{
		transport: strings.ToLower(strings.TrimSpace(transport)),
		log:       logging.Component("sender"),
	}
	switch c.transport {
	case TransportUDP:
		var d net.Dialer
		conn, err := d.DialContext(ctx, "udp", addr)
		if err != nil {
			return nil, fmt.Errorf("sender: dial udp %s: %w", addr, err)
		}
		c.udp = conn
		c.target = conn.RemoteAddr().String()
	case TransportWebSocket:
		url := WebSocketURL(addr)
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			return nil, fmt.Errorf("sender: dial ws %s: %w", url, err)
		}
		c.ws = conn
		c.target = url
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, transport)
	}
	c.log.Debug().Str("transport", c.transport).Str("target", c.target).Msg("connected")
	return c, nil
}

// WebSocketURL expands a host:port into the receiver's websocket endpoint.
func WebSocketURL(addr string) string {
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		return addr
	}
	return "ws://" + addr + "/ws"
}

func (c *Client) Transport() string {
	return c.transport
}

func (c *Client) Target() string {
	return c.target
}

// Send encodes and delivers cmd, returning the number of bytes written.
func (c *Client) Send(cmd protocol.Command) (int, error) {
	if cmd == nil {
		return 0, fmt.Errorf("sender: nil command")
	}
	n, err := c.SendRaw(protocol.Encode(cmd))
	if err != nil {
		return n, err
	}
	c.log.Info().
		Str("opcode", cmd.Opcode().String()).
		Int("size", n).
		Msg(cmd.String())
	return n, nil
}

// SendRaw delivers buf unvalidated.
func (c *Client) SendRaw(buf []byte) (int, error) {
	switch {
	case c.udp != nil:
		return c.udp.Write(buf)
	case c.ws != nil:
		if err := c.ws.WriteMessage(websocket.BinaryMessage, buf); err != nil {
			return 0, err
		}
		return len(buf), nil
	default:
		return 0, ErrClosed
	}
}

// SendAll delivers cmds in order, pausing interval between sends. It stops at
// the first failure or when ctx is done and returns how many were sent.
func (c *Client) SendAll(ctx context.Context, cmds []protocol.Command, interval time.Duration) (int, error) {
	for i, cmd := range cmds {
		if i > 0 && interval > 0 {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return i, ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := c.Send(cmd); err != nil {
			return i, fmt.Errorf("sender: command %d (%s): %w", i, cmd.Opcode(), err)
		}
	}
	return len(cmds), nil
}

func (c *Client) Close() error {
	switch {
	case c.udp != nil:
		err := c.udp.Close()
		c.udp = nil
		return err
	case c.ws != nil:
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err := c.ws.Close()
		c.ws = nil
		return err
	default:
		return nil
	}
}
