// Package receiver accepts display command buffers from network transports,
// decodes them and applies them to the render backend.
package receiver

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/danmuck/rasterctl/internal/logging"
	"github.com/danmuck/rasterctl/internal/observability"
	"github.com/danmuck/rasterctl/internal/protocol"
	"github.com/danmuck/rasterctl/internal/render"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Transport labels used in logs and metrics.
const (
	TransportUDP       = "udp"
	TransportWebSocket = "ws"
)

// Stats is a point-in-time view of receiver counters.
type Stats struct {
	Received     uint64            `json:"received"`
	Decoded      uint64            `json:"decoded"`
	Rejected     uint64            `json:"rejected"`
	RenderErrors uint64            `json:"render_errors"`
	ByOpcode     map[string]uint64 `json:"by_opcode"`
	ByReason     map[string]uint64 `json:"by_reason"`
	LastCommand  string            `json:"last_command,omitempty"`
	LastReject   string            `json:"last_reject,omitempty"`
	WSClients    int64             `json:"ws_clients"`
}

// Service owns the framebuffer and the transports feeding it.
type Service struct {
	cfg         Config
	log         zerolog.Logger
	framebuffer *render.Framebuffer
	renderer    render.Renderer

	mu    sync.Mutex
	stats Stats

	wsClients atomic.Int64
	wsMu      sync.Mutex
	wsConns   map[*websocket.Conn]struct{}
}

func NewService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fb, err := render.NewFramebuffer(cfg.Width, cfg.Height, cfg.Background)
	if err != nil {
		return nil, err
	}
	logger := logging.Component("receiver")
	renderers := []render.Renderer{fb}
	if cfg.LogCommands {
		renderers = append(renderers, render.Journal{Logger: logger})
	}
	return &Service{
		cfg:         cfg,
		log:         logger,
		framebuffer: fb,
		renderer:    render.Multi(renderers...),
		wsConns:     make(map[*websocket.Conn]struct{}),
		stats: Stats{
			ByOpcode: make(map[string]uint64),
			ByReason: make(map[string]uint64),
		},
	}, nil
}

func (s *Service) Config() Config {
	return s.cfg
}

func (s *Service) Framebuffer() *render.Framebuffer {
	return s.framebuffer
}

// Handle decodes one buffer and renders the result. Malformed buffers are
// counted, logged and dropped; the error is returned for the caller's
// information only.
func (s *Service) Handle(transport, source string, buf []byte) (protocol.Command, error) {
	cmd, err := protocol.Decode(buf)
	if err != nil {
		reason := protocol.Reason(err)
		s.recordReject(reason, err)
		observability.RecordDecodeError(transport, reason)
		s.log.Warn().
			Err(err).
			Str("transport", transport).
			Str("source", source).
			Str("reason", reason).
			Int("len", len(buf)).
			Msg("dropped malformed command")
		return nil, err
	}

	op := cmd.Opcode().String()
	observability.RecordCommand(transport, op)
	renderErr := s.renderer.Render(cmd)
	s.recordDecoded(op, cmd.String(), renderErr != nil)
	if renderErr != nil {
		observability.RecordRenderError(op)
		s.log.Error().
			Err(renderErr).
			Str("transport", transport).
			Str("opcode", op).
			Msg("render failed")
		return cmd, renderErr
	}
	return cmd, nil
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.stats
	out.ByOpcode = make(map[string]uint64, len(s.stats.ByOpcode))
	for k, v := range s.stats.ByOpcode {
		out.ByOpcode[k] = v
	}
	out.ByReason = make(map[string]uint64, len(s.stats.ByReason))
	for k, v := range s.stats.ByReason {
		out.ByReason[k] = v
	}
	out.WSClients = s.wsClients.Load()
	return out
}

func (s *Service) recordReject(reason string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Received++
	s.stats.Rejected++
	s.stats.ByReason[reason]++
	s.stats.LastReject = err.Error()
}

func (s *Service) recordDecoded(op, description string, renderFailed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Received++
	s.stats.Decoded++
	s.stats.ByOpcode[op]++
	s.stats.LastCommand = description
	if renderFailed {
		s.stats.RenderErrors++
	}
}

// Run listens on the configured addresses and serves until ctx is done or
// a listener fails.
func (s *Service) Run(ctx context.Context) error {
	pc, err := net.ListenPacket("udp", strings.TrimSpace(s.cfg.UDPAddr))
	if err != nil {
		return err
	}

	var ln net.Listener
	if addr := strings.TrimSpace(s.cfg.AdminAddr); addr != "" {
		ln, err = net.Listen("tcp", addr)
		if err != nil {
			_ = pc.Close()
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.ServeUDP(gctx, pc)
	})
	if ln != nil {
		g.Go(func() error {
			return s.ServeAdmin(gctx, ln)
		})
	}
	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
