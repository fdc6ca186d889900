package receiver

import (
	"context"
	"errors"
	"net"
)

// maxUDPPayload is the largest payload a UDP datagram can carry.
const maxUDPPayload = 64 << 10

// ServeUDP reads datagrams from pc until ctx is done. Each datagram is one
// command. Datagrams are read whole so an oversize datagram reaches the
// decoder with its true length and fails the length check.
func (s *Service) ServeUDP(ctx context.Context, pc net.PacketConn) error {
	defer pc.Close()
	s.log.Info().Str("addr", pc.LocalAddr().String()).Msg("udp listening")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = pc.Close()
		case <-done:
		}
	}()

	buf := make([]byte, maxUDPPayload)
	for {
		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		source := ""
		if addr != nil {
			source = addr.String()
		}
		_, _ = s.Handle(TransportUDP, source, buf[:n])
	}
}
