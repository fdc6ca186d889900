package receiver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/rasterctl/internal/protocol"
	"github.com/danmuck/rasterctl/internal/render"
)

var ErrInvalidConfig = errors.New("receiver: invalid config")

// Config configures the display receiver runtime.
type Config struct {
	// UDPAddr is the datagram listen address; one datagram carries one command.
	UDPAddr string
	// AdminAddr serves health, stats, metrics, snapshots and the websocket
	// transport. Empty disables the admin listener.
	AdminAddr        string
	MaxDatagramBytes int
	Width            int
	Height           int
	Background       protocol.Color
	CorsOrigins      []string
	LogCommands      bool
}

// Receiver defaults for a 320x240 panel on loopback.
func DefaultConfig() Config {
	return Config{
		UDPAddr:          "127.0.0.1:7777",
		AdminAddr:        "127.0.0.1:7780",
		MaxDatagramBytes: 512,
		Width:            320,
		Height:           240,
		Background:       protocol.Black,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.UDPAddr) == "" {
		return fmt.Errorf("%w: udp_addr is required", ErrInvalidConfig)
	}
	if c.MaxDatagramBytes < protocol.MaxCommandSize {
		return fmt.Errorf("%w: max_datagram_bytes must be at least %d", ErrInvalidConfig, protocol.MaxCommandSize)
	}
	if c.Width <= 0 || c.Height <= 0 || c.Width > render.MaxDimension || c.Height > render.MaxDimension {
		return fmt.Errorf("%w: display size %dx%d out of range", ErrInvalidConfig, c.Width, c.Height)
	}
	for i, origin := range c.CorsOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("%w: cors_origins[%d] is empty", ErrInvalidConfig, i)
		}
	}
	return nil
}
