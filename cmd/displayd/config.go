package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/rasterctl/internal/protocol"
	"github.com/danmuck/rasterctl/internal/receiver"
)

// displayd config.toml key mapping to receiver settings.
type fileConfig struct {
	UDPAddr          string   `toml:"udp_addr"`
	AdminAddr        string   `toml:"admin_addr"`
	MaxDatagramBytes int      `toml:"max_datagram_bytes"`
	Width            int      `toml:"width"`
	Height           int      `toml:"height"`
	Background       string   `toml:"background"`
	CorsOrigins      []string `toml:"cors_origins"`
	LogCommands      bool     `toml:"log_commands"`
}

// loadServiceConfig overlays the TOML file at path onto receiver defaults.
func loadServiceConfig(path string) (receiver.Config, error) {
	cfg := receiver.DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return receiver.Config{}, fmt.Errorf("load displayd config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return receiver.Config{}, fmt.Errorf("load displayd config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("udp_addr") {
		cfg.UDPAddr = strings.TrimSpace(raw.UDPAddr)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("max_datagram_bytes") {
		cfg.MaxDatagramBytes = raw.MaxDatagramBytes
	}
	if meta.IsDefined("width") {
		cfg.Width = raw.Width
	}
	if meta.IsDefined("height") {
		cfg.Height = raw.Height
	}
	if meta.IsDefined("background") {
		c, err := protocol.ParseColor(raw.Background)
		if err != nil {
			return receiver.Config{}, fmt.Errorf("parse background: %w", err)
		}
		cfg.Background = c
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}
	if meta.IsDefined("log_commands") {
		cfg.LogCommands = raw.LogCommands
	}

	if err := cfg.Validate(); err != nil {
		return receiver.Config{}, fmt.Errorf("load displayd config: %w", err)
	}
	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
