package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 16-bit RGB565 value: 5 bits red, 6 bits green, 5 bits blue.
type Color uint16

const (
	Black Color = 0x0000
	White Color = 0xFFFF
	Red   Color = 0xF800
	Green Color = 0x07E0
	Blue  Color = 0x001F
)

// RGB packs 8-bit channels into RGB565, dropping the low bits.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGB expands c to 8-bit channels. Low bits are replicated from the high
// bits so that full-scale channels map back to 0xFF.
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

func (c Color) String() string {
	return fmt.Sprintf("RGB565(%04x)", uint16(c))
}

// ParseColor accepts a raw RGB565 value ("0xF800", "f800", "63488") or an
// 8-bit-per-channel hex triplet ("#ff0000"). A bare value without a "0x"
// prefix is read as hex only when it contains a letter a-f, so "8000" is
// decimal 8000 (0x1f40) and "0x8000" is hex.
func ParseColor(raw string) (Color, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("protocol: empty color")
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 {
			return 0, fmt.Errorf("protocol: invalid color %q", raw)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("protocol: invalid color %q: %w", raw, err)
		}
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}
	base := 10
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "0x"):
		s = s[2:]
		base = 16
	case strings.ContainsAny(lower, "abcdef"):
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("protocol: invalid color %q: %w", raw, err)
	}
	return Color(v), nil
}
