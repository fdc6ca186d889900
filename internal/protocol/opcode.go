package protocol

import (
	"fmt"
	"strings"
)

// Opcode is the single-byte command tag at offset 0.
type Opcode uint8

const (
	OpClearDisplay Opcode = iota + 1
	OpDrawPixel
	OpDrawLine
	OpDrawRectangle
	OpFillRectangle
	OpDrawEllipse
	OpFillEllipse
)

// Fixed total buffer lengths, opcode byte included.
const (
	ClearDisplaySize = 3
	DrawPixelSize    = 7
	ShapeSize        = 11

	// MaxCommandSize is the largest valid command buffer.
	MaxCommandSize = ShapeSize
)

var opcodeNames = map[Opcode]string{
	OpClearDisplay:  "clear_display",
	OpDrawPixel:     "draw_pixel",
	OpDrawLine:      "draw_line",
	OpDrawRectangle: "draw_rectangle",
	OpFillRectangle: "fill_rectangle",
	OpDrawEllipse:   "draw_ellipse",
	OpFillEllipse:   "fill_ellipse",
}

// Opcodes lists every defined opcode in wire order.
func Opcodes() []Opcode {
	return []Opcode{
		OpClearDisplay,
		OpDrawPixel,
		OpDrawLine,
		OpDrawRectangle,
		OpFillRectangle,
		OpDrawEllipse,
		OpFillEllipse,
	}
}

// Valid reports whether o is a defined opcode.
func (o Opcode) Valid() bool {
	return o >= OpClearDisplay && o <= OpFillEllipse
}

// Size returns the exact buffer length required for o.
func (o Opcode) Size() (int, bool) {
	switch o {
	case OpClearDisplay:
		return ClearDisplaySize, true
	case OpDrawPixel:
		return DrawPixelSize, true
	case OpDrawLine, OpDrawRectangle, OpFillRectangle, OpDrawEllipse, OpFillEllipse:
		return ShapeSize, true
	default:
		return 0, false
	}
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("opcode(%d)", uint8(o))
}

// ParseOpcode resolves a snake_case opcode name such as "draw_line".
func ParseOpcode(name string) (Opcode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	for op, n := range opcodeNames {
		if n == key {
			return op, nil
		}
	}
	return 0, fmt.Errorf("protocol: unknown opcode name %q", name)
}
