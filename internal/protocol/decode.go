package protocol

import "encoding/binary"

// Decode parses a single command buffer. The buffer must hold exactly one
// command of the opcode's fixed length; nothing is retained from buf.
func Decode(buf []byte) (Command, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyInput
	}

	op := Opcode(buf[0])
	want, ok := op.Size()
	if !ok {
		return nil, &UnknownOpcodeError{Value: buf[0]}
	}
	if len(buf) != want {
		return nil, &InvalidLengthError{Opcode: op, Expected: want, Actual: len(buf)}
	}

	switch op {
	case OpClearDisplay:
		return ClearDisplay{Color: parseColor(buf, 1)}, nil
	case OpDrawPixel:
		return DrawPixel{
			X:     parseInt16(buf, 1),
			Y:     parseInt16(buf, 3),
			Color: parseColor(buf, 5),
		}, nil
	case OpDrawLine:
		return DrawLine{
			X0:    parseInt16(buf, 1),
			Y0:    parseInt16(buf, 3),
			X1:    parseInt16(buf, 5),
			Y1:    parseInt16(buf, 7),
			Color: parseColor(buf, 9),
		}, nil
	case OpDrawRectangle:
		x, y, w, h, c := parseShape(buf)
		return DrawRectangle{X: x, Y: y, Width: w, Height: h, Color: c}, nil
	case OpFillRectangle:
		x, y, w, h, c := parseShape(buf)
		return FillRectangle{X: x, Y: y, Width: w, Height: h, Color: c}, nil
	case OpDrawEllipse:
		x, y, rx, ry, c := parseShape(buf)
		return DrawEllipse{X: x, Y: y, RX: rx, RY: ry, Color: c}, nil
	default: // OpFillEllipse; Size already rejected everything else
		x, y, rx, ry, c := parseShape(buf)
		return FillEllipse{X: x, Y: y, RX: rx, RY: ry, Color: c}, nil
	}
}

// parseShape reads the shared four-int16-plus-color layout.
func parseShape(buf []byte) (a, b, c, d int16, color Color) {
	return parseInt16(buf, 1), parseInt16(buf, 3), parseInt16(buf, 5), parseInt16(buf, 7), parseColor(buf, 9)
}

func parseInt16(buf []byte, offset int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[offset : offset+2]))
}

func parseColor(buf []byte, offset int) Color {
	return Color(binary.BigEndian.Uint16(buf[offset : offset+2]))
}
