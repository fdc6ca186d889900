package protocol

import "encoding/binary"

// Encode returns the wire form of cmd. It returns nil for a nil command,
// including a typed nil pointer.
func Encode(cmd Command) []byte {
	cmd = commandValue(cmd)
	if cmd == nil {
		return nil
	}
	size, _ := cmd.Opcode().Size()
	return AppendEncode(make([]byte, 0, size), cmd)
}

// AppendEncode appends the wire form of cmd to dst.
func AppendEncode(dst []byte, cmd Command) []byte {
	cmd = commandValue(cmd)
	if cmd == nil {
		return dst
	}
	dst = append(dst, byte(cmd.Opcode()))
	return cmd.appendPayload(dst)
}

func (c ClearDisplay) appendPayload(dst []byte) []byte {
	return appendColor(dst, c.Color)
}

func (c DrawPixel) appendPayload(dst []byte) []byte {
	dst = appendInt16(dst, c.X, c.Y)
	return appendColor(dst, c.Color)
}

func (c DrawLine) appendPayload(dst []byte) []byte {
	dst = appendInt16(dst, c.X0, c.Y0, c.X1, c.Y1)
	return appendColor(dst, c.Color)
}

func (c DrawRectangle) appendPayload(dst []byte) []byte {
	dst = appendInt16(dst, c.X, c.Y, c.Width, c.Height)
	return appendColor(dst, c.Color)
}

func (c FillRectangle) appendPayload(dst []byte) []byte {
	dst = appendInt16(dst, c.X, c.Y, c.Width, c.Height)
	return appendColor(dst, c.Color)
}

func (c DrawEllipse) appendPayload(dst []byte) []byte {
	dst = appendInt16(dst, c.X, c.Y, c.RX, c.RY)
	return appendColor(dst, c.Color)
}

func (c FillEllipse) appendPayload(dst []byte) []byte {
	dst = appendInt16(dst, c.X, c.Y, c.RX, c.RY)
	return appendColor(dst, c.Color)
}

func appendInt16(dst []byte, values ...int16) []byte {
	for _, v := range values {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(v))
	}
	return dst
}

func appendColor(dst []byte, c Color) []byte {
	return binary.BigEndian.AppendUint16(dst, uint16(c))
}
