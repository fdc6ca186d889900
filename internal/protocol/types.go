package protocol

import "fmt"

// Command is one decoded display instruction. The set of implementations is
// closed to this package; switch on the concrete type to consume it.
// Commands are values: Decode never returns pointers, and pointer variants
// passed to Encode are dereferenced first.
type Command interface {
	Opcode() Opcode
	String() string
	appendPayload(dst []byte) []byte
}

// ClearDisplay fills the whole surface with Color.
type ClearDisplay struct {
	Color Color
}

// DrawPixel sets one pixel.
type DrawPixel struct {
	X, Y  int16
	Color Color
}

// DrawLine strokes a line between two inclusive endpoints.
type DrawLine struct {
	X0, Y0 int16
	X1, Y1 int16
	Color  Color
}

// DrawRectangle strokes a rectangle outline anchored at its top-left corner.
type DrawRectangle struct {
	X, Y          int16
	Width, Height int16
	Color         Color
}

// FillRectangle fills a rectangle anchored at its top-left corner.
type FillRectangle struct {
	X, Y          int16
	Width, Height int16
	Color         Color
}

// DrawEllipse strokes an ellipse centered at (X, Y) with radii RX and RY.
type DrawEllipse struct {
	X, Y   int16
	RX, RY int16
	Color  Color
}

// FillEllipse fills an ellipse centered at (X, Y) with radii RX and RY.
type FillEllipse struct {
	X, Y   int16
	RX, RY int16
	Color  Color
}

func (ClearDisplay) Opcode() Opcode  { return OpClearDisplay }
func (DrawPixel) Opcode() Opcode     { return OpDrawPixel }
func (DrawLine) Opcode() Opcode      { return OpDrawLine }
func (DrawRectangle) Opcode() Opcode { return OpDrawRectangle }
func (FillRectangle) Opcode() Opcode { return OpFillRectangle }
func (DrawEllipse) Opcode() Opcode   { return OpDrawEllipse }
func (FillEllipse) Opcode() Opcode   { return OpFillEllipse }

func (c ClearDisplay) String() string {
	return fmt.Sprintf("Clearing display with color: %s", c.Color)
}

func (c DrawPixel) String() string {
	return fmt.Sprintf("Drawing pixel at (%d, %d) with color %s", c.X, c.Y, c.Color)
}

func (c DrawLine) String() string {
	return fmt.Sprintf("Drawing line from (%d, %d) to (%d, %d) with color %s",
		c.X0, c.Y0, c.X1, c.Y1, c.Color)
}

func (c DrawRectangle) String() string {
	return fmt.Sprintf("Drawing rectangle at (%d, %d) with width %d and height %d with color %s",
		c.X, c.Y, c.Width, c.Height, c.Color)
}

func (c FillRectangle) String() string {
	return fmt.Sprintf("Filling rectangle at (%d, %d) with width %d and height %d with color %s",
		c.X, c.Y, c.Width, c.Height, c.Color)
}

func (c DrawEllipse) String() string {
	return fmt.Sprintf("Drawing ellipse centered at (%d, %d) with radii (%d, %d) and color %s",
		c.X, c.Y, c.RX, c.RY, c.Color)
}

func (c FillEllipse) String() string {
	return fmt.Sprintf("Filling ellipse centered at (%d, %d) with radii (%d, %d) and color %s",
		c.X, c.Y, c.RX, c.RY, c.Color)
}

// commandValue dereferences pointer variants. A nil pointer yields nil.
func commandValue(cmd Command) Command {
	switch c := cmd.(type) {
	case *ClearDisplay:
		if c == nil {
			return nil
		}
		return *c
	case *DrawPixel:
		if c == nil {
			return nil
		}
		return *c
	case *DrawLine:
		if c == nil {
			return nil
		}
		return *c
	case *DrawRectangle:
		if c == nil {
			return nil
		}
		return *c
	case *FillRectangle:
		if c == nil {
			return nil
		}
		return *c
	case *DrawEllipse:
		if c == nil {
			return nil
		}
		return *c
	case *FillEllipse:
		if c == nil {
			return nil
		}
		return *c
	default:
		return cmd
	}
}
