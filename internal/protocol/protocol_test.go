package protocol

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

func TestDecodeWorkedExamples(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
		want Command
	}{
		{
			name: "clear display",
			buf:  []byte{1, 0xF8, 0x00},
			want: ClearDisplay{Color: 0xF800},
		},
		{
			name: "draw pixel",
			buf:  []byte{2, 0x10, 0x00, 0x20, 0x00, 0xF8, 0x00},
			want: DrawPixel{X: 16, Y: 32, Color: 0xF800},
		},
		{
			name: "draw line",
			buf:  []byte{3, 0x10, 0x00, 0x20, 0x00, 0x30, 0x00, 0x40, 0x00, 0xF8, 0x00},
			want: DrawLine{X0: 16, Y0: 32, X1: 48, Y1: 64, Color: 0xF800},
		},
		{
			name: "draw rectangle",
			buf:  []byte{4, 0x05, 0x00, 0x10, 0x00, 0x15, 0x00, 0x20, 0x00, 0xEE, 0xFF},
			want: DrawRectangle{X: 5, Y: 16, Width: 21, Height: 32, Color: 0xEEFF},
		},
		{
			name: "fill rectangle",
			buf:  []byte{5, 0x05, 0x00, 0x10, 0x00, 0x15, 0x00, 0x20, 0x00, 0x11, 0x22},
			want: FillRectangle{X: 5, Y: 16, Width: 21, Height: 32, Color: 0x1122},
		},
		{
			name: "draw ellipse",
			buf:  []byte{6, 0x08, 0x00, 0x12, 0x00, 0x09, 0x00, 0x07, 0x00, 0x33, 0x44},
			want: DrawEllipse{X: 8, Y: 18, RX: 9, RY: 7, Color: 0x3344},
		},
		{
			name: "fill ellipse negative coordinates",
			buf:  []byte{7, 0xFF, 0xFF, 0x00, 0x80, 0x05, 0x00, 0x04, 0x00, 0x00, 0x01},
			want: FillEllipse{X: -1, Y: -32768, RX: 5, RY: 4, Color: 0x0001},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected command: got=%#v want=%#v", got, tc.want)
			}
			if got.Opcode() != Opcode(tc.buf[0]) {
				t.Fatalf("opcode mismatch: got=%s want=%d", got.Opcode(), tc.buf[0])
			}
		})
	}
}

func TestDecodeShortClearDisplay(t *testing.T) {
	_, err := Decode([]byte{1})
	if !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
	var lenErr *InvalidLengthError
	if !errors.As(err, &lenErr) {
		t.Fatalf("expected InvalidLengthError, got %T", err)
	}
	if lenErr.Opcode != OpClearDisplay || lenErr.Expected != 3 || lenErr.Actual != 1 {
		t.Fatalf("unexpected length error: %+v", lenErr)
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	_, err := Decode([]byte{255})
	var opErr *UnknownOpcodeError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected UnknownOpcodeError, got %v", err)
	}
	if opErr.Value != 255 {
		t.Fatalf("unexpected opcode value: %d", opErr.Value)
	}
	if !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("expected ErrUnknownOpcode match")
	}
}

func TestDecodeEveryUndefinedOpcode(t *testing.T) {
	for v := 0; v < 256; v++ {
		if Opcode(v).Valid() {
			continue
		}
		// Long enough for any command so only the tag can fail.
		buf := make([]byte, MaxCommandSize)
		buf[0] = byte(v)
		if _, err := Decode(buf); !errors.Is(err, ErrUnknownOpcode) {
			t.Fatalf("opcode %d: expected ErrUnknownOpcode, got %v", v, err)
		}
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, buf := range [][]byte{nil, {}} {
		_, err := Decode(buf)
		if !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("expected ErrEmptyInput, got %v", err)
		}
		if errors.Is(err, ErrUnknownOpcode) {
			t.Fatalf("empty input must not report unknown opcode")
		}
	}
}

func TestDecodeExactLength(t *testing.T) {
	for _, op := range Opcodes() {
		size, ok := op.Size()
		if !ok {
			t.Fatalf("%s: missing size", op)
		}
		for _, n := range []int{size - 1, size + 1} {
			buf := make([]byte, n)
			buf[0] = byte(op)
			_, err := Decode(buf)
			var lenErr *InvalidLengthError
			if !errors.As(err, &lenErr) {
				t.Fatalf("%s len=%d: expected InvalidLengthError, got %v", op, n, err)
			}
			if lenErr.Opcode != op || lenErr.Expected != size || lenErr.Actual != n {
				t.Fatalf("%s len=%d: unexpected error fields %+v", op, n, lenErr)
			}
		}
	}
}

func sampleCommands() []Command {
	return []Command{
		ClearDisplay{Color: White},
		DrawPixel{X: -3, Y: 700, Color: Red},
		DrawLine{X0: 0, Y0: -1, X1: 32767, Y1: -32768, Color: Green},
		DrawRectangle{X: 5, Y: 16, Width: 21, Height: 32, Color: 0xEEFF},
		FillRectangle{X: 1, Y: 2, Width: -3, Height: 4, Color: Blue},
		DrawEllipse{X: 8, Y: 18, RX: 9, RY: 7, Color: 0x3344},
		FillEllipse{X: 6, Y: 17, RX: 5, RY: 4, Color: 0x0100},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	seen := map[Opcode]bool{}
	for _, cmd := range sampleCommands() {
		buf := Encode(cmd)
		size, _ := cmd.Opcode().Size()
		if len(buf) != size {
			t.Fatalf("%s: encoded %d bytes, want %d", cmd.Opcode(), len(buf), size)
		}
		got, err := Decode(buf)
		if err != nil {
			t.Fatalf("%s: decode: %v", cmd.Opcode(), err)
		}
		if got != cmd {
			t.Fatalf("round-trip mismatch: got=%#v want=%#v", got, cmd)
		}
		seen[cmd.Opcode()] = true
	}
	if len(seen) != len(Opcodes()) {
		t.Fatalf("round-trip did not cover every opcode: %v", seen)
	}
}

func TestEncodeByteOrder(t *testing.T) {
	got := Encode(DrawPixel{X: 16, Y: 32, Color: 0xF800})
	want := []byte{2, 0x10, 0x00, 0x20, 0x00, 0xF8, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("unexpected encoding: got=% x want=% x", got, want)
	}
}

func TestAppendEncodeKeepsPrefix(t *testing.T) {
	dst := []byte{0xAA}
	out := AppendEncode(dst, ClearDisplay{Color: 0x1234})
	if !bytes.Equal(out, []byte{0xAA, 1, 0x12, 0x34}) {
		t.Fatalf("unexpected append output: % x", out)
	}
	if Encode(nil) != nil {
		t.Fatalf("expected nil encoding for nil command")
	}
}

func TestDecodeDeterministicConcurrent(t *testing.T) {
	inputs := [][]byte{
		{3, 0x10, 0x00, 0x20, 0x00, 0x30, 0x00, 0x40, 0x00, 0xF8, 0x00},
		{1},
		{9, 0, 0},
	}
	wantCmd, _ := Decode(inputs[0])

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				cmd, err := Decode(inputs[0])
				if err != nil || cmd != wantCmd {
					errs <- "valid input changed result"
					return
				}
				if _, err := Decode(inputs[1]); Reason(err) != ReasonInvalidLength {
					errs <- "short input changed error"
					return
				}
				if _, err := Decode(inputs[2]); Reason(err) != ReasonUnknownOpcode {
					errs <- "unknown input changed error"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatal(msg)
	}
}

func TestReason(t *testing.T) {
	cases := map[string]error{
		ReasonEmptyInput:    ErrEmptyInput,
		ReasonUnknownOpcode: &UnknownOpcodeError{Value: 0},
		ReasonInvalidLength: &InvalidLengthError{Opcode: OpDrawLine, Expected: 11, Actual: 2},
		ReasonOther:         errors.New("boom"),
	}
	for want, err := range cases {
		if got := Reason(err); got != want {
			t.Fatalf("Reason(%v)=%q want %q", err, got, want)
		}
	}
}

func TestCommandDescriptions(t *testing.T) {
	cases := []struct {
		cmd  Command
		want string
	}{
		{ClearDisplay{Color: 0xF800}, "Clearing display with color: RGB565(f800)"},
		{DrawPixel{X: 16, Y: 32, Color: 0xF800}, "Drawing pixel at (16, 32) with color RGB565(f800)"},
		{DrawLine{X0: 16, Y0: 32, X1: 48, Y1: 64, Color: 0xF800}, "Drawing line from (16, 32) to (48, 64) with color RGB565(f800)"},
		{FillEllipse{X: 1, Y: 2, RX: 3, RY: 4, Color: 0x00AB}, "Filling ellipse centered at (1, 2) with radii (3, 4) and color RGB565(00ab)"},
	}
	for _, tc := range cases {
		if got := tc.cmd.String(); got != tc.want {
			t.Fatalf("unexpected description: got=%q want=%q", got, tc.want)
		}
	}
}

func TestOpcodeNames(t *testing.T) {
	for _, op := range Opcodes() {
		parsed, err := ParseOpcode(op.String())
		if err != nil {
			t.Fatalf("parse %s: %v", op, err)
		}
		if parsed != op {
			t.Fatalf("parse %s: got %s", op, parsed)
		}
	}
	if op, err := ParseOpcode(" Draw-Line "); err != nil || op != OpDrawLine {
		t.Fatalf("expected normalized name to parse, got %s %v", op, err)
	}
	if _, err := ParseOpcode("draw_circle"); err == nil {
		t.Fatalf("expected unknown name error")
	}
	if Opcode(0).Valid() || Opcode(8).Valid() {
		t.Fatalf("expected 0 and 8 to be invalid")
	}
	if Opcode(42).String() != "opcode(42)" {
		t.Fatalf("unexpected unknown opcode name: %s", Opcode(42))
	}
}

func TestColorConversions(t *testing.T) {
	if got := RGB(255, 0, 0); got != Red {
		t.Fatalf("RGB red: got %s", got)
	}
	if got := RGB(255, 255, 255); got != White {
		t.Fatalf("RGB white: got %s", got)
	}
	r, g, b := Red.RGB()
	if r != 255 || g != 0 || b != 0 {
		t.Fatalf("Red.RGB: got %d %d %d", r, g, b)
	}
	r, g, b = White.RGB()
	if r != 255 || g != 255 || b != 255 {
		t.Fatalf("White.RGB: got %d %d %d", r, g, b)
	}
	if Color(0xEEFF).String() != "RGB565(eeff)" {
		t.Fatalf("unexpected color string: %s", Color(0xEEFF))
	}
}

func TestParseColor(t *testing.T) {
	valid := map[string]Color{
		"0xF800":  0xF800,
		"f800":    0xF800,
		"63488":   0xF800,
		"8000":    0x1F40,
		"0x8000":  0x8000,
		"#ff0000": Red,
		"#0000ff": Blue,
		" 0x001f": Blue,
	}
	for raw, want := range valid {
		got, err := ParseColor(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %s want %s", raw, got, want)
		}
	}
	for _, raw := range []string{"", "0x1FFFF", "#fff", "zz", "#gg0000"} {
		if _, err := ParseColor(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestEncodePointerVariants(t *testing.T) {
	var nilPixel *DrawPixel
	if got := Encode(nilPixel); got != nil {
		t.Fatalf("typed nil should encode to nil, got % x", got)
	}
	dst := []byte{0xAA}
	if got := AppendEncode(dst, (*FillEllipse)(nil)); !bytes.Equal(got, dst) {
		t.Fatalf("typed nil append should leave dst unchanged, got % x", got)
	}

	want := DrawPixel{X: 16, Y: 32, Color: 0xAABB}
	encoded := Encode(&want)
	if !bytes.Equal(encoded, Encode(want)) {
		t.Fatalf("pointer encoding differs: % x", encoded)
	}
	got, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != Command(want) {
		t.Fatalf("round trip: got %#v want %#v", got, want)
	}
}
