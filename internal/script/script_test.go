package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/rasterctl/internal/protocol"
)

func writeScript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeScript(t, "scene.toml", `
[[commands]]
op = "clear_display"
color = "0x0000"

[[commands]]
op = "draw_line"
x0 = 16
y0 = 32
x1 = 48
y1 = 64
color = "0xF800"

[[commands]]
op = "fill_ellipse"
x = -4
y = 10
rx = 3
ry = 2
color = "#0000ff"
`)
	cmds, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []protocol.Command{
		protocol.ClearDisplay{Color: 0},
		protocol.DrawLine{X0: 16, Y0: 32, X1: 48, Y1: 64, Color: 0xF800},
		protocol.FillEllipse{X: -4, Y: 10, RX: 3, RY: 2, Color: protocol.Blue},
	}
	if len(cmds) != len(want) {
		t.Fatalf("unexpected command count: %d", len(cmds))
	}
	for i := range want {
		if cmds[i] != want[i] {
			t.Fatalf("command %d: got=%#v want=%#v", i, cmds[i], want[i])
		}
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeScript(t, "scene.yml", `
commands:
  - op: draw_pixel
    x: 1
    y: 2
    color: "f800"
  - op: fill_rectangle
    x: 5
    y: 16
    width: 21
    height: 32
    color: "#00ff00"
`)
	cmds, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("unexpected command count: %d", len(cmds))
	}
	if cmds[0] != (protocol.DrawPixel{X: 1, Y: 2, Color: 0xF800}) {
		t.Fatalf("unexpected pixel: %#v", cmds[0])
	}
	if cmds[1] != (protocol.FillRectangle{X: 5, Y: 16, Width: 21, Height: 32, Color: protocol.Green}) {
		t.Fatalf("unexpected rectangle: %#v", cmds[1])
	}
}

func TestLoadRejectsUnknownOpWithIndex(t *testing.T) {
	path := writeScript(t, "bad.toml", `
[[commands]]
op = "clear_display"
color = "0"

[[commands]]
op = "draw_circle"
color = "0"
`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "commands[1]") {
		t.Fatalf("expected entry index in error, got %v", err)
	}
}

func TestEntryRejectsOutOfRange(t *testing.T) {
	_, err := Entry{Op: "draw_pixel", X: 40000, Color: "0"}.Command()
	if err == nil {
		t.Fatalf("expected range error")
	}
	_, err = Entry{Op: "draw_pixel", Color: "nope"}.Command()
	if err == nil {
		t.Fatalf("expected color error")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeScript(t, "scene.json", `{}`)
	if _, err := Load(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDemoCoversEveryOpcode(t *testing.T) {
	cmds := Demo()
	if len(cmds) != len(protocol.Opcodes()) {
		t.Fatalf("unexpected demo size: %d", len(cmds))
	}
	for i, op := range protocol.Opcodes() {
		if cmds[i].Opcode() != op {
			t.Fatalf("demo[%d]: got %s want %s", i, cmds[i].Opcode(), op)
		}
		if _, err := protocol.Decode(protocol.Encode(cmds[i])); err != nil {
			t.Fatalf("demo[%d] does not decode: %v", i, err)
		}
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"scene.toml", `
[[commands]]
op = "fill_rectangle"
x = 1
y = 1
widht = 5
height = 5
color = "0x001f"
`},
		{"scene.yaml", `
commands:
  - op: fill_rectangle
    x: 1
    y: 1
    widht: 5
    height: 5
    color: "0x001f"
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmds, err := Load(writeScript(t, tc.name, tc.content))
			if err == nil {
				t.Fatalf("expected unknown key error, got %v", cmds)
			}
			if !strings.Contains(err.Error(), "widht") {
				t.Fatalf("error should name the unknown key: %v", err)
			}
		})
	}
}

func TestBareColorDigitsAreDecimal(t *testing.T) {
	cmds, err := Parse([]byte(`
[[commands]]
op = "clear_display"
color = "8000"

[[commands]]
op = "clear_display"
color = "0x8000"
`), FormatTOML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := cmds[0].(protocol.ClearDisplay).Color; got != 0x1F40 {
		t.Fatalf("bare digits: got %s", got)
	}
	if got := cmds[1].(protocol.ClearDisplay).Color; got != 0x8000 {
		t.Fatalf("prefixed hex: got %s", got)
	}
}
