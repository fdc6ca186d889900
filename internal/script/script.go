// Package script loads ordered command lists for the sender from TOML or
// YAML files.
//
// TOML:
//
//	[[commands]]
//	op = "draw_line"
//	x0 = 16
//	y0 = 32
//	x1 = 48
//	y1 = 64
//	color = "0xF800"
//
// YAML:
//
//	commands:
//	  - op: fill_rectangle
//	    x: 5
//	    y: 16
//	    width: 21
//	    height: 32
//	    color: "#00ff00"
//
// Colors are "#rrggbb", "0x"-prefixed RGB565 hex, or bare RGB565 values.
// A bare value is hex only when it contains a letter a-f; "8000" is decimal.
// Unknown keys are rejected in both formats.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/danmuck/rasterctl/internal/protocol"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

var ErrUnsupportedFormat = errors.New("script: unsupported format")

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Entry is one scripted command. Only the fields relevant to Op are read.
type Entry struct {
	Op     string `toml:"op" yaml:"op"`
	X      int    `toml:"x" yaml:"x"`
	Y      int    `toml:"y" yaml:"y"`
	X0     int    `toml:"x0" yaml:"x0"`
	Y0     int    `toml:"y0" yaml:"y0"`
	X1     int    `toml:"x1" yaml:"x1"`
	Y1     int    `toml:"y1" yaml:"y1"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	RX     int    `toml:"rx" yaml:"rx"`
	RY     int    `toml:"ry" yaml:"ry"`
	Color  string `toml:"color" yaml:"color"`
}

type file struct {
	Commands []Entry `toml:"commands" yaml:"commands"`
}

// FormatForPath picks a format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func Load(path string) ([]protocol.Command, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script load failed (%s): %w", path, err)
	}
	cmds, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("script parse failed (%s): %w", path, err)
	}
	return cmds, nil
}

func Parse(data []byte, format Format) ([]protocol.Command, error) {
	var f file
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, unknownKeysError(strict)
			}
			return nil, err
		}
	case FormatYAML:
		if err := yaml.UnmarshalStrict(data, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	cmds := make([]protocol.Command, 0, len(f.Commands))
	for i, entry := range f.Commands {
		cmd, err := entry.Command()
		if err != nil {
			return nil, fmt.Errorf("commands[%d]: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func unknownKeysError(strict *toml.StrictMissingError) error {
	keys := make([]string, 0, len(strict.Errors))
	for _, e := range strict.Errors {
		keys = append(keys, strings.Join(e.Key(), "."))
	}
	return fmt.Errorf("script: unknown keys: %s", strings.Join(keys, ", "))
}

// Command converts e into its protocol value.
func (e Entry) Command() (protocol.Command, error) {
	op, err := protocol.ParseOpcode(e.Op)
	if err != nil {
		return nil, err
	}
	color, err := protocol.ParseColor(e.Color)
	if err != nil {
		return nil, err
	}

	var fields []int
	switch op {
	case protocol.OpDrawPixel:
		fields = []int{e.X, e.Y}
	case protocol.OpDrawLine:
		fields = []int{e.X0, e.Y0, e.X1, e.Y1}
	case protocol.OpDrawRectangle, protocol.OpFillRectangle:
		fields = []int{e.X, e.Y, e.Width, e.Height}
	case protocol.OpDrawEllipse, protocol.OpFillEllipse:
		fields = []int{e.X, e.Y, e.RX, e.RY}
	}
	v := make([]int16, len(fields))
	for i, f := range fields {
		if f < math.MinInt16 || f > math.MaxInt16 {
			return nil, fmt.Errorf("script: %s field %d value %d out of int16 range", op, i, f)
		}
		v[i] = int16(f)
	}

	switch op {
	case protocol.OpClearDisplay:
		return protocol.ClearDisplay{Color: color}, nil
	case protocol.OpDrawPixel:
		return protocol.DrawPixel{X: v[0], Y: v[1], Color: color}, nil
	case protocol.OpDrawLine:
		return protocol.DrawLine{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3], Color: color}, nil
	case protocol.OpDrawRectangle:
		return protocol.DrawRectangle{X: v[0], Y: v[1], Width: v[2], Height: v[3], Color: color}, nil
	case protocol.OpFillRectangle:
		return protocol.FillRectangle{X: v[0], Y: v[1], Width: v[2], Height: v[3], Color: color}, nil
	case protocol.OpDrawEllipse:
		return protocol.DrawEllipse{X: v[0], Y: v[1], RX: v[2], RY: v[3], Color: color}, nil
	default:
		return protocol.FillEllipse{X: v[0], Y: v[1], RX: v[2], RY: v[3], Color: color}, nil
	}
}

// Demo returns one command per opcode, in wire order.
func Demo() []protocol.Command {
	return []protocol.Command{
		protocol.ClearDisplay{Color: 0xFFFF},
		protocol.DrawPixel{X: 16, Y: 32, Color: 0xAABB},
		protocol.DrawLine{X0: 16, Y0: 32, X1: 48, Y1: 64, Color: 0xCCDD},
		protocol.DrawRectangle{X: 5, Y: 16, Width: 21, Height: 32, Color: 0xEEFF},
		protocol.FillRectangle{X: 5, Y: 16, Width: 21, Height: 32, Color: 0x1122},
		protocol.DrawEllipse{X: 8, Y: 18, RX: 9, RY: 7, Color: 0x3344},
		protocol.FillEllipse{X: 6, Y: 17, RX: 5, RY: 4, Color: 0x5566},
	}
}
