// Package render applies decoded display commands to a backend.
package render

import (
	"errors"
	"fmt"

	"github.com/danmuck/rasterctl/internal/protocol"
	"github.com/rs/zerolog"
)

var ErrUnsupportedCommand = errors.New("render: unsupported command")

// Renderer executes one decoded command.
type Renderer interface {
	Render(cmd protocol.Command) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(cmd protocol.Command) error

func (f RendererFunc) Render(cmd protocol.Command) error {
	return f(cmd)
}

// Multi fans one command out to every renderer in order. All renderers run;
// their errors are joined.
func Multi(renderers ...Renderer) Renderer {
	list := make([]Renderer, 0, len(renderers))
	for _, r := range renderers {
		if r != nil {
			list = append(list, r)
		}
	}
	return RendererFunc(func(cmd protocol.Command) error {
		var errs []error
		for _, r := range list {
			if err := r.Render(cmd); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Journal logs every command it receives at debug level.
type Journal struct {
	Logger zerolog.Logger
}

func (j Journal) Render(cmd protocol.Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil", ErrUnsupportedCommand)
	}
	j.Logger.Debug().
		Str("opcode", cmd.Opcode().String()).
		Msg(cmd.String())
	return nil
}
