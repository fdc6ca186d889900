package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput    = errors.New("protocol: empty input")
	ErrUnknownOpcode = errors.New("protocol: unknown opcode")
	ErrInvalidLength = errors.New("protocol: invalid length")
)

// UnknownOpcodeError carries the unrecognized tag byte.
type UnknownOpcodeError struct {
	Value byte
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("protocol: unknown opcode %d", e.Value)
}

func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}

// InvalidLengthError reports a buffer whose length differs from the opcode's
// fixed size.
type InvalidLengthError struct {
	Opcode   Opcode
	Expected int
	Actual   int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("protocol: invalid length for %s: expected %d bytes, got %d",
		e.Opcode, e.Expected, e.Actual)
}

func (e *InvalidLengthError) Is(target error) bool {
	return target == ErrInvalidLength
}

// Error reasons used as log fields and metric labels.
const (
	ReasonEmptyInput    = "empty_input"
	ReasonUnknownOpcode = "unknown_opcode"
	ReasonInvalidLength = "invalid_length"
	ReasonOther         = "other"
)

// Reason classifies a decode error.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return ReasonEmptyInput
	case errors.Is(err, ErrUnknownOpcode):
		return ReasonUnknownOpcode
	case errors.Is(err, ErrInvalidLength):
		return ReasonInvalidLength
	default:
		return ReasonOther
	}
}
