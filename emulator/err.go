package emulator

import (
	"errors"

	"github.com/cpusim/cpusim/cpu"
	"github.com/cpusim/cpusim/translate"
)

var f = translate.From

var (
	ErrRunning   = errors.New(f("emulator is running"))
	ErrNoProgram = errors.New(f("no program compiled"))
	ErrStepLimit = errors.New(f("step limit reached"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo  int
	Address cpu.Word
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (address %v) %v", err.LineNo, err.Address, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
