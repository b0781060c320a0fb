package cpu

import (
	"errors"

	"github.com/cpusim/cpusim/translate"
)

var f = translate.From

var (
	// Control unit errors
	ErrHalted         = errors.New(f("halted"))
	ErrMachineInvalid = errors.New(f("machine invalid"))
	ErrOpcodeInvalid  = errors.New(f("opcode unrecognized"))

	// Assembler errors
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrOperandWidth       = errors.New(f("incorrect number of operand bits"))
	ErrOperandBinary      = errors.New(f("operand bits must be binary"))
	ErrDataSize           = errors.New(f("address/data must be 8 digits or less"))
	ErrDataFirst          = errors.New(f("address/data cannot be the first instruction"))
	ErrDataMissing        = errors.New(f("address/data value missing"))
	ErrHaltMissing        = errors.New(f("no halt instruction, use 'HLT' after the instruction to stop at"))
	ErrHaltDuplicate      = errors.New(f("halt duplicated"))
	ErrHaltOperand        = errors.New(f("halt takes no operands"))
	ErrHaltFirst          = errors.New(f("halt cannot be the first instruction"))
	ErrMemoryFull         = errors.New(f("program larger than memory"))
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode is the instruction word that failed to execute.
type ErrOpcode Word

func (eo ErrOpcode) Error() string {
	return f("bad instruction %v (%v)", Word(eo).String(), Word(eo).Opcode().String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrSyntax locates an assembler error in the source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrWordSize string

func (err ErrWordSize) Error() string {
	return f("'%v' is not 1 to 8 bits", string(err))
}

type ErrWordBinary string

func (err ErrWordBinary) Error() string {
	return f("'%v' is not binary", string(err))
}

type ErrMachine string

func (err ErrMachine) Error() string {
	return f("'%v' is not a machine, use register or stack", string(err))
}
