package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"

	"github.com/cpusim/cpusim/internal"
)

// State is the phase of the instruction cycle.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_FETCH   = State(0) // fetch
	STATE_DECODE  = State(1) // decode
	STATE_EXECUTE = State(2) // execute
	STATE_HALTED  = State(3) // halted
)

var _cpu_defines = map[string]string{
	"CARRY":      fmt.Sprintf("%04b", FlagsOf(FLAG_CARRY)),
	"LARGER":     fmt.Sprintf("%04b", FlagsOf(FLAG_A_LARGER)),
	"EQUAL":      fmt.Sprintf("%04b", FlagsOf(FLAG_EQUAL)),
	"ZERO":       fmt.Sprintf("%04b", FlagsOf(FLAG_ZERO)),
	"NONE":       fmt.Sprintf("%04b", FlagsOf()),
	"WORD_SIZE":  fmt.Sprintf("%#x", WORD_SIZE),
	"RAM_SIZE":   fmt.Sprintf("%#x", RAM_SIZE),
	"GPR_COUNT":  fmt.Sprintf("%#x", GPR_COUNT),
	"STACK_SIZE": fmt.Sprintf("%#x", STACK_SIZE),
}

// Defines returns the equates describing the machine.
func Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Sorted(_cpu_defines)
}

// ControlUnit is the simulation of the instruction cycle, and the storage
// it drives. One ControlUnit runs one program.
type ControlUnit struct {
	Verbose bool    // Set to enable verbose logging.
	Machine Machine // Instruction set binding.

	IAR   Register            // Instruction address register.
	IR    Register            // Instruction register.
	ACC   Register            // Accumulator.
	GPR   [GPR_COUNT]Register // General purpose registers, register machine only.
	ALU   *ALU                // Arithmetic unit, holding TMP and the flags.
	Stack *Stack              // Stack layers, stack machine only.
	RAM   *RAM                // Main memory.
	MAR   *MAR                // Memory address register.

	End   Word  // Address whose advance halts execution.
	State State // Current phase.
	Ticks int   // Instruction cycles completed since reset.

	image    Image
	finished bool

	// Decoded fields of IR.
	opcode Opcode
	regA   int
	regB   int
	mask   Flags
}

// NewControlUnit creates a control unit loaded with the program. Every
// storage access is reported to the observer, which may be nil.
func NewControlUnit(prog *Program, observer Observer) (cu *ControlUnit) {
	cu = &ControlUnit{
		Machine: prog.Machine,
		IAR:     Register{Slot: SLOT_IAR, Observer: observer},
		IR:      Register{Slot: SLOT_IR, Observer: observer},
		ACC:     Register{Slot: SLOT_ACC, Observer: observer},
		ALU:     NewALU(observer),
		Stack:   NewStack(observer),
		RAM:     NewRAM(&prog.Image, observer),
		End:     prog.End,
		image:   prog.Image,
	}
	cu.MAR = NewMAR(cu.RAM, observer)

	for n := range cu.GPR {
		cu.GPR[n] = Register{Slot: SLOT_GPR, Index: n, Observer: observer}
	}

	return
}

// Halted is true once the program has finished.
func (cu *ControlUnit) Halted() bool {
	return cu.State == STATE_HALTED
}

// Reset zeros all storage and flags, and reloads memory from the program.
func (cu *ControlUnit) Reset() {
	if cu.Verbose {
		log.Printf("cpu: reset")
	}

	cu.IAR.Set(0)
	cu.IR.Set(0)
	cu.ACC.Set(0)
	cu.MAR.Set(0)
	for n := range cu.GPR {
		cu.GPR[n].Set(0)
	}
	cu.ALU.Reset()
	cu.Stack.Reset()
	cu.RAM.Load(&cu.image)

	cu.State = STATE_FETCH
	cu.Ticks = 0
	cu.finished = false
	cu.opcode = 0
	cu.regA = 0
	cu.regB = 0
	cu.mask = 0
}

// increment advances IAR through the ALU with the BUS1 override, arming the
// halt if the address advanced past is the end address.
func (cu *ControlUnit) increment() {
	iar := cu.IAR.Read()
	if iar == cu.End {
		cu.finished = true
	}

	cu.ALU.ToggleBus1()
	cu.ALU.Select(ALU_ADD)
	cu.ACC.Write(cu.ALU.Add(iar))
	cu.ALU.ToggleBus1()
	cu.IAR.Write(cu.ACC.Read())
}

// fetch loads IR from the address in IAR, and advances IAR.
func (cu *ControlUnit) fetch() {
	cu.MAR.Write(cu.IAR.Read())
	cu.increment()
	cu.IR.Write(cu.MAR.Load(true))
}

// decode splits IR into its fields.
func (cu *ControlUnit) decode(ir Word) {
	cu.opcode = ir.Opcode()
	operand := ir.Operand()

	if cu.opcode == OP_JUMP_IF {
		cu.mask = Flags(operand)
	}
	cu.regA = int(operand >> GPR_ADDRESS_SIZE)
	cu.regB = int(operand & (1<<GPR_ADDRESS_SIZE - 1))
}

// Step runs a single fetch, decode and execute cycle.
func (cu *ControlUnit) Step() (err error) {
	if cu.State == STATE_HALTED {
		return ErrHalted
	}

	cu.State = STATE_FETCH
	cu.fetch()

	err = cu.Execute(cu.IR.Get())
	if err != nil {
		cu.State = STATE_HALTED
		return
	}

	cu.Ticks++

	if cu.finished {
		if cu.Verbose {
			log.Printf("cpu: halted after %v", cu.End)
		}
		cu.State = STATE_HALTED
	} else {
		cu.State = STATE_FETCH
	}

	return
}

// Execute decodes and executes a single instruction word.
func (cu *ControlUnit) Execute(ir Word) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(ir), err)
		}
	}()

	cu.State = STATE_DECODE
	cu.decode(ir)

	if cu.Verbose {
		log.Printf("cpu: %v: %v %04b", cu.MAR.Get(), cu.opcode.Mnemonic(cu.Machine), ir.Operand())
	}

	cu.State = STATE_EXECUTE

	switch cu.Machine {
	case MACHINE_REGISTER:
		err = cu.executeRegister(cu.opcode)
	case MACHINE_STACK:
		err = cu.executeStack(cu.opcode)
	default:
		err = ErrMachineInvalid
	}

	return
}

// alu runs an ALU operation on the first operand, the second being TMP.
// Compare produces no result.
func (cu *ControlUnit) alu(op Opcode, a Word) (result Word, ok bool) {
	cu.ALU.Select(op)

	ok = true
	switch op {
	case ALU_ADD:
		result = cu.ALU.Add(a)
	case ALU_R_SHIFT:
		result = cu.ALU.ShiftRight(a)
	case ALU_L_SHIFT:
		result = cu.ALU.ShiftLeft(a)
	case ALU_NOT:
		result = cu.ALU.Inverse(a)
	case ALU_AND:
		result = cu.ALU.And(a)
	case ALU_OR:
		result = cu.ALU.Or(a)
	case ALU_XOR:
		result = cu.ALU.Xor(a)
	case ALU_COMPARE:
		cu.ALU.Compare(a)
		ok = false
	default:
		ok = false
	}

	if ok {
		cu.ACC.Write(result)
	}

	return
}

// executeRegister executes an opcode of the register machine.
func (cu *ControlUnit) executeRegister(op Opcode) (err error) {
	ra := &cu.GPR[cu.regA]
	rb := &cu.GPR[cu.regB]

	switch {
	case op.IsAlu():
		if !op.IsUnary() {
			cu.ALU.TMP.Write(rb.Read())
		}
		_, ok := cu.alu(op, ra.Read())
		if ok {
			rb.Write(cu.ACC.Read())
		}
	case op == OP_LOAD_POP:
		cu.MAR.Write(ra.Read())
		rb.Write(cu.MAR.Load(true))
	case op == OP_STORE_SWAP:
		cu.MAR.Write(ra.Read())
		cu.MAR.Store(rb.Read(), true)
	case op == OP_DATA_PUSH:
		cu.MAR.Write(cu.IAR.Read())
		cu.increment()
		rb.Write(cu.MAR.Load(true))
	case op == OP_JUMP_RG_TOS:
		cu.IAR.Write(rb.Read())
	default:
		err = cu.executeCommon(op)
	}

	return
}

// executeStack executes an opcode of the stack machine. The top of stack
// is held in TMP.
func (cu *ControlUnit) executeStack(op Opcode) (err error) {
	tos := &cu.ALU.TMP

	switch {
	case op.IsAlu():
		var a Word
		if op.IsUnary() {
			a = tos.Read()
		} else {
			a = cu.Stack.Layer[0].Read()
		}
		// The result replaces the top of stack, leaving the depth unchanged.
		_, ok := cu.alu(op, a)
		if ok {
			tos.Write(cu.ACC.Read())
		}
	case op == OP_LOAD_POP:
		cu.MAR.Write(cu.IAR.Read())
		cu.increment()
		addr := cu.MAR.Load(false)
		if addr != 0 {
			cu.MAR.Write(addr)
			cu.MAR.Store(tos.Read(), true)
		}
		tos.Write(cu.Stack.ShiftUp())
	case op == OP_STORE_SWAP:
		cu.ACC.Write(tos.Read())
		tos.Write(cu.Stack.Layer[0].Read())
		cu.Stack.Layer[0].Write(cu.ACC.Read())
	case op == OP_DATA_PUSH:
		cu.MAR.Write(cu.IAR.Read())
		cu.increment()
		cu.Stack.ShiftDown(tos.Read())
		tos.Write(cu.MAR.Load(true))
	case op == OP_JUMP_RG_TOS:
		cu.IAR.Write(tos.Read())
	default:
		err = cu.executeCommon(op)
	}

	return
}

// executeCommon executes the opcodes shared by both machines.
func (cu *ControlUnit) executeCommon(op Opcode) (err error) {
	switch op {
	case OP_JUMP:
		cu.MAR.Write(cu.IAR.Read())
		cu.IAR.Write(cu.MAR.Load(true))
	case OP_JUMP_IF:
		if cu.ALU.ReadFlags() == cu.mask {
			cu.MAR.Write(cu.IAR.Read())
			cu.IAR.Write(cu.MAR.Load(true))
		} else {
			// Skip the address word.
			cu.increment()
		}
	case OP_RESET_FLAGS:
		cu.ALU.ResetFlags()
	case OP_IO:
		// Reserved.
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// Snapshot is a copy of the visible state of a control unit.
type Snapshot struct {
	Machine Machine
	State   State
	Ticks   int

	IAR   Word
	IR    Word
	MAR   Word
	ACC   Word
	TMP   Word
	Flags Flags
	GPR   [GPR_COUNT]Word
	Stack [STACK_SIZE]Word
	Depth int
	RAM   Image
}

// Snapshot copies the current state, silently.
func (cu *ControlUnit) Snapshot() (snap Snapshot) {
	snap = Snapshot{
		Machine: cu.Machine,
		State:   cu.State,
		Ticks:   cu.Ticks,
		IAR:     cu.IAR.Get(),
		IR:      cu.IR.Get(),
		MAR:     cu.MAR.Get(),
		ACC:     cu.ACC.Get(),
		TMP:     cu.ALU.TMP.Get(),
		Flags:   cu.ALU.Flags,
		Stack:   cu.Stack.Values(),
		Depth:   cu.Stack.Depth(),
		RAM:     cu.RAM.Image(),
	}
	for n := range cu.GPR {
		snap.GPR[n] = cu.GPR[n].Get()
	}

	return
}

// String returns the current register state as a string.
func (cu *ControlUnit) String() (text string) {
	regs := []string{"state", "iar", "ir", "mar", "acc", "tmp", "flags"}
	if cu.Machine == MACHINE_STACK {
		regs = append(regs, "stack")
	} else {
		regs = append(regs, "r0", "r1", "r2", "r3")
	}

	for _, reg := range regs {
		var strval string
		switch reg {
		case "state":
			strval = cu.State.String()
		case "iar":
			strval = cu.IAR.Get().String()
		case "ir":
			ir := cu.IR.Get()
			strval = fmt.Sprintf("%v %v", ir, ir.Opcode().Mnemonic(cu.Machine))
		case "mar":
			strval = cu.MAR.Get().String()
		case "acc":
			strval = cu.ACC.Get().String()
		case "tmp":
			strval = cu.ALU.TMP.Get().String()
		case "flags":
			strval = cu.ALU.Flags.String()
		case "stack":
			strval = fmt.Sprintf("%v (%d)", cu.Stack.Values(), cu.Stack.Depth())
		case "r0", "r1", "r2", "r3":
			strval = cu.GPR[reg[1]-'0'].Get().String()
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}
