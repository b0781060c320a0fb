package cpu

import (
	"strings"
)

// Machine selects the instruction set binding of the control unit.
type Machine int

//go:generate go tool stringer -linecomment -type=Machine
const (
	MACHINE_REGISTER = Machine(0) // register
	MACHINE_STACK    = Machine(1) // stack
)

// ParseMachine returns the machine named by its String() form.
func ParseMachine(name string) (machine Machine, err error) {
	switch strings.ToLower(name) {
	case MACHINE_REGISTER.String():
		machine = MACHINE_REGISTER
	case MACHINE_STACK.String():
		machine = MACHINE_STACK
	default:
		err = ErrMachine(name)
	}
	return
}

// Opcode is the upper four bits of an instruction word.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_LOAD_POP    = Opcode(0b0000) // LD
	OP_STORE_SWAP  = Opcode(0b0001) // STR
	OP_DATA_PUSH   = Opcode(0b0010) // DAT
	OP_JUMP_RG_TOS = Opcode(0b0011) // JRG
	OP_JUMP        = Opcode(0b0100) // JMP
	OP_JUMP_IF     = Opcode(0b0101) // JIF
	OP_RESET_FLAGS = Opcode(0b0110) // RES
	OP_IO          = Opcode(0b0111) // IO
	ALU_ADD        = Opcode(0b1000) // ADD
	ALU_R_SHIFT    = Opcode(0b1001) // RSH
	ALU_L_SHIFT    = Opcode(0b1010) // LSH
	ALU_NOT        = Opcode(0b1011) // NOT
	ALU_AND        = Opcode(0b1100) // AND
	ALU_OR         = Opcode(0b1101) // OR
	ALU_XOR        = Opcode(0b1110) // XOR
	ALU_COMPARE    = Opcode(0b1111) // CMP
)

// OP_ALU_MASK is the opcode bit selecting the ALU family.
const OP_ALU_MASK = 0b1000

// Pseudo opcodes of the assembler.
const (
	PSEUDO_ADDRESS = "ADR"
	PSEUDO_VALUE   = "VAL"
	PSEUDO_HALT    = "HLT"
)

// stackNames are the stack machine names of the first four opcodes.
var stackNames = map[Opcode]string{
	OP_LOAD_POP:    "POP",
	OP_STORE_SWAP:  "SWP",
	OP_DATA_PUSH:   "PSH",
	OP_JUMP_RG_TOS: "JTS",
}

// keywordMap maps mnemonics of either machine to opcodes.
var keywordMap = map[string]Opcode{
	"LD":  OP_LOAD_POP,
	"STR": OP_STORE_SWAP,
	"DAT": OP_DATA_PUSH,
	"JRG": OP_JUMP_RG_TOS,
	"POP": OP_LOAD_POP,
	"SWP": OP_STORE_SWAP,
	"PSH": OP_DATA_PUSH,
	"JTS": OP_JUMP_RG_TOS,
	"JMP": OP_JUMP,
	"JIF": OP_JUMP_IF,
	"RES": OP_RESET_FLAGS,
	"IO":  OP_IO,
	"ADD": ALU_ADD,
	"RSH": ALU_R_SHIFT,
	"LSH": ALU_L_SHIFT,
	"NOT": ALU_NOT,
	"AND": ALU_AND,
	"OR":  ALU_OR,
	"XOR": ALU_XOR,
	"CMP": ALU_COMPARE,
}

// LookupOpcode returns the opcode of a mnemonic.
func LookupOpcode(mnemonic string) (op Opcode, ok bool) {
	op, ok = keywordMap[strings.ToUpper(mnemonic)]
	return
}

// Mnemonic returns the name of the opcode on the machine.
func (op Opcode) Mnemonic(machine Machine) string {
	if machine == MACHINE_STACK {
		name, ok := stackNames[op]
		if ok {
			return name
		}
	}
	return op.String()
}

// IsAlu is true for the ALU family of opcodes.
func (op Opcode) IsAlu() bool {
	return op&OP_ALU_MASK != 0
}

// IsUnary is true for ALU opcodes working on a single operand.
func (op Opcode) IsUnary() bool {
	switch op {
	case ALU_R_SHIFT, ALU_L_SHIFT, ALU_NOT:
		return true
	}
	return false
}

// OperandWidths returns the operand bit counts accepted on the machine.
// The first entry is the canonical width.
func (op Opcode) OperandWidths(machine Machine) []int {
	if op == OP_JUMP_IF {
		return []int{FLAG_COUNT}
	}

	if machine != MACHINE_REGISTER {
		return []int{0}
	}

	switch {
	case op.IsAlu(), op == OP_LOAD_POP, op == OP_STORE_SWAP:
		return []int{2 * GPR_ADDRESS_SIZE}
	case op == OP_DATA_PUSH, op == OP_JUMP_RG_TOS:
		// Register A is unused, but may still be spelled out.
		return []int{GPR_ADDRESS_SIZE, 2 * GPR_ADDRESS_SIZE}
	}

	return []int{0}
}

// Trailing is true if the instruction consumes the word that follows it.
func (op Opcode) Trailing(machine Machine) bool {
	switch op {
	case OP_DATA_PUSH, OP_JUMP, OP_JUMP_IF:
		return true
	case OP_LOAD_POP:
		return machine == MACHINE_STACK
	}
	return false
}
