// Package cpu implements the 8-bit educational processor and its assembler.
//
// The processor has an instruction address register (IAR), an instruction
// register (IR), a memory address register (MAR) in front of 256 words of
// RAM, an accumulator (ACC), and an ALU with four persistent condition flags.
// It runs as one of two machines: the register machine addresses four general
// purpose registers, the stack machine works on an eight layer stack cached
// through the top-of-stack register (TMP/TOS).
//
// Every instruction word is an opcode in the upper four bits and an operand in
// the lower four. Each storage access is reported to an Observer, so a
// presentation layer can follow the micro-steps of the instruction cycle.
//
// The assembler translates mnemonic programs into a memory image, validating
// each operand against the width required by the opcode on the chosen machine.
package cpu
