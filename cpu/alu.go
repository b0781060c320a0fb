package cpu

import (
	"strings"
)

// Flag indexes a condition flag. Written MSB first, a flag mask reads
// carry, a-larger, equal, zero.
type Flag int

const (
	FLAG_ZERO     = Flag(0) // Result was zero.
	FLAG_EQUAL    = Flag(1) // Compared operands were equal.
	FLAG_A_LARGER = Flag(2) // First compared operand was larger.
	FLAG_CARRY    = Flag(3) // Carry (or shift) out.
)

// Flags is the set of condition flags, bit n holding Flag(n).
type Flags uint8

// FlagsOf returns the set holding each flag.
func FlagsOf(flags ...Flag) (fl Flags) {
	for _, flag := range flags {
		fl |= 1 << flag
	}
	return
}

// Has is true if the flag is set.
func (fl Flags) Has(flag Flag) bool {
	return fl&(1<<flag) != 0
}

// String returns the flags as a CAEZ mask, unset flags as '-'.
func (fl Flags) String() string {
	var sb strings.Builder
	for n, name := range "CAEZ" {
		if fl.Has(Flag(FLAG_COUNT - 1 - n)) {
			sb.WriteRune(name)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// ALU is the arithmetic and logic unit. The first operand of an operation is
// its argument, the second is the TMP register, or the constant 1 while BUS1
// is enabled.
type ALU struct {
	Observer Observer
	TMP      Register // Secondary operand, the top of stack on the stack machine.
	Flags    Flags    // Condition flags, only ever set by operations.

	bus1 bool
}

// NewALU creates an ALU with cleared flags.
func NewALU(observer Observer) *ALU {
	return &ALU{
		Observer: observer,
		TMP:      Register{Slot: SLOT_TMP, Observer: observer},
	}
}

func (alu *ALU) notify(ev Event) {
	if alu.Observer != nil {
		alu.Observer.Observe(ev)
	}
}

// Select reports the operation about to be performed.
func (alu *ALU) Select(op Opcode) {
	alu.notify(Event{Slot: SLOT_ALU, Opcode: op})
}

// ToggleBus1 switches the secondary operand between TMP and the constant 1.
func (alu *ALU) ToggleBus1() {
	if alu.bus1 {
		alu.bus1 = false
		return
	}
	alu.notify(Event{Slot: SLOT_BUS1, Access: ACCESS_READ})
	alu.bus1 = true
}

// Bus1 is true while the constant 1 overrides TMP.
func (alu *ALU) Bus1() bool {
	return alu.bus1
}

// secondary returns the second operand.
func (alu *ALU) secondary() Word {
	if alu.bus1 {
		return 1
	}
	return alu.TMP.Read()
}

func (alu *ALU) set(flag Flag) {
	alu.notify(Event{Slot: SLOT_FLAGS, Index: int(flag), Access: ACCESS_WRITE})
	alu.Flags |= 1 << flag
}

func (alu *ALU) zero(result Word) {
	if result == 0 {
		alu.set(FLAG_ZERO)
	}
}

// ReadFlags returns the flags, reporting a read of all of them.
func (alu *ALU) ReadFlags() Flags {
	alu.notify(Event{Slot: SLOT_FLAGS, Index: FLAG_ALL, Access: ACCESS_READ})
	return alu.Flags
}

// ResetFlags clears all flags.
func (alu *ALU) ResetFlags() {
	alu.notify(Event{Slot: SLOT_FLAGS, Index: FLAG_ALL, Access: ACCESS_WRITE})
	alu.Flags = 0
}

// Add adds bit by bit from the LSB, carrying between positions.
func (alu *ALU) Add(a Word) (result Word) {
	in_a := a.Bits()
	in_b := alu.secondary().Bits()

	var out [WORD_SIZE]bool
	carry := false
	for n := range WORD_SIZE {
		half := in_a[n] != in_b[n]
		out[n] = half != carry
		carry = (in_a[n] && in_b[n]) || (half && carry)
	}
	result = WordFromBits(out)

	if carry {
		alu.set(FLAG_CARRY)
	}
	alu.zero(result)

	return
}

// ShiftRight shifts towards the LSB, the bit shifted out sets carry.
func (alu *ALU) ShiftRight(a Word) (result Word) {
	if a.Bit(0) {
		alu.set(FLAG_CARRY)
	}
	result = a >> 1
	alu.zero(result)
	return
}

// ShiftLeft shifts towards the MSB, the bit shifted out sets carry.
func (alu *ALU) ShiftLeft(a Word) (result Word) {
	if a.Bit(WORD_SIZE - 1) {
		alu.set(FLAG_CARRY)
	}
	result = a << 1
	alu.zero(result)
	return
}

// Inverse returns the bitwise NOT.
func (alu *ALU) Inverse(a Word) (result Word) {
	result = ^a
	alu.zero(result)
	return
}

// And returns the bitwise AND of both operands.
func (alu *ALU) And(a Word) (result Word) {
	result = a & alu.secondary()
	alu.zero(result)
	return
}

// Or returns the bitwise OR of both operands.
func (alu *ALU) Or(a Word) (result Word) {
	result = a | alu.secondary()
	alu.zero(result)
	return
}

// Xor returns the bitwise XOR of both operands.
func (alu *ALU) Xor(a Word) (result Word) {
	result = a ^ alu.secondary()
	alu.zero(result)
	return
}

// Compare scans both operands from the MSB, stopping at the first differing
// bit. A one in the first operand there sets a-larger; no difference at all
// sets equal.
func (alu *ALU) Compare(a Word) {
	b := alu.secondary()

	for n := WORD_SIZE - 1; n >= 0; n-- {
		if a.Bit(n) == b.Bit(n) {
			continue
		}
		if a.Bit(n) {
			alu.set(FLAG_A_LARGER)
		}
		return
	}

	alu.set(FLAG_EQUAL)
}

// Reset clears the flags, TMP and BUS1 silently.
func (alu *ALU) Reset() {
	alu.Flags = 0
	alu.TMP.Set(0)
	alu.bus1 = false
}
