package cpu

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	WORD_SIZE        = 8              // Bits in a word.
	OPCODE_SIZE      = WORD_SIZE / 2  // Bits in an opcode.
	OPERAND_SIZE     = WORD_SIZE / 2  // Bits in an operand field.
	GPR_ADDRESS_SIZE = 2              // Bits addressing a general purpose register.
	RAM_SIZE         = 1 << WORD_SIZE // Addressable words.
	GPR_COUNT        = 4              // General purpose registers.
	STACK_SIZE       = 8              // Stack layers below the top of stack.
	FLAG_COUNT       = 4              // Condition flags.
)

// Word is the 8-bit data and instruction unit of the machine.
//
// Bits are indexed LSB first (Bit(0) is the least significant bit), which is
// the reverse of the MSB-first order used by String() and ParseWord().
type Word uint8

// WordOf converts a byte to a Word.
func WordOf(b byte) Word {
	return Word(b)
}

// ParseWord converts the display form of a word, up to eight '0' or '1'
// characters MSB first, into a Word. Spaces are ignored, short values are
// zero padded on the left.
func ParseWord(text string) (word Word, err error) {
	digits := strings.ReplaceAll(text, " ", "")
	if len(digits) == 0 || len(digits) > WORD_SIZE {
		err = ErrWordSize(text)
		return
	}

	for _, ch := range digits {
		word <<= 1
		switch ch {
		case '0':
		case '1':
			word |= 1
		default:
			err = ErrWordBinary(text)
			word = 0
			return
		}
	}

	return
}

// String returns the MSB-first display form of the word.
func (w Word) String() string {
	return fmt.Sprintf("%08b", uint8(w))
}

// Byte returns the word as a byte.
func (w Word) Byte() byte {
	return byte(w)
}

// Bit returns the bit at the LSB-first index.
func (w Word) Bit(index int) bool {
	return (w>>index)&1 != 0
}

// Bits returns the word as bits in LSB-first order.
func (w Word) Bits() (out [WORD_SIZE]bool) {
	for n := range WORD_SIZE {
		out[n] = w.Bit(n)
	}
	return
}

// WordFromBits builds a word from bits in LSB-first order.
func WordFromBits(in [WORD_SIZE]bool) (w Word) {
	for n, bit := range in {
		if bit {
			w |= 1 << n
		}
	}
	return
}

// Reverse returns the word with its bit order reversed.
func (w Word) Reverse() Word {
	return Word(bits.Reverse8(uint8(w)))
}

// Opcode returns the opcode held in the upper four bits.
func (w Word) Opcode() Opcode {
	return Opcode(w >> OPERAND_SIZE)
}

// Operand returns the lower four bits.
func (w Word) Operand() uint8 {
	return uint8(w) & (1<<OPERAND_SIZE - 1)
}

// MakeWord composes an instruction word from an opcode and operand field.
func MakeWord(op Opcode, operand uint8) Word {
	return Word(uint8(op)<<OPERAND_SIZE | operand&(1<<OPERAND_SIZE-1))
}
