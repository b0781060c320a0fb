package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

// Image is the initial memory contents of a program.
type Image [RAM_SIZE]Word

// Line is the assembled form of a single source line.
type Line struct {
	LineNo  int      // Source line number, counting from 1.
	Address int      // Address of the first emitted word.
	Words   []string // Source words after equate and expression substitution.
	Codes   []Word   // Emitted words.
	Link    string   // Label resolved into the last code, if any.
}

// Program is the output of a successful assembly.
type Program struct {
	Machine Machine // Instruction set the program was assembled for.
	Image   Image   // Memory image, zero past Size.
	End     Word    // Address whose advance halts execution.
	Size    int     // Words emitted, including the halt word.
	Lines   []Line  // Emitting source lines, in address order.
}

// Debug locates a word of the program in its source.
type Debug struct {
	*Line
	Index int // Index of the word within the line's codes.
}

// Debug returns the source line that emitted the word at the address.
// The Line is nil if no line covers the address.
func (prog *Program) Debug(addr Word) (dbg Debug) {
	for n, line := range prog.Lines {
		if int(addr) >= line.Address && int(addr) < line.Address+len(line.Codes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(addr) - line.Address,
			}
			break
		}
	}

	return
}

// LineNo returns the source line number of the address, or 0.
func (prog *Program) LineNo(addr Word) int {
	dbg := prog.Debug(addr)
	if dbg.Line == nil {
		return 0
	}
	return dbg.LineNo
}

// Codes iterates over the emitted words by address.
func (prog *Program) Codes() iter.Seq2[Word, Word] {
	return func(yield func(addr Word, code Word) bool) {
		for addr := range prog.Size {
			if !yield(Word(addr), prog.Image[addr]) {
				return
			}
		}
	}
}

// WriteTo writes the image as a source listing of raw binary lines, with
// the halt word spelled as HLT. Assembling the listing for the same machine
// reproduces the image.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	bw := bufio.NewWriter(w)

	var count int
	for addr, code := range prog.Codes() {
		text := code.String()
		if int(addr) == int(prog.End)+1 {
			text = PSEUDO_HALT
		}
		count, err = fmt.Fprintln(bw, text)
		n += int64(count)
		if err != nil {
			return
		}
	}

	err = bw.Flush()
	return
}
