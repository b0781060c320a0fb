// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0x0",
}

var (
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Assembler is a single pass assembler for the 8-bit machines.
type Assembler struct {
	Verbose bool    // If set, verbosely logs the assembler actions.
	Machine Machine // Instruction set to assemble for.
	Line    []Line  // List of emitting lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	halt int // Address of the halt word, or -1.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// isBinary is true if the text holds only '0' and '1'.
func isBinary(text string) bool {
	for _, ch := range text {
		if ch != '0' && ch != '1' {
			return false
		}
	}
	return true
}

// valueOf returns the value of an equate. Runs of '0' and '1' are binary,
// anything else follows Go integer literal syntax.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) > 0 && isBinary(word) {
		return strconv.ParseInt(word, 2, 64)
	}
	return strconv.ParseInt(word, 0, 64)
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrParseExpression(expr), err)
		}
	}()

	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value, err := asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(value)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrDataSize
		return
	}
	return
}

// parseLine substitutes expressions and equates, and records labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%#x", lineno)

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err == nil && (value < 0 || value >= RAM_SIZE) {
			_err = ErrDataSize
		}
		if _err != nil {
			if err == nil {
				err = _err
			}
			return str
		}
		return Word(value).String()
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		_, ok = asm.Label[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		// Equates are substituted before labels are linked.
		_, ok = asm.Equate[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentAddress gets the address of the next emitted word.
func (asm *Assembler) currentAddress() int {
	if len(asm.Line) == 0 {
		return 0
	}

	last := asm.Line[len(asm.Line)-1]

	return last.Address + len(last.Codes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Line = asm.Line[:0]
	asm.halt = -1
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if asm.halt < 0 {
		err = ErrHaltMissing
		return
	}

	// Final linking of labels.
	for n := range asm.Line {
		ln := &asm.Line[n]

		if len(ln.Link) == 0 {
			continue
		}
		addr, ok := asm.Label[ln.Link]
		if !ok {
			lineno, line = ln.LineNo, strings.Join(ln.Words, " ")
			err = ErrLabelMissing(ln.Link)
			return
		}
		if addr >= RAM_SIZE {
			lineno, line = ln.LineNo, strings.Join(ln.Words, " ")
			err = ErrDataSize
			return
		}
		ln.Codes[len(ln.Codes)-1] = Word(addr)
	}

	prog = &Program{
		Machine: asm.Machine,
		End:     Word(asm.halt - 1),
		Size:    asm.currentAddress(),
		Lines:   slices.Clone(asm.Line),
	}
	for _, ln := range prog.Lines {
		copy(prog.Image[ln.Address:], ln.Codes)
	}

	if asm.Verbose {
		log.Printf("asm: %v words, end %v", prog.Size, prog.End)
	}

	return
}

// dataWord parses an address or data word, which is binary, or a label to
// be linked.
func (asm *Assembler) dataWord(words []string) (code Word, link string, err error) {
	if len(words) == 0 {
		err = ErrDataMissing
		return
	}

	digits := strings.Join(words, "")
	switch {
	case isBinary(digits):
		if len(digits) > WORD_SIZE {
			err = ErrDataSize
			return
		}
		code, err = ParseWord(digits)
	case len(words) == 1 && reLabel.MatchString(words[0]):
		link = words[0]
	default:
		err = ErrOperandBinary
	}

	return
}

// operandOf splits the operand words of an opcode into its operand field
// and an optional inline trailing word. When the opcode consumes a trailing
// word, the last of several words is always that word.
func (asm *Assembler) operandOf(op Opcode, words []string) (operand uint8, inline []string, err error) {
	widths := op.OperandWidths(asm.Machine)

	fits := func(digits string) bool {
		return isBinary(digits) && slices.Contains(widths, len(digits))
	}

	digits := strings.Join(words, "")
	switch {
	case op.Trailing(asm.Machine) && len(words) > 1 && fits(strings.Join(words[:len(words)-1], "")):
		inline = words[len(words)-1:]
		digits = strings.Join(words[:len(words)-1], "")
	case fits(digits):
	case op.Trailing(asm.Machine) && len(words) > 0:
		// A single word that is not an operand is the trailing word.
		inline = words[len(words)-1:]
		digits = strings.Join(words[:len(words)-1], "")
		if !isBinary(digits) {
			err = ErrOperandBinary
			return
		}
		if !slices.Contains(widths, len(digits)) {
			err = ErrOperandWidth
			return
		}
	case !isBinary(digits):
		err = ErrOperandBinary
		return
	default:
		err = ErrOperandWidth
		return
	}

	for _, ch := range digits {
		operand = operand<<1 | uint8(ch-'0')
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Word
	var link string

	// no-op
	if len(words) == 0 {
		return
	}

	address := asm.currentAddress()

	defer func() {
		if err != nil || len(codes) == 0 {
			return
		}
		if address+len(codes) > RAM_SIZE {
			err = ErrMemoryFull
			return
		}
		ln := Line{LineNo: lineno, Address: address, Words: words, Codes: codes, Link: link}
		asm.Line = append(asm.Line, ln)
	}()

	// Raw binary
	if isBinary(strings.Join(words, "")) {
		var code Word
		code, _, err = asm.dataWord(words)
		if err != nil {
			return
		}
		codes = append(codes, code)
		return
	}

	mnemonic := strings.ToUpper(words[0])
	switch mnemonic {
	case PSEUDO_HALT:
		if len(words) > 1 {
			err = ErrHaltOperand
			return
		}
		if asm.halt >= 0 {
			err = ErrHaltDuplicate
			return
		}
		if address == 0 {
			err = ErrHaltFirst
			return
		}
		asm.halt = address
		codes = append(codes, 0)
		return
	case PSEUDO_ADDRESS, PSEUDO_VALUE:
		if address == 0 {
			err = ErrDataFirst
			return
		}
		var code Word
		code, link, err = asm.dataWord(words[1:])
		if err != nil {
			return
		}
		codes = append(codes, code)
		return
	}

	op, ok := LookupOpcode(mnemonic)
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	operand, inline, err := asm.operandOf(op, words[1:])
	if err != nil {
		return
	}
	codes = append(codes, MakeWord(op, operand))

	if len(inline) != 0 {
		var code Word
		code, link, err = asm.dataWord(inline)
		if err != nil {
			codes = nil
			return
		}
		codes = append(codes, code)
	}

	return
}
