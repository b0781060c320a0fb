package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runProgram assembles and runs a program to completion.
func runProgram(t *testing.T, machine Machine, program ...string) (cu *ControlUnit) {
	t.Helper()

	prog, err := assemble(machine, program...)
	require.NoError(t, err)

	cu = NewControlUnit(prog, nil)
	for steps := 0; !cu.Halted(); steps++ {
		require.Less(t, steps, 1000, "program did not halt")
		require.NoError(t, cu.Step())
	}

	return
}

func TestControlUnit_Data(t *testing.T) {
	assert := assert.New(t)

	cu := runProgram(t, MACHINE_REGISTER,
		"DAT 0001 00000101",
		"HLT",
	)

	assert.Equal(Word(0b00000101), cu.GPR[1].Get())
	assert.Equal(1, cu.Ticks)
	assert.Equal(STATE_HALTED, cu.State)
	assert.Equal(Word(2), cu.IAR.Get())
	assert.True(errors.Is(cu.Step(), ErrHalted))

	// A short inline word is data, not part of the operand.
	cu = runProgram(t, MACHINE_REGISTER,
		"DAT 01 10",
		"HLT",
	)
	assert.Equal(Word(0b10), cu.GPR[1].Get())
}

func TestControlUnit_Alu(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		a, b  string
		op    string
		rb    Word
		flags Flags
	}){
		{"add", "00000011", "00000100", "ADD 0001", 7, 0},
		{"add_carry", "11001000", "01100100", "ADD 0001", 0b00101100, FlagsOf(FLAG_CARRY)},
		{"add_zero", "11111111", "00000001", "ADD 0001", 0, FlagsOf(FLAG_CARRY, FLAG_ZERO)},
		{"and", "00001111", "00111100", "AND 0001", 0b00001100, 0},
		{"or", "00001111", "00111100", "OR 0001", 0b00111111, 0},
		{"xor", "00001111", "00001111", "XOR 0001", 0, FlagsOf(FLAG_ZERO)},
		{"not", "00001111", "00111100", "NOT 0001", 0b11110000, 0},
		{"rsh", "00000011", "00111100", "RSH 0001", 0b00000001, FlagsOf(FLAG_CARRY)},
		{"lsh", "01000000", "00111100", "LSH 0001", 0b10000000, 0},
		{"cmp_larger", "00000101", "00000011", "CMP 0001", 0b00000011, FlagsOf(FLAG_A_LARGER)},
		{"cmp_equal", "00000101", "00000101", "CMP 0001", 0b00000101, FlagsOf(FLAG_EQUAL)},
		{"cmp_smaller", "00000001", "00000011", "CMP 0001", 0b00000011, 0},
	}

	for _, entry := range table {
		cu := runProgram(t, MACHINE_REGISTER,
			"DAT 00 "+entry.a,
			"DAT 01 "+entry.b,
			entry.op,
			"HLT",
		)

		a, _ := ParseWord(entry.a)
		assert.Equal(a, cu.GPR[0].Get(), entry.name)
		assert.Equal(entry.rb, cu.GPR[1].Get(), entry.name)
		assert.Equal(entry.flags, cu.ALU.Flags, entry.name)
	}
}

func TestControlUnit_JumpIf(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		value string
		taken bool
	}){
		{"larger", "00000101", true},
		{"equal", "00000011", false},
		{"smaller", "00000001", false},
	}

	for _, entry := range table {
		cu := runProgram(t, MACHINE_REGISTER,
			"DAT 00 "+entry.value, // 0, 1
			"DAT 01 00000011",     // 2, 3
			"CMP 0001",            // 4
			"JIF 0100 bigger",     // 5, 6
			"DAT 10 00000001",     // 7, 8
			"JMP done",            // 9, 10
			"bigger:",
			"DAT 10 00000010", // 11, 12
			"done: RES",       // 13
			"HLT",
		)

		expected := Word(1)
		if entry.taken {
			expected = 2
		}
		assert.Equal(expected, cu.GPR[2].Get(), entry.name)
		assert.Equal(Flags(0), cu.ALU.Flags, entry.name)
		assert.Equal(Word(14), cu.IAR.Get(), entry.name)
	}
}

func TestControlUnit_LoadStore(t *testing.T) {
	assert := assert.New(t)

	cu := runProgram(t, MACHINE_REGISTER,
		"DAT 00 00010000",
		"DAT 01 00101010",
		"STR 0001",
		"LD 0010",
		"HLT",
	)

	assert.Equal(Word(42), cu.RAM.ReadAt(16, false))
	assert.Equal(Word(42), cu.GPR[2].Get())
	assert.Equal(Word(16), cu.MAR.Get())
}

func TestControlUnit_JumpRegister(t *testing.T) {
	assert := assert.New(t)

	cu := runProgram(t, MACHINE_REGISTER,
		"DAT 00 00000101", // 0, 1
		"JRG 00",          // 2
		"DAT 01 00000001", // 3, 4
		"DAT 10 00000010", // 5, 6
		"HLT",             // 7
	)

	assert.Equal(Word(0), cu.GPR[1].Get())
	assert.Equal(Word(2), cu.GPR[2].Get())
	assert.Equal(3, cu.Ticks)
}

func TestControlUnit_Wrap(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{Machine: MACHINE_REGISTER, End: 0xff}
	prog.Image[0] = MakeWord(OP_JUMP, 0)
	prog.Image[1] = 0xff
	prog.Image[0xff] = MakeWord(OP_IO, 0)

	cu := NewControlUnit(prog, nil)
	assert.NoError(cu.Step())
	assert.Equal(Word(0xff), cu.IAR.Get())
	assert.Equal(Flags(0), cu.ALU.Flags)

	assert.NoError(cu.Step())
	assert.True(cu.Halted())
	assert.Equal(Word(0), cu.IAR.Get())
	assert.Equal(FlagsOf(FLAG_CARRY, FLAG_ZERO), cu.ALU.Flags)
}

func TestControlUnit_StackAdd(t *testing.T) {
	assert := assert.New(t)

	cu := runProgram(t, MACHINE_STACK,
		"PSH 00000011",
		"PSH 00000100",
		"ADD",
		"HLT",
	)

	assert.Equal(Word(7), cu.ALU.TMP.Get())
	assert.Equal(2, cu.Stack.Depth())
	assert.Equal(Word(3), cu.Stack.Layer[0].Get())
}

func TestControlUnit_Stack(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		tos     Word
		layer0  Word
		depth   int
		flags   Flags
	}){
		{"swap", []string{"PSH 00000001", "PSH 00000010", "SWP", "HLT"}, 1, 2, 2, 0},
		{"compare", []string{"PSH 00000011", "PSH 00000011", "CMP", "HLT"}, 3, 3, 2, FlagsOf(FLAG_EQUAL)},
		{"and", []string{"PSH 00001100", "PSH 00001010", "AND", "HLT"}, 0b1000, 0b1100, 2, 0},
		{"not", []string{"PSH 00001111", "NOT", "HLT"}, 0b11110000, 0, 1, 0},
		{"lsh", []string{"PSH 10000001", "LSH", "HLT"}, 0b10, 0, 1, FlagsOf(FLAG_CARRY)},
		{"pop", []string{"PSH 00000001", "PSH 00000010", "POP 00000000", "HLT"}, 1, 0, 1, 0},
		{"jts", []string{"PSH 00000101", "JTS", "PSH 00000001", "NOT", "HLT"}, 0b11111010, 0, 1, 0},
	}

	for _, entry := range table {
		cu := runProgram(t, MACHINE_STACK, entry.program...)

		assert.Equal(entry.tos, cu.ALU.TMP.Get(), entry.name)
		assert.Equal(entry.layer0, cu.Stack.Layer[0].Get(), entry.name)
		assert.Equal(entry.depth, cu.Stack.Depth(), entry.name)
		assert.Equal(entry.flags, cu.ALU.Flags, entry.name)
	}
}

func TestControlUnit_StackPop(t *testing.T) {
	assert := assert.New(t)

	cu := runProgram(t, MACHINE_STACK,
		"PSH 00000101",
		"POP 00010000",
		"HLT",
	)

	assert.Equal(Word(5), cu.RAM.ReadAt(16, false))
	assert.Equal(Word(0), cu.ALU.TMP.Get())
	assert.True(cu.Stack.Empty())
}

func TestControlUnit_Reset(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(MACHINE_REGISTER,
		"DAT 00 00010000",
		"DAT 01 00101010",
		"STR 0001",
		"ADD 0101",
		"HLT",
	)
	require.NoError(t, err)

	cu := NewControlUnit(prog, nil)
	initial := cu.Snapshot()
	assert.Equal(prog.Image, initial.RAM)
	assert.Equal(STATE_FETCH, initial.State)

	for !cu.Halted() {
		require.NoError(t, cu.Step())
	}
	first := cu.Snapshot()
	assert.Equal(Word(42), first.RAM[16])
	assert.Equal(Word(84), first.GPR[1])
	assert.Equal(4, first.Ticks)

	cu.Reset()
	assert.Equal(initial, cu.Snapshot())

	for !cu.Halted() {
		require.NoError(t, cu.Step())
	}
	assert.Equal(first, cu.Snapshot())
}

func TestControlUnit_Errors(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(MACHINE_REGISTER, "RES", "HLT")
	require.NoError(t, err)

	cu := NewControlUnit(prog, nil)
	cu.Machine = Machine(5)

	err = cu.Step()
	assert.True(errors.Is(err, ErrMachineInvalid))
	assert.True(errors.Is(err, ErrOpcode(0)))

	var eo ErrOpcode
	assert.True(errors.As(err, &eo))
	assert.Equal(ErrOpcode(MakeWord(OP_RESET_FLAGS, 0)), eo)

	assert.True(cu.Halted())
	assert.True(errors.Is(cu.Step(), ErrHalted))

	cu.Machine = MACHINE_STACK
	assert.NoError(cu.Execute(MakeWord(OP_IO, 0)))
	assert.True(errors.Is(cu.executeCommon(ALU_ADD), ErrOpcodeInvalid))
}

func TestControlUnit_Observer(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(MACHINE_REGISTER, "DAT 01 00000101", "HLT")
	require.NoError(t, err)

	var trace []string
	cu := NewControlUnit(prog, ObserverFunc(func(ev Event) {
		trace = append(trace, ev.String())
	}))

	assert.NoError(cu.Step())

	expected := []string{
		// fetch
		"iar read",
		"mar write 00000000",
		"iar read",
		"bus1 read",
		"alu ADD",
		"acc write 00000001",
		"acc read",
		"iar write 00000001",
		"ram[0] read 00100001",
		"ir write 00100001",
		// execute
		"iar read",
		"mar write 00000001",
		"iar read",
		"bus1 read",
		"alu ADD",
		"acc write 00000010",
		"acc read",
		"iar write 00000010",
		"ram[1] read 00000101",
		"gpr[1] write 00000101",
	}
	assert.Equal(expected, trace)
}

func TestControlUnit_String(t *testing.T) {
	assert := assert.New(t)

	cu := runProgram(t, MACHINE_REGISTER, "DAT 01 00000101", "HLT")

	text := cu.String()
	assert.Contains(text, "state: halted\n")
	assert.Contains(text, "  iar: 00000010\n")
	assert.Contains(text, "   ir: 00100001 DAT\n")
	assert.Contains(text, "   r1: 00000101\n")
	assert.NotContains(text, "stack")

	cu = runProgram(t, MACHINE_STACK, "PSH 00000101", "HLT")
	text = cu.String()
	assert.Contains(text, "   ir: 00100000 PSH\n")
	assert.Contains(text, "stack: [00000000 00000000 00000000 00000000 00000000 00000000 00000000 00000000] (1)\n")
	assert.NotContains(text, "r0")
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	var keys []string
	for key, value := range Defines() {
		defines[key] = value
		keys = append(keys, key)
	}

	assert.Equal("1000", defines["CARRY"])
	assert.Equal("0100", defines["LARGER"])
	assert.Equal("0010", defines["EQUAL"])
	assert.Equal("0001", defines["ZERO"])
	assert.Equal("0000", defines["NONE"])
	assert.Equal("0x100", defines["RAM_SIZE"])
	assert.IsIncreasing(keys)
}
