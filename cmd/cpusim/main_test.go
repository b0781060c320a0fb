package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpusim/cpusim/cpu"
	"github.com/cpusim/cpusim/emulator"
)

func writeSource(t *testing.T, program ...string) (path string) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "prog.asm")
	err := os.WriteFile(path, []byte(strings.Join(program, "\n")), 0o644)
	require.NoError(t, err)

	return
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	config := &Config{
		Source:  writeSource(t, "DAT 01 00000101", "HLT"),
		Machine: cpu.MACHINE_REGISTER,
	}
	assert.NoError(run(config))

	config.Source = writeSource(t, "loop: JMP loop", "HLT")
	config.MaxSteps = 5
	assert.ErrorIs(run(config), emulator.ErrStepLimit)

	config.Source = writeSource(t, "PSH 00000001")
	config.Machine = cpu.MACHINE_STACK
	err := run(config)
	assert.ErrorIs(err, cpu.ErrHaltMissing)
	assert.Contains(err.Error(), config.Source)

	config.Source = filepath.Join(t.TempDir(), "missing.asm")
	err = run(config)
	assert.True(errors.Is(err, os.ErrNotExist))
}

func TestRun_Listing(t *testing.T) {
	assert := assert.New(t)

	config := &Config{
		Source:  writeSource(t, "PSH 00000011", "PSH 00000100", "ADD", "HLT"),
		Machine: cpu.MACHINE_STACK,
		Listing: filepath.Join(t.TempDir(), "prog.lst"),
	}
	require.NoError(t, run(config))

	listing, err := os.ReadFile(config.Listing)
	require.NoError(t, err)
	assert.Equal("00100000\n00000011\n00100000\n00000100\n10000000\nHLT\n", string(listing))

	// The listing assembles to the same program.
	config.Source = config.Listing
	config.Listing = ""
	assert.NoError(run(config))
}

func TestVersion(t *testing.T) {
	assert.True(t, strings.HasPrefix(Version(), AppVendor+" "+AppName+" "))
}
