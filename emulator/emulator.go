// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cpusim/cpusim/cpu"
	"github.com/cpusim/cpusim/internal"
)

var _emulator_defines = map[string]string{
	"MACHINE_REGISTER": fmt.Sprintf("%#x", int(cpu.MACHINE_REGISTER)),
	"MACHINE_STACK":    fmt.Sprintf("%#x", int(cpu.MACHINE_STACK)),
}

// pacer forwards events to the emulator's observer, then sleeps for the
// current pacing delay.
type pacer struct {
	emu *Emulator
	ctx context.Context
}

func (p *pacer) Observe(ev cpu.Event) {
	if p.emu.Observer != nil {
		p.emu.Observer.Observe(ev)
	}

	delay := time.Duration(p.emu.pacing.Load())
	if delay <= 0 {
		return
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-p.ctx.Done():
	}
}

// Emulator state. Compiled program + control unit + run worker.
//
// Program and Cpu must not be touched while a run is in progress; use
// Snapshot instead.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Machine  cpu.Machine  // Instruction set to compile and run.
	MaxSteps int          // If non-zero, runs fail with ErrStepLimit after this many cycles.
	Observer cpu.Observer // Receives every storage access, synchronously.

	Program *cpu.Program     // Currently loaded program.
	Cpu     *cpu.ControlUnit // Control unit running the program.

	pacing atomic.Int64 // Delay after each event, in nanoseconds.
	pacer  pacer

	mutex    sync.Mutex
	snapshot cpu.Snapshot
	running  bool
	gate     chan struct{} // Non-nil while paused.
	group    *errgroup.Group
	cancel   context.CancelFunc
}

// NewEmulator creates a new emulator for the machine.
func NewEmulator(machine cpu.Machine) (emu *Emulator) {
	emu = &Emulator{
		Machine: machine,
	}
	emu.pacer = pacer{emu: emu, ctx: context.Background()}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	machine := map[string]string{
		"MACHINE": fmt.Sprintf("%#x", int(emu.Machine)),
	}
	return internal.IterSeq2Concat(internal.IterSeq2Sorted(_emulator_defines),
		maps.All(machine),
		cpu.Defines(),
	)
}

// Running is true while a run is in progress.
func (emu *Emulator) Running() bool {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.running
}

// Compile assembles the source and loads it into a new control unit.
// On failure the previously loaded program is kept.
func (emu *Emulator) Compile(input io.Reader) (err error) {
	if emu.Running() {
		return ErrRunning
	}

	asm := &cpu.Assembler{Machine: emu.Machine, Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Cpu = cpu.NewControlUnit(prog, &emu.pacer)
	emu.publish()

	if emu.Verbose {
		log.Printf("emulator: compiled %v words for %v machine", prog.Size, prog.Machine)
	}

	return
}

// Reset the control unit to the freshly loaded program.
func (emu *Emulator) Reset() (err error) {
	if emu.Running() {
		return ErrRunning
	}
	if emu.Cpu == nil {
		return ErrNoProgram
	}

	emu.Cpu.Reset()
	emu.publish()

	return
}

// Ticks returns the instruction cycles since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Snapshot().Ticks
}

// LineNo returns the source line number of the next instruction, as of
// the last published snapshot.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	return emu.Program.LineNo(emu.Snapshot().IAR)
}

// SetPacing sets the delay after every storage access. It takes effect
// from the next access, even during a run.
func (emu *Emulator) SetPacing(delay time.Duration) {
	emu.pacing.Store(int64(delay))
}

// Pacing returns the delay after every storage access.
func (emu *Emulator) Pacing() time.Duration {
	return time.Duration(emu.pacing.Load())
}

// Snapshot returns the state published after the last instruction cycle.
func (emu *Emulator) Snapshot() cpu.Snapshot {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.snapshot
}

func (emu *Emulator) publish() {
	snap := emu.Cpu.Snapshot()

	emu.mutex.Lock()
	emu.snapshot = snap
	emu.mutex.Unlock()
}

// Tick performs a single instruction cycle of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Running() {
		err = ErrRunning
		return
	}
	if emu.Cpu == nil {
		err = ErrNoProgram
		return
	}

	emu.pacer.ctx = context.Background()

	return emu.tick()
}

func (emu *Emulator) tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted() {
		done = true
		return
	}

	addr := emu.Cpu.IAR.Get()
	lineno := emu.Program.LineNo(addr)
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Address: addr, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	emu.publish()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted()

	return
}

// wait blocks while the emulator is paused.
func (emu *Emulator) wait(ctx context.Context) (err error) {
	emu.mutex.Lock()
	gate := emu.gate
	emu.mutex.Unlock()

	if gate == nil {
		return
	}

	select {
	case <-gate:
	case <-ctx.Done():
		err = ctx.Err()
	}

	return
}

// worker runs the program to completion, pausing and cancelling only at
// instruction cycle boundaries.
func (emu *Emulator) worker(ctx context.Context) (err error) {
	for steps := 0; ; steps++ {
		err = emu.wait(ctx)
		if err != nil {
			return
		}

		err = ctx.Err()
		if err != nil {
			return
		}

		if emu.MaxSteps > 0 && steps >= emu.MaxSteps {
			err = ErrStepLimit
			return
		}

		var done bool
		done, err = emu.tick()
		if err != nil {
			return
		}
		if done {
			if emu.Verbose {
				log.Printf("emulator: halted after %v ticks", emu.Cpu.Ticks)
			}
			return
		}
	}
}

// Start resets the control unit, and runs the program to completion in
// the background. If the emulator is paused, the run starts paused.
func (emu *Emulator) Start(ctx context.Context) (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	if emu.running {
		return ErrRunning
	}
	if emu.Cpu == nil {
		return ErrNoProgram
	}

	emu.Cpu.Reset()
	emu.snapshot = emu.Cpu.Snapshot()

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	emu.pacer.ctx = ctx
	emu.running = true
	emu.group = group
	emu.cancel = cancel

	if emu.Verbose {
		log.Printf("emulator: start")
	}

	group.Go(func() error {
		defer func() {
			cancel()
			emu.mutex.Lock()
			emu.running = false
			emu.mutex.Unlock()
		}()
		return emu.worker(ctx)
	})

	return
}

// Wait blocks until the current run ends, returning its error. A run that
// halted normally returns nil.
func (emu *Emulator) Wait() (err error) {
	emu.mutex.Lock()
	group := emu.group
	emu.mutex.Unlock()

	if group == nil {
		return
	}

	return group.Wait()
}

// Run runs the program to completion, blocking until it halts.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	err = emu.Start(ctx)
	if err != nil {
		return
	}

	return emu.Wait()
}

// Pause suspends the run at the next instruction cycle boundary.
func (emu *Emulator) Pause() {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	if emu.gate == nil {
		emu.gate = make(chan struct{})
	}
}

// Resume continues a paused run.
func (emu *Emulator) Resume() {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	if emu.gate != nil {
		close(emu.gate)
		emu.gate = nil
	}
}

// Paused is true while runs are suspended.
func (emu *Emulator) Paused() bool {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.gate != nil
}

// Stop ends the current run and discards its state. A runtime error that
// ended the run before the stop is returned.
func (emu *Emulator) Stop() (err error) {
	emu.mutex.Lock()
	cancel := emu.cancel
	if emu.gate != nil {
		close(emu.gate)
		emu.gate = nil
	}
	emu.mutex.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	err = emu.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	emu.Cpu.Reset()
	emu.publish()

	if emu.Verbose {
		log.Printf("emulator: stopped")
	}

	return
}
