// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/errors"

	"github.com/cpusim/cpusim/cpu"
	"github.com/cpusim/cpusim/emulator"
)

func main() {
	config := parseArgs()

	err := run(config)
	if err != nil {
		log.Fatal(err)
	}
}

func run(config *Config) (err error) {
	emu := emulator.NewEmulator(config.Machine)
	emu.Verbose = config.Verbose
	emu.MaxSteps = config.MaxSteps
	emu.SetPacing(config.Pacing)
	if config.Trace {
		emu.Observer = &cpu.LogObserver{}
	}

	inf, err := os.Open(config.Source)
	if err != nil {
		return
	}
	defer inf.Close()

	err = emu.Compile(inf)
	if err != nil {
		return errors.Wrapf(err, "%v", config.Source)
	}

	// Save the listing, do not execute.
	if len(config.Listing) != 0 {
		var ouf *os.File
		ouf, err = os.Create(config.Listing)
		if err != nil {
			return
		}
		defer ouf.Close()

		_, err = emu.Program.WriteTo(ouf)
		if err != nil {
			return errors.Wrapf(err, "%v", config.Listing)
		}
		return ouf.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Run(ctx)
	fmt.Print(emu.Cpu.String())
	if err != nil {
		return errors.Wrapf(err, "%v", config.Source)
	}

	return
}
