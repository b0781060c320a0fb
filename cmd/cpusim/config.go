package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cpusim/cpusim/cpu"
)

// Config defines program configuration.
type Config struct {
	Source   string        // Path to the assembly source.
	Machine  cpu.Machine   // Instruction set to assemble and run.
	Listing  string        // If set, write the assembled listing here and do not run.
	Pacing   time.Duration // Delay after each storage access.
	MaxSteps int           // Instruction cycle limit, or 0 for none.
	Trace    bool          // Trace every storage access?
	Verbose  bool          // Verbose assembler and emulator logging?
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	machine := cpu.MACHINE_REGISTER.String()

	flag.Usage = func() {
		fmt.Printf("%s [options] -c <source file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&c.Source, "c", c.Source, "Assembly source file to compile.")
	flag.StringVar(&machine, "m", machine, "Machine: register or stack.")
	flag.StringVar(&c.Listing, "o", c.Listing, "Write the assembled listing to this file, do not execute.")
	flag.DurationVar(&c.Pacing, "p", c.Pacing, "Delay after each storage access.")
	flag.IntVar(&c.MaxSteps, "n", c.MaxSteps, "Maximum instruction cycles, 0 for unlimited.")
	flag.BoolVar(&c.Trace, "t", c.Trace, "Trace every storage access.")
	flag.BoolVar(&c.Verbose, "v", c.Verbose, "Verbose mode.")

	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() != 0 || len(c.Source) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	var err error
	c.Machine, err = cpu.ParseMachine(machine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}

	return &c
}
