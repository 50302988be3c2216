package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/mc5000/board"
	"github.com/ezrec/mc5000/config"
	"github.com/ezrec/mc5000/cpu"
	"github.com/ezrec/mc5000/emulator"
	"github.com/ezrec/mc5000/serial"
	"github.com/ezrec/mc5000/translate"
)

// settings merges the configuration file and the command line.
func settings(cmd *cobra.Command, opts *options) (cfg config.Config, err error) {
	cfg = config.Default()

	if len(opts.config) != 0 {
		err = cfg.Load(opts.config, nil)
		if err != nil {
			return
		}
	}

	flags := cmd.Flags()
	if flags.Changed("mcu") {
		cfg.Mcu = opts.mcu
	}
	if flags.Changed("line") {
		cfg.Device = opts.device
	}
	if flags.Changed("output") || flags.Changed("simulate") {
		cfg.Device = ""
	}

	err = cfg.Validate()

	return
}

// openPort opens the channel to the board, if any.
func openPort(cfg config.Config, opts *options) (port board.Port, name string, closer io.Closer, err error) {
	switch {
	case len(cfg.Device) != 0:
		var sp *serial.Port
		sp, err = serial.Open(cfg.Device, cfg.Baud, cfg.Timeout)
		if err != nil {
			return
		}
		port, name, closer = sp, cfg.Device, sp
	case opts.simulate:
		emu := emulator.NewEmulator()
		emu.Verbose = opts.verbose >= 2
		port, name = emu, f("(simulator)")
	}

	return
}

// openOutput opens the byte-code destination, if any.
func openOutput(cmd *cobra.Command, opts *options) (w io.Writer, closer io.Closer, err error) {
	switch opts.output {
	case "":
	case "-":
		w = cmd.OutOrStdout()
	default:
		var file *os.File
		file, err = os.Create(opts.output)
		if err != nil {
			return
		}
		w, closer = file, file
	}

	return
}

// printListing prints each line's byte-code next to its source words.
func printListing(w io.Writer, prog *cpu.Program) {
	for _, op := range prog.Opcodes {
		fmt.Fprintf(w, "%5d  %-24s %v\n", op.LineNo, fmt.Sprintf("% X", op.Codes), strings.Join(op.Words, " "))
	}
	for id, name := range prog.Labels {
		fmt.Fprintf(w, "label %3d  %v\n", id, name)
	}
}

func run(cmd *cobra.Command, opts *options, args []string) (err error) {
	cfg, err := settings(cmd, opts)
	if err != nil {
		return
	}

	input := io.Reader(os.Stdin)
	fname := "(stdin)"
	if len(args) == 1 {
		fname = args[0]
		var inf *os.File
		inf, err = os.Open(fname)
		if err != nil {
			return
		}
		defer inf.Close()
		input = inf
	}

	output, outCloser, err := openOutput(cmd, opts)
	if err != nil {
		return
	}
	if outCloser != nil {
		defer outCloser.Close()
	}

	port, name, portCloser, err := openPort(cfg, opts)
	if err != nil {
		return
	}
	if portCloser != nil {
		defer portCloser.Close()
	}

	// Make sure the board answers before assembling.
	var brd *board.Board
	if port != nil {
		brd = board.NewBoard(port, name, cfg.Mcu)
		brd.Verbose = opts.verbose
		brd.Retries = cfg.Retries
		brd.Settle = cfg.Settle
		brd.Timeout = cfg.Timeout

		_, err = brd.Connect()
		if err != nil {
			return
		}
	}

	asm := &cpu.Assembler{
		File:    fname,
		Verbose: opts.verbose >= 2,
		Report:  func(err error) { log.Print(err) },
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	if opts.listing {
		// Keep the listing out of byte-code written to stdout.
		listing := cmd.OutOrStdout()
		if opts.output == "-" {
			listing = cmd.ErrOrStderr()
		}
		printListing(listing, prog)
	}

	if output != nil {
		_, err = prog.WriteTo(output)
		if err == nil && outCloser != nil {
			err = outCloser.Close()
		}
		if err != nil {
			return
		}
	}

	if brd != nil {
		err = brd.Transmit(prog)
		if err != nil {
			return
		}
		err = brd.AwaitResult()
		if err != nil {
			return
		}
		translate.Fprintln(cmd.OutOrStdout(), "MCU #%d: program accepted", cfg.Mcu)
	}

	if asm.Failed() {
		err = errFailed
	}

	return
}
