// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ezrec/mc5000/translate"
)

var f = translate.From

// errFailed is returned when diagnostics were already reported.
var errFailed = errors.New(f("assembly failed"))

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

// options are the command line settings.
type options struct {
	config   string
	device   string
	output   string
	simulate bool
	mcu      int
	verbose  int
	listing  bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "mc5000 [flags] [file]",
		Short: "Assembler and programmer for the MC5000 dev kit",
		Long: `Mc5000 reads MC5000 assembly from the named file, or standard input,
and translates it to byte-code.

With -l the program is written to an MCU of the dev kit over the given
serial device. With -o the byte-code is written to a file ("-" for standard
output). With -s the program is sent to a simulated dev kit. Otherwise the
source is only checked.

Settings may also be read from a Starlark file given with -c, which may set
device, mcu, baud, retries, settle_ms and timeout_ms.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.config, "config", "c", "", "Starlark settings file")
	flags.StringVarP(&opts.device, "line", "l", "", "program the MCU on this serial device")
	flags.StringVarP(&opts.output, "output", "o", "", "write byte-code to this file")
	flags.BoolVarP(&opts.simulate, "simulate", "s", false, "program a simulated dev kit")
	flags.IntVarP(&opts.mcu, "mcu", "u", 1, "target MCU number, 1 to 9")
	flags.CountVarP(&opts.verbose, "verbose", "v", "verbose mode; repeat for a byte trace")
	flags.BoolVarP(&opts.listing, "listing", "L", false, "print an assembly listing")
	cmd.MarkFlagsMutuallyExclusive("line", "output", "simulate")

	return cmd
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		if !errors.Is(err, errFailed) {
			log.Print(err)
		}
		os.Exit(1)
	}
}
