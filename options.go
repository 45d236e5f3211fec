package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/massung/chipper/chip8"
)

/// options are the parsed command line flags.
///
type options struct {
	rom string

	// instructions executed per second
	cpu int

	// window scale, pixels per CHIP-8 pixel
	scale int

	// random number seed, 0 seeds from the clock
	seed int64

	tty    bool
	debug  bool
	paused bool
	quiet  bool

	quirks chip8.Quirks
}

/// usageError is returned when the command line can't be parsed and
/// the usage should be shown.
///
type usageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *usageError) Error() string {
	return e.msg
}

func (e *usageError) showUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: chipper [options] [rom or source file]\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

/// parseFlags reads the options from the command line arguments,
/// not including the program name.
///
func parseFlags(args []string) (options, error) {
	flags := flag.NewFlagSet("chipper", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := options{}

	var cosmac, vy, index, jump, logic, clip bool
	var overflow string

	flags.IntVar(&opts.cpu, "cpu", 700, "instructions executed per second")
	flags.IntVar(&opts.scale, "scale", 10, "window scale")
	flags.Int64Var(&opts.seed, "seed", 0, "random number seed (0 seeds from the clock)")
	flags.BoolVar(&opts.tty, "tty", false, "run in the terminal instead of a window")
	flags.BoolVar(&opts.debug, "debug", false, "log every executed instruction")
	flags.BoolVar(&opts.paused, "paused", false, "start with emulation paused")
	flags.BoolVar(&opts.quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&cosmac, "cosmac", false, "use the original COSMAC VIP behaviour for all quirks")
	flags.BoolVar(&vy, "shift-vy", false, "SHR/SHL shift VY into VX")
	flags.BoolVar(&index, "load-store-index", false, "LD [I], VX and LD VX, [I] advance I")
	flags.BoolVar(&jump, "jump-vx", false, "JP V0, NNN uses VX where X is the high nibble of NNN")
	flags.BoolVar(&logic, "logic-vf", false, "OR, AND and XOR reset VF")
	flags.BoolVar(&clip, "clip", false, "clip sprites at the bottom of the screen")
	flags.StringVar(&overflow, "index-overflow", "address-space", "VF after ADD I, VX (address-space/none)")

	if err := flags.Parse(args); err != nil {
		return opts, &usageError{flags: flags, msg: err.Error()}
	}

	switch rest := flags.Args(); len(rest) {
	case 0:
	case 1:
		opts.rom = rest[0]
	default:
		return opts, &usageError{flags: flags, msg: fmt.Sprintf("unexpected argument %s", rest[1])}
	}

	if opts.cpu < 1 {
		return opts, fmt.Errorf("invalid cpu rate: %d", opts.cpu)
	}

	if opts.scale < 1 {
		return opts, fmt.Errorf("invalid scale: %d", opts.scale)
	}

	if cosmac {
		opts.quirks = chip8.CosmacQuirks()
	} else {
		opts.quirks = chip8.DefaultQuirks()
	}

	// individual quirks add to the base set
	opts.quirks.ShiftUsesVY = opts.quirks.ShiftUsesVY || vy
	opts.quirks.LoadStoreIncrementsIndex = opts.quirks.LoadStoreIncrementsIndex || index
	opts.quirks.JumpUsesVX = opts.quirks.JumpUsesVX || jump
	opts.quirks.LogicResetsFlag = opts.quirks.LogicResetsFlag || logic
	opts.quirks.ClipSprites = opts.quirks.ClipSprites || clip

	if isFlagSet(flags, "index-overflow") || !cosmac {
		switch strings.ToLower(overflow) {
		case "address-space":
			opts.quirks.IndexOverflow = chip8.IndexOverflowAddressSpace
		case "none":
			opts.quirks.IndexOverflow = chip8.IndexOverflowNone
		default:
			return opts, fmt.Errorf("unsupported index overflow mode: %s. Valid options: address-space, none", overflow)
		}
	}

	return opts, opts.quirks.Validate()
}

func isFlagSet(flags *flag.FlagSet, name string) bool {
	set := false

	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})

	return set
}
