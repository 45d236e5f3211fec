package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/massung/chipper/logger"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		var usage *usageError
		if errors.As(err, &usage) {
			printBanner()
			usage.showUsage(os.Stderr)
			os.Exit(1)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !opts.quiet {
		printBanner()
	}

	emu := NewEmulator(opts, time.Now())

	if opts.tty {
		err = runTerminal(emu, opts)
	} else {
		if !opts.quiet {
			logger.SetEcho(os.Stdout)
		}

		err = runWindow(emu, opts)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("chipper: %w", err))
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Println("[----------------------------------]")
	fmt.Println("[ chipper - CHIP-8 virtual machine ]")
	fmt.Printf("[----------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

/// runWindow runs the emulator in an SDL window until the user quits.
///
func runWindow(emu *Emulator, opts options) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}
	defer sdl.Quit()

	// with no file given, ask for one
	path := opts.rom
	if path == "" {
		var err error

		if path, err = openDialog(); err != nil {
			if errors.Is(err, dialog.ErrCancelled) {
				return nil
			}
			return err
		}
	}

	if err := emu.Load(path); err != nil {
		dialog.Message("%s", err).Title("CHIP-8").Error()
		return err
	}

	scr, err := NewScreen(opts.scale)
	if err != nil {
		return err
	}
	defer scr.Destroy()

	// run silently without an audio device
	aud, err := NewAudio()
	if err != nil {
		logger.Logf("audio", "%v", err)
	}
	defer aud.Close()

	scr.SetTitle(emu)

	// refresh rate of the display, instructions are caught up each frame
	video := time.NewTicker(time.Second / timerRate)
	defer video.Stop()

	// loop until window closed or user quit
	for ProcessEvents(emu, scr) {
		<-video.C

		paused := emu.Paused

		emu.SetKeys(ReadKeys())
		emu.Update(time.Now())

		// the emulator pauses itself on error
		if emu.Paused != paused {
			scr.SetTitle(emu)
			DebugRegisters(emu)
		}

		if err := aud.Play(!emu.Paused && emu.VM.SoundTimer() > 0); err != nil {
			logger.Logf("audio", "%v", err)
		}

		if err := scr.Refresh(emu); err != nil {
			return fmt.Errorf("refreshing screen: %w", err)
		}
	}

	return nil
}

// openDialog asks the user for a ROM or source file
func openDialog() (string, error) {
	return dialog.File().
		Title("Load CHIP-8 program").
		Filter("CHIP-8 ROMs", "ch8", "c8", "rom").
		Filter("CHIP-8 assembly", "asm", "c8s", "src").
		Filter("All files", "*").
		Load()
}

/// LoadDialog lets the user pick a new program while running. The
/// emulator is paused while the dialog is open.
///
func LoadDialog(emu *Emulator) {
	paused := emu.Paused
	emu.Paused = true

	defer func() {
		emu.Paused = paused
		emu.Resync(time.Now())
	}()

	path, err := openDialog()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			logger.Logf("rom", "%v", err)
		}
		return
	}

	if err := emu.Load(path); err != nil {
		logger.Logf("rom", "%v", err)
		dialog.Message("%s", err).Title("CHIP-8").Error()
	}
}
