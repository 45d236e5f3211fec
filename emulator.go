package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/massung/chipper/asm"
	"github.com/massung/chipper/chip8"
	"github.com/massung/chipper/logger"
)

const (
	// timers and the display run at 60 Hz
	timerRate = 60

	// most instructions that will be run to catch up in one update
	maxCatchUp = 1000

	// cpu speed limits and the step used by IncSpeed and DecSpeed
	minSpeed  = 60
	maxSpeed  = 6000
	speedStep = 60
)

/// Emulator drives a CHIP-8 virtual machine in real time for one of
/// the frontends. It owns the clocks, the pause state and the key
/// snapshot passed to each step.
///
type Emulator struct {
	VM *chip8.CHIP_8

	/// File is the path of the loaded ROM or source file.
	///
	File string

	/// Paused is true when single stepping.
	///
	Paused bool

	/// Debug logs every instruction executed.
	///
	Debug bool

	// instruction and timer clocks
	cpu, timers *Clock

	// keys held down
	keys [16]bool
}

/// NewEmulator creates a virtual machine with the given options. It
/// starts with an empty program.
///
func NewEmulator(opts options, now time.Time) *Emulator {
	emu := &Emulator{
		VM:     chip8.New(opts.quirks),
		Paused: opts.paused,
		Debug:  opts.debug,
		cpu:    NewClock(opts.cpu, now),
		timers: NewClock(timerRate, now),
	}

	if opts.seed != 0 {
		emu.VM.Seed(opts.seed)
	}

	return emu
}

/// isSource is true if the file should be assembled before loading.
///
func isSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm", ".c8s", ".src":
		return true
	}

	return false
}

/// Load a ROM or assembly source file. On error the current program
/// keeps running.
///
func (emu *Emulator) Load(path string) error {
	program, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("opening file '%s': %w", path, err)
	}

	if isSource(path) {
		assembly, err := asm.Assemble(program)
		if err != nil {
			return fmt.Errorf("assembling '%s': %w", path, err)
		}

		logger.Logf("asm", "assembled %s (%d bytes, %d labels)", filepath.Base(path), len(assembly.ROM), len(assembly.Labels))
		program = assembly.ROM
	}

	if err := emu.VM.LoadROM(program); err != nil {
		return fmt.Errorf("loading '%s': %w", path, err)
	}

	emu.File = path
	emu.Resync(time.Now())

	logger.Logf("rom", "loaded %s (%d bytes)", filepath.Base(path), len(program))

	return nil
}

// Reset the virtual machine, reloading the current program.
func (emu *Emulator) Reset() {
	emu.VM.Reset()
	emu.Resync(time.Now())

	logger.Log("vm", "reset")
}

// Resync restarts both clocks at now.
func (emu *Emulator) Resync(now time.Time) {
	emu.cpu.Reset(now)
	emu.timers.Reset(now)
}

// SetKeys replaces the keys held down.
func (emu *Emulator) SetKeys(keys [16]bool) {
	emu.keys = keys
}

/// Update runs every instruction and timer tick that is due by now.
/// While paused the clocks are kept in sync so resuming doesn't
/// cause a burst.
///
func (emu *Emulator) Update(now time.Time) {
	if emu.Paused {
		emu.Resync(now)
		return
	}

	for n := emu.cpu.Due(now, maxCatchUp); n > 0 && !emu.Paused; n-- {
		emu.Step()
	}

	for n := emu.timers.Due(now, timerRate); n > 0; n-- {
		emu.VM.Tick()
	}
}

/// Step executes a single instruction. If it fails the emulator is
/// paused and the error logged along with the failing instruction.
///
func (emu *Emulator) Step() {
	pc := emu.VM.PC()

	if emu.Debug {
		logger.Log("exec", emu.VM.Disassemble(uint(pc)))
	}

	if err := emu.VM.Step(emu.keys); err != nil {
		emu.Paused = true

		logger.Logf("vm", "halted at #%04X: %s", pc, emu.describe(err))
	}
}

/// describe an error from the virtual machine for the log.
///
func (emu *Emulator) describe(err error) string {
	var unknown *chip8.UnknownOpcodeError

	switch {
	case errors.As(err, &unknown):
		return fmt.Sprintf("%v (not a CHIP-8 instruction)", err)
	case errors.Is(err, chip8.ErrStackOverflow), errors.Is(err, chip8.ErrStackUnderflow):
		return fmt.Sprintf("%v (depth %d)", err, len(emu.VM.Stack()))
	}

	return fmt.Sprintf("%v (I=#%04X)", err, emu.VM.Index())
}

// IncSpeed raises the instruction rate.
func (emu *Emulator) IncSpeed() {
	emu.setSpeed(emu.cpu.Rate() + speedStep)
}

// DecSpeed lowers the instruction rate.
func (emu *Emulator) DecSpeed() {
	emu.setSpeed(emu.cpu.Rate() - speedStep)
}

func (emu *Emulator) setSpeed(hz int) {
	if hz < minSpeed {
		hz = minSpeed
	}

	if hz > maxSpeed {
		hz = maxSpeed
	}

	emu.cpu.SetRate(hz)

	logger.Logf("vm", "speed %d instructions/second", hz)
}

// Speed is the instruction rate in Hz.
func (emu *Emulator) Speed() int {
	return emu.cpu.Rate()
}
