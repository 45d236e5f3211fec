package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/massung/chipper/logger"
)

// number of log lines shown by DebugLog
const logWindow = 16

/// Show the HELP text in the log.
///
func DebugHelp() {
	help := []string{
		"Virtual keys:",
		"  1-2-3-4",
		"  Q-W-E-R",
		"  A-S-D-F",
		"  Z-X-C-V",
		"Emulation keys:",
		"  ESC      - Quit",
		"  BS       - Reboot (+CTRL to reboot paused)",
		"  [ / ]    - Slower / faster",
		"  F1 / H   - Help",
		"  F3       - Load ROM",
		"  F5 / SPC - Pause",
		"  F6 / F10 - Step",
		"  F8       - Dump memory at I",
		"  F9       - Show log",
		"  Up/Dn    - Scroll log",
	}

	for _, line := range help {
		logger.Log("help", line)
	}
}

/// DebugAssembly logs the disassembled instructions following the
/// program counter.
///
func DebugAssembly(emu *Emulator) {
	pc := uint(emu.VM.PC())

	for i := uint(0); i < 8; i += 2 {
		if s := emu.VM.Disassemble(pc + i); s != "" {
			if i == 0 {
				logger.Log("asm", "> "+s)
			} else {
				logger.Log("asm", "  "+s)
			}
		}
	}
}

/// DebugRegisters logs the value of all the CHIP-8 registers.
///
func DebugRegisters(emu *Emulator) {
	vm := emu.VM
	regs := vm.Registers()

	var b strings.Builder

	for i, v := range regs {
		fmt.Fprintf(&b, "V%X=#%02X ", i, v)

		// 8 registers per line
		if i%8 == 7 {
			logger.Log("regs", strings.TrimSpace(b.String()))
			b.Reset()
		}
	}

	logger.Logf("regs", "PC=#%04X I=#%04X DT=#%02X ST=#%02X SP=%d %s",
		vm.PC(), vm.Index(), vm.DelayTimer(), vm.SoundTimer(), len(vm.Stack()), vm.State())

	DebugAssembly(emu)
}

/// DebugMemory logs 16 bytes of memory at the address register.
///
func DebugMemory(emu *Emulator) {
	addr := uint(emu.VM.Index())

	for row := uint(0); row < 2; row++ {
		data, err := emu.VM.ReadMemory(addr+row*8, 8)
		if err != nil {
			logger.Logf("mem", "#%04X - %v", addr+row*8, err)
			return
		}

		logger.Logf("mem", "#%04X - % X", addr+row*8, data)
	}
}

/// DebugLog writes the visible window of the log to stdout.
///
func DebugLog() {
	for _, line := range logger.Central().Window(logWindow) {
		fmt.Fprintln(os.Stdout, line)
	}
}
