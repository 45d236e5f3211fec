package main

import (
	"github.com/massung/chipper/logger"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]byte{
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_V: 0xF,
	}
)

/// ReadKeys returns the CHIP-8 keys currently held down.
///
func ReadKeys() [16]bool {
	var keys [16]bool

	state := sdl.GetKeyboardState()

	for scancode, key := range KeyMap {
		if int(scancode) < len(state) && state[scancode] != 0 {
			keys[key] = true
		}
	}

	return keys
}

/// ProcessEvents from SDL and handle the emulation keys. Returns
/// false once the user has quit.
///
func ProcessEvents(emu *Emulator, scr *Screen) bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if ev.Type != sdl.KEYDOWN {
				continue
			}

			switch ev.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				return false
			case sdl.SCANCODE_BACKSPACE:
				emu.Reset()

				// holding control during reset will reboot paused
				if ev.Keysym.Mod&sdl.KMOD_CTRL != 0 {
					emu.Paused = true
				}
			case sdl.SCANCODE_UP, sdl.SCANCODE_PAGEUP:
				logger.Central().ScrollUp()
			case sdl.SCANCODE_DOWN, sdl.SCANCODE_PAGEDOWN:
				logger.Central().ScrollDown(logWindow)
			case sdl.SCANCODE_HOME:
				logger.Central().Home()
			case sdl.SCANCODE_END:
				logger.Central().End()
			case sdl.SCANCODE_F3:
				LoadDialog(emu)
			case sdl.SCANCODE_H, sdl.SCANCODE_F1:
				DebugHelp()
			case sdl.SCANCODE_LEFTBRACKET:
				emu.DecSpeed()
			case sdl.SCANCODE_RIGHTBRACKET:
				emu.IncSpeed()
			case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
				emu.Paused = !emu.Paused

				if emu.Paused {
					DebugRegisters(emu)
				}
			case sdl.SCANCODE_F6, sdl.SCANCODE_F10:
				if emu.Paused {
					emu.Step()
					DebugAssembly(emu)
				}
			case sdl.SCANCODE_F8:
				if emu.Paused {
					DebugMemory(emu)
				}
			case sdl.SCANCODE_F9:
				DebugLog()
			}

			scr.SetTitle(emu)
		}
	}

	return true
}
