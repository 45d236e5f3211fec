package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/massung/chipper/chip8"
	"github.com/massung/chipper/logger"
	"golang.org/x/term"
)

// terminals don't report key releases, so a key is held this long
// after the last time its character was read
const keyHold = 150 * time.Millisecond

var (
	/// Mapping of typed characters to CHIP-8 keys, the same layout as
	/// the window.
	///
	TermKeyMap = map[byte]byte{
		'x': 0x0,
		'1': 0x1,
		'2': 0x2,
		'3': 0x3,
		'q': 0x4,
		'w': 0x5,
		'e': 0x6,
		'a': 0x7,
		's': 0x8,
		'd': 0x9,
		'z': 0xA,
		'c': 0xB,
		'4': 0xC,
		'r': 0xD,
		'f': 0xE,
		'v': 0xF,
	}
)

/// termKeys tracks which keys are held from a stream of typed
/// characters.
///
type termKeys struct {
	until [16]time.Time
}

// press holds the key mapped to c, returning false if none is
func (k *termKeys) press(c byte, now time.Time) bool {
	key, ok := TermKeyMap[toLower(c)]
	if ok {
		k.until[key] = now.Add(keyHold)
	}

	return ok
}

// held returns the keys still held at now
func (k *termKeys) held(now time.Time) [16]bool {
	var keys [16]bool

	for i, t := range k.until {
		keys[i] = now.Before(t)
	}

	return keys
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}

	return c
}

/// renderFrame draws the display with half-block characters, two
/// pixel rows per line of text.
///
func renderFrame(frame chip8.Frame) string {
	var b strings.Builder

	for y := 0; y < chip8.Height; y += 2 {
		for x := 0; x < chip8.Width; x++ {
			top, bottom := frame[y][x] != 0, frame[y+1][x] != 0

			switch {
			case top && bottom:
				b.WriteString("█")
			case top:
				b.WriteString("▀")
			case bottom:
				b.WriteString("▄")
			default:
				b.WriteByte(' ')
			}
		}

		// raw mode doesn't translate newlines
		b.WriteString("\r\n")
	}

	return b.String()
}

/// runTerminal runs the emulator in the terminal until Ctrl-C.
///
func runTerminal(emu *Emulator, opts options) error {
	if opts.rom == "" {
		return errors.New("a rom or source file is required with -tty")
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("stdin is not a terminal")
	}

	if err := emu.Load(opts.rom); err != nil {
		return err
	}

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && (w < chip8.Width || h < chip8.Height/2+2) {
		return fmt.Errorf("terminal is %dx%d, at least %dx%d is needed", w, h, chip8.Width, chip8.Height/2+2)
	}

	// put terminal in raw mode to disable echo and line buffering
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}

	out := bufio.NewWriter(os.Stdout)

	defer func() {
		// show the cursor again
		fmt.Fprint(out, "\x1b[?25h\r\n")
		_ = out.Flush()
		_ = term.Restore(fd, oldState)
	}()

	// the reader is left blocked in Read when the emulator quits
	input := make(chan byte, 64)
	go func() {
		buf := make([]byte, 1)
		for {
			if n, err := os.Stdin.Read(buf); n > 0 {
				input <- buf[0]
			} else if err != nil {
				close(input)
				return
			}
		}
	}()

	// clear the screen and hide the cursor
	fmt.Fprint(out, "\x1b[2J\x1b[?25l")

	keys := &termKeys{}
	buzzing := false

	video := time.NewTicker(time.Second / timerRate)
	defer video.Stop()

	for range video.C {
		now := time.Now()

	drain:
		for {
			select {
			case c, ok := <-input:
				if !ok {
					return nil
				}

				if quit := handleTermKey(emu, keys, c, now); quit {
					return nil
				}
			default:
				break drain
			}
		}

		emu.SetKeys(keys.held(now))
		emu.Update(now)

		// ring the bell when the sound timer starts
		if on := emu.VM.SoundTimer() > 0; on != buzzing {
			if on {
				fmt.Fprint(out, "\a")
			}
			buzzing = on
		}

		fmt.Fprint(out, "\x1b[H")
		fmt.Fprint(out, renderFrame(emu.VM.Frame()))
		fmt.Fprintf(out, "\x1b[K%s\r\n", termStatus(emu))

		if err := out.Flush(); err != nil {
			return err
		}
	}

	return nil
}

/// handleTermKey handles a single typed character. Returns true if
/// the user quit.
///
func handleTermKey(emu *Emulator, keys *termKeys, c byte, now time.Time) bool {
	if keys.press(c, now) {
		return false
	}

	switch c {
	case 0x03: // ctrl-c
		return true
	case 0x7F, 0x08:
		emu.Reset()
	case ' ':
		emu.Paused = !emu.Paused
	case '\t':
		if emu.Paused {
			emu.Step()
		}
	case '[':
		emu.DecSpeed()
	case ']':
		emu.IncSpeed()
	}

	return false
}

// termStatus is the line shown below the display
func termStatus(emu *Emulator) string {
	status := fmt.Sprintf("%s %d Hz", filepath.Base(emu.File), emu.Speed())

	if emu.Paused {
		status += " [paused]"
	}

	if last := logger.Central().Window(1); len(last) > 0 {
		status += " | " + last[0]
	}

	if len(status) > chip8.Width {
		status = status[:chip8.Width]
	}

	return status
}
