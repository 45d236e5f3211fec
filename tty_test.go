package main

import (
	"strings"
	"testing"
	"time"

	"github.com/massung/chipper/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestRenderFrame(t *testing.T) {
	var frame chip8.Frame

	frame[0][0] = 1
	frame[1][0] = 1
	frame[0][1] = 1
	frame[1][2] = 1

	lines := strings.Split(renderFrame(frame), "\r\n")

	// 16 lines of text and a trailing empty string
	assert.Equal(t, chip8.Height/2+1, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "█▀▄ "))
	assert.Equal(t, chip8.Width, len([]rune(lines[0])))
	assert.Equal(t, strings.Repeat(" ", chip8.Width), lines[1])
}

func TestTermKeys(t *testing.T) {
	now := time.Now()
	keys := &termKeys{}

	assert.True(t, keys.press('w', now))
	assert.True(t, keys.press('V', now))
	assert.False(t, keys.press('p', now))

	held := keys.held(now)
	assert.True(t, held[0x5])
	assert.True(t, held[0xF])
	assert.False(t, held[0x0])

	// released once the hold time passes
	held = keys.held(now.Add(keyHold))
	assert.False(t, held[0x5])
}

func TestHandleTermKey(t *testing.T) {
	start := time.Now()
	emu := NewEmulator(testOptions(), start)
	assert.NoError(t, emu.Load(writeFile(t, "load.ch8", []byte{0x6A, 0x3C})))

	keys := &termKeys{}

	assert.False(t, handleTermKey(emu, keys, ' ', start))
	assert.True(t, emu.Paused)

	assert.False(t, handleTermKey(emu, keys, '\t', start))
	assert.Equal(t, uint16(0x202), emu.VM.PC())

	assert.False(t, handleTermKey(emu, keys, 0x7F, start))
	assert.Equal(t, uint16(0x200), emu.VM.PC())

	assert.False(t, handleTermKey(emu, keys, ']', start))
	assert.Equal(t, 660, emu.Speed())

	assert.False(t, handleTermKey(emu, keys, '1', start))
	assert.True(t, keys.held(start)[0x1])

	assert.True(t, handleTermKey(emu, keys, 0x03, start))
}
