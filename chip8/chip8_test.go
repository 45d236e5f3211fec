package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

var noKeys [16]bool

func newTestVM(quirks Quirks) *CHIP_8 {
	vm := New(quirks)
	vm.Seed(1)

	return vm
}

// poke places an instruction at the program counter
func poke(t *testing.T, vm *CHIP_8, word uint16) {
	t.Helper()

	assert.NoError(t, vm.memory.SetByte(uint(vm.pc), byte(word>>8)))
	assert.NoError(t, vm.memory.SetByte(uint(vm.pc)+1, byte(word)))
}

// exec runs a single instruction at the program counter
func exec(t *testing.T, vm *CHIP_8, word uint16) {
	t.Helper()

	poke(t, vm, word)
	assert.NoError(t, vm.Step(noKeys))
}

func TestNew(t *testing.T) {
	vm := New(DefaultQuirks())

	assert.Equal(t, uint16(ProgramStart), vm.PC())
	assert.Equal(t, uint16(0), vm.Index())
	assert.Equal(t, Registers{}, vm.Registers())
	assert.Equal(t, Frame{}, vm.Frame())
	assert.Equal(t, 0, len(vm.Stack()))
	assert.Equal(t, Running, vm.State())

	glyph, err := vm.ReadMemory(FontStart, GlyphSize)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}, glyph)
}

func TestSysAddrIsIgnored(t *testing.T) {
	vm := newTestVM(DefaultQuirks())

	exec(t, vm, 0x0123)

	assert.Equal(t, uint16(0x202), vm.PC())
	assert.Equal(t, Registers{}, vm.Registers())
	assert.Equal(t, int64(1), vm.Cycles())
}

func TestClear(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.display.DrawByte(0xFF, 0, 0)

	exec(t, vm, 0x00E0)

	assert.Equal(t, Frame{}, vm.Frame())
}

func TestJump(t *testing.T) {
	vm := newTestVM(DefaultQuirks())

	exec(t, vm, 0x1420)

	assert.Equal(t, uint16(0x420), vm.PC())
}

func TestCallReturn(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.pc = 0x360

	exec(t, vm, 0x2420)

	assert.Equal(t, uint16(0x420), vm.PC())
	assert.Equal(t, []uint16{0x362}, vm.Stack())

	exec(t, vm, 0x00EE)

	assert.Equal(t, uint16(0x362), vm.PC())
	assert.Equal(t, 0, len(vm.Stack()))
}

func TestReturnUnderflow(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	poke(t, vm, 0x00EE)

	err := vm.Step(noKeys)

	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(0x200), vm.PC())
	assert.Equal(t, int64(0), vm.Cycles())
}

func TestCallOverflow(t *testing.T) {
	vm := newTestVM(DefaultQuirks())

	// every call lands on the same call
	for i := 0; i < StackDepth; i++ {
		exec(t, vm, 0x2200)
	}

	err := vm.Step(noKeys)

	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint16(0x200), vm.PC())
	assert.Equal(t, StackDepth, len(vm.Stack()))
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		vx   byte
		vy   byte
		skip bool
	}{
		{"SE skips", 0x3CAB, 0xAB, 0, true},
		{"SE doesn't skip", 0x3CAB, 0xAA, 0, false},
		{"SNE skips", 0x4CAB, 0xAA, 0, true},
		{"SNE doesn't skip", 0x4CAB, 0xAB, 0, false},
		{"SE register skips", 0x5CB0, 0x42, 0x42, true},
		{"SE register doesn't skip", 0x5CB0, 0x42, 0x43, false},
		{"SNE register skips", 0x9CB0, 0x42, 0x43, true},
		{"SNE register doesn't skip", 0x9CB0, 0x42, 0x42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(DefaultQuirks())
			vm.v[0xC] = tt.vx
			vm.v[0xB] = tt.vy

			exec(t, vm, tt.word)

			if tt.skip {
				assert.Equal(t, uint16(0x204), vm.PC())
			} else {
				assert.Equal(t, uint16(0x202), vm.PC())
			}
		})
	}
}

func TestLoadAndAdd(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.v[0xF] = 0x55

	exec(t, vm, 0x6C0A)
	assert.Equal(t, byte(0x0A), vm.V(0xC))

	// wraps without touching the flag
	exec(t, vm, 0x7CFC)
	assert.Equal(t, byte(0x06), vm.V(0xC))
	assert.Equal(t, byte(0x55), vm.V(0xF))

	exec(t, vm, 0x80C0)
	assert.Equal(t, byte(0x06), vm.V(0x0))
}

func TestLogic(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		expected byte
	}{
		{"OR", 0x8011, 0xFF},
		{"AND", 0x8012, 0x22},
		{"XOR", 0x8013, 0xDD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(DefaultQuirks())
			vm.v[0x0] = 0x2F
			vm.v[0x1] = 0xF2
			vm.v[0xF] = 0x07

			exec(t, vm, tt.word)

			assert.Equal(t, tt.expected, vm.V(0x0))
			assert.Equal(t, byte(0xF2), vm.V(0x1))
			assert.Equal(t, byte(0x07), vm.V(0xF))
		})

		t.Run(tt.name+" resets flag", func(t *testing.T) {
			vm := newTestVM(Quirks{LogicResetsFlag: true})
			vm.v[0x0] = 0x2F
			vm.v[0x1] = 0xF2
			vm.v[0xF] = 0x07

			exec(t, vm, tt.word)

			assert.Equal(t, tt.expected, vm.V(0x0))
			assert.Equal(t, byte(0), vm.V(0xF))
		})
	}
}

func TestAddRegister(t *testing.T) {
	for _, a := range []byte{0x00, 0x01, 0x7F, 0x80, 0xAF, 0xFF} {
		for _, b := range []byte{0x00, 0x01, 0x50, 0x81, 0xFF} {
			vm := newTestVM(DefaultQuirks())
			vm.v[0x0] = a
			vm.v[0x1] = b

			exec(t, vm, 0x8014)

			assert.Equal(t, a+b, vm.V(0x0))
			assert.Equal(t, uint(a)+uint(b) > 0xFF, vm.V(0xF) == 1)
		}
	}
}

func TestAddRegisterIntoFlag(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.v[0xF] = 0xFF
	vm.v[0x1] = 0x02

	exec(t, vm, 0x8F14)

	assert.Equal(t, byte(1), vm.V(0xF))
}

func TestSubRegister(t *testing.T) {
	for _, a := range []byte{0x00, 0x01, 0x02, 0x7F, 0xFF} {
		for _, b := range []byte{0x00, 0x01, 0x02, 0x80, 0xFF} {
			vm := newTestVM(DefaultQuirks())
			vm.v[0x0] = a
			vm.v[0x1] = b

			exec(t, vm, 0x8015)

			assert.Equal(t, a-b, vm.V(0x0))
			assert.Equal(t, a >= b, vm.V(0xF) == 1)
			assert.Equal(t, b, vm.V(0x1))
		}
	}
}

func TestSubReverseRegister(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.v[0x0] = 0x01
	vm.v[0x1] = 0x02

	exec(t, vm, 0x8017)

	assert.Equal(t, byte(0x01), vm.V(0x0))
	assert.Equal(t, byte(1), vm.V(0xF))

	vm = newTestVM(DefaultQuirks())
	vm.v[0x0] = 0x0B
	vm.v[0x1] = 0x0A

	exec(t, vm, 0x8017)

	assert.Equal(t, byte(0xFF), vm.V(0x0))
	assert.Equal(t, byte(0), vm.V(0xF))
}

func TestShifts(t *testing.T) {
	tests := []struct {
		name   string
		quirks Quirks
		word   uint16
		vx     byte
		vy     byte
		result byte
		flag   byte
	}{
		{"SHR sets flag", DefaultQuirks(), 0x8016, 0x11, 0x00, 0x08, 1},
		{"SHR clears flag", DefaultQuirks(), 0x8016, 0x10, 0x00, 0x08, 0},
		{"SHL sets flag", DefaultQuirks(), 0x801E, 0x88, 0x00, 0x10, 1},
		{"SHL clears flag", DefaultQuirks(), 0x801E, 0x01, 0x00, 0x02, 0},
		{"SHR from VY", Quirks{ShiftUsesVY: true}, 0x8016, 0xFF, 0x04, 0x02, 0},
		{"SHL from VY", Quirks{ShiftUsesVY: true}, 0x801E, 0x00, 0x81, 0x02, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(tt.quirks)
			vm.v[0x0] = tt.vx
			vm.v[0x1] = tt.vy

			exec(t, vm, tt.word)

			assert.Equal(t, tt.result, vm.V(0x0))
			assert.Equal(t, tt.flag, vm.V(0xF))
		})
	}
}

func TestIndex(t *testing.T) {
	vm := newTestVM(DefaultQuirks())

	exec(t, vm, 0xA500)
	assert.Equal(t, uint16(0x500), vm.Index())

	vm.v[0x0] = 0x20
	exec(t, vm, 0xF01E)
	assert.Equal(t, uint16(0x520), vm.Index())
	assert.Equal(t, byte(0), vm.V(0xF))
}

func TestAddIndexOverflow(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.i = 0xFFF
	vm.v[0x0] = 0x01

	exec(t, vm, 0xF01E)

	assert.Equal(t, uint16(0x1000), vm.Index())
	assert.Equal(t, byte(1), vm.V(0xF))

	// with no overflow reporting the flag is untouched
	vm = newTestVM(Quirks{IndexOverflow: IndexOverflowNone})
	vm.i = 0xFFF
	vm.v[0x0] = 0x01
	vm.v[0xF] = 0x42

	exec(t, vm, 0xF01E)

	assert.Equal(t, uint16(0x1000), vm.Index())
	assert.Equal(t, byte(0x42), vm.V(0xF))
}

func TestJumpWithOffset(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.v[0x0] = 0x20
	vm.v[0x5] = 0x30

	exec(t, vm, 0xB500)
	assert.Equal(t, uint16(0x520), vm.PC())

	vm = newTestVM(Quirks{JumpUsesVX: true})
	vm.v[0x0] = 0x20
	vm.v[0x5] = 0x30

	exec(t, vm, 0xB500)
	assert.Equal(t, uint16(0x530), vm.PC())
}

func TestRandom(t *testing.T) {
	vm := newTestVM(DefaultQuirks())

	for i := 0; i < 100; i++ {
		vm.pc = ProgramStart

		exec(t, vm, 0xC00F)
		assert.True(t, vm.V(0x0) <= 0x0F)

		vm.pc = ProgramStart

		exec(t, vm, 0xC100)
		assert.Equal(t, byte(0), vm.V(0x1))
	}

	// the same seed gives the same sequence
	a, b := newTestVM(DefaultQuirks()), newTestVM(DefaultQuirks())
	exec(t, a, 0xC0FF)
	exec(t, b, 0xC0FF)
	assert.Equal(t, a.V(0x0), b.V(0x0))
}

func TestDraw(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.i = FontStart

	exec(t, vm, 0xD015)

	frame := vm.Frame()
	assert.Equal(t, byte(0), vm.V(0xF))
	assert.Equal(t, [8]byte{1, 1, 1, 1, 0, 0, 0, 0}, [8]byte(frame[0][:8]))
	assert.Equal(t, [8]byte{1, 0, 0, 1, 0, 0, 0, 0}, [8]byte(frame[1][:8]))

	// drawing the same sprite again erases it
	vm.pc = ProgramStart

	exec(t, vm, 0xD015)

	assert.Equal(t, byte(1), vm.V(0xF))
	assert.Equal(t, Frame{}, vm.Frame())
}

func TestDrawWrapsOrigin(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	assert.NoError(t, vm.memory.SetByte(0x300, 0x80))
	vm.i = 0x300
	vm.v[0x0] = Width + 3
	vm.v[0x1] = Height + 2

	exec(t, vm, 0xD011)

	assert.Equal(t, byte(1), vm.display.Pixel(3, 2))
}

func TestDrawClipsRight(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	assert.NoError(t, vm.memory.SetByte(0x300, 0xFF))
	vm.i = 0x300
	vm.v[0x0] = 60

	exec(t, vm, 0xD011)

	frame := vm.Frame()
	for x := 60; x < Width; x++ {
		assert.Equal(t, byte(1), frame[0][x])
	}
	for x := 0; x < 4; x++ {
		assert.Equal(t, byte(0), frame[0][x])
	}
}

func TestDrawBottomEdge(t *testing.T) {
	tests := []struct {
		name   string
		quirks Quirks
		top    byte
	}{
		{"wraps to the top", DefaultQuirks(), 1},
		{"clipped", Quirks{ClipSprites: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(tt.quirks)
			assert.NoError(t, vm.memory.Write(0x300, []byte{0x80, 0x80}))
			vm.i = 0x300
			vm.v[0x1] = Height - 1

			exec(t, vm, 0xD012)

			assert.Equal(t, byte(1), vm.display.Pixel(0, Height-1))
			assert.Equal(t, tt.top, vm.display.Pixel(0, 0))
		})
	}
}

func TestDrawOutOfRange(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.i = MemorySize - 2
	poke(t, vm, 0xD015)

	err := vm.Step(noKeys)

	var oob *MemoryOutOfRangeError
	assert.True(t, errors.As(err, &oob))
	assert.Equal(t, Frame{}, vm.Frame())
	assert.Equal(t, uint16(0x200), vm.PC())
}

func TestSkipKeys(t *testing.T) {
	keys := [16]bool{0xA: true}

	vm := newTestVM(DefaultQuirks())
	vm.v[0x1] = 0xA
	poke(t, vm, 0xE19E)
	assert.NoError(t, vm.Step(keys))
	assert.Equal(t, uint16(0x204), vm.PC())

	vm = newTestVM(DefaultQuirks())
	vm.v[0x1] = 0xA
	poke(t, vm, 0xE1A1)
	assert.NoError(t, vm.Step(keys))
	assert.Equal(t, uint16(0x202), vm.PC())

	// keys past F are never pressed
	vm = newTestVM(DefaultQuirks())
	vm.v[0x1] = 0x1A
	poke(t, vm, 0xE1A1)
	assert.NoError(t, vm.Step([16]bool{0xA: true}))
	assert.Equal(t, uint16(0x204), vm.PC())
}

func TestTimers(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.v[0x0] = 2

	exec(t, vm, 0xF015)
	exec(t, vm, 0xF018)
	assert.Equal(t, byte(2), vm.DelayTimer())
	assert.Equal(t, byte(2), vm.SoundTimer())

	vm.Tick()
	exec(t, vm, 0xF107)
	assert.Equal(t, byte(1), vm.V(0x1))

	// timers stop at zero
	vm.Tick()
	vm.Tick()
	assert.Equal(t, byte(0), vm.DelayTimer())
	assert.Equal(t, byte(0), vm.SoundTimer())
}

func TestWaitForKey(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	poke(t, vm, 0xF30A)

	for i := 0; i < 3; i++ {
		assert.NoError(t, vm.Step(noKeys))
		assert.Equal(t, uint16(0x200), vm.PC())
		assert.Equal(t, AwaitingKey, vm.State())
	}

	// the lowest key pressed is taken
	assert.NoError(t, vm.Step([16]bool{0x7: true, 0xA: true}))
	assert.Equal(t, byte(0x7), vm.V(0x3))
	assert.Equal(t, uint16(0x202), vm.PC())
	assert.Equal(t, Running, vm.State())
}

func TestFontGlyph(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.v[0x0] = 0xF

	exec(t, vm, 0xF029)
	assert.Equal(t, uint16(0x9B), vm.Index())

	vm.v[0x0] = 0x10
	poke(t, vm, 0xF029)

	err := vm.Step(noKeys)

	var font *InvalidFontIndexError
	assert.True(t, errors.As(err, &font))
	assert.Equal(t, byte(0x10), font.Digit)
	assert.Equal(t, uint16(0x9B), vm.Index())
}

func TestBinaryCodeConversion(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.v[0x0] = 152
	vm.i = 0x300

	exec(t, vm, 0xF033)

	data, err := vm.ReadMemory(0x300, 3)
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 5, 2}, data)
}

func TestBinaryCodeConversionOutOfRange(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.v[0x0] = 152
	vm.i = MemorySize - 2
	poke(t, vm, 0xF033)

	err := vm.Step(noKeys)

	var oob *MemoryOutOfRangeError
	assert.True(t, errors.As(err, &oob))

	// nothing was written
	data, err := vm.ReadMemory(MemorySize-2, 2)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, data)
}

func TestStoreLoadRegisters(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	for i := range vm.v {
		vm.v[i] = byte(i + 1)
	}
	vm.i = 0x300

	exec(t, vm, 0xF355)

	data, err := vm.ReadMemory(0x300, 5)
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 0}, data)
	assert.Equal(t, uint16(0x300), vm.Index())

	vm.v = Registers{}

	exec(t, vm, 0xF265)

	assert.Equal(t, Registers{1, 2, 3}, vm.Registers())
	assert.Equal(t, uint16(0x300), vm.Index())
}

func TestStoreLoadRegistersIncrementIndex(t *testing.T) {
	vm := newTestVM(Quirks{LoadStoreIncrementsIndex: true})
	vm.v[0x0] = 0xAA
	vm.i = 0x300

	exec(t, vm, 0xF355)
	assert.Equal(t, uint16(0x304), vm.Index())

	vm.i = 0x300

	exec(t, vm, 0xF065)
	assert.Equal(t, uint16(0x301), vm.Index())
	assert.Equal(t, byte(0xAA), vm.V(0x0))
}

func TestStoreRegistersOutOfRange(t *testing.T) {
	vm := newTestVM(Quirks{LoadStoreIncrementsIndex: true})
	vm.v[0x0] = 0xAA
	vm.i = MemorySize - 1
	poke(t, vm, 0xF155)

	err := vm.Step(noKeys)

	var oob *MemoryOutOfRangeError
	assert.True(t, errors.As(err, &oob))
	assert.Equal(t, uint16(MemorySize-1), vm.Index())

	b, err := vm.memory.Byte(MemorySize - 1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)
}

func TestUnknownOpcode(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	poke(t, vm, 0x5001)

	err := vm.Step(noKeys)

	var unknown *UnknownOpcodeError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, uint16(0x5001), unknown.Word)
	assert.Equal(t, uint16(0x200), vm.PC())
}

func TestFetchPastEndOfMemory(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	vm.pc = MemorySize - 1

	err := vm.Step(noKeys)

	var oob *MemoryOutOfRangeError
	assert.True(t, errors.As(err, &oob))
	assert.Equal(t, uint(MemorySize), oob.Address)
	assert.Equal(t, uint16(MemorySize-1), vm.PC())
}

func TestLoadROMAndReset(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	assert.NoError(t, vm.LoadROM([]byte{0x6A, 0x3C, 0x12, 0x00}))

	assert.NoError(t, vm.Step(noKeys))
	assert.NoError(t, vm.Step(noKeys))
	assert.NoError(t, vm.memory.SetByte(0x200, 0xFF))

	vm.Reset()

	assert.Equal(t, uint16(0x200), vm.PC())
	assert.Equal(t, byte(0), vm.V(0xA))
	assert.Equal(t, int64(0), vm.Cycles())

	b, err := vm.memory.Byte(0x200)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x6A), b)
}

func TestLoadROMTooLarge(t *testing.T) {
	vm := newTestVM(DefaultQuirks())
	assert.NoError(t, vm.LoadROM([]byte{0x6A, 0x3C}))

	err := vm.LoadROM(make([]byte, MemorySize-ProgramStart))

	var large *RomTooLargeError
	assert.True(t, errors.As(err, &large))
	assert.Equal(t, MemorySize-ProgramStart, large.Size)

	// the previous program is still loaded
	assert.NoError(t, vm.Step(noKeys))
	assert.Equal(t, byte(0x3C), vm.V(0xA))
}
