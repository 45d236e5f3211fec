package chip8

const (
	/// MemorySize is the number of addressable bytes.
	///
	MemorySize = 0x1000

	/// ProgramStart is where ROMs are loaded and execution begins.
	///
	ProgramStart = 0x200

	/// FontStart is where the 16 hex digit sprites are stored.
	///
	FontStart = 0x50

	/// GlyphSize is the number of bytes (rows) in each font sprite.
	///
	GlyphSize = 5
)

/// Font sprites for the hex digits 0-F, each 4 pixels wide and
/// 5 rows tall.
///
var font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

/// Memory is the 4 KiB address space of the CHIP-8. All access is
/// bounds checked; nothing at or past MemorySize is ever touched.
///
type Memory struct {
	bytes [MemorySize]byte
}

/// NewMemory returns zeroed memory with the font sprites loaded.
///
func NewMemory() *Memory {
	m := &Memory{}
	copy(m.bytes[FontStart:], font[:])

	return m
}

// Byte returns the byte at addr.
func (m *Memory) Byte(addr uint) (byte, error) {
	if addr >= MemorySize {
		return 0, &MemoryOutOfRangeError{Address: addr}
	}

	return m.bytes[addr], nil
}

// SetByte writes b at addr.
func (m *Memory) SetByte(addr uint, b byte) error {
	if addr >= MemorySize {
		return &MemoryOutOfRangeError{Address: addr}
	}

	m.bytes[addr] = b

	return nil
}

/// Word returns the big-endian 16-bit value at addr and addr+1.
///
func (m *Memory) Word(addr uint) (uint16, error) {
	hi, err := m.Byte(addr)
	if err != nil {
		return 0, err
	}

	lo, err := m.Byte(addr + 1)
	if err != nil {
		return 0, err
	}

	return uint16(hi)<<8 | uint16(lo), nil
}

/// Read returns a copy of n bytes starting at addr. The whole range
/// is checked before anything is copied.
///
func (m *Memory) Read(addr uint, n int) ([]byte, error) {
	if err := m.checkRange(addr, n); err != nil {
		return nil, err
	}

	data := make([]byte, n)
	copy(data, m.bytes[addr:])

	return data, nil
}

/// Write copies data into memory at addr. Nothing is written unless
/// the whole range fits.
///
func (m *Memory) Write(addr uint, data []byte) error {
	if err := m.checkRange(addr, len(data)); err != nil {
		return err
	}

	copy(m.bytes[addr:], data)

	return nil
}

/// LoadROM copies a program to ProgramStart. Programs must leave at
/// least one byte free at the end of memory.
///
func (m *Memory) LoadROM(rom []byte) error {
	if len(rom) >= MemorySize-ProgramStart {
		return &RomTooLargeError{Size: len(rom)}
	}

	copy(m.bytes[ProgramStart:], rom)

	return nil
}

/// FontGlyph returns the address of the sprite for a hex digit.
///
func (m *Memory) FontGlyph(digit byte) (uint16, error) {
	if digit >= 16 {
		return 0, &InvalidFontIndexError{Digit: digit}
	}

	return FontStart + uint16(digit)*GlyphSize, nil
}

// Bytes returns a copy of all of memory.
func (m *Memory) Bytes() [MemorySize]byte {
	return m.bytes
}

// reports the first address of [addr, addr+n) that is out of range
func (m *Memory) checkRange(addr uint, n int) error {
	if n <= 0 {
		return nil
	}

	if addr >= MemorySize {
		return &MemoryOutOfRangeError{Address: addr}
	}

	if addr+uint(n) > MemorySize {
		return &MemoryOutOfRangeError{Address: MemorySize}
	}

	return nil
}
