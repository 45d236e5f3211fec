package chip8

import (
	"errors"
	"fmt"
)

var (
	/// ErrStackOverflow is returned when a CALL is made with all 16
	/// return addresses already in use.
	///
	ErrStackOverflow = errors.New("stack overflow")

	/// ErrStackUnderflow is returned by a RET with an empty stack.
	///
	ErrStackUnderflow = errors.New("stack underflow")
)

/// MemoryOutOfRangeError is returned whenever an address at or past
/// the end of memory would be read or written.
///
type MemoryOutOfRangeError struct {
	Address uint
}

func (e *MemoryOutOfRangeError) Error() string {
	return fmt.Sprintf("memory address #%04X out of range", e.Address)
}

/// RomTooLargeError is returned when a ROM doesn't fit in program memory.
///
type RomTooLargeError struct {
	Size int
}

func (e *RomTooLargeError) Error() string {
	return fmt.Sprintf("rom too large: %d bytes (limit %d)", e.Size, MemorySize-ProgramStart-1)
}

/// InvalidFontIndexError is returned when a font glyph is requested for
/// a value that isn't a hex digit.
///
type InvalidFontIndexError struct {
	Digit byte
}

func (e *InvalidFontIndexError) Error() string {
	return fmt.Sprintf("invalid font index #%02X", e.Digit)
}

/// UnknownOpcodeError is returned when an instruction word does not
/// decode to any known instruction.
///
type UnknownOpcodeError struct {
	Word uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode #%04X", e.Word)
}
