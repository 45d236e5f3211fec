package chip8

/// StackDepth is the maximum number of nested subroutine calls.
///
const StackDepth = 16

/// Stack of return addresses for CALL and RET.
///
type Stack struct {
	frames [StackDepth]uint16
	sp     int
}

/// Push a return address. Fails without changing the stack when it
/// is already full.
///
func (s *Stack) Push(addr uint16) error {
	if s.sp == StackDepth {
		return ErrStackOverflow
	}

	s.frames[s.sp] = addr
	s.sp++

	return nil
}

/// Pop the most recently pushed return address.
///
func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}

	s.sp--

	return s.frames[s.sp], nil
}

// Len is the number of addresses on the stack.
func (s *Stack) Len() int {
	return s.sp
}

// Frames returns the pushed addresses, oldest first.
func (s *Stack) Frames() []uint16 {
	frames := make([]uint16, s.sp)
	copy(frames, s.frames[:s.sp])

	return frames
}

// Reset empties the stack.
func (s *Stack) Reset() {
	s.sp = 0
}
