package chip8

/// FlagRegister is the index of VF, written by arithmetic and draw
/// instructions.
///
const FlagRegister = 0xF

/// Registers are the 16 general purpose V-registers.
///
type Registers [16]byte

// Get returns Vx. Indices past VF panic.
func (r *Registers) Get(x byte) byte {
	return r[x]
}

// Set writes Vx.
func (r *Registers) Set(x byte, b byte) {
	r[x] = b
}

// SetFlag writes 1 or 0 into VF.
func (r *Registers) SetFlag(f bool) {
	if f {
		r[FlagRegister] = 1
	} else {
		r[FlagRegister] = 0
	}
}

// Flag returns VF.
func (r *Registers) Flag() byte {
	return r[FlagRegister]
}
