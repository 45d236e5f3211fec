package chip8

import (
	"fmt"
)

/// IndexOverflow selects how ADD I, Vx reports overflow in VF.
///
type IndexOverflow int

const (
	/// IndexOverflowAddressSpace sets VF when I+Vx passes the end of
	/// the 12-bit address space, and clears it otherwise.
	///
	IndexOverflowAddressSpace IndexOverflow = iota

	/// IndexOverflowNone leaves VF untouched.
	///
	IndexOverflowNone
)

func (o IndexOverflow) String() string {
	switch o {
	case IndexOverflowAddressSpace:
		return "address-space"
	case IndexOverflowNone:
		return "none"
	}

	return fmt.Sprintf("IndexOverflow(%d)", int(o))
}

/// Quirks are the behaviours that differ between CHIP-8 interpreters.
/// The zero value is the modern convention.
///
type Quirks struct {
	/// ShiftUsesVY shifts Vy into Vx for SHR/SHL instead of shifting
	/// Vx in place (COSMAC VIP).
	///
	ShiftUsesVY bool

	/// LoadStoreIncrementsIndex leaves I pointing past the last
	/// register after LD [I], Vx and LD Vx, [I] (COSMAC VIP).
	///
	LoadStoreIncrementsIndex bool

	/// JumpUsesVX makes JP V0, nnn add V[n>>8] instead of V0 (CHIP-48).
	///
	JumpUsesVX bool

	/// LogicResetsFlag clears VF after OR, AND and XOR (COSMAC VIP).
	///
	LogicResetsFlag bool

	/// ClipSprites drops sprite rows that fall below the bottom edge
	/// instead of wrapping them to the top.
	///
	ClipSprites bool

	// IndexOverflow controls VF after ADD I, Vx.
	IndexOverflow IndexOverflow
}

// DefaultQuirks returns the modern interpreter behaviour.
func DefaultQuirks() Quirks {
	return Quirks{
		IndexOverflow: IndexOverflowAddressSpace,
	}
}

/// CosmacQuirks returns the behaviour of the original COSMAC VIP
/// interpreter.
///
func CosmacQuirks() Quirks {
	return Quirks{
		ShiftUsesVY:              true,
		LoadStoreIncrementsIndex: true,
		LogicResetsFlag:          true,
		ClipSprites:              true,
		IndexOverflow:            IndexOverflowNone,
	}
}

// Validate checks the quirks for unknown settings.
func (q Quirks) Validate() error {
	switch q.IndexOverflow {
	case IndexOverflowAddressSpace, IndexOverflowNone:
		return nil
	}

	return fmt.Errorf("invalid index overflow mode %d", int(q.IndexOverflow))
}
