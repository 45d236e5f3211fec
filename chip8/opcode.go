package chip8

/// Op identifies one of the 35 CHIP-8 instructions.
///
type Op int

const (
	SysAddr Op = iota
	Clear
	Return
	Jump
	Call
	SkipEqual
	SkipNotEqual
	SkipEqualRegister
	Load
	Add
	LoadRegister
	OrRegister
	AndRegister
	XorRegister
	AddRegister
	SubRegister
	ShiftRightRegister
	SubReverseRegister
	ShiftLeftRegister
	SkipNotEqualRegister
	SetIndexRegister
	JumpWithOffset
	Random
	Draw
	SkipKeyPressed
	SkipKeyNotPressed
	LoadDelay
	LoadNextKeyPress
	SetDelayTimer
	SetSoundTimer
	AddIndexRegister
	IndexAtSprite
	BinaryCodeConversion
	StoreAllRegisters
	LoadAllRegisters

	opCount
)

var opNames = [opCount]string{
	SysAddr:              "SysAddr",
	Clear:                "Clear",
	Return:               "Return",
	Jump:                 "Jump",
	Call:                 "Call",
	SkipEqual:            "SkipEqual",
	SkipNotEqual:         "SkipNotEqual",
	SkipEqualRegister:    "SkipEqualRegister",
	Load:                 "Load",
	Add:                  "Add",
	LoadRegister:         "LoadRegister",
	OrRegister:           "OrRegister",
	AndRegister:          "AndRegister",
	XorRegister:          "XorRegister",
	AddRegister:          "AddRegister",
	SubRegister:          "SubRegister",
	ShiftRightRegister:   "ShiftRightRegister",
	SubReverseRegister:   "SubReverseRegister",
	ShiftLeftRegister:    "ShiftLeftRegister",
	SkipNotEqualRegister: "SkipNotEqualRegister",
	SetIndexRegister:     "SetIndexRegister",
	JumpWithOffset:       "JumpWithOffset",
	Random:               "Random",
	Draw:                 "Draw",
	SkipKeyPressed:       "SkipKeyPressed",
	SkipKeyNotPressed:    "SkipKeyNotPressed",
	LoadDelay:            "LoadDelay",
	LoadNextKeyPress:     "LoadNextKeyPress",
	SetDelayTimer:        "SetDelayTimer",
	SetSoundTimer:        "SetSoundTimer",
	AddIndexRegister:     "AddIndexRegister",
	IndexAtSprite:        "IndexAtSprite",
	BinaryCodeConversion: "BinaryCodeConversion",
	StoreAllRegisters:    "StoreAllRegisters",
	LoadAllRegisters:     "LoadAllRegisters",
}

// String returns the name of the operation.
func (op Op) String() string {
	if op < 0 || op >= opCount {
		return "Op(?)"
	}

	return opNames[op]
}

/// Instruction is a decoded instruction word. Every operand field is
/// extracted regardless of the operation; only the fields the
/// operation uses are meaningful.
///
type Instruction struct {
	Op Op

	/// X and Y are register indices (bits 11-8 and 7-4).
	///
	X, Y byte

	/// N is the low nibble, KK the low byte.
	///
	N, KK byte

	/// NNN is the low 12 bits, an address.
	///
	NNN uint16
}

/// Decode an instruction word. Every 16-bit word either decodes to
/// one of the known instructions or returns an UnknownOpcodeError.
///
func Decode(word uint16) (Instruction, error) {
	inst := Instruction{
		X:   byte(word >> 8 & 0xF),
		Y:   byte(word >> 4 & 0xF),
		N:   byte(word & 0xF),
		KK:  byte(word & 0xFF),
		NNN: word & 0xFFF,
	}

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			inst.Op = Clear
		case 0x00EE:
			inst.Op = Return
		default:
			inst.Op = SysAddr
		}
	case 0x1:
		inst.Op = Jump
	case 0x2:
		inst.Op = Call
	case 0x3:
		inst.Op = SkipEqual
	case 0x4:
		inst.Op = SkipNotEqual
	case 0x5:
		if inst.N != 0 {
			return inst, &UnknownOpcodeError{Word: word}
		}
		inst.Op = SkipEqualRegister
	case 0x6:
		inst.Op = Load
	case 0x7:
		inst.Op = Add
	case 0x8:
		switch inst.N {
		case 0x0:
			inst.Op = LoadRegister
		case 0x1:
			inst.Op = OrRegister
		case 0x2:
			inst.Op = AndRegister
		case 0x3:
			inst.Op = XorRegister
		case 0x4:
			inst.Op = AddRegister
		case 0x5:
			inst.Op = SubRegister
		case 0x6:
			inst.Op = ShiftRightRegister
		case 0x7:
			inst.Op = SubReverseRegister
		case 0xE:
			inst.Op = ShiftLeftRegister
		default:
			return inst, &UnknownOpcodeError{Word: word}
		}
	case 0x9:
		if inst.N != 0 {
			return inst, &UnknownOpcodeError{Word: word}
		}
		inst.Op = SkipNotEqualRegister
	case 0xA:
		inst.Op = SetIndexRegister
	case 0xB:
		inst.Op = JumpWithOffset
	case 0xC:
		inst.Op = Random
	case 0xD:
		inst.Op = Draw
	case 0xE:
		switch inst.KK {
		case 0x9E:
			inst.Op = SkipKeyPressed
		case 0xA1:
			inst.Op = SkipKeyNotPressed
		default:
			return inst, &UnknownOpcodeError{Word: word}
		}
	case 0xF:
		switch inst.KK {
		case 0x07:
			inst.Op = LoadDelay
		case 0x0A:
			inst.Op = LoadNextKeyPress
		case 0x15:
			inst.Op = SetDelayTimer
		case 0x18:
			inst.Op = SetSoundTimer
		case 0x1E:
			inst.Op = AddIndexRegister
		case 0x29:
			inst.Op = IndexAtSprite
		case 0x33:
			inst.Op = BinaryCodeConversion
		case 0x55:
			inst.Op = StoreAllRegisters
		case 0x65:
			inst.Op = LoadAllRegisters
		default:
			return inst, &UnknownOpcodeError{Word: word}
		}
	}

	return inst, nil
}

/// Encode packs the instruction back into a word. Only the operand
/// fields used by the operation are read, so Encode(Decode(w)) == w
/// for every decodable word.
///
func (inst Instruction) Encode() uint16 {
	x := uint16(inst.X&0xF) << 8
	y := uint16(inst.Y&0xF) << 4
	n := uint16(inst.N & 0xF)
	kk := uint16(inst.KK)
	nnn := inst.NNN & 0xFFF

	switch inst.Op {
	case SysAddr:
		return nnn
	case Clear:
		return 0x00E0
	case Return:
		return 0x00EE
	case Jump:
		return 0x1000 | nnn
	case Call:
		return 0x2000 | nnn
	case SkipEqual:
		return 0x3000 | x | kk
	case SkipNotEqual:
		return 0x4000 | x | kk
	case SkipEqualRegister:
		return 0x5000 | x | y
	case Load:
		return 0x6000 | x | kk
	case Add:
		return 0x7000 | x | kk
	case LoadRegister:
		return 0x8000 | x | y
	case OrRegister:
		return 0x8001 | x | y
	case AndRegister:
		return 0x8002 | x | y
	case XorRegister:
		return 0x8003 | x | y
	case AddRegister:
		return 0x8004 | x | y
	case SubRegister:
		return 0x8005 | x | y
	case ShiftRightRegister:
		return 0x8006 | x | y
	case SubReverseRegister:
		return 0x8007 | x | y
	case ShiftLeftRegister:
		return 0x800E | x | y
	case SkipNotEqualRegister:
		return 0x9000 | x | y
	case SetIndexRegister:
		return 0xA000 | nnn
	case JumpWithOffset:
		return 0xB000 | nnn
	case Random:
		return 0xC000 | x | kk
	case Draw:
		return 0xD000 | x | y | n
	case SkipKeyPressed:
		return 0xE09E | x
	case SkipKeyNotPressed:
		return 0xE0A1 | x
	case LoadDelay:
		return 0xF007 | x
	case LoadNextKeyPress:
		return 0xF00A | x
	case SetDelayTimer:
		return 0xF015 | x
	case SetSoundTimer:
		return 0xF018 | x
	case AddIndexRegister:
		return 0xF01E | x
	case IndexAtSprite:
		return 0xF029 | x
	case BinaryCodeConversion:
		return 0xF033 | x
	case StoreAllRegisters:
		return 0xF055 | x
	case LoadAllRegisters:
		return 0xF065 | x
	}

	panic("encode: invalid op " + inst.Op.String())
}
