package chip8

import "fmt"

/// String renders the instruction as assembly source that the asm
/// package accepts.
///
func (inst Instruction) String() string {
	x, y := inst.X&0xF, inst.Y&0xF

	switch inst.Op {
	case SysAddr:
		return fmt.Sprintf("SYS    #%03X", inst.NNN)
	case Clear:
		return "CLS"
	case Return:
		return "RET"
	case Jump:
		return fmt.Sprintf("JP     #%03X", inst.NNN)
	case Call:
		return fmt.Sprintf("CALL   #%03X", inst.NNN)
	case SkipEqual:
		return fmt.Sprintf("SE     V%X, #%02X", x, inst.KK)
	case SkipNotEqual:
		return fmt.Sprintf("SNE    V%X, #%02X", x, inst.KK)
	case SkipEqualRegister:
		return fmt.Sprintf("SE     V%X, V%X", x, y)
	case Load:
		return fmt.Sprintf("LD     V%X, #%02X", x, inst.KK)
	case Add:
		return fmt.Sprintf("ADD    V%X, #%02X", x, inst.KK)
	case LoadRegister:
		return fmt.Sprintf("LD     V%X, V%X", x, y)
	case OrRegister:
		return fmt.Sprintf("OR     V%X, V%X", x, y)
	case AndRegister:
		return fmt.Sprintf("AND    V%X, V%X", x, y)
	case XorRegister:
		return fmt.Sprintf("XOR    V%X, V%X", x, y)
	case AddRegister:
		return fmt.Sprintf("ADD    V%X, V%X", x, y)
	case SubRegister:
		return fmt.Sprintf("SUB    V%X, V%X", x, y)
	case ShiftRightRegister:
		return fmt.Sprintf("SHR    V%X, V%X", x, y)
	case SubReverseRegister:
		return fmt.Sprintf("SUBN   V%X, V%X", x, y)
	case ShiftLeftRegister:
		return fmt.Sprintf("SHL    V%X, V%X", x, y)
	case SkipNotEqualRegister:
		return fmt.Sprintf("SNE    V%X, V%X", x, y)
	case SetIndexRegister:
		return fmt.Sprintf("LD     I, #%03X", inst.NNN)
	case JumpWithOffset:
		return fmt.Sprintf("JP     V0, #%03X", inst.NNN)
	case Random:
		return fmt.Sprintf("RND    V%X, #%02X", x, inst.KK)
	case Draw:
		return fmt.Sprintf("DRW    V%X, V%X, %d", x, y, inst.N&0xF)
	case SkipKeyPressed:
		return fmt.Sprintf("SKP    V%X", x)
	case SkipKeyNotPressed:
		return fmt.Sprintf("SKNP   V%X", x)
	case LoadDelay:
		return fmt.Sprintf("LD     V%X, DT", x)
	case LoadNextKeyPress:
		return fmt.Sprintf("LD     V%X, K", x)
	case SetDelayTimer:
		return fmt.Sprintf("LD     DT, V%X", x)
	case SetSoundTimer:
		return fmt.Sprintf("LD     ST, V%X", x)
	case AddIndexRegister:
		return fmt.Sprintf("ADD    I, V%X", x)
	case IndexAtSprite:
		return fmt.Sprintf("LD     F, V%X", x)
	case BinaryCodeConversion:
		return fmt.Sprintf("LD     B, V%X", x)
	case StoreAllRegisters:
		return fmt.Sprintf("LD     [I], V%X", x)
	case LoadAllRegisters:
		return fmt.Sprintf("LD     V%X, [I]", x)
	}

	return "??"
}

/// Disassemble the instruction at an address in memory.
///
func (vm *CHIP_8) Disassemble(addr uint) string {
	word, err := vm.memory.Word(addr)
	if err != nil {
		return ""
	}

	// end of program memory?
	if word == 0 {
		return fmt.Sprintf("%04X -", addr)
	}

	inst, err := Decode(word)
	if err != nil {
		return fmt.Sprintf("%04X - ??     #%04X", addr, word)
	}

	return fmt.Sprintf("%04X - %s", addr, inst)
}
