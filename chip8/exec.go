package chip8

/// execute a decoded instruction. Each handler checks everything that
/// can fail before changing any state.
///
func (vm *CHIP_8) execute(inst Instruction) error {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case SysAddr:
		vm.sys(inst.NNN)
	case Clear:
		vm.cls()
	case Return:
		return vm.ret()
	case Jump:
		vm.jump(inst.NNN)
	case Call:
		return vm.call(inst.NNN)
	case SkipEqual:
		vm.skipIf(x, inst.KK)
	case SkipNotEqual:
		vm.skipIfNot(x, inst.KK)
	case SkipEqualRegister:
		vm.skipIfXY(x, y)
	case Load:
		vm.loadX(x, inst.KK)
	case Add:
		vm.addX(x, inst.KK)
	case LoadRegister:
		vm.loadXY(x, y)
	case OrRegister:
		vm.or(x, y)
	case AndRegister:
		vm.and(x, y)
	case XorRegister:
		vm.xor(x, y)
	case AddRegister:
		vm.addXY(x, y)
	case SubRegister:
		vm.subXY(x, y)
	case ShiftRightRegister:
		vm.shr(x, y)
	case SubReverseRegister:
		vm.subYX(x, y)
	case ShiftLeftRegister:
		vm.shl(x, y)
	case SkipNotEqualRegister:
		vm.skipIfNotXY(x, y)
	case SetIndexRegister:
		vm.loadI(inst.NNN)
	case JumpWithOffset:
		vm.jumpV0(inst.NNN)
	case Random:
		vm.rnd(x, inst.KK)
	case Draw:
		return vm.drw(x, y, inst.N)
	case SkipKeyPressed:
		vm.skipIfPressed(x)
	case SkipKeyNotPressed:
		vm.skipIfNotPressed(x)
	case LoadDelay:
		vm.loadXDT(x)
	case LoadNextKeyPress:
		vm.loadXK(x)
	case SetDelayTimer:
		vm.loadDTX(x)
	case SetSoundTimer:
		vm.loadSTX(x)
	case AddIndexRegister:
		vm.addIX(x)
	case IndexAtSprite:
		return vm.loadF(x)
	case BinaryCodeConversion:
		return vm.loadB(x)
	case StoreAllRegisters:
		return vm.saveRegs(x)
	case LoadAllRegisters:
		return vm.loadRegs(x)
	}

	return nil
}

/// SYS a - machine code routines on the COSMAC VIP. Ignored.
///
func (vm *CHIP_8) sys(a uint16) {}

/// CLS
///
func (vm *CHIP_8) cls() {
	vm.display.Clear()
}

/// RET
///
func (vm *CHIP_8) ret() error {
	pc, err := vm.stack.Pop()
	if err != nil {
		return err
	}

	vm.pc = pc

	return nil
}

/// JP a
///
func (vm *CHIP_8) jump(a uint16) {
	vm.pc = a
}

/// JP V0, a
///
func (vm *CHIP_8) jumpV0(a uint16) {
	offset := vm.v[0]

	// CHIP-48 reads the register from the high nibble of the address
	if vm.quirks.JumpUsesVX {
		offset = vm.v[a>>8&0xF]
	}

	vm.pc = a + uint16(offset)
}

/// CALL a
///
func (vm *CHIP_8) call(a uint16) error {
	if err := vm.stack.Push(vm.pc); err != nil {
		return err
	}

	vm.pc = a

	return nil
}

/// SE Vx, n
///
func (vm *CHIP_8) skipIf(x, b byte) {
	if vm.v[x] == b {
		vm.pc += 2
	}
}

/// SNE Vx, n
///
func (vm *CHIP_8) skipIfNot(x, b byte) {
	if vm.v[x] != b {
		vm.pc += 2
	}
}

/// SE Vx, Vy
///
func (vm *CHIP_8) skipIfXY(x, y byte) {
	if vm.v[x] == vm.v[y] {
		vm.pc += 2
	}
}

/// SNE Vx, Vy
///
func (vm *CHIP_8) skipIfNotXY(x, y byte) {
	if vm.v[x] != vm.v[y] {
		vm.pc += 2
	}
}

/// SKP Vx
///
func (vm *CHIP_8) skipIfPressed(x byte) {
	if vm.keypad.IsPressed(vm.v[x]) {
		vm.pc += 2
	}
}

/// SKNP Vx
///
func (vm *CHIP_8) skipIfNotPressed(x byte) {
	if !vm.keypad.IsPressed(vm.v[x]) {
		vm.pc += 2
	}
}

/// LD Vx, n
///
func (vm *CHIP_8) loadX(x, b byte) {
	vm.v[x] = b
}

/// LD Vx, Vy
///
func (vm *CHIP_8) loadXY(x, y byte) {
	vm.v[x] = vm.v[y]
}

/// LD Vx, DT
///
func (vm *CHIP_8) loadXDT(x byte) {
	vm.v[x] = vm.dt
}

/// LD DT, Vx
///
func (vm *CHIP_8) loadDTX(x byte) {
	vm.dt = vm.v[x]
}

/// LD ST, Vx
///
func (vm *CHIP_8) loadSTX(x byte) {
	vm.st = vm.v[x]
}

/// LD Vx, K. With no key down the program counter is rewound so the
/// same instruction runs again on the next step.
///
func (vm *CHIP_8) loadXK(x byte) {
	key, ok := vm.keypad.NextKey()
	if !ok {
		vm.keypad.waiting = true
		vm.pc -= 2
		return
	}

	vm.keypad.waiting = false
	vm.v[x] = key
}

/// LD I, a
///
func (vm *CHIP_8) loadI(a uint16) {
	vm.i = a
}

/// LD F, Vx. Only the hex digits have a glyph.
///
func (vm *CHIP_8) loadF(x byte) error {
	a, err := vm.memory.FontGlyph(vm.v[x])
	if err != nil {
		return err
	}

	vm.i = a

	return nil
}

/// LD B, Vx
///
func (vm *CHIP_8) loadB(x byte) error {
	n := vm.v[x]

	// hundreds, tens and ones are written together or not at all
	return vm.memory.Write(uint(vm.i), []byte{n / 100, n / 10 % 10, n % 10})
}

/// LD [I], Vx
///
func (vm *CHIP_8) saveRegs(x byte) error {
	if err := vm.memory.Write(uint(vm.i), vm.v[:x+1]); err != nil {
		return err
	}

	if vm.quirks.LoadStoreIncrementsIndex {
		vm.i += uint16(x) + 1
	}

	return nil
}

/// LD Vx, [I]
///
func (vm *CHIP_8) loadRegs(x byte) error {
	data, err := vm.memory.Read(uint(vm.i), int(x)+1)
	if err != nil {
		return err
	}

	copy(vm.v[:], data)

	if vm.quirks.LoadStoreIncrementsIndex {
		vm.i += uint16(x) + 1
	}

	return nil
}

/// OR Vx, Vy
///
func (vm *CHIP_8) or(x, y byte) {
	vm.v[x] |= vm.v[y]

	if vm.quirks.LogicResetsFlag {
		vm.v.SetFlag(false)
	}
}

/// AND Vx, Vy
///
func (vm *CHIP_8) and(x, y byte) {
	vm.v[x] &= vm.v[y]

	if vm.quirks.LogicResetsFlag {
		vm.v.SetFlag(false)
	}
}

/// XOR Vx, Vy
///
func (vm *CHIP_8) xor(x, y byte) {
	vm.v[x] ^= vm.v[y]

	if vm.quirks.LogicResetsFlag {
		vm.v.SetFlag(false)
	}
}

/// SHR Vx{, Vy}
///
func (vm *CHIP_8) shr(x, y byte) {
	src := vm.v[x]
	if vm.quirks.ShiftUsesVY {
		src = vm.v[y]
	}

	vm.v[x] = src >> 1
	vm.v.SetFlag(src&0x01 == 0x01)
}

/// SHL Vx{, Vy}
///
func (vm *CHIP_8) shl(x, y byte) {
	src := vm.v[x]
	if vm.quirks.ShiftUsesVY {
		src = vm.v[y]
	}

	vm.v[x] = src << 1
	vm.v.SetFlag(src&0x80 == 0x80)
}

/// ADD Vx, n
///
func (vm *CHIP_8) addX(x, b byte) {
	vm.v[x] += b
}

/// ADD Vx, Vy
///
func (vm *CHIP_8) addXY(x, y byte) {
	sum := uint(vm.v[x]) + uint(vm.v[y])

	// the flag is written last so it wins when x is VF
	vm.v[x] = byte(sum)
	vm.v.SetFlag(sum > 0xFF)
}

/// ADD I, Vx
///
func (vm *CHIP_8) addIX(x byte) {
	sum := uint(vm.i) + uint(vm.v[x])

	vm.i = uint16(sum)

	if vm.quirks.IndexOverflow == IndexOverflowAddressSpace {
		vm.v.SetFlag(sum > 0xFFF)
	}
}

/// SUB Vx, Vy
///
func (vm *CHIP_8) subXY(x, y byte) {
	a, b := vm.v[x], vm.v[y]

	vm.v[x] = a - b
	vm.v.SetFlag(a >= b)
}

/// SUBN Vx, Vy
///
func (vm *CHIP_8) subYX(x, y byte) {
	a, b := vm.v[x], vm.v[y]

	vm.v[x] = b - a
	vm.v.SetFlag(b >= a)
}

/// RND Vx, n
///
func (vm *CHIP_8) rnd(x, b byte) {
	vm.v[x] = byte(vm.rand.Intn(256)) & b
}

/// DRW Vx, Vy, n
///
func (vm *CHIP_8) drw(x, y, n byte) error {
	sprite, err := vm.memory.Read(uint(vm.i), int(n))
	if err != nil {
		return err
	}

	// the origin wraps, each row is clipped at the right edge
	sx := int(vm.v[x]) % Width
	sy := int(vm.v[y]) % Height

	collision := false

	for row, b := range sprite {
		if vm.quirks.ClipSprites && sy+row >= Height {
			break
		}

		if vm.display.DrawByte(b, sx, sy+row) {
			collision = true
		}
	}

	vm.v.SetFlag(collision)

	return nil
}
