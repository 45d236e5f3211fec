/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package asm

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"

	"github.com/massung/chipper/chip8"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at 0x200.
	///
	ROM []byte

	/// Labels maps each label to its address or EQU value.
	///
	Labels map[string]int

	// ROM offsets of 12-bit operands that reference a label not yet
	// defined when they were assembled
	unresolved map[int]string
}

type assembler func(a *Assembly, tokens []token) chip8.Instruction

var instructions = map[string]assembler{
	"CLS":  (*Assembly).assembleCLS,
	"RET":  (*Assembly).assembleRET,
	"SYS":  (*Assembly).assembleSYS,
	"JP":   (*Assembly).assembleJP,
	"CALL": (*Assembly).assembleCALL,
	"SE":   (*Assembly).assembleSE,
	"SNE":  (*Assembly).assembleSNE,
	"SKP":  (*Assembly).assembleSKP,
	"SKNP": (*Assembly).assembleSKNP,
	"LD":   (*Assembly).assembleLD,
	"ADD":  (*Assembly).assembleADD,
	"OR":   (*Assembly).assembleOR,
	"AND":  (*Assembly).assembleAND,
	"XOR":  (*Assembly).assembleXOR,
	"SUB":  (*Assembly).assembleSUB,
	"SUBN": (*Assembly).assembleSUBN,
	"SHR":  (*Assembly).assembleSHR,
	"SHL":  (*Assembly).assembleSHL,
	"RND":  (*Assembly).assembleRND,
	"DRW":  (*Assembly).assembleDRW,
}

/// Assemble CHIP-8 source code. Source is case-insensitive. Labels
/// begin with a '.' in the first column and every other line must be
/// indented. Errors report the line they occurred on.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	out = &Assembly{
		ROM:        make([]byte, chip8.ProgramStart, chip8.MemorySize),
		Labels:     make(map[string]int),
		unresolved: make(map[int]string),
	}

	// handle panics during assembly
	defer func() {
		if r := recover(); r != nil {
			if line > 0 {
				err = fmt.Errorf("line %d - %v", line, r)
			} else {
				err = fmt.Errorf("%v", r)
			}

			out = nil
		}
	}()

	scanner := bufio.NewScanner(bytes.NewReader(bytes.ToUpper(program)))

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})
	}

	line = 0

	if err := scanner.Err(); err != nil {
		panic(err)
	}

	out.resolve()

	// drop the reserved 512 bytes
	out.ROM = out.ROM[chip8.ProgramStart:]

	return out, nil
}

/// Patch every forward reference with its label's address.
///
func (a *Assembly) resolve() {
	offsets := make([]int, 0, len(a.unresolved))
	for offset := range a.unresolved {
		offsets = append(offsets, offset)
	}

	sort.Ints(offsets)

	for _, offset := range offsets {
		label := a.unresolved[offset]

		v, ok := a.Labels[label]
		if !ok {
			panic(fmt.Errorf("unresolved label: %s", label))
		}

		if v < 0 || v > 0xFFF {
			panic(fmt.Errorf("label out of range: %s", label))
		}

		// only the 12-bit address operand is replaced
		a.ROM[offset] = a.ROM[offset]&0xF0 | byte(v>>8)
		a.ROM[offset+1] = byte(v)
	}
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	if t.typ == tokenLabel {
		t = a.assembleLabel(t.id, s)
	}

	switch t.typ {
	case tokenInstruction:
		a.assembleInstruction(t.id, s)
	case tokenEnd:
	default:
		panic("unexpected token")
	}
}

/// Define a label at the current address, or to a constant with EQU.
///
func (a *Assembly) assembleLabel(label string, s *tokenScanner) token {
	if _, exists := a.Labels[label]; exists {
		panic(fmt.Errorf("duplicate label: %s", label))
	}

	a.Labels[label] = len(a.ROM)

	t := s.scanToken()

	if t.typ == tokenEqu {
		if v := s.scanToken(); v.typ == tokenLit {
			a.Labels[label] = v.val

			if t = s.scanToken(); t.typ == tokenEnd {
				return t
			}
		}

		panic("illegal label assignment")
	}

	return t
}

/// Compile a single instruction or directive into the assembly.
///
func (a *Assembly) assembleInstruction(mnemonic string, s *tokenScanner) {
	tokens := s.scanOperands()

	switch mnemonic {
	case "BYTE":
		a.emit(a.assembleBYTE(tokens)...)
	case "WORD":
		a.emit(a.assembleWORD(tokens)...)
	case "ALIGN":
		a.emit(a.assembleALIGN(tokens)...)
	case "PAD":
		a.emit(a.assemblePAD(tokens)...)
	default:
		w := instructions[mnemonic](a, tokens).Encode()

		a.emit(byte(w>>8), byte(w))
	}
}

// emit appends bytes to the rom
func (a *Assembly) emit(b ...byte) {
	if len(a.ROM)+len(b) >= chip8.MemorySize {
		panic("program too large")
	}

	a.ROM = append(a.ROM, b...)
}

/// Expand a label reference into a literal. References to labels not
/// yet defined are recorded at the given ROM offset and resolved once
/// the whole program has been assembled.
///
func (a *Assembly) assembleOperand(t token, offset int) token {
	if t.typ != tokenRef {
		return t
	}

	if v, exists := a.Labels[t.id]; exists {
		return token{typ: tokenLit, val: v}
	}

	a.unresolved[offset] = t.id

	return token{typ: tokenLit, forward: true}
}

/// Match the desired token types with a list of operands, expanding
/// any label references.
///
func (a *Assembly) assembleOperands(tokens []token, m ...tokenType) ([]token, bool) {
	if len(tokens) != len(m) {
		return nil, false
	}

	ops := make([]token, 0, len(m))

	for i, typ := range m {
		t := a.assembleOperand(tokens[i], len(a.ROM))

		if t.typ != typ {
			return nil, false
		}

		ops = append(ops, t)
	}

	return ops, true
}

// 12-bit address operand
func address(t token) uint16 {
	if t.val < 0 || t.val > 0xFFF {
		panic(fmt.Errorf("illegal address: %d", t.val))
	}

	return uint16(t.val)
}

// 8-bit operand, signed or unsigned
func immediate(t token) byte {
	if t.forward {
		panic("forward reference")
	}

	if t.val < -128 || t.val > 0xFF {
		panic(fmt.Errorf("illegal byte: %d", t.val))
	}

	return byte(t.val)
}

// 4-bit operand
func nibble(t token) byte {
	if t.forward {
		panic("forward reference")
	}

	if t.val < 0 || t.val > 0xF {
		panic(fmt.Errorf("illegal nibble: %d", t.val))
	}

	return byte(t.val)
}

// register index
func reg(t token) byte {
	return byte(t.val)
}

/// Assemble a CLS instruction.
///
func (a *Assembly) assembleCLS(tokens []token) chip8.Instruction {
	if len(tokens) == 0 {
		return chip8.Instruction{Op: chip8.Clear}
	}

	panic("illegal instruction")
}

/// Assemble a RET instruction.
///
func (a *Assembly) assembleRET(tokens []token) chip8.Instruction {
	if len(tokens) == 0 {
		return chip8.Instruction{Op: chip8.Return}
	}

	panic("illegal instruction")
}

/// Assemble a SYS instruction.
///
func (a *Assembly) assembleSYS(tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		return chip8.Instruction{Op: chip8.SysAddr, NNN: address(ops[0])}
	}

	panic("illegal instruction")
}

/// Assemble a JP instruction.
///
func (a *Assembly) assembleJP(tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		return chip8.Instruction{Op: chip8.Jump, NNN: address(ops[0])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok && reg(ops[0]) == 0 {
		return chip8.Instruction{Op: chip8.JumpWithOffset, NNN: address(ops[1])}
	}

	panic("illegal instruction")
}

/// Assemble a CALL instruction.
///
func (a *Assembly) assembleCALL(tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		return chip8.Instruction{Op: chip8.Call, NNN: address(ops[0])}
	}

	panic("illegal instruction")
}

/// Assemble a SE instruction.
///
func (a *Assembly) assembleSE(tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return chip8.Instruction{Op: chip8.SkipEqual, X: reg(ops[0]), KK: immediate(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return chip8.Instruction{Op: chip8.SkipEqualRegister, X: reg(ops[0]), Y: reg(ops[1])}
	}

	panic("illegal instruction")
}

/// Assemble a SNE instruction.
///
func (a *Assembly) assembleSNE(tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return chip8.Instruction{Op: chip8.SkipNotEqual, X: reg(ops[0]), KK: immediate(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return chip8.Instruction{Op: chip8.SkipNotEqualRegister, X: reg(ops[0]), Y: reg(ops[1])}
	}

	panic("illegal instruction")
}

/// Assemble a SKP instruction.
///
func (a *Assembly) assembleSKP(tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenV); ok {
		return chip8.Instruction{Op: chip8.SkipKeyPressed, X: reg(ops[0])}
	}

	panic("illegal instruction")
}

/// Assemble a SKNP instruction.
///
func (a *Assembly) assembleSKNP(tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenV); ok {
		return chip8.Instruction{Op: chip8.SkipKeyNotPressed, X: reg(ops[0])}
	}

	panic("illegal instruction")
}

/// Assemble a LD instruction. This covers most of the register
/// and timer transfers.
///
func (a *Assembly) assembleLD(tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return chip8.Instruction{Op: chip8.Load, X: reg(ops[0]), KK: immediate(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return chip8.Instruction{Op: chip8.LoadRegister, X: reg(ops[0]), Y: reg(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenI, tokenLit); ok {
		return chip8.Instruction{Op: chip8.SetIndexRegister, NNN: address(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenDT); ok {
		return chip8.Instruction{Op: chip8.LoadDelay, X: reg(ops[0])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenK); ok {
		return chip8.Instruction{Op: chip8.LoadNextKeyPress, X: reg(ops[0])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenDT, tokenV); ok {
		return chip8.Instruction{Op: chip8.SetDelayTimer, X: reg(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenST, tokenV); ok {
		return chip8.Instruction{Op: chip8.SetSoundTimer, X: reg(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenF, tokenV); ok {
		return chip8.Instruction{Op: chip8.IndexAtSprite, X: reg(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenB, tokenV); ok {
		return chip8.Instruction{Op: chip8.BinaryCodeConversion, X: reg(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenIndirect, tokenV); ok {
		return chip8.Instruction{Op: chip8.StoreAllRegisters, X: reg(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenIndirect); ok {
		return chip8.Instruction{Op: chip8.LoadAllRegisters, X: reg(ops[0])}
	}

	panic("illegal instruction")
}

/// Assemble an ADD instruction.
///
func (a *Assembly) assembleADD(tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return chip8.Instruction{Op: chip8.Add, X: reg(ops[0]), KK: immediate(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return chip8.Instruction{Op: chip8.AddRegister, X: reg(ops[0]), Y: reg(ops[1])}
	}

	if ops, ok := a.assembleOperands(tokens, tokenI, tokenV); ok {
		return chip8.Instruction{Op: chip8.AddIndexRegister, X: reg(ops[1])}
	}

	panic("illegal instruction")
}

// Vx, Vy register operations
func (a *Assembly) assembleXY(op chip8.Op, tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return chip8.Instruction{Op: op, X: reg(ops[0]), Y: reg(ops[1])}
	}

	panic("illegal instruction")
}

func (a *Assembly) assembleOR(tokens []token) chip8.Instruction {
	return a.assembleXY(chip8.OrRegister, tokens)
}

func (a *Assembly) assembleAND(tokens []token) chip8.Instruction {
	return a.assembleXY(chip8.AndRegister, tokens)
}

func (a *Assembly) assembleXOR(tokens []token) chip8.Instruction {
	return a.assembleXY(chip8.XorRegister, tokens)
}

func (a *Assembly) assembleSUB(tokens []token) chip8.Instruction {
	return a.assembleXY(chip8.SubRegister, tokens)
}

func (a *Assembly) assembleSUBN(tokens []token) chip8.Instruction {
	return a.assembleXY(chip8.SubReverseRegister, tokens)
}

/// Shifts take an optional source register, which defaults to Vx.
///
func (a *Assembly) assembleShift(op chip8.Op, tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenV); ok {
		return chip8.Instruction{Op: op, X: reg(ops[0]), Y: reg(ops[0])}
	}

	return a.assembleXY(op, tokens)
}

func (a *Assembly) assembleSHR(tokens []token) chip8.Instruction {
	return a.assembleShift(chip8.ShiftRightRegister, tokens)
}

func (a *Assembly) assembleSHL(tokens []token) chip8.Instruction {
	return a.assembleShift(chip8.ShiftLeftRegister, tokens)
}

/// Assemble a RND instruction.
///
func (a *Assembly) assembleRND(tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return chip8.Instruction{Op: chip8.Random, X: reg(ops[0]), KK: immediate(ops[1])}
	}

	panic("illegal instruction")
}

/// Assemble a DRW instruction.
///
func (a *Assembly) assembleDRW(tokens []token) chip8.Instruction {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV, tokenLit); ok {
		return chip8.Instruction{Op: chip8.Draw, X: reg(ops[0]), Y: reg(ops[1]), N: nibble(ops[2])}
	}

	panic("illegal instruction")
}

/// Assemble a BYTE directive: bytes and quoted text.
///
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		op := a.assembleOperand(t, len(a.ROM)+len(b))

		switch op.typ {
		case tokenLit:
			b = append(b, immediate(op))
		case tokenText:
			b = append(b, op.id...)
		default:
			panic("invalid byte")
		}
	}

	return b
}

/// Assemble a WORD directive. Words are stored MSB first.
///
func (a *Assembly) assembleWORD(tokens []token) []byte {
	b := make([]byte, 0, len(tokens)*2)

	for _, t := range tokens {
		op := a.assembleOperand(t, len(a.ROM)+len(b))

		if op.typ != tokenLit || op.val < 0 || op.val > 0xFFFF {
			panic("invalid word")
		}

		b = append(b, byte(op.val>>8), byte(op.val))
	}

	return b
}

/// Assemble an ALIGN directive, padding to a power of 2.
///
func (a *Assembly) assembleALIGN(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		n := ops[0].val

		if n > 0 && n&(n-1) == 0 {
			return make([]byte, (n-len(a.ROM)%n)%n)
		}
	}

	panic("illegal alignment")
}

/// Assemble a PAD directive, reserving zeroed bytes.
///
func (a *Assembly) assemblePAD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		n := ops[0].val

		if n >= 0 && n < chip8.MemorySize-len(a.ROM) {
			return make([]byte, n)
		}
	}

	panic("illegal size")
}
