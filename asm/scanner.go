package asm

import (
	"fmt"
	"strconv"
	"strings"
)

/// Lexical token types.
///
type tokenType int

const (
	tokenEnd tokenType = iota
	tokenChar
	tokenLabel
	tokenRef
	tokenInstruction
	tokenEqu
	tokenIndirect
	tokenV
	tokenI
	tokenB
	tokenF
	tokenK
	tokenDT
	tokenST
	tokenLit
	tokenText
)

/// A parsed, lexical token.
///
type token struct {
	typ tokenType

	// register index, literal value or character
	val int

	// label, reference, mnemonic or quoted text
	id string

	// forward is set on a literal that stands in for a label that
	// hasn't been defined yet
	forward bool
}

/// Token scanner over a single, upper-cased line of source.
///
type tokenScanner struct {
	bytes []byte

	// scan position
	pos int
}

/// Reads the next token from a scanner.
///
func (s *tokenScanner) scanToken() token {
	for len(s.bytes) > s.pos && s.bytes[s.pos] < 33 {
		s.pos++
	}

	// if at the end, return an end token
	if len(s.bytes) <= s.pos {
		return token{typ: tokenEnd}
	}

	c := s.bytes[s.pos]

	switch {
	case c == ';':
		s.pos = len(s.bytes)
		return token{typ: tokenEnd}
	case c == '.' && s.pos == 0:
		return s.scanLabel()
	case s.pos == 0:
		panic("expected .label")
	case c == '[':
		return s.scanIndirection()
	case c == '#':
		return s.scanHexLit()
	case c == '$':
		return s.scanBinLit()
	case c == '-' || (c >= '0' && c <= '9'):
		return s.scanDecLit()
	case (c >= 'A' && c <= 'Z') || c == '_':
		return s.scanIdentifier()
	case c == '"' || c == '\'':
		return s.scanString(c)
	}

	return s.scanChar()
}

/// Scan a list of comma-separated operands up to the end of the line.
///
func (s *tokenScanner) scanOperands() []token {
	tokens := make([]token, 0, 3)

	t := s.scanToken()
	if t.typ == tokenEnd {
		return tokens
	}

	for {
		if t.typ == tokenEnd || t.typ == tokenChar {
			panic("expected operand")
		}

		tokens = append(tokens, t)

		// operands are separated by commas
		sep := s.scanToken()
		if sep.typ == tokenEnd {
			return tokens
		}

		if sep.typ != tokenChar || sep.val != ',' {
			panic("unexpected token")
		}

		t = s.scanToken()
	}
}

/// Scan a single character.
///
func (s *tokenScanner) scanChar() token {
	c := s.bytes[s.pos]

	// advance the scan pos
	s.pos++

	return token{typ: tokenChar, val: int(c)}
}

/// Scan a label, which must be in the first column.
///
func (s *tokenScanner) scanLabel() token {
	s.pos++

	// validate the first identifier character
	if s.pos < len(s.bytes) && ((s.bytes[s.pos] >= 'A' && s.bytes[s.pos] <= 'Z') || s.bytes[s.pos] == '_') {
		if id := s.scanIdentifier(); id.typ == tokenRef {
			return token{typ: tokenLabel, id: id.id}
		}
	}

	panic("expected label")
}

var mnemonics = map[string]bool{
	"CLS": true, "RET": true, "SYS": true, "JP": true, "CALL": true,
	"SE": true, "SNE": true, "SKP": true, "SKNP": true,
	"LD": true, "ADD": true, "OR": true, "AND": true, "XOR": true,
	"SUB": true, "SUBN": true, "SHR": true, "SHL": true,
	"RND": true, "DRW": true,
	"BYTE": true, "WORD": true, "ALIGN": true, "PAD": true,
}

/// Scan an identifier: instruction, register, or label reference.
///
func (s *tokenScanner) scanIdentifier() token {
	i := s.pos

	// advance to the first non-identifier character
	for ; s.pos < len(s.bytes); s.pos++ {
		c := s.bytes[s.pos]

		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			break
		}
	}

	id := string(s.bytes[i:s.pos])

	// v-registers
	if len(id) == 2 && id[0] == 'V' {
		if n, err := strconv.ParseUint(id[1:], 16, 8); err == nil {
			return token{typ: tokenV, val: int(n)}
		}
	}

	switch id {
	case "I":
		return token{typ: tokenI}
	case "B":
		return token{typ: tokenB}
	case "F":
		return token{typ: tokenF}
	case "K":
		return token{typ: tokenK}
	case "DT":
		return token{typ: tokenDT}
	case "ST":
		return token{typ: tokenST}
	case "EQU":
		return token{typ: tokenEqu}
	}

	if mnemonics[id] {
		return token{typ: tokenInstruction, id: id}
	}

	return token{typ: tokenRef, id: id}
}

/// Scan [I].
///
func (s *tokenScanner) scanIndirection() token {
	s.pos++

	if t := s.scanToken(); t.typ != tokenI {
		panic("illegal indirection")
	}

	// the next token should close the indirection
	if c := s.scanToken(); c.typ != tokenChar || c.val != ']' {
		panic("illegal indirection")
	}

	return token{typ: tokenIndirect}
}

/// Scan a decimal literal.
///
func (s *tokenScanner) scanDecLit() token {
	i := s.pos

	// skip a unary minus negation
	if s.bytes[i] == '-' {
		s.pos++
	}

	for ; s.pos < len(s.bytes); s.pos++ {
		if s.bytes[s.pos] < '0' || s.bytes[s.pos] > '9' {
			break
		}
	}

	if n, err := strconv.ParseInt(string(s.bytes[i:s.pos]), 10, 32); err == nil {
		return token{typ: tokenLit, val: int(n)}
	}

	panic(fmt.Errorf("illegal decimal value: %s", string(s.bytes[i:s.pos])))
}

/// Scan a hexadecimal literal.
///
func (s *tokenScanner) scanHexLit() token {
	i := s.pos

	for s.pos++; s.pos < len(s.bytes); s.pos++ {
		if strings.IndexByte("0123456789ABCDEF", s.bytes[s.pos]) < 0 {
			break
		}
	}

	if n, err := strconv.ParseInt(string(s.bytes[i+1:s.pos]), 16, 32); err == nil {
		return token{typ: tokenLit, val: int(n)}
	}

	panic(fmt.Errorf("illegal hex value: %s", string(s.bytes[i:s.pos])))
}

/// Scan a binary literal. A '.' may be used in place of a 0, which
/// makes sprite data easier to read.
///
func (s *tokenScanner) scanBinLit() token {
	i := s.pos

	for s.pos++; s.pos < len(s.bytes); s.pos++ {
		if strings.IndexByte(".01", s.bytes[s.pos]) < 0 {
			break
		}
	}

	v := strings.ReplaceAll(string(s.bytes[i+1:s.pos]), ".", "0")

	if n, err := strconv.ParseInt(v, 2, 32); err == nil {
		return token{typ: tokenLit, val: int(n)}
	}

	panic(fmt.Errorf("illegal binary value: %s", string(s.bytes[i:s.pos])))
}

/// Scan a quoted string.
///
func (s *tokenScanner) scanString(term byte) token {
	s.pos++

	i := s.pos

	// find the terminating quotation
	for s.pos < len(s.bytes) && s.bytes[s.pos] != term {
		s.pos++
	}

	if s.pos >= len(s.bytes) {
		panic("unterminated string")
	}

	// skip the closing quote
	s.pos++

	return token{typ: tokenText, id: string(s.bytes[i : s.pos-1])}
}
