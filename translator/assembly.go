package translator

import (
	"strings"

	"github.com/lookbusy-sasm/sasm32/sasmerr"
)

// Assembly is the translator's output surface: the flat byte buffer,
// the variable name -> offset table, and the snapshot of
// every variable's initial bytes keyed by offset, used to reset the
// buffer between runs without re-assembling.
type Assembly struct {
	Code                 []byte
	VariableOffsets      map[string]int
	InitialVariableBytes map[int][]byte
}

// Byte re-interprets the byte at variable's offset as an unsigned 8-bit
// integer.
func (a *Assembly) Byte(variable string) (uint8, error) {
	off, err := a.offsetOf(variable, 1)
	if err != nil {
		return 0, err
	}
	return a.Code[off], nil
}

// Word re-interprets the two bytes at variable's offset as a little-
// endian unsigned 16-bit integer. This is the corrected reader: the
// source computed `(Code[i] << 8) + Code[i+1]`, which is big-endian by
// accident of operator precedence; the dialect's data is little-endian
// throughout, so the low byte comes first.
func (a *Assembly) Word(variable string) (uint16, error) {
	off, err := a.offsetOf(variable, 2)
	if err != nil {
		return 0, err
	}
	lo, hi := a.Code[off], a.Code[off+1]
	return uint16(lo) | uint16(hi)<<8, nil
}

// Dword re-interprets the four bytes at variable's offset as a
// little-endian unsigned 32-bit integer.
func (a *Assembly) Dword(variable string) (uint32, error) {
	off, err := a.offsetOf(variable, 4)
	if err != nil {
		return 0, err
	}
	b := a.Code[off : off+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// WString reads a NUL-terminated (16-bit NUL) UTF-16LE string starting
// at variable's offset.
func (a *Assembly) WString(variable string) (string, error) {
	off, ok := a.VariableOffsets[variable]
	if !ok {
		return "", sasmerr.Newf(sasmerr.BadAddress, "unknown variable %q", variable)
	}
	var units []uint16
	for i := off; i+1 < len(a.Code); i += 2 {
		u := uint16(a.Code[i]) | uint16(a.Code[i+1])<<8
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return utf16ToString(units), nil
}

// CString reads a NUL-terminated ASCII string starting at variable's
// offset.
func (a *Assembly) CString(variable string) (string, error) {
	off, ok := a.VariableOffsets[variable]
	if !ok {
		return "", sasmerr.Newf(sasmerr.BadAddress, "unknown variable %q", variable)
	}
	var b strings.Builder
	for i := off; i < len(a.Code); i++ {
		if a.Code[i] == 0 {
			break
		}
		b.WriteByte(a.Code[i])
	}
	return b.String(), nil
}

// RestoreVariables rewrites exactly the bytes recorded in
// InitialVariableBytes, letting a caller reset every declared variable
// to its assembled-time value without re-translating the source.
func (a *Assembly) RestoreVariables() {
	for offset, bytes := range a.InitialVariableBytes {
		copy(a.Code[offset:offset+len(bytes)], bytes)
	}
}

func (a *Assembly) offsetOf(variable string, width int) (int, error) {
	off, ok := a.VariableOffsets[variable]
	if !ok {
		return 0, sasmerr.Newf(sasmerr.BadAddress, "unknown variable %q", variable)
	}
	if off+width > len(a.Code) {
		return 0, sasmerr.Newf(sasmerr.BadAddress, "variable %q read of width %d overruns the buffer", variable, width)
	}
	return off, nil
}

func utf16ToString(units []uint16) string {
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) {
			lo := units[i+1]
			if lo >= 0xDC00 && lo <= 0xDFFF {
				r := (rune(u-0xD800) << 10) | rune(lo-0xDC00)
				runes = append(runes, r+0x10000)
				i++
				continue
			}
		}
		runes = append(runes, rune(u))
	}
	return string(runes)
}
