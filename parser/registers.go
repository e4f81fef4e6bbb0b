package parser

import "strings"

// reg8ByName maps an 8-bit register name to its 3-bit ModR/M encoding.
// The high-byte registers (ah/bh/ch/dh) occupy indices 4-7 of the same
// space as al/cl/dl/bl.
var reg8ByName = map[string]uint8{
	"al": 0, "cl": 1, "dl": 2, "bl": 3,
	"ah": 4, "ch": 5, "dh": 6, "bh": 7,
}

// reg16_32Info describes a 16/32-bit register: its shared encoding index and
// whether the particular spelling used refers to the 32-bit or 16-bit form.
type reg16_32Info struct {
	Code uint8
	Is32 bool
}

var reg16_32ByName = map[string]reg16_32Info{
	"eax": {0, true}, "ecx": {1, true}, "edx": {2, true}, "ebx": {3, true},
	"esp": {4, true}, "ebp": {5, true}, "esi": {6, true}, "edi": {7, true},
	"ax": {0, false}, "cx": {1, false}, "dx": {2, false}, "bx": {3, false},
	"sp": {4, false}, "bp": {5, false}, "si": {6, false}, "di": {7, false},
}

// IsRegisterName reports whether name (already lowercase) names any
// register recognized by this dialect, 8-bit or 16/32-bit.
func IsRegisterName(name string) bool {
	name = strings.TrimSpace(name)
	if _, ok := reg8ByName[name]; ok {
		return true
	}
	_, ok := reg16_32ByName[name]
	return ok
}

// RegCode8 looks up an 8-bit register by name.
func RegCode8(name string) (uint8, bool) {
	code, ok := reg8ByName[name]
	return code, ok
}

// RegCode16_32 looks up a 16/32-bit register by name.
func RegCode16_32(name string) (reg16_32Info, bool) {
	info, ok := reg16_32ByName[name]
	return info, ok
}

// EspCode is the shared encoding index of esp/sp, which can never be used
// as a SIB index register.
const EspCode uint8 = 4

// EbpCode is the shared encoding index of ebp/bp, which requires the
// disp8 workaround when used as a base with zero displacement (special
// case 2) and must not be left in the index-only field (special case 5).
const EbpCode uint8 = 5
