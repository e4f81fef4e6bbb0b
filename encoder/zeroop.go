package encoder

import "github.com/lookbusy-sasm/sasm32/sasmerr"

// zeroOperandOpcodes is the fixed lookup table of zero-operand forms.
var zeroOperandOpcodes = map[string][]byte{
	"pusha": {0x60},
	"popa":  {0x61},
	"pushf": {0x9C},
	"popf":  {0x9D},
	"ret":   {0xC3},
	"retn":  {0xC3},
	"retf":  {0xCB},
	"nop":   {0x90},
	"clc":   {0xF8},
	"stc":   {0xF9},
	"cli":   {0xFA},
	"sti":   {0xFB},
	"cld":   {0xFC},
	"std":   {0xFD},
	"cmc":   {0xF5},
	"int1":  {0xF1},
	"int3":  {0xCC},
	"lahf":  {0x9F},
	"sahf":  {0x9E},
	"cbw":   {0x66, 0x98},
	"cwde":  {0x98},
	"cwd":   {0x66, 0x99},
	"cdq":   {0x99},
	"movsb": {0xA4},
	"movsw": {0x66, 0xA5},
	"movsd": {0xA5},
	"cmpsb": {0xA6},
	"cmpsw": {0x66, 0xA7},
	"cmpsd": {0xA7},
	"stosb": {0xAA},
	"stosw": {0x66, 0xAB},
	"stosd": {0xAB},
	"lodsb": {0xAC},
	"lodsw": {0x66, 0xAD},
	"lodsd": {0xAD},
	"scasb": {0xAE},
	"scasw": {0x66, 0xAF},
	"scasd": {0xAF},
	"salc":  {0xD6},
	"xlat":  {0xD7},
}

// EncodeZeroOperand looks up mnemonic's fixed opcode bytes. It returns
// UnknownMnemonic if mnemonic isn't one of the known zero-operand forms.
func EncodeZeroOperand(mnemonic string) ([]byte, error) {
	bytes, ok := zeroOperandOpcodes[mnemonic]
	if !ok {
		return nil, sasmerr.Newf(sasmerr.UnknownMnemonic, "unknown zero-operand mnemonic %q", mnemonic)
	}
	out := make([]byte, len(bytes))
	copy(out, bytes)
	return out, nil
}
