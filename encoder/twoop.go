package encoder

import (
	"github.com/lookbusy-sasm/sasm32/parser"
	"github.com/lookbusy-sasm/sasm32/sasmerr"
)

// arithmeticGroups maps the eight add/or/adc/sbb/and/sub/xor/cmp
// mnemonics to their base reg/mem opcode and their /digit in the
// immediate-to-rm forms. sub is /5 uniformly here.
var arithmeticGroups = map[string]struct {
	base  byte
	digit uint8
}{
	"add": {0x00, 0}, "or": {0x08, 1}, "adc": {0x10, 2}, "sbb": {0x18, 3},
	"and": {0x20, 4}, "sub": {0x28, 5}, "xor": {0x30, 6}, "cmp": {0x38, 7},
}

var shiftGroups = map[string]uint8{
	"rol": 0, "ror": 1, "rcl": 2, "rcr": 3,
	"shl": 4, "sal": 4, "shr": 5, "sar": 7,
}

func is8(op *parser.Operand) bool {
	return op.Kind == parser.OpReg8 || op.Kind == parser.OpAddress8
}

// EncodeTwoOperand handles the two-operand instruction forms.
func EncodeTwoOperand(mnemonic string, dst, src *parser.Operand) (Result, error) {
	if group, ok := arithmeticGroups[mnemonic]; ok {
		return encodeArithmetic(group.base, group.digit, dst, src)
	}

	switch mnemonic {
	case "test":
		return encodeTest(dst, src)
	case "xchg":
		return encodeRegMem(0x86, dst, src)
	case "mov":
		return encodeMov(dst, src)
	case "lea":
		return encodeLea(dst, src)
	case "imul":
		return encodeImul2(dst, src)
	case "movzx":
		return encodeMovzx(dst, src)
	}

	if digit, ok := shiftGroups[mnemonic]; ok {
		return encodeShift(digit, dst, src)
	}

	return Result{}, sasmerr.Newf(sasmerr.UnknownMnemonic, "unknown two-operand mnemonic %q", mnemonic)
}

// encodeRegMem picks the direction per the rule derived from the
// worked "mov eax, ebx" -> 89 D8 example: the destination occupies the
// rm field unless the destination is a register and the source is
// memory, in which case memory must occupy rm and the encoding flips
// to the +2/+3 ("mem to reg") opcode.
func encodeRegMem(base byte, dst, src *parser.Operand) (Result, error) {
	if dst.IsMemory() && src.IsMemory() {
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "memory-to-memory operand combination is not supported")
	}

	width8 := is8(dst) || is8(src)
	memToReg := !dst.IsMemory() && src.IsMemory()

	var opcode byte
	var reg uint8
	var rm *parser.Operand

	if memToReg {
		if !dst.IsRegister() {
			return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "destination must be a register when source is memory")
		}
		opcode = base + 2
		reg = dst.RegCode
		rm = src
	} else {
		if !src.IsRegister() {
			return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "source must be a register in this operand combination")
		}
		opcode = base
		reg = src.RegCode
		rm = dst
	}
	if !width8 {
		opcode++
	}

	bytes, err := EncodeModRM(reg, rm)
	if err != nil {
		return Result{}, err
	}
	return plain(append([]byte{opcode}, bytes...))
}

func encodeArithmetic(base byte, digit uint8, dst, src *parser.Operand) (Result, error) {
	if src.Kind == parser.OpConst || src.Kind == parser.OpSymbolic {
		return encodeImmediateToRM(digit, dst, src)
	}
	return encodeRegMem(base, dst, src)
}

// encodeImmediateToRM implements the 0x80/0x81/0x83 immediate-to-rm
// forms shared by the arithmetic group.
func encodeImmediateToRM(digit uint8, dst, src *parser.Operand) (Result, error) {
	if src.Kind == parser.OpSymbolic {
		rm, err := EncodeModRM(digit, dst)
		if err != nil {
			return Result{}, err
		}
		opcode := byte(0x81)
		if is8(dst) {
			opcode = 0x80
		}
		out := append([]byte{opcode}, rm...)
		offset := len(out)
		out = append(out, 0, 0, 0, 0)
		return withFixup(out, offset, parser.FixupAbsolute32, src.Label)
	}

	rm, err := EncodeModRM(digit, dst)
	if err != nil {
		return Result{}, err
	}

	if is8(dst) {
		out := append([]byte{0x80}, rm...)
		out = append(out, byte(src.Value))
		return plain(out)
	}

	if fitsInt8(src.Value) {
		out := append([]byte{0x83}, rm...)
		out = append(out, byte(src.Value))
		return plain(out)
	}
	out := append([]byte{0x81}, rm...)
	out = append(out, le32(src.Value)...)
	return plain(out)
}

func encodeTest(dst, src *parser.Operand) (Result, error) {
	if src.Kind == parser.OpConst {
		rm, err := EncodeModRM(0, dst)
		if err != nil {
			return Result{}, err
		}
		opcode := byte(0xF7)
		if is8(dst) {
			opcode = 0xF6
		}
		out := append([]byte{opcode}, rm...)
		if is8(dst) {
			out = append(out, byte(src.Value))
		} else {
			out = append(out, le32(src.Value)...)
		}
		return plain(out)
	}
	return encodeRegMem(0x84, dst, src)
}

func encodeMov(dst, src *parser.Operand) (Result, error) {
	switch src.Kind {
	case parser.OpConst:
		rm, err := EncodeModRM(0, dst)
		if err != nil {
			return Result{}, err
		}
		opcode := byte(0xC7)
		if is8(dst) {
			opcode = 0xC6
		}
		out := append([]byte{opcode}, rm...)
		if is8(dst) {
			out = append(out, byte(src.Value))
		} else {
			out = append(out, le32(src.Value)...)
		}
		return plain(out)
	case parser.OpSymbolic:
		rm, err := EncodeModRM(0, dst)
		if err != nil {
			return Result{}, err
		}
		opcode := byte(0xC7)
		if is8(dst) {
			opcode = 0xC6
		}
		out := append([]byte{opcode}, rm...)
		offset := len(out)
		out = append(out, 0, 0, 0, 0)
		return withFixup(out, offset, parser.FixupAbsolute32, src.Label)
	default:
		return encodeRegMem(0x88, dst, src)
	}
}

func encodeLea(dst, src *parser.Operand) (Result, error) {
	if dst.Kind != parser.OpReg16_32 {
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "lea destination must be a 16/32-bit register")
	}
	if !src.IsMemory() {
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "lea source must be a memory operand")
	}
	rm, err := EncodeModRM(dst.RegCode, src)
	if err != nil {
		return Result{}, err
	}
	return plain(append([]byte{0x8D}, rm...))
}

func encodeShift(digit uint8, dst, src *parser.Operand) (Result, error) {
	var opcode byte
	var imm []byte

	switch {
	case src.Kind == parser.OpConst:
		opcode = 0xC1
		if is8(dst) {
			opcode = 0xC0
		}
		imm = []byte{byte(src.Value)}
	case src.Kind == parser.OpReg8 && src.RegName == "cl":
		opcode = 0xD3
		if is8(dst) {
			opcode = 0xD2
		}
	default:
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "shift count must be a constant or cl")
	}

	rm, err := EncodeModRM(digit, dst)
	if err != nil {
		return Result{}, err
	}
	out := append([]byte{opcode}, rm...)
	out = append(out, imm...)
	return plain(out)
}

func encodeImul2(dst, src *parser.Operand) (Result, error) {
	if dst.Kind != parser.OpReg16_32 {
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "imul destination must be a 16/32-bit register")
	}
	rm, err := EncodeModRM(dst.RegCode, src)
	if err != nil {
		return Result{}, err
	}
	return plain(append([]byte{0x0F, 0xAF}, rm...))
}

func encodeMovzx(dst, src *parser.Operand) (Result, error) {
	if dst.Kind != parser.OpReg16_32 {
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "movzx destination must be a 16/32-bit register")
	}
	opcode := byte(0xB7)
	if is8(src) {
		opcode = 0xB6
	}
	rm, err := EncodeModRM(dst.RegCode, src)
	if err != nil {
		return Result{}, err
	}
	return plain(append([]byte{0x0F, opcode}, rm...))
}
