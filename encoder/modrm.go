package encoder

import (
	"encoding/binary"

	"github.com/lookbusy-sasm/sasm32/parser"
	"github.com/lookbusy-sasm/sasm32/sasmerr"
)

// EncodeModRM composes the ModR/M byte (and, for memory operands, the
// SIB and displacement bytes) pairing regField (the "reg"/opcode-
// extension value) with rm, which is either a register or a memory
// address operand. It implements every ModR/M/SIB special case.
func EncodeModRM(regField uint8, rm *parser.Operand) ([]byte, error) {
	if rm.IsRegister() {
		return []byte{modRMByte(3, regField, rm.RegCode)}, nil
	}
	if !rm.IsMemory() {
		return nil, sasmerr.New(sasmerr.BadOperandCombination, "ModR/M rm operand must be a register or memory address")
	}
	return encodeMemoryOperand(regField, rm)
}

func modRMByte(mod, reg, rm uint8) byte {
	return (mod&0x3)<<6 | (reg&0x7)<<3 | (rm & 0x7)
}

func sibByte(scaleField, index, base uint8) byte {
	return (scaleField&0x3)<<6 | (index&0x7)<<3 | (base & 0x7)
}

func scaleField(scale uint8) uint8 {
	switch scale {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	default:
		return 0
	}
}

func le32(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func fitsInt8(v int32) bool {
	_, ok := SafeNarrowToInt8(v)
	return ok
}

// encodeMemoryOperand applies the ModR/M special cases in order: pure
// displacement, the ebp-zero-disp workaround, esp-as-index swap,
// esp-as-base forcing a SIB byte, ebp-as-index re-swap, and the
// disp8-vs-disp32 choice.
func encodeMemoryOperand(regField uint8, op *parser.Operand) ([]byte, error) {
	base, hasBase := op.BaseCode, op.HasBase
	index, hasIndex, scale := op.IndexCode, op.HasIndex, op.Scale

	// Special case 3: esp can never be an index. If the source text
	// placed esp as the index, swap base/index (scale becomes 1) when a
	// base is present to swap into; esp-as-only-index is illegal.
	if hasIndex && index == parser.EspCode {
		if !hasBase || scale != 1 {
			return nil, sasmerr.New(sasmerr.BadAddress, "esp cannot be used as an index register")
		}
		base, index = index, base
	}

	// Special case 5: ebp may not sit in the index-only field. If ebp is
	// the index and a different register is the base, re-swap so ebp
	// becomes the base and the other register becomes index*1.
	if hasIndex && index == parser.EbpCode && hasBase && base != parser.EbpCode {
		base, index = index, base
		scale = 1
	}

	// Case 1: no base, no index at all -> pure 32-bit displacement.
	if !hasBase && !hasIndex {
		modrm := modRMByte(0, regField, 0x5)
		return append([]byte{modrm}, le32(op.Disp)...), nil
	}

	needsSIB := hasIndex || base == parser.EspCode

	if !needsSIB {
		// Case 2: [ebp] with zero displacement must use disp8=0, since
		// mod=00 rm=101 is reserved for the pure-displacement form.
		if base == parser.EbpCode && op.Disp == 0 {
			modrm := modRMByte(1, regField, base)
			return []byte{modrm, 0}, nil
		}
		if fitsInt8(op.Disp) {
			modrm := modRMByte(1, regField, base)
			return []byte{modrm, byte(op.Disp)}, nil
		}
		modrm := modRMByte(2, regField, base)
		return append([]byte{modrm}, le32(op.Disp)...), nil
	}

	// Case 4: esp (or any SIB-requiring combination) needs rm=100 in
	// ModR/M, with the real base/index living in the SIB byte.
	var sib byte
	var mod uint8
	var out []byte

	if !hasBase {
		sib = sibByte(scaleField(scale), index, 0x5)
		mod = 0
		out = []byte{modRMByte(mod, regField, 0x4), sib}
		out = append(out, le32(op.Disp)...)
		return out, nil
	}

	idx := index
	if !hasIndex {
		idx = 0x4 // "no index" encoding
	}
	sib = sibByte(scaleField(scale), idx, base)

	if base == parser.EbpCode && op.Disp == 0 {
		mod = 1
		out = []byte{modRMByte(mod, regField, 0x4), sib, 0}
		return out, nil
	}
	if fitsInt8(op.Disp) {
		mod = 1
		out = []byte{modRMByte(mod, regField, 0x4), sib, byte(op.Disp)}
		return out, nil
	}
	mod = 2
	out = []byte{modRMByte(mod, regField, 0x4), sib}
	out = append(out, le32(op.Disp)...)
	return out, nil
}
