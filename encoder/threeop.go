package encoder

import (
	"github.com/lookbusy-sasm/sasm32/parser"
	"github.com/lookbusy-sasm/sasm32/sasmerr"
)

// EncodeThreeOperand handles the sole three-operand form: "imul reg,
// rm, imm".
func EncodeThreeOperand(mnemonic string, reg, rm, imm *parser.Operand) (Result, error) {
	if mnemonic != "imul" {
		return Result{}, sasmerr.Newf(sasmerr.UnknownMnemonic, "unknown three-operand mnemonic %q", mnemonic)
	}
	if reg.Kind != parser.OpReg16_32 {
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "imul destination must be a 16/32-bit register")
	}
	if imm.Kind != parser.OpConst {
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "imul third operand must be a constant")
	}

	bytes, err := EncodeModRM(reg.RegCode, rm)
	if err != nil {
		return Result{}, err
	}

	if fitsInt8(imm.Value) {
		out := append([]byte{0x6B}, bytes...)
		out = append(out, byte(imm.Value))
		return plain(out)
	}
	out := append([]byte{0x69}, bytes...)
	out = append(out, le32(imm.Value)...)
	return plain(out)
}
