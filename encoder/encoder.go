package encoder

import (
	"strings"

	"github.com/lookbusy-sasm/sasm32/parser"
	"github.com/lookbusy-sasm/sasm32/sasmerr"
)

// EncodeInstruction dispatches by operand count to the zero/one/two/
// three-operand encoders and prepends the prefix bytes (REP family,
// then operand-size/address-size). selfLoop is
// forwarded to the one-operand path for the "L: jmp L" short-jump
// special case.
func EncodeInstruction(mnemonicRaw string, operands []*parser.Operand, selfLoop bool) (Result, error) {
	mnemonic, repPrefix, hasRep := stripRepPrefix(strings.ToLower(mnemonicRaw))
	if !hasRep {
		mnemonic = strings.ToLower(mnemonicRaw)
	}

	var body Result
	var err error

	switch len(operands) {
	case 0:
		var bytes []byte
		bytes, err = EncodeZeroOperand(mnemonic)
		body = Result{Bytes: bytes}
	case 1:
		body, err = EncodeOneOperand(mnemonic, operands[0], selfLoop)
	case 2:
		body, err = EncodeTwoOperand(mnemonic, operands[0], operands[1])
	case 3:
		body, err = EncodeThreeOperand(mnemonic, operands[0], operands[1], operands[2])
	default:
		return Result{}, sasmerr.Newf(sasmerr.BadOperandCombination, "%q takes an unsupported number of operands (%d)", mnemonic, len(operands))
	}
	if err != nil {
		return Result{}, err
	}

	prefixes := computePrefixBytes(operands)
	if hasRep {
		prefixes = append([]byte{repPrefix}, prefixes...)
	}

	out := Result{
		Bytes:       append(append([]byte{}, prefixes...), body.Bytes...),
		HasFixup:    body.HasFixup,
		FixupOffset: body.FixupOffset + len(prefixes),
		FixupKind:   body.FixupKind,
		TargetLabel: body.TargetLabel,
	}
	return out, nil
}

func computePrefixBytes(operands []*parser.Operand) []byte {
	is16 := false
	hasMemory := false
	for _, op := range operands {
		if op.Kind == parser.OpReg16_32 && !op.Is32 {
			is16 = true
		}
		if op.IsMemory() {
			hasMemory = true
		}
	}
	return sizePrefixes(is16, hasMemory)
}
