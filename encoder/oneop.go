package encoder

import (
	"github.com/lookbusy-sasm/sasm32/parser"
	"github.com/lookbusy-sasm/sasm32/sasmerr"
)

var conditionCodes = map[string]byte{
	"jo": 0x0, "jno": 0x1,
	"jb": 0x2, "jc": 0x2, "jnae": 0x2,
	"jae": 0x3, "jnb": 0x3, "jnc": 0x3,
	"je": 0x4, "jz": 0x4,
	"jne": 0x5, "jnz": 0x5,
	"jbe": 0x6, "jna": 0x6,
	"ja": 0x7, "jnbe": 0x7,
	"js": 0x8, "jns": 0x9,
	"jp": 0xA, "jpe": 0xA,
	"jnp": 0xB, "jpo": 0xB,
	"jl": 0xC, "jnge": 0xC,
	"jge": 0xD, "jnl": 0xD,
	"jle": 0xE, "jng": 0xE,
	"jg": 0xF, "jnle": 0xF,
}

var loopOpcodes = map[string]byte{
	"loop": 0xE2, "loopz": 0xE1, "loope": 0xE1, "loopnz": 0xE0, "loopne": 0xE0,
}

// EncodeOneOperand handles every one-operand mnemonic.
// selfLoop is true when the operand is a symbolic reference to the
// label that immediately precedes this very instruction (e.g. "L: jmp
// L"): the displacement is then computable in closed form without
// waiting for the fixup sweep, so jmp can commit to the short encoding.
func EncodeOneOperand(mnemonic string, op *parser.Operand, selfLoop bool) (Result, error) {
	switch mnemonic {
	case "push":
		return encodePush(op)
	case "pop":
		return encodePop(op)
	case "inc":
		return encodeIncDec(op, 0)
	case "dec":
		return encodeIncDec(op, 1)
	case "not":
		return encodeUnaryF6F7(op, 2)
	case "neg":
		return encodeUnaryF6F7(op, 3)
	case "mul":
		return encodeUnaryF6F7(op, 4)
	case "imul":
		return encodeUnaryF6F7(op, 5)
	case "div":
		return encodeUnaryF6F7(op, 6)
	case "idiv":
		return encodeUnaryF6F7(op, 7)
	case "call":
		return encodeCall(op)
	case "jmp":
		return encodeJmp(op, selfLoop)
	case "jcxz", "jecxz":
		return encodeRel8(0xE3, op)
	case "storeb":
		return encodeStore(op, 1)
	case "storew":
		return encodeStore(op, 2)
	case "stored":
		return encodeStore(op, 4)
	case "ret", "retn":
		return encodeRetImm(0xC2, op)
	case "retf":
		return encodeRetImm(0xCA, op)
	case "int":
		return encodeImm8Op(0xCD, op)
	case "in":
		return encodeImm8Op(0xE5, op)
	case "out":
		return encodeImm8Op(0xE7, op)
	}

	if opcode, ok := loopOpcodes[mnemonic]; ok {
		return encodeRel8(opcode, op)
	}
	if _, ok := conditionCodes[mnemonic]; ok {
		return encodeConditionalJump(mnemonic, op)
	}

	return Result{}, sasmerr.Newf(sasmerr.UnknownMnemonic, "unknown one-operand mnemonic %q", mnemonic)
}

func encodePush(op *parser.Operand) (Result, error) {
	switch op.Kind {
	case parser.OpConst:
		if fitsInt8(op.Value) {
			return plain([]byte{0x6A, byte(op.Value)})
		}
		return plain(append([]byte{0x68}, le32(op.Value)...))
	case parser.OpSymbolic:
		return withFixup(append([]byte{0x68}, 0, 0, 0, 0), 1, parser.FixupAbsolute32, op.Label)
	case parser.OpReg16_32:
		return plain([]byte{0x50 + op.RegCode})
	case parser.OpAddress8, parser.OpAddress16_32:
		rm, err := EncodeModRM(6, op)
		if err != nil {
			return Result{}, err
		}
		return plain(append([]byte{0xFF}, rm...))
	}
	return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "push does not accept this operand kind")
}

func encodePop(op *parser.Operand) (Result, error) {
	switch op.Kind {
	case parser.OpConst, parser.OpReg8:
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "pop forbids constant and 8-bit operands")
	case parser.OpReg16_32:
		return plain([]byte{0x58 + op.RegCode})
	case parser.OpAddress8, parser.OpAddress16_32:
		rm, err := EncodeModRM(0, op)
		if err != nil {
			return Result{}, err
		}
		return plain(append([]byte{0x8F}, rm...))
	}
	return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "pop does not accept this operand kind")
}

func encodeIncDec(op *parser.Operand, digit uint8) (Result, error) {
	if op.Kind == parser.OpReg16_32 {
		base := byte(0x40)
		if digit == 1 {
			base = 0x48
		}
		return plain([]byte{base + op.RegCode})
	}
	opcode := byte(0xFE)
	if op.Kind == parser.OpReg16_32 || op.Kind == parser.OpAddress16_32 {
		opcode = 0xFF
	}
	rm, err := EncodeModRM(digit, op)
	if err != nil {
		return Result{}, err
	}
	return plain(append([]byte{opcode}, rm...))
}

func encodeUnaryF6F7(op *parser.Operand, digit uint8) (Result, error) {
	opcode := byte(0xF6)
	if op.Kind == parser.OpReg16_32 || op.Kind == parser.OpAddress16_32 {
		opcode = 0xF7
	}
	rm, err := EncodeModRM(digit, op)
	if err != nil {
		return Result{}, err
	}
	return plain(append([]byte{opcode}, rm...))
}

func encodeCall(op *parser.Operand) (Result, error) {
	switch op.Kind {
	case parser.OpConst:
		return plain(append([]byte{0xE8}, le32(op.Value)...))
	case parser.OpSymbolic:
		return withFixup(append([]byte{0xE8}, 0, 0, 0, 0), 1, parser.FixupRelative32, op.Label)
	case parser.OpReg16_32, parser.OpAddress8, parser.OpAddress16_32:
		rm, err := EncodeModRM(2, op)
		if err != nil {
			return Result{}, err
		}
		return plain(append([]byte{0xFF}, rm...))
	}
	return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "call does not accept this operand kind")
}

func encodeJmp(op *parser.Operand, selfLoop bool) (Result, error) {
	switch op.Kind {
	case parser.OpConst:
		if fitsInt8(op.Value) {
			return plain([]byte{0xEB, byte(op.Value)})
		}
		return plain(append([]byte{0xE9}, le32(op.Value)...))
	case parser.OpSymbolic:
		if selfLoop {
			return plain([]byte{0xEB, 0xFE})
		}
		return withFixup(append([]byte{0xE9}, 0, 0, 0, 0), 1, parser.FixupRelative32, op.Label)
	case parser.OpReg16_32:
		rm, err := EncodeModRM(4, op)
		if err != nil {
			return Result{}, err
		}
		return plain(append([]byte{0xFF}, rm...))
	case parser.OpAddress8, parser.OpAddress16_32:
		rm, err := EncodeModRM(5, op)
		if err != nil {
			return Result{}, err
		}
		return plain(append([]byte{0xFF}, rm...))
	}
	return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "jmp does not accept this operand kind")
}

func encodeConditionalJump(mnemonic string, op *parser.Operand) (Result, error) {
	cc := conditionCodes[mnemonic]
	switch op.Kind {
	case parser.OpConst:
		return plain(append([]byte{0x0F, 0x80 + cc}, le32(op.Value)...))
	case parser.OpSymbolic:
		return withFixup(append([]byte{0x0F, 0x80 + cc}, 0, 0, 0, 0), 2, parser.FixupRelative32, op.Label)
	}
	return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "conditional jumps require a constant or label operand")
}

func encodeRel8(opcode byte, op *parser.Operand) (Result, error) {
	switch op.Kind {
	case parser.OpConst:
		if !fitsInt8(op.Value) {
			return Result{}, sasmerr.New(sasmerr.BadImmediate, "displacement does not fit a signed byte")
		}
		return plain([]byte{opcode, byte(op.Value)})
	case parser.OpSymbolic:
		return withFixup([]byte{opcode, 0}, 1, parser.FixupRelative8, op.Label)
	}
	return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "this form only accepts a constant or label operand")
}

func encodeStore(op *parser.Operand, width int) (Result, error) {
	if op.Kind != parser.OpConst {
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "store* requires a constant value")
	}
	switch width {
	case 1:
		return plain([]byte{byte(op.Value)})
	case 2:
		v := uint16(op.Value)
		return plain([]byte{byte(v), byte(v >> 8)})
	default:
		return plain(le32(op.Value))
	}
}

func encodeRetImm(opcode byte, op *parser.Operand) (Result, error) {
	if op.Kind != parser.OpConst {
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "ret/retf immediate operand must be constant")
	}
	return plain(append([]byte{opcode}, le32(op.Value)...))
}

func encodeImm8Op(opcode byte, op *parser.Operand) (Result, error) {
	if op.Kind != parser.OpConst {
		return Result{}, sasmerr.New(sasmerr.BadOperandCombination, "this form requires a constant 8-bit immediate")
	}
	return plain([]byte{opcode, byte(op.Value)})
}
