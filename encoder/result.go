package encoder

import "github.com/lookbusy-sasm/sasm32/parser"

// Result is the output of encoding one instruction: the encoded bytes
// plus, when an operand was symbolic, the deferred fixup describing how
// to patch the placeholder bytes once label offsets are known. The
// per-arity encoders return the instruction body alone;
// EncodeInstruction's Result has the prefix bytes folded into Bytes and
// counted in FixupOffset.
type Result struct {
	Bytes       []byte
	HasFixup    bool
	FixupOffset int
	FixupKind   parser.FixupKind
	TargetLabel string
}

func plain(bytes []byte) (Result, error) {
	return Result{Bytes: bytes}, nil
}

func withFixup(bytes []byte, offset int, kind parser.FixupKind, label string) (Result, error) {
	return Result{Bytes: bytes, HasFixup: true, FixupOffset: offset, FixupKind: kind, TargetLabel: label}, nil
}
