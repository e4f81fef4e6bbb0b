package translator

import (
	"encoding/binary"

	"github.com/lookbusy-sasm/sasm32/parser"
	"github.com/lookbusy-sasm/sasm32/sasmerr"
)

// assignOffsets runs the fixup engine's first sweep: each instruction's
// byte offset is the running sum of the bytecode+prefix lengths of
// every instruction preceding it. Prefixes are already
// folded into Instruction.Bytes by the encoder, so the running sum is
// simply len(instr.Bytes).
func assignOffsets(p *parser.Program) int {
	running := 0
	for _, instr := range p.Instructions {
		instr.Offset = running
		running += len(instr.Bytes)
	}
	return running
}

// resolveLabelOffsets is the first half of the second sweep: every
// label inherits the byte offset of the instruction it precedes. A
// label defined after the last instruction (a trailing label with
// nothing following it) inherits the total program length.
func resolveLabelOffsets(p *parser.Program, totalLength int) {
	for _, lbl := range p.Labels {
		if lbl.InstructionIndex >= len(p.Instructions) {
			lbl.Offset = totalLength
			continue
		}
		lbl.Offset = p.Instructions[lbl.InstructionIndex].Offset
	}
}

// applyFixups drains the deferred fixup records, overwriting the
// placeholder bytes each one reserved with the now-known label offset,
// absolute or PC-relative per its Kind.
func applyFixups(p *parser.Program) error {
	for _, fx := range p.Fixups {
		lbl, ok := p.Labels[fx.TargetLabel]
		if !ok {
			return sasmerr.Newf(sasmerr.BadAddress, "reference to undefined label %q", fx.TargetLabel)
		}
		instr := p.Instructions[fx.InstructionIndex]

		switch fx.Kind {
		case parser.FixupAbsolute32:
			binary.LittleEndian.PutUint32(instr.Bytes[fx.ByteOffset:fx.ByteOffset+4], uint32(lbl.Offset))

		case parser.FixupRelative32:
			disp := lbl.Offset - (instr.Offset + len(instr.Bytes))
			binary.LittleEndian.PutUint32(instr.Bytes[fx.ByteOffset:fx.ByteOffset+4], uint32(int32(disp)))

		case parser.FixupRelative8:
			disp := lbl.Offset - (instr.Offset + len(instr.Bytes))
			if disp < -128 || disp > 127 {
				return sasmerr.Newf(sasmerr.BadImmediate, "displacement to %q does not fit a signed byte", fx.TargetLabel).WithReason(instr.SourceLine)
			}
			instr.Bytes[fx.ByteOffset] = byte(int8(disp))
		}
	}
	return nil
}
