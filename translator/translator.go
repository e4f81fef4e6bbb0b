// Package translator ties the parser and encoder packages together: it
// walks a preprocessed, expanded, label-collected program, encodes each
// instruction, runs the two-sweep fixup engine, and assembles the final
// Assembly output.
package translator

import (
	"strings"

	"github.com/lookbusy-sasm/sasm32/encoder"
	"github.com/lookbusy-sasm/sasm32/parser"
	"github.com/lookbusy-sasm/sasm32/sasmerr"
)

// Options controls optional translation behavior.
type Options struct {
	// WithPrologEpilog pre-installs the $first/$second/$this/$return
	// constants and prepends the fixed prolog body. The epilog is emitted
	// where the source's asmret line stands; asmret expands to it whether
	// or not this option is set.
	WithPrologEpilog bool
}

// Translate is a pure function: source text plus an extern-symbol
// resolver in, assembled bytes plus metadata out.
func Translate(source string, resolver parser.ExternResolver, opts Options) (*Assembly, error) {
	program := parser.NewProgram()

	if opts.WithPrologEpilog {
		InstallPrologConstants(program.Constants)
	}

	rawLines := strings.Split(source, "\n")

	lines, err := parser.Preprocess(rawLines, program.Constants, epilogLines)
	if err != nil {
		return nil, err
	}

	if opts.WithPrologEpilog {
		lines = append(append([]string{}, prologLines...), lines...)
	}

	lines, err = parser.Expand(lines, resolver, program.Constants, program.Removed, program.Externs)
	if err != nil {
		return nil, err
	}

	remaining, labels, variableLabels, err := parser.CollectLabels(lines)
	if err != nil {
		return nil, err
	}
	program.Labels = labels

	for i, line := range remaining {
		if name, value, ok := parser.ParseAddConst(line); ok {
			program.Constants[name] = value
			delete(program.Removed, name)
			program.AddInstruction(&parser.Instruction{Mnemonic: "$addconst", SourceLine: line})
			continue
		}
		if name, ok := parser.ParseRemConst(line); ok {
			delete(program.Constants, name)
			program.Removed[name] = true
			program.AddInstruction(&parser.Instruction{Mnemonic: "$remconst", SourceLine: line})
			continue
		}

		mnemonic, operandTexts := parser.SplitMnemonicOperands(line)

		operands := make([]*parser.Operand, 0, len(operandTexts))
		for _, text := range operandTexts {
			op, parseErr := parser.ParseOperand(text, program.Constants, program.Removed, program.Externs)
			if parseErr != nil {
				return nil, parseErr
			}
			operands = append(operands, op)
		}

		selfLoop := isSelfLoopJump(mnemonic, operands, labels, i)

		result, encErr := encoder.EncodeInstruction(mnemonic, operands, selfLoop)
		if encErr != nil {
			if te, ok := encErr.(*sasmerr.TranslationError); ok {
				te.WithReason(&parser.Instruction{Mnemonic: mnemonic, Operands: operands, SourceLine: line})
			}
			return nil, encErr
		}

		instr := &parser.Instruction{Mnemonic: mnemonic, Operands: operands, Bytes: result.Bytes, SourceLine: line}
		idx := program.AddInstruction(instr)

		if result.HasFixup {
			program.AddFixup(&parser.Fixup{
				InstructionIndex: idx,
				ByteOffset:       result.FixupOffset,
				Kind:             result.FixupKind,
				TargetLabel:      result.TargetLabel,
			})
		}
	}

	total := assignOffsets(program)
	resolveLabelOffsets(program, total)
	if err := applyFixups(program); err != nil {
		return nil, err
	}

	code := make([]byte, 0, total)
	for _, instr := range program.Instructions {
		code = append(code, instr.Bytes...)
	}

	variableOffsets := make(map[string]int, len(variableLabels))
	initialBytes := make(map[int][]byte, len(variableLabels))
	labelStarts := make(map[int]bool, len(program.Labels))
	for _, lbl := range program.Labels {
		labelStarts[lbl.InstructionIndex] = true
	}
	for name := range variableLabels {
		lbl := program.Labels[name]
		variableOffsets[name] = lbl.Offset
		var snapshot []byte
		for j := lbl.InstructionIndex; j < len(program.Instructions); j++ {
			next := program.Instructions[j]
			if !strings.HasPrefix(next.Mnemonic, "store") || (j > lbl.InstructionIndex && labelStarts[j]) {
				break
			}
			snapshot = append(snapshot, next.Bytes...)
		}
		initialBytes[lbl.Offset] = snapshot
	}

	return &Assembly{
		Code:                 code,
		VariableOffsets:      variableOffsets,
		InitialVariableBytes: initialBytes,
	}, nil
}

// isSelfLoopJump reports whether operand 0 of a single-operand jmp is
// symbolic and names the label immediately preceding this very
// instruction (e.g. "L: jmp L"), the one case where the short-jump
// displacement is provable without the fixup sweep.
func isSelfLoopJump(mnemonic string, operands []*parser.Operand, labels map[string]*parser.Label, instrIndex int) bool {
	if mnemonic != "jmp" || len(operands) != 1 || operands[0].Kind != parser.OpSymbolic {
		return false
	}
	lbl, ok := labels[operands[0].Label]
	return ok && lbl.InstructionIndex == instrIndex
}
