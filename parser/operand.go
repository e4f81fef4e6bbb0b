package parser

import (
	"strings"

	"github.com/lookbusy-sasm/sasm32/sasmerr"
	"github.com/samber/lo"
)

// OperandKind tags the variant carried by an Operand.
type OperandKind int

const (
	OpConst OperandKind = iota
	OpSymbolic
	OpReg8
	OpReg16_32
	OpAddress8
	OpAddress16_32
)

// Operand is the tagged variant passed between the parser and encoder.
// Only the fields relevant to Kind are populated; the encoder inspects
// Kind rather than probing attributes.
type Operand struct {
	Kind OperandKind

	// OpConst
	Value int32

	// OpSymbolic
	Label string

	// OpReg8 / OpReg16_32
	RegName string
	RegCode uint8
	Is32    bool // meaningful only for OpReg16_32

	// OpAddress8 / OpAddress16_32
	HasBase   bool
	BaseCode  uint8
	HasIndex  bool
	IndexCode uint8
	Scale     uint8 // 1, 2, 4 or 8; meaningful when HasIndex
	Disp      int32

	Raw string // original (post-substitution) operand text, for diagnostics
}

// IsMemory reports whether the operand addresses memory.
func (o *Operand) IsMemory() bool {
	return o.Kind == OpAddress8 || o.Kind == OpAddress16_32
}

// IsRegister reports whether the operand names a register.
func (o *Operand) IsRegister() bool {
	return o.Kind == OpReg8 || o.Kind == OpReg16_32
}

// ParseOperand classifies a single textual operand.
// constants/removed/externs are the translation unit's current constant
// table, removed-constant set (shadowed procedure locals/args) and
// resolved extern addresses.
func ParseOperand(text string, constants map[string]string, removed map[string]bool, externs map[string]int32) (*Operand, error) {
	sizeHint, rest := stripSizeHint(text)
	rest = strings.ReplaceAll(rest, " ", "")

	if name, shadowed := lo.Find(lo.Keys(removed), func(n string) bool {
		return removed[n] && containsWord(rest, n)
	}); shadowed {
		return nil, sasmerr.Newf(sasmerr.ShadowedConstant, "operand %q references out-of-scope name %q", text, name)
	}

	rest = substituteConstants(rest, constants)

	if strings.Contains(rest, "[") {
		inner, err := canonicalizeBrackets(rest)
		if err != nil {
			return nil, err
		}
		return parseAddress(inner, sizeHint, text)
	}

	if code, ok := RegCode8(rest); ok {
		return &Operand{Kind: OpReg8, RegName: rest, RegCode: code, Raw: text}, nil
	}
	if info, ok := RegCode16_32(rest); ok {
		return &Operand{Kind: OpReg16_32, RegName: rest, RegCode: info.Code, Is32: info.Is32, Raw: text}, nil
	}

	if IsNumericLiteral(rest) {
		v, _ := ParseNumericLiteral(rest)
		return &Operand{Kind: OpConst, Value: v, Raw: text}, nil
	}

	if addr, ok := externs[rest]; ok {
		return &Operand{Kind: OpConst, Value: addr, Raw: text}, nil
	}

	return &Operand{Kind: OpSymbolic, Label: rest, Raw: text}, nil
}

func stripSizeHint(text string) (hint string, rest string) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "byte "), strings.HasPrefix(lower, "byte\t"):
		return "byte", strings.TrimSpace(trimmed[5:])
	case strings.HasPrefix(lower, "word "), strings.HasPrefix(lower, "word\t"):
		return "word", strings.TrimSpace(trimmed[5:])
	default:
		return "", trimmed
	}
}

func containsWord(haystack, word string) bool {
	idx := strings.Index(haystack, word)
	if idx < 0 {
		return false
	}
	before := byte(0)
	if idx > 0 {
		before = haystack[idx-1]
	}
	after := byte(0)
	end := idx + len(word)
	if end < len(haystack) {
		after = haystack[end]
	}
	return !isIdentByte(before) && !isIdentByte(after)
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func substituteConstants(text string, constants map[string]string) string {
	names := lo.Keys(constants)
	// Matching is whole-word (see replaceWord), so a constant that is a
	// prefix of another (e.g. "count" vs "count2") never partially
	// replaces it; names are tried in map order.
	for changed := true; changed; {
		changed = false
		for _, name := range names {
			if containsWord(text, name) {
				text = replaceWord(text, name, constants[name])
				changed = true
			}
		}
	}
	return text
}

func replaceWord(haystack, word, repl string) string {
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(haystack[i:], word)
		if idx < 0 {
			b.WriteString(haystack[i:])
			break
		}
		idx += i
		before := byte(0)
		if idx > 0 {
			before = haystack[idx-1]
		}
		after := byte(0)
		end := idx + len(word)
		if end < len(haystack) {
			after = haystack[end]
		}
		if !isIdentByte(before) && !isIdentByte(after) {
			b.WriteString(haystack[i:idx])
			b.WriteString(repl)
			i = end
		} else {
			b.WriteString(haystack[i : idx+1])
			i = idx + 1
		}
	}
	return b.String()
}

// canonicalizeBrackets reduces an operand string containing "[...]" to
// just its inner contents.
func canonicalizeBrackets(text string) (string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < 0 || end < start {
		return "", sasmerr.Newf(sasmerr.BadAddress, "malformed bracketed operand %q", text)
	}
	return text[start+1 : end], nil
}

// parseAddress folds numeric sub-terms, splits on +/- into at most
// 3 terms, and classifies each term as displacement, index*scale, or
// base register.
func parseAddress(inner, sizeHint, raw string) (*Operand, error) {
	folded := FoldTerms(inner)
	terms := splitSignedTerms(folded)
	if len(terms) > 3 {
		return nil, sasmerr.Newf(sasmerr.BadAddress, "too many terms in address %q", raw)
	}

	op := &Operand{Raw: raw}
	if sizeHint == "byte" {
		op.Kind = OpAddress8
	} else {
		op.Kind = OpAddress16_32
	}

	haveBase := false
	for _, term := range terms {
		neg := strings.HasPrefix(term, "-")
		body := term
		if neg || strings.HasPrefix(term, "+") {
			body = term[1:]
		}

		if body == "" {
			continue
		}

		if strings.Contains(body, "*") {
			parts := strings.SplitN(body, "*", 2)
			regName, scaleTxt := parts[0], parts[1]
			info, ok := RegCode16_32(regName)
			if !ok {
				return nil, sasmerr.Newf(sasmerr.BadAddress, "unknown index register %q in %q", regName, raw)
			}
			if neg {
				return nil, sasmerr.Newf(sasmerr.BadAddress, "illegal sign on index term in %q", raw)
			}
			if !IsNumericLiteral(scaleTxt) {
				return nil, sasmerr.Newf(sasmerr.BadAddress, "scale must be constant in %q", raw)
			}
			scale, _ := ParseNumericLiteral(scaleTxt)
			if scale != 1 && scale != 2 && scale != 4 && scale != 8 {
				return nil, sasmerr.Newf(sasmerr.BadAddress, "scale %d not in {1,2,4,8} in %q", scale, raw)
			}
			if op.HasIndex {
				return nil, sasmerr.Newf(sasmerr.BadAddress, "duplicate index term in %q", raw)
			}
			op.HasIndex = true
			op.IndexCode = info.Code
			op.Scale = uint8(scale)
			continue
		}

		if IsNumericLiteral(term) {
			v, _ := ParseNumericLiteral(term)
			op.Disp += v
			continue
		}

		info, ok := RegCode16_32(body)
		if !ok {
			return nil, sasmerr.Newf(sasmerr.BadAddress, "unknown register %q in address %q", body, raw)
		}
		if !haveBase {
			if neg {
				return nil, sasmerr.Newf(sasmerr.BadAddress, "illegal sign on base register in %q", raw)
			}
			op.HasBase = true
			op.BaseCode = info.Code
			haveBase = true
			continue
		}
		if op.HasIndex {
			return nil, sasmerr.Newf(sasmerr.BadAddress, "too many base/index registers in %q", raw)
		}
		if neg {
			return nil, sasmerr.Newf(sasmerr.BadAddress, "illegal sign on index register in %q", raw)
		}
		op.HasIndex = true
		op.IndexCode = info.Code
		op.Scale = 1
	}

	return op, nil
}
