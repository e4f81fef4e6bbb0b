package parser

import (
	"strings"

	"github.com/lookbusy-sasm/sasm32/sasmerr"
)

// NormalizeLine applies per-line normalization: quote unification,
// comment stripping, whitespace collapsing, and
// case-folding everywhere except inside double-quoted spans and inside
// lines containing " lib " (extern declarations), which keep the case of
// the whole line so the external symbol name reaches the resolver as
// written.
func NormalizeLine(line string) string {
	line = strings.ReplaceAll(line, "'", "\"")

	preserveCase := strings.Contains(line, " lib ")

	var out strings.Builder
	inQuotes := false
	prevSpace := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ';' && !inQuotes {
			break
		}
		if c == '"' {
			inQuotes = !inQuotes
			out.WriteByte(c)
			prevSpace = false
			continue
		}
		if c == ' ' || c == '\t' {
			if prevSpace {
				continue
			}
			prevSpace = true
			out.WriteByte(' ')
			continue
		}
		prevSpace = false
		if inQuotes || preserveCase {
			out.WriteByte(c)
		} else {
			out.WriteByte(lowerByte(c))
		}
	}

	return strings.TrimSpace(out.String())
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// Preprocess walks raw source lines, installing `equ` constants into
// constants, expanding the literal `asmret` line to the fixed epilog,
// and dropping blank lines. It returns the remaining line list;
// constants is populated in place.
func Preprocess(rawLines []string, constants map[string]string, epilog []string) ([]string, error) {
	var out []string

	for _, raw := range rawLines {
		line := NormalizeLine(raw)
		if line == "" {
			continue
		}

		if idx := strings.Index(line, " equ "); idx >= 0 {
			name := strings.TrimSpace(line[:idx])
			value := strings.TrimSpace(line[idx+len(" equ "):])
			if _, exists := constants[name]; exists {
				return nil, sasmerr.Newf(sasmerr.DuplicateConstant, "constant %q already defined", name).WithReason(raw)
			}
			constants[name] = value
			continue
		}

		if line == "asmret" {
			out = append(out, epilog...)
			continue
		}

		out = append(out, line)
	}

	return out, nil
}
