package parser

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// IsNumericLiteral reports whether tok (case-normalized, a leading sign
// optionally present) is a numeric literal: either it ends in 'h' with
// every preceding character a hex digit and the first
// of those a decimal digit, or every character of the unsigned body is
// one of 0-9, 'b', 'd'.
func IsNumericLiteral(tok string) bool {
	_, _, ok := splitLiteral(tok)
	return ok
}

// splitLiteral strips an optional leading sign and, if tok is a numeric
// literal, returns the base and the unsuffixed digit run.
func splitLiteral(tok string) (base int, digits string, ok bool) {
	body := tok
	if strings.HasPrefix(body, "+") || strings.HasPrefix(body, "-") {
		body = body[1:]
	}
	if body == "" {
		return 0, "", false
	}

	if strings.HasSuffix(body, "h") {
		rest := body[:len(body)-1]
		if rest != "" && isAllHexDigits(rest) && rest[0] >= '0' && rest[0] <= '9' {
			return 16, rest, true
		}
	}

	if isAllIn(body, "0123456789bd") {
		base, digits := 10, body
		switch body[len(body)-1] {
		case 'b':
			base, digits = 2, body[:len(body)-1]
		case 'd':
			base, digits = 10, body[:len(body)-1]
		}
		if digits == "" || !isAllDigitsForBase(digits, base) {
			return 0, "", false
		}
		return base, digits, true
	}

	return 0, "", false
}

func isAllHexDigits(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

func isAllIn(s, set string) bool {
	for _, c := range s {
		if !strings.ContainsRune(set, c) {
			return false
		}
	}
	return true
}

func isAllDigitsForBase(s string, base int) bool {
	switch base {
	case 2:
		return isAllIn(s, "01")
	case 10:
		return isAllIn(s, "0123456789")
	default:
		return false
	}
}

// ParseNumericLiteral converts a numeric literal token to its signed
// 32-bit value, honoring a leading +/- sign.
func ParseNumericLiteral(tok string) (int32, bool) {
	neg := strings.HasPrefix(tok, "-")
	base, digits, ok := splitLiteral(tok)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, false
	}
	value := int32(uint32(v))
	if neg {
		value = -value
	}
	return value, true
}

// FoldTerms folds a bracketed expression's numeric sub-terms: scan
// left-to-right splitting on +/-, sum the recognized numeric literal
// terms, and concatenate the unrecognized terms, emitting
// "unrecognized_terms + signed_sum".
func FoldTerms(expr string) string {
	terms := splitSignedTerms(expr)

	var unrecognized []string
	sum := lo.Reduce(terms, func(acc int32, term string, _ int) int32 {
		if v, ok := ParseNumericLiteral(term); ok {
			return acc + v
		}
		unrecognized = append(unrecognized, term)
		return acc
	}, int32(0))

	joined := strings.Join(unrecognized, "")
	if sum == 0 && len(unrecognized) > 0 {
		return joined
	}
	if sum >= 0 {
		if joined == "" {
			return strconv.FormatInt(int64(sum), 10)
		}
		return joined + "+" + strconv.FormatInt(int64(sum), 10)
	}
	return joined + strconv.FormatInt(int64(sum), 10)
}

// splitSignedTerms splits expr on top-level '+'/'-' boundaries, keeping
// each term's leading sign attached (the first term's sign is implicit
// '+' when absent).
func splitSignedTerms(expr string) []string {
	var terms []string
	var cur strings.Builder
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if (c == '+' || c == '-') && i > 0 {
			terms = append(terms, cur.String())
			cur.Reset()
		}
		cur.WriteByte(c)
	}
	if cur.Len() > 0 {
		terms = append(terms, cur.String())
	}
	return terms
}
