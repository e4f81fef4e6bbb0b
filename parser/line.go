package parser

import "strings"

// SplitMnemonicOperands splits a fully-preprocessed, fully-expanded
// instruction line into its mnemonic and raw operand texts, splitting
// operands on commas outside quotes and parentheses (an address
// operand's scale/index/base terms never contain a comma, so brackets
// need no special handling).
func SplitMnemonicOperands(line string) (mnemonic string, operands []string) {
	sp := strings.IndexAny(line, " \t")
	if sp < 0 {
		return line, nil
	}
	mnemonic = line[:sp]
	rest := strings.TrimSpace(line[sp+1:])

	if isRepToken(mnemonic) {
		sp2 := strings.IndexAny(rest, " \t")
		if sp2 < 0 {
			return mnemonic + " " + rest, nil
		}
		mnemonic = mnemonic + " " + rest[:sp2]
		rest = strings.TrimSpace(rest[sp2+1:])
	}

	if rest == "" {
		return mnemonic, nil
	}
	for _, part := range splitTopLevelCommas(rest) {
		operands = append(operands, strings.TrimSpace(part))
	}
	return mnemonic, operands
}

func isRepToken(tok string) bool {
	switch tok {
	case "rep", "repe", "repz", "repne", "repnz":
		return true
	}
	return false
}
