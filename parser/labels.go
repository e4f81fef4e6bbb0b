package parser

import (
	"strings"

	"github.com/lookbusy-sasm/sasm32/sasmerr"
)

// CollectLabels scans the fully structurally expanded line list: every
// line ending in ":" is a label definition.
// It returns the line list with label lines removed, the populated
// label table, and the set of variable-label names (labels immediately
// preceding a store{b,w,d} primitive).
func CollectLabels(lines []string) ([]string, map[string]*Label, map[string]bool, error) {
	labels := make(map[string]*Label)
	variableLabels := make(map[string]bool)

	var remaining []string
	instructionIndex := 0

	for i, line := range lines {
		if !strings.HasSuffix(line, ":") {
			remaining = append(remaining, line)
			instructionIndex++
			continue
		}

		name := strings.TrimSpace(line[:len(line)-1])

		if strings.ContainsAny(name, "[]") {
			return nil, nil, nil, sasmerr.Newf(sasmerr.BadLabelName, "label %q may not contain brackets", name).WithReason(line)
		}
		if isHexLikeName(name) {
			return nil, nil, nil, sasmerr.Newf(sasmerr.BadLabelName, "label %q is ambiguous with a numeric literal", name).WithReason(line)
		}
		if IsRegisterName(name) {
			return nil, nil, nil, sasmerr.Newf(sasmerr.BadLabelName, "label %q collides with a register name", name).WithReason(line)
		}
		if _, dup := labels[name]; dup {
			return nil, nil, nil, sasmerr.Newf(sasmerr.DuplicateLabel, "label %q already defined", name).WithReason(line)
		}

		labels[name] = &Label{Name: name, InstructionIndex: instructionIndex, Offset: -1}

		if next, ok := nextNonLabel(lines, i+1); ok && startsWithStore(next) {
			variableLabels[name] = true
		}
	}

	return remaining, labels, variableLabels, nil
}

func nextNonLabel(lines []string, from int) (string, bool) {
	for i := from; i < len(lines); i++ {
		if !strings.HasSuffix(lines[i], ":") {
			return lines[i], true
		}
	}
	return "", false
}

func startsWithStore(line string) bool {
	for _, prefix := range []string{"storeb ", "storew ", "stored "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// isHexLikeName reports whether name, stripped of an optional trailing
// 'h', is entirely hex digits — ambiguous with a numeric literal.
func isHexLikeName(name string) bool {
	body := name
	if strings.HasSuffix(body, "h") {
		body = body[:len(body)-1]
	}
	if body == "" {
		return false
	}
	return isAllHexDigits(body)
}
