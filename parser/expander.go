package parser

import (
	"strconv"
	"strings"

	"github.com/lookbusy-sasm/sasm32/sasmerr"
)

// procFrame tracks the argument/local bookkeeping of one open proc..endp
// block while the structural expander walks the line list in order.
type procFrame struct {
	name      string
	args      []constDecl
	locals    []constDecl
	shift     int
	prologEnd int // index in the output line slice right after "mov ebp, esp"
}

// constDecl is one proc argument or local, deferred as an "$addconst"/
// "$remconst" stream marker rather than written into the constant table
// during expansion: substitution itself only happens later, per
// instruction, in the translator's encode loop.
type constDecl struct {
	name  string
	value string
}

// Expand runs the structural-expansion passes in source order: externs,
// data declarations, proc/local/endp frames, then the invoke/call/addr
// macros that depend on the constant and extern tables
// those earlier passes populate.
func Expand(lines []string, resolver ExternResolver, constants map[string]string, removed map[string]bool, externs map[string]int32) ([]string, error) {
	lines, err := expandExterns(lines, resolver, constants, externs)
	if err != nil {
		return nil, err
	}

	lines, err = expandDataDeclarations(lines)
	if err != nil {
		return nil, err
	}

	lines, err = expandProcLocal(lines)
	if err != nil {
		return nil, err
	}

	lines, err = expandInvoke(lines)
	if err != nil {
		return nil, err
	}

	lines, err = expandCallExtern(lines, externs)
	if err != nil {
		return nil, err
	}

	lines, err = expandAddrMacros(lines, externs)
	if err != nil {
		return nil, err
	}

	return lines, nil
}

func expandExterns(lines []string, resolver ExternResolver, constants map[string]string, externs map[string]int32) ([]string, error) {
	var out []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "extern ") {
			out = append(out, line)
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 || fields[2] != "lib" {
			return nil, sasmerr.Newf(sasmerr.BadExternSyntax, "malformed extern directive %q", line).WithReason(line)
		}
		name, library := fields[1], fields[3]

		// The extern line is the one place case survives preprocessing
		// (it names the host symbol exactly), but every other line has
		// already been lowercased, so any later reference to this extern
		// arrives lowercased too. Resolve against the original spelling,
		// bind under the lowercased one.
		key := strings.ToLower(name)

		if _, dup := externs[key]; dup {
			return nil, sasmerr.Newf(sasmerr.DuplicateExtern, "extern %q already defined", name).WithReason(line)
		}

		handle, ok := resolver.Resolve(library, name)
		if !ok {
			return nil, sasmerr.Newf(sasmerr.BadExternSyntax, "unresolved extern %q in library %q", name, library).WithReason(line)
		}
		externs[key] = handle
		// Also install as an ordinary constant so plain-text substitution
		// picks it up anywhere a ModR/M-free literal is expected; the
		// externs map additionally drives the addr-macro and call-rewrite
		// special cases, which must key on the symbol name before
		// substitution happens.
		constants[key] = strconv.FormatInt(int64(handle), 10)
	}
	return out, nil
}

// expandDataDeclarations rewrites "[name] db|dw|dd value_list" lines into
// a label line (when name is present) followed by one storeb/storew/
// stored primitive per element.
func expandDataDeclarations(lines []string) ([]string, error) {
	var out []string
	for _, line := range lines {
		name, unit, list, ok := splitDataDeclaration(line)
		if !ok {
			out = append(out, line)
			continue
		}

		if name != "" {
			out = append(out, name+":")
		}

		stores, err := expandDataList(list, unit)
		if err != nil {
			return nil, sasmerr.Newf(sasmerr.BadDataDirective, "%s", err.Error()).WithReason(line)
		}
		out = append(out, stores...)
	}
	return out, nil
}

func splitDataDeclaration(line string) (name, unit, list string, ok bool) {
	for _, dir := range []string{"db", "dw", "dd"} {
		if idx, label, matched := matchDirective(line, dir); matched {
			return label, dir, strings.TrimSpace(line[idx+len(dir):]), true
		}
	}
	return "", "", "", false
}

// matchDirective reports whether line is "<dir> rest" or "<name> <dir>
// rest", returning the index at which dir begins and the optional label.
func matchDirective(line, dir string) (idx int, label string, ok bool) {
	if line == dir || strings.HasPrefix(line, dir+" ") {
		return 0, "", true
	}
	prefix := " " + dir + " "
	if at := strings.Index(line, prefix); at > 0 {
		candidate := line[:at]
		if !strings.ContainsAny(candidate, " \t") {
			return at + 1, candidate, true
		}
	}
	return 0, "", false
}

// expandDataList expands a comma-separated element list (honoring commas
// nested inside quotes or dup(...) parens) into storeb/storew/stored
// primitives, recursively handling "<count> dup (<list>)".
func expandDataList(list, unit string) ([]string, error) {
	elems := splitTopLevelCommas(list)
	var out []string
	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}

		if count, inner, ok := splitDup(elem); ok {
			one, err := expandDataList(inner, unit)
			if err != nil {
				return nil, err
			}
			for i := 0; i < count; i++ {
				out = append(out, one...)
			}
			continue
		}

		if strings.HasPrefix(elem, "\"") && strings.HasSuffix(elem, "\"") && len(elem) >= 2 {
			literal, err := expandStringLiteral(elem[1:len(elem)-1], unit)
			if err != nil {
				return nil, err
			}
			out = append(out, literal...)
			continue
		}

		mnemonic := storeMnemonic(unit)
		out = append(out, mnemonic+" "+elem)
	}
	return out, nil
}

func storeMnemonic(unit string) string {
	switch unit {
	case "db":
		return "storeb"
	case "dw":
		return "storew"
	default:
		return "stored"
	}
}

// expandStringLiteral packs a quoted string's code units: byte unit emits
// one storeb per code unit, word unit emits one storew per code unit. A
// dword unit is rejected outright: a string only carries byte-sized code
// units, and there is no well-defined way to pack them four-wide, so
// "dd" of a string is a data-directive error rather than silently
// dropped or mis-packed.
func expandStringLiteral(s, unit string) ([]string, error) {
	units := []rune(s)
	var out []string
	switch unit {
	case "db":
		for _, u := range units {
			out = append(out, "storeb "+strconv.Itoa(int(u)))
		}
	case "dw":
		for _, u := range units {
			out = append(out, "storew "+strconv.Itoa(int(u)))
		}
	default:
		return nil, sasmerr.Newf(sasmerr.BadDataDirective, "string literal is not valid in a dd directive")
	}
	return out, nil
}

func splitDup(elem string) (count int, inner string, ok bool) {
	idx := strings.Index(elem, "dup")
	if idx < 0 {
		return 0, "", false
	}
	countTxt := strings.TrimSpace(elem[:idx])
	rest := strings.TrimSpace(elem[idx+3:])
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return 0, "", false
	}
	n, err := strconv.Atoi(countTxt)
	if err != nil {
		return 0, "", false
	}
	return n, rest[1 : len(rest)-1], true
}

// splitTopLevelCommas splits on commas that are not inside a quoted
// string or a dup(...) parenthesis group.
func splitTopLevelCommas(s string) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == '(' && !inQuotes:
			depth++
			cur.WriteByte(c)
		case c == ')' && !inQuotes:
			depth--
			cur.WriteByte(c)
		case c == ',' && !inQuotes && depth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// expandProcLocal implements proc/local/endp and the in-procedure ret
// rewrite. Argument and local substitutions are never written into the
// constant table here: that would make them visible to ParseOperand
// before the instructions that precede them (in source order) have even
// been parsed. Instead each declaration emits an "$addconst"/"$remconst"
// stream marker at the line position where it takes effect or expires;
// the translator's per-line encode loop applies them in order, the same
// way it encodes every other line.
func expandProcLocal(lines []string) ([]string, error) {
	var out []string
	var frame *procFrame

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "proc "):
			f, err := beginProc(line)
			if err != nil {
				return nil, err
			}
			frame = f
			out = append(out, frame.name+":")
			out = append(out, "push ebp")
			out = append(out, "mov ebp, esp")
			frame.prologEnd = len(out)
			for _, a := range frame.args {
				out = append(out, addConstLine(a))
			}

		case strings.HasPrefix(line, "local "):
			if frame == nil {
				return nil, sasmerr.Newf(sasmerr.BadLocalSyntax, "local declared outside a procedure").WithReason(line)
			}
			decls, err := addLocals(line, frame)
			if err != nil {
				return nil, err
			}
			for _, d := range decls {
				out = append(out, addConstLine(d))
			}

		case line == "endp":
			if frame == nil {
				return nil, sasmerr.Newf(sasmerr.BadLocalSyntax, "endp without matching proc").WithReason(line)
			}
			if frame.shift > 0 {
				out = insertLine(out, frame.prologEnd, "sub esp, "+strconv.Itoa(frame.shift))
			}
			for _, a := range frame.args {
				out = append(out, remConstLine(a.name))
			}
			for _, l := range frame.locals {
				out = append(out, remConstLine(l.name))
			}
			frame = nil

		case frame != nil && isRetMnemonic(line):
			out = append(out, "mov esp, ebp")
			out = append(out, "pop ebp")
			out = append(out, line)

		default:
			out = append(out, line)
		}
	}

	return out, nil
}

// insertLine splices s into lines at index at, shifting everything from
// at onward one position later.
func insertLine(lines []string, at int, s string) []string {
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, s)
	out = append(out, lines[at:]...)
	return out
}

func isRetMnemonic(line string) bool {
	for _, m := range []string{"ret", "retn", "retf"} {
		if line == m || strings.HasPrefix(line, m+" ") {
			return true
		}
	}
	return false
}

func beginProc(line string) (*procFrame, error) {
	rest := strings.TrimSpace(line[len("proc "):])
	nameEnd := strings.IndexAny(rest, " \t")
	var name, argList string
	if nameEnd < 0 {
		name = rest
	} else {
		name = rest[:nameEnd]
		argList = strings.TrimSpace(rest[nameEnd+1:])
	}

	frame := &procFrame{name: name}
	offset := 8
	if argList != "" {
		for _, arg := range splitTopLevelCommas(argList) {
			argName, size, err := splitSizedName(arg)
			if err != nil {
				return nil, err
			}
			frame.args = append(frame.args, constDecl{name: argName, value: "[ebp+" + strconv.Itoa(offset) + "]"})
			offset += size
		}
	}
	return frame, nil
}

func addLocals(line string, frame *procFrame) ([]constDecl, error) {
	rest := strings.TrimSpace(line[len("local "):])
	var decls []constDecl
	for _, decl := range splitTopLevelCommas(rest) {
		name, size, err := splitSizedName(decl)
		if err != nil {
			return nil, err
		}
		frame.shift += size
		d := constDecl{name: name, value: "[ebp-" + strconv.Itoa(frame.shift) + "]"}
		frame.locals = append(frame.locals, d)
		decls = append(decls, d)
	}
	return decls, nil
}

func splitSizedName(decl string) (name string, size int, err error) {
	decl = strings.TrimSpace(decl)
	idx := strings.Index(decl, ":")
	if idx < 0 {
		return "", 0, sasmerr.Newf(sasmerr.BadLocalSyntax, "missing size token in %q", decl).WithReason(decl)
	}
	name = strings.TrimSpace(decl[:idx])
	sizeTok := strings.TrimSpace(decl[idx+1:])
	switch sizeTok {
	case "dword":
		return name, 4, nil
	case "word":
		return name, 2, nil
	default:
		return "", 0, sasmerr.Newf(sasmerr.BadLocalSyntax, "size token must be dword or word, got %q", sizeTok).WithReason(decl)
	}
}

// expandInvoke rewrites "invoke callee, a, b, ..." into right-to-left
// pushes followed by a call.
func expandInvoke(lines []string) ([]string, error) {
	var out []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "invoke ") {
			out = append(out, line)
			continue
		}
		rest := strings.TrimSpace(line[len("invoke "):])
		parts := splitTopLevelCommas(rest)
		if len(parts) == 0 {
			return nil, sasmerr.Newf(sasmerr.BadOperandCombination, "empty invoke %q", line).WithReason(line)
		}
		callee := strings.TrimSpace(parts[0])
		args := parts[1:]
		for i := len(args) - 1; i >= 0; i-- {
			out = append(out, "push "+strings.TrimSpace(args[i]))
		}
		out = append(out, "call "+callee)
	}
	return out, nil
}

// expandCallExtern rewrites "call name" into an indirect call when name
// is an extern symbol, since its absolute address cannot survive the
// relative call32 encoding.
func expandCallExtern(lines []string, externs map[string]int32) ([]string, error) {
	var out []string
	for _, line := range lines {
		if strings.HasPrefix(line, "call ") {
			target := strings.TrimSpace(line[len("call "):])
			if _, ok := externs[target]; ok {
				out = append(out, "mov ecx, "+target)
				out = append(out, "call ecx")
				continue
			}
		}
		out = append(out, line)
	}
	return out, nil
}

// expandAddrMacros rewrites "push addr X" and "mov reg, addr X".
func expandAddrMacros(lines []string, externs map[string]int32) ([]string, error) {
	var out []string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "push addr "):
			operand := strings.TrimSpace(line[len("push addr "):])
			if strings.Contains(operand, "[") {
				out = append(out, "push ecx", "lea ecx, "+operand, "xchg [esp], ecx")
			} else {
				out = append(out, "push ecx", "mov ecx, "+operand, "add ecx, $this", "xchg [esp], ecx")
			}

		case strings.HasPrefix(line, "mov ") && strings.Contains(line, ", addr "):
			idx := strings.Index(line, ", addr ")
			reg := strings.TrimSpace(line[len("mov "):idx])
			operand := strings.TrimSpace(line[idx+len(", addr "):])
			switch {
			case strings.Contains(operand, "["):
				out = append(out, "lea "+reg+", "+operand)
			default:
				if _, isExtern := externs[operand]; isExtern {
					out = append(out, "mov "+reg+", "+operand)
				} else {
					out = append(out, "mov "+reg+", "+operand, "add "+reg+", $this")
				}
			}

		default:
			out = append(out, line)
		}
	}
	return out, nil
}

// addConstPrefix and remConstPrefix mark the stream instructions
// expandProcLocal emits in place of a proc argument or local's constant
// table entry. Kept as literal directive text, like every other
// structural form this expander produces, rather than a distinct line
// type: the translator's encode loop recognizes and consumes them before
// they'd otherwise reach SplitMnemonicOperands.
const (
	addConstPrefix = "$addconst "
	remConstPrefix = "$remconst "
)

func addConstLine(d constDecl) string {
	return addConstPrefix + d.name + " " + d.value
}

func remConstLine(name string) string {
	return remConstPrefix + name
}

// ParseAddConst reports whether line is an "$addconst name value" stream
// marker, returning the name to install and its substitution value.
func ParseAddConst(line string) (name, value string, ok bool) {
	if !strings.HasPrefix(line, addConstPrefix) {
		return "", "", false
	}
	rest := line[len(addConstPrefix):]
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// ParseRemConst reports whether line is a "$remconst name" stream
// marker, returning the name going out of scope.
func ParseRemConst(line string) (name string, ok bool) {
	if !strings.HasPrefix(line, remConstPrefix) {
		return "", false
	}
	return line[len(remConstPrefix):], true
}
