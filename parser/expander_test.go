package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lookbusy-sasm/sasm32/parser"
)

type fakeResolver struct {
	addr int32
}

func (f fakeResolver) Resolve(library, symbol string) (int32, bool) {
	if library == "kernel32" && symbol == "ExitProcess" {
		return f.addr, true
	}
	return 0, false
}

func expandWith(t *testing.T, lines []string, resolver parser.ExternResolver) ([]string, map[string]string, map[string]int32) {
	t.Helper()
	constants := map[string]string{}
	removed := map[string]bool{}
	externs := map[string]int32{}
	out, err := parser.Expand(lines, resolver, constants, removed, externs)
	require.NoError(t, err)
	return out, constants, externs
}

func TestExpand_DataDeclarationWithStringAndTrailingByte(t *testing.T) {
	out, _, _ := expandWith(t, []string{`foo db "AB", 0`}, fakeResolver{})
	require.Equal(t, []string{"foo:", "storeb 65", "storeb 66", "storeb 0"}, out)
}

func TestExpand_DupExpansion(t *testing.T) {
	out, _, _ := expandWith(t, []string{"arr dd 3 dup (0)"}, fakeResolver{})
	require.Equal(t, []string{"arr:", "stored 0", "stored 0", "stored 0"}, out)
}

func TestExpand_DwordStringRejected(t *testing.T) {
	_, err := parser.Expand([]string{`bad dd "AB"`}, fakeResolver{}, map[string]string{}, map[string]bool{}, map[string]int32{})
	require.Error(t, err)
}

func TestExpand_ExternCaseFolding(t *testing.T) {
	// The extern declaration preserves "ExitProcess"'s case for Resolve,
	// but every later reference has already been lowercased by the
	// preprocessor, so the call site reads "exitprocess".
	out, constants, externs := expandWith(t, []string{
		"extern ExitProcess lib kernel32",
		"call exitprocess",
	}, fakeResolver{addr: 0x7C81CAFA})

	require.Equal(t, []string{"mov ecx, exitprocess", "call ecx"}, out)
	require.Contains(t, externs, "exitprocess")
	require.Equal(t, int32(0x7C81CAFA), externs["exitprocess"])
	require.Contains(t, constants, "exitprocess")
}

func TestExpand_UnresolvedExternFails(t *testing.T) {
	_, err := parser.Expand([]string{"extern Missing lib kernel32"}, fakeResolver{}, map[string]string{}, map[string]bool{}, map[string]int32{})
	require.Error(t, err)
}

func TestExpand_DuplicateExternFails(t *testing.T) {
	lines := []string{
		"extern ExitProcess lib kernel32",
		"extern exitprocess lib kernel32",
	}
	_, err := parser.Expand(lines, fakeResolver{addr: 1}, map[string]string{}, map[string]bool{}, map[string]int32{})
	require.Error(t, err)
}

func TestExpand_ProcLocalArgAndLocalOffsets(t *testing.T) {
	lines := []string{
		"proc foo a:dword, b:word",
		"local x:dword",
		"mov eax, a",
		"ret",
		"endp",
	}
	constants := map[string]string{}
	removed := map[string]bool{}
	out, err := parser.Expand(lines, fakeResolver{}, constants, removed, map[string]int32{})
	require.NoError(t, err)

	// sub esp lands right after the prolog, ahead of the body, and the
	// arg/local constants are deferred addconst/remconst markers rather
	// than entries mutated into constants/removed here.
	require.Equal(t, []string{
		"foo:",
		"push ebp",
		"mov ebp, esp",
		"sub esp, 4",
		"$addconst a [ebp+8]",
		"$addconst b [ebp+12]",
		"$addconst x [ebp-4]",
		"mov eax, a",
		"mov esp, ebp",
		"pop ebp",
		"ret",
		"$remconst a",
		"$remconst b",
		"$remconst x",
	}, out)

	require.Empty(t, constants)
	require.Empty(t, removed)
}

func TestExpand_LocalOutsideProcFails(t *testing.T) {
	_, err := parser.Expand([]string{"local x:dword"}, fakeResolver{}, map[string]string{}, map[string]bool{}, map[string]int32{})
	require.Error(t, err)
}

func TestExpand_InvokePushesArgumentsRightToLeft(t *testing.T) {
	out, _, _ := expandWith(t, []string{"invoke foo, a, b"}, fakeResolver{})
	require.Equal(t, []string{"push b", "push a", "call foo"}, out)
}

func TestExpand_PushAddrOfMemoryOperand(t *testing.T) {
	out, _, _ := expandWith(t, []string{"push addr [ebx]"}, fakeResolver{})
	require.Equal(t, []string{"push ecx", "lea ecx, [ebx]", "xchg [esp], ecx"}, out)
}

func TestExpand_PushAddrOfSymbol(t *testing.T) {
	out, _, _ := expandWith(t, []string{"push addr myvar"}, fakeResolver{})
	require.Equal(t, []string{"push ecx", "mov ecx, myvar", "add ecx, $this", "xchg [esp], ecx"}, out)
}

func TestExpand_MovAddrOfExternSkipsThisOffset(t *testing.T) {
	lines := []string{
		"extern ExitProcess lib kernel32",
		"mov eax, addr exitprocess",
	}
	out, _, _ := expandWith(t, lines, fakeResolver{addr: 0x10})
	require.Equal(t, []string{"mov eax, exitprocess"}, out)
}

func TestExpand_MovAddrOfSymbolAddsThisOffset(t *testing.T) {
	out, _, _ := expandWith(t, []string{"mov eax, addr myvar"}, fakeResolver{})
	require.Equal(t, []string{"mov eax, myvar", "add eax, $this"}, out)
}
