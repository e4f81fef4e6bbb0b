package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lookbusy-sasm/sasm32/parser"
)

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases mnemonics and registers", "MOV EAX, EBX", "mov eax, ebx"},
		{"strips trailing comment", "mov eax, ebx ; load it", "mov eax, ebx"},
		{"collapses whitespace", "mov   eax,\tebx", "mov eax, ebx"},
		{"unifies single quotes to double", "mov al, 'A'", `mov al, "A"`},
		{"preserves case inside double quotes", `msg db "Hello World", 0`, `msg db "Hello World", 0`},
		{"preserves whole line case for lib declarations", "extern ExitProcess lib Kernel32", "extern ExitProcess lib Kernel32"},
		{"semicolon inside quotes is not a comment", `db "a;b"`, `db "a;b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parser.NormalizeLine(tt.in))
		})
	}
}

func TestPreprocess_Equ(t *testing.T) {
	constants := map[string]string{}
	out, err := parser.Preprocess([]string{"count equ 10h", "mov eax, count"}, constants, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"mov eax, count"}, out)
	require.Equal(t, "10h", constants["count"])
}

func TestPreprocess_DuplicateConstant(t *testing.T) {
	constants := map[string]string{}
	_, err := parser.Preprocess([]string{"count equ 10h", "count equ 20h"}, constants, nil)
	require.Error(t, err)
}

func TestPreprocess_AsmretExpandsToEpilog(t *testing.T) {
	out, err := parser.Preprocess([]string{"mov eax, 1", "asmret"}, map[string]string{}, []string{"pop ebp", "ret"})
	require.NoError(t, err)
	require.Equal(t, []string{"mov eax, 1", "pop ebp", "ret"}, out)
}

func TestPreprocess_DropsBlankLines(t *testing.T) {
	out, err := parser.Preprocess([]string{"", "   ", "nop", "\t"}, map[string]string{}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"nop"}, out)
}
