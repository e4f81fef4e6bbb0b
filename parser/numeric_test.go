package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lookbusy-sasm/sasm32/parser"
)

func TestIsNumericLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"decimal", "1234", true},
		{"decimal with d suffix", "1234d", true},
		{"binary with b suffix", "1010b", true},
		{"hex with h suffix", "1ah", true},
		{"hex must start with digit", "ah", false},
		{"hex digits must already be lowercased", "1Ah", false},
		{"signed decimal", "-12", true},
		{"signed hex", "+18h", true},
		{"identifier", "counter", false},
		{"empty", "", false},
		{"bare sign", "+", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parser.IsNumericLiteral(tt.in))
		})
	}
}

func TestParseNumericLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int32
	}{
		{"decimal", "100", 100},
		{"decimal suffix", "100d", 100},
		{"hex suffix", "18h", 0x18},
		{"binary suffix", "1010b", 0b1010},
		{"negative hex", "-10h", -16},
		{"positive sign", "+5", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := parser.ParseNumericLiteral(tt.in)
			require.True(t, ok)
			require.Equal(t, tt.want, v)
		})
	}
}

func TestFoldTerms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"pure displacement", "10h", "16"},
		{"register plus literal", "ebx+10h", "ebx+16"},
		{"two literals fold into one", "4+6", "10"},
		{"register and negative literal", "eax-4", "eax-4"},
		{"register index and literal", "ebx+ecx*4+10h", "ebx+ecx*4+16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parser.FoldTerms(tt.in))
		})
	}
}
