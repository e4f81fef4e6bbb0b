package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lookbusy-sasm/sasm32/encoder"
)

func TestEncodeZeroOperand(t *testing.T) {
	tests := []struct {
		mnemonic string
		want     []byte
	}{
		{"nop", []byte{0x90}},
		{"ret", []byte{0xC3}},
		{"retf", []byte{0xCB}},
		{"cbw", []byte{0x66, 0x98}},
		{"cwde", []byte{0x98}},
		{"pusha", []byte{0x60}},
	}
	for _, tt := range tests {
		t.Run(tt.mnemonic, func(t *testing.T) {
			got, err := encoder.EncodeZeroOperand(tt.mnemonic)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeZeroOperand_ReturnsFreshSlice(t *testing.T) {
	// Regression: a caller mutating the returned slice must never corrupt
	// the shared opcode table for subsequent encodes.
	got, err := encoder.EncodeZeroOperand("nop")
	require.NoError(t, err)
	got[0] = 0xFF

	again, err := encoder.EncodeZeroOperand("nop")
	require.NoError(t, err)
	require.Equal(t, []byte{0x90}, again)
}

func TestEncodeZeroOperand_Unknown(t *testing.T) {
	_, err := encoder.EncodeZeroOperand("bogus")
	require.Error(t, err)
}
