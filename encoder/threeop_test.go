package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lookbusy-sasm/sasm32/encoder"
	"github.com/lookbusy-sasm/sasm32/parser"
)

func TestEncodeThreeOperand_ImulImmediateSignExtends(t *testing.T) {
	res, err := encoder.EncodeThreeOperand("imul", reg32(0), reg32(1), constOp(5))
	require.NoError(t, err)
	require.Equal(t, []byte{0x6B, 0xC1, 0x05}, res.Bytes)
}

func TestEncodeThreeOperand_ImulImmediateFullWidth(t *testing.T) {
	res, err := encoder.EncodeThreeOperand("imul", reg32(0), reg32(1), constOp(0x12345678))
	require.NoError(t, err)
	require.Equal(t, byte(0x69), res.Bytes[0])
	require.Len(t, res.Bytes, 6)
}

func TestEncodeThreeOperand_RejectsNonRegisterDestination(t *testing.T) {
	_, err := encoder.EncodeThreeOperand("imul", memOp(0), reg32(1), constOp(5))
	require.Error(t, err)
}

func TestEncodeThreeOperand_RejectsNonConstantImmediate(t *testing.T) {
	_, err := encoder.EncodeThreeOperand("imul", reg32(0), reg32(1), reg32(2))
	require.Error(t, err)
}

func TestEncodeThreeOperand_UnknownMnemonic(t *testing.T) {
	_, err := encoder.EncodeThreeOperand("bogus", reg32(0), reg32(1), constOp(5))
	require.Error(t, err)
}
