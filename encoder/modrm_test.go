package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lookbusy-sasm/sasm32/encoder"
	"github.com/lookbusy-sasm/sasm32/parser"
)

// The tests below cover the ModR/M/SIB special cases: pure
// displacement, the ebp-zero-disp workaround, rejection of esp as an
// index that cannot be swapped out, esp-as-base forcing a SIB byte,
// ebp-as-index re-swap, and the disp8-vs-disp32 choice.
func TestEncodeModRM_PureDisplacement(t *testing.T) {
	op := &parser.Operand{Kind: parser.OpAddress16_32, Disp: 0x10}
	got, err := encoder.EncodeModRM(0, op)
	require.NoError(t, err)
	require.Equal(t, []byte{0x05, 0x10, 0x00, 0x00, 0x00}, got)
}

func TestEncodeModRM_EbpZeroDisplacementForcesDisp8Zero(t *testing.T) {
	op := &parser.Operand{Kind: parser.OpAddress16_32, HasBase: true, BaseCode: parser.EbpCode}
	got, err := encoder.EncodeModRM(0, op)
	require.NoError(t, err)
	require.Equal(t, []byte{0x45, 0x00}, got)
}

func TestEncodeModRM_EspAsOnlyIndexRejected(t *testing.T) {
	op := &parser.Operand{Kind: parser.OpAddress16_32, HasIndex: true, IndexCode: parser.EspCode, Scale: 1}
	_, err := encoder.EncodeModRM(0, op)
	require.Error(t, err)
}

func TestEncodeModRM_EspAsIndexWithNonUnitScaleRejected(t *testing.T) {
	op := &parser.Operand{Kind: parser.OpAddress16_32, HasBase: true, BaseCode: 3, HasIndex: true, IndexCode: parser.EspCode, Scale: 2}
	_, err := encoder.EncodeModRM(0, op)
	require.Error(t, err)
}

func TestEncodeModRM_EspAsBaseForcesSIB(t *testing.T) {
	op := &parser.Operand{Kind: parser.OpAddress16_32, HasBase: true, BaseCode: parser.EspCode, Disp: 0x10}
	got, err := encoder.EncodeModRM(0, op)
	require.NoError(t, err)
	require.Equal(t, []byte{0x44, 0x24, 0x10}, got)
}

func TestEncodeModRM_EbpAsIndexIsReSwappedToBase(t *testing.T) {
	op := &parser.Operand{Kind: parser.OpAddress16_32, HasBase: true, BaseCode: 3, HasIndex: true, IndexCode: parser.EbpCode, Scale: 4, Disp: 0x10}
	got, err := encoder.EncodeModRM(0, op)
	require.NoError(t, err)
	require.Equal(t, []byte{0x44, 0x1D, 0x10}, got)
}

func TestEncodeModRM_BaseOnlyDisp8(t *testing.T) {
	op := &parser.Operand{Kind: parser.OpAddress16_32, HasBase: true, BaseCode: 3, Disp: 0x10}
	got, err := encoder.EncodeModRM(0, op)
	require.NoError(t, err)
	require.Equal(t, []byte{0x43, 0x10}, got)
}

func TestEncodeModRM_BaseOnlyDisp32WhenTooLargeForDisp8(t *testing.T) {
	op := &parser.Operand{Kind: parser.OpAddress16_32, HasBase: true, BaseCode: 3, Disp: 0x12345678}
	got, err := encoder.EncodeModRM(0, op)
	require.NoError(t, err)
	require.Equal(t, []byte{0x83, 0x78, 0x56, 0x34, 0x12}, got)
}

func TestEncodeModRM_BaseIndexScaleDisp(t *testing.T) {
	op := &parser.Operand{Kind: parser.OpAddress16_32, HasBase: true, BaseCode: 3, HasIndex: true, IndexCode: 1, Scale: 4, Disp: 0x10}
	got, err := encoder.EncodeModRM(0, op)
	require.NoError(t, err)
	require.Equal(t, []byte{0x44, 0x8B, 0x10}, got)
}

func TestEncodeModRM_RegisterRM(t *testing.T) {
	op := &parser.Operand{Kind: parser.OpReg16_32, RegCode: 3}
	got, err := encoder.EncodeModRM(0, op)
	require.NoError(t, err)
	require.Equal(t, []byte{0xC3}, got)
}
