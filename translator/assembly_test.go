package translator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lookbusy-sasm/sasm32/translator"
)

func TestAssembly_Byte(t *testing.T) {
	asm := &translator.Assembly{
		Code:            []byte{0x11, 0x22, 0x33},
		VariableOffsets: map[string]int{"v": 1},
	}
	v, err := asm.Byte("v")
	require.NoError(t, err)
	require.Equal(t, uint8(0x22), v)
}

// TestAssembly_WordIsLittleEndian regresses the source's `(hi<<8)+lo`
// transcription bug: the low byte must come first.
func TestAssembly_WordIsLittleEndian(t *testing.T) {
	asm := &translator.Assembly{
		Code:            []byte{0x34, 0x12},
		VariableOffsets: map[string]int{"v": 0},
	}
	v, err := asm.Word("v")
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v)
}

func TestAssembly_Dword(t *testing.T) {
	asm := &translator.Assembly{
		Code:            []byte{0x78, 0x56, 0x34, 0x12},
		VariableOffsets: map[string]int{"v": 0},
	}
	v, err := asm.Dword("v")
	require.NoError(t, err)
	require.Equal(t, uint32(0x12345678), v)
}

func TestAssembly_UnknownVariable(t *testing.T) {
	asm := &translator.Assembly{Code: []byte{0}, VariableOffsets: map[string]int{}}
	_, err := asm.Byte("missing")
	require.Error(t, err)
}

func TestAssembly_ReadOverrunsBuffer(t *testing.T) {
	asm := &translator.Assembly{
		Code:            []byte{0x01},
		VariableOffsets: map[string]int{"v": 0},
	}
	_, err := asm.Word("v")
	require.Error(t, err)
}

func TestAssembly_CString(t *testing.T) {
	asm := &translator.Assembly{
		Code:            []byte{'h', 'i', 0, 'X'},
		VariableOffsets: map[string]int{"v": 0},
	}
	s, err := asm.CString("v")
	require.NoError(t, err)
	require.Equal(t, "hi", s)
}

func TestAssembly_WString(t *testing.T) {
	// "Hi" in UTF-16LE followed by a NUL terminator.
	asm := &translator.Assembly{
		Code:            []byte{'H', 0, 'i', 0, 0, 0},
		VariableOffsets: map[string]int{"v": 0},
	}
	s, err := asm.WString("v")
	require.NoError(t, err)
	require.Equal(t, "Hi", s)
}

func TestAssembly_WStringSurrogatePair(t *testing.T) {
	// U+1F600 (😀) as a UTF-16LE surrogate pair, then a NUL terminator.
	asm := &translator.Assembly{
		Code: []byte{
			0x3D, 0xD8, // high surrogate 0xD83D
			0x00, 0xDE, // low surrogate 0xDE00
			0x00, 0x00, // terminator
		},
		VariableOffsets: map[string]int{"v": 0},
	}
	s, err := asm.WString("v")
	require.NoError(t, err)
	require.Equal(t, "😀", s)
}

func TestAssembly_RestoreVariables(t *testing.T) {
	asm := &translator.Assembly{
		Code: []byte{0xAA, 0xBB, 0xCC},
		InitialVariableBytes: map[int][]byte{
			1: {0xBB, 0xCC},
		},
	}
	asm.Code[1] = 0x00
	asm.Code[2] = 0x00
	asm.RestoreVariables()
	require.Equal(t, []byte{0xAA, 0xBB, 0xCC}, asm.Code)
}
