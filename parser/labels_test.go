package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lookbusy-sasm/sasm32/parser"
)

func TestCollectLabels_RemovesLabelLinesAndRecordsOffsetPlaceholder(t *testing.T) {
	remaining, labels, _, err := parser.CollectLabels([]string{"start:", "nop", "loop:", "jmp loop"})
	require.NoError(t, err)
	require.Equal(t, []string{"nop", "jmp loop"}, remaining)
	require.Contains(t, labels, "start")
	require.Contains(t, labels, "loop")
	require.Equal(t, 0, labels["start"].InstructionIndex)
	require.Equal(t, 1, labels["loop"].InstructionIndex)
	require.Equal(t, -1, labels["start"].Offset)
}

func TestCollectLabels_InlineLabelTextIsNotALabel(t *testing.T) {
	// A label must occupy an entire physical line; "L: nop" on one line
	// never matches the ":"-suffix rule and so is left as an instruction.
	remaining, labels, _, err := parser.CollectLabels([]string{"L: nop"})
	require.NoError(t, err)
	require.Equal(t, []string{"L: nop"}, remaining)
	require.Empty(t, labels)
}

func TestCollectLabels_RejectsBrackets(t *testing.T) {
	_, _, _, err := parser.CollectLabels([]string{"[bad]:", "nop"})
	require.Error(t, err)
}

func TestCollectLabels_RejectsHexLikeName(t *testing.T) {
	_, _, _, err := parser.CollectLabels([]string{"cafe:", "nop"})
	require.Error(t, err)
}

func TestCollectLabels_RejectsRegisterName(t *testing.T) {
	_, _, _, err := parser.CollectLabels([]string{"eax:", "nop"})
	require.Error(t, err)
}

func TestCollectLabels_RejectsDuplicate(t *testing.T) {
	_, _, _, err := parser.CollectLabels([]string{"L:", "nop", "L:", "nop"})
	require.Error(t, err)
}

func TestCollectLabels_VariableLabelPrecedesStore(t *testing.T) {
	_, _, variables, err := parser.CollectLabels([]string{"foo:", "storeb 41h"})
	require.NoError(t, err)
	require.True(t, variables["foo"])
}

func TestCollectLabels_NonVariableLabelDoesNotPrecedeStore(t *testing.T) {
	_, _, variables, err := parser.CollectLabels([]string{"start:", "nop"})
	require.NoError(t, err)
	require.False(t, variables["start"])
}

func TestCollectLabels_ChainedLabelsResolveToSameNextInstruction(t *testing.T) {
	_, _, variables, err := parser.CollectLabels([]string{"a:", "b:", "storew 1234h"})
	require.NoError(t, err)
	require.True(t, variables["a"])
	require.True(t, variables["b"])
}
