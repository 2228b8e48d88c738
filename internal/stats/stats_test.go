package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonaudit/internal/model"
)

func inputTable(t *testing.T) *model.Table {
	t.Helper()
	tbl, err := model.NewTable("in", []string{"gender", "ehak"}, map[string][]model.Cell{
		"gender": {model.StrCell("M"), model.StrCell("M"), model.StrCell("F"), model.StrCell("F")},
		"ehak":   {model.IntCell(37), model.IntCell(37), model.IntCell(56), model.IntCell(245)},
	})
	require.NoError(t, err)
	return tbl
}

func outputTable(t *testing.T) *model.Table {
	t.Helper()
	tbl, err := model.NewTable("out", []string{"gender", "ehak"}, map[string][]model.Cell{
		"gender": {model.StrCell("M"), model.StrCell("M"), model.StrCell("*"), model.StrCell("F")},
		"ehak":   {model.IntCell(37), model.IntCell(37), model.IntCell(56), model.IntCell(999)},
	})
	require.NoError(t, err)
	return tbl
}

func TestComputeInputOnly(t *testing.T) {
	res, err := Compute(inputTable(t), nil, "*")
	require.NoError(t, err)
	require.NotNil(t, res.Input)
	assert.Nil(t, res.Output)

	assert.Equal(t, 2, res.Input.Distinct["gender"])
	assert.Equal(t, 4, res.Input.Informative["gender"], "input has no suppression: every cell is informative")
	assert.Equal(t, "M", res.Input.Modes["gender"].Value.RawString())
	assert.Equal(t, 2, res.Input.Modes["gender"].Count)
}

func TestComputeOutputWithInput(t *testing.T) {
	res, err := Compute(inputTable(t), outputTable(t), "*")
	require.NoError(t, err)
	require.NotNil(t, res.Input)
	require.NotNil(t, res.Output)

	out := res.Output
	// One blinded gender cell out of 4.
	assert.Equal(t, 1, out.Suppressed["gender"].Count)
	assert.Equal(t, "25.0 %", out.Suppressed["gender"].Percent)
	assert.Equal(t, 3, out.Informative["gender"])

	// gender mode excludes the blind token: M still wins 2-1 over F.
	assert.Equal(t, "M", out.Modes["gender"].Value.RawString())
	assert.Equal(t, 2, out.Modes["gender"].Count)

	// ehak: 999 never appears in input -> 1 changed cell for that column,
	// gender: "*" never appears in input -> 1 changed cell.
	assert.Equal(t, 1, out.GensupPerCol["ehak"])
	assert.Equal(t, 1, out.GensupPerCol["gender"])
	assert.Equal(t, 2, out.TotalGensup.Count)

	assert.Equal(t, 1, out.TotalSup.Count)
}

func TestComputeOutputWithoutInput(t *testing.T) {
	res, err := Compute(nil, outputTable(t), "*")
	require.NoError(t, err)
	assert.Nil(t, res.Input)
	require.NotNil(t, res.Output)

	assert.Equal(t, "0 %", res.Output.TotalGensup.Percent)
	assert.Equal(t, "0 %", res.Output.TotalSup.Percent)
	assert.Equal(t, "0 %", res.Output.SupOfChanged)
}

func TestModeAllBlindColumnEqualsBlindToken(t *testing.T) {
	tbl, err := model.NewTable("out", []string{"gender"}, map[string][]model.Cell{
		"gender": {model.StrCell("*"), model.StrCell("*")},
	})
	require.NoError(t, err)

	mode, err := modeOf(tbl, "gender", "*")
	require.NoError(t, err)
	assert.Equal(t, "*", mode.Value.RawString(), "mode of all-blind column is the blind token itself")
}

func TestModeMissingColumnErrors(t *testing.T) {
	tbl := inputTable(t)
	_, err := modeOf(tbl, "missing", "*")
	assert.Error(t, err)
}

func TestComputeDistinctExcludesNulls(t *testing.T) {
	tbl, err := model.NewTable("in", []string{"ehak"}, map[string][]model.Cell{
		"ehak": {model.NullCell, model.NullCell, model.NullCell},
	})
	require.NoError(t, err)

	res, err := Compute(tbl, nil, "*")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Input.Distinct["ehak"], "an all-null column has zero distinct values")
}

func TestModeAllNullColumnIsNullCell(t *testing.T) {
	tbl, err := model.NewTable("out", []string{"ehak"}, map[string][]model.Cell{
		"ehak": {model.NullCell, model.NullCell},
	})
	require.NoError(t, err)

	mode, err := modeOf(tbl, "ehak", "*")
	require.NoError(t, err)
	assert.True(t, mode.Value.IsNull())
	assert.Equal(t, 2, mode.Count)
}
