package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonaudit/internal/classsizes"
	"anonaudit/internal/model"
	"anonaudit/internal/qidspec"
)

// buildClassesTable builds a single-QI-column table whose equivalence
// classes have the given sizes, in order, via distinct integer keys.
func buildClassesTable(t *testing.T, sizes []int) *model.Table {
	t.Helper()
	var cells []model.Cell
	for key, size := range sizes {
		for i := 0; i < size; i++ {
			cells = append(cells, model.IntCell(int64(key)))
		}
	}
	tbl, err := model.NewTable("t", []string{"key"}, map[string][]model.Cell{"key": cells})
	require.NoError(t, err)
	return tbl
}

// S6 — output classes {17, 9, 9, 5, 5, 5}: biggest=17 (x1), smallest=5 (x3).
func TestComputeS6Scenario(t *testing.T) {
	spec := &qidspec.Spec{QI: []string{"key"}, Blind: "*"}
	tbl := buildClassesTable(t, []int{17, 9, 9, 5, 5, 5})

	sizes := &classsizes.Result{
		Output: &classsizes.Sizes{
			AvgSup: 8.333, Smallest: 5, Biggest: 17, NoClasses: 6, NoRecords: 50,
		},
	}

	res, err := Compute(sizes, nil, tbl, spec)
	require.NoError(t, err)
	require.NotNil(t, res.Output)

	o := res.Output
	assert.Equal(t, "5.882 %", o.ProsecutorLowest)
	assert.Equal(t, "12.0 %", o.ProsecutorAverage)
	assert.Equal(t, "20.0 %", o.ProsecutorHighest)
	assert.Equal(t, "34.0 %", o.RecordsAffectedLowest)
	assert.Equal(t, "30.0 %", o.RecordsAffectedHighest)
	assert.Equal(t, "20.0 %", o.EstimatedJournalistRisk)
	assert.Equal(t, "12.0 %", o.EstimatedMarketerRisk)
}

func TestRecordsAtRisk(t *testing.T) {
	spec := &qidspec.Spec{QI: []string{"key"}, Blind: "*"}
	tbl := buildClassesTable(t, []int{17, 9, 9, 5, 5, 5})

	// Threshold equal to the smallest class size: nothing at risk.
	pct, err := RecordsAtRisk(tbl, spec, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)

	// Threshold above the smallest classes: the three size-5 classes
	// (15 rows) are at risk out of 50.
	pct, err = RecordsAtRisk(tbl, spec, 6)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, pct, 0.001)
}

func TestGauges(t *testing.T) {
	s := &classsizes.Sizes{AvgSup: 8.333, Smallest: 5, Biggest: 17, NoClasses: 6, NoRecords: 50}
	g := Gauges(s, 30.0, 6)

	assert.Equal(t, 30.0, g.Prosecutor.RecordsAtRisk)
	assert.InDelta(t, 20.0, g.Prosecutor.HighestRisk, 0.001)
	assert.InDelta(t, 12.0, g.Prosecutor.SuccessRate, 0.001)
	assert.Equal(t, g.Prosecutor, g.Journalist)
	assert.InDelta(t, 12.0, g.Marketer.SuccessRate, 0.001)
	assert.InDelta(t, 16.667, g.ReferenceLine, 0.001)
}

func TestComputeNilSides(t *testing.T) {
	sizes := &classsizes.Result{}
	res, err := Compute(sizes, nil, nil, &qidspec.Spec{QI: []string{"key"}})
	require.NoError(t, err)
	assert.Nil(t, res.Input)
	assert.Nil(t, res.Output)
}
