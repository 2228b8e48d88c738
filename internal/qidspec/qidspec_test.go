package qidspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonaudit/internal/logging"
	"anonaudit/internal/model"
)

func TestNewDefaultsIllegalBlindToken(t *testing.T) {
	logger := logging.Nop()

	s := New(logger, "id", "gender", "dgn", "")
	assert.Equal(t, "*", s.Blind)

	s = New(logger, "id", "gender", "dgn", "it's")
	assert.Equal(t, "*", s.Blind)

	s = New(logger, "id", "gender", "dgn", "#")
	assert.Equal(t, "#", s.Blind)
}

func TestSplitTrimsAndCollapsesWhitespace(t *testing.T) {
	logger := logging.Nop()
	got := Split(logger, "gender,  ehak , full name ")
	assert.Equal(t, []string{"gender", "ehak", "full_name"}, got)
}

func TestSplitDropsNonIdentifierEntries(t *testing.T) {
	logger := logging.Nop()
	got := Split(logger, "gender, 1=1, select, ehak")
	assert.Equal(t, []string{"gender", "ehak"}, got)
}

func TestSplitEmptyIsNil(t *testing.T) {
	logger := logging.Nop()
	assert.Nil(t, Split(logger, ""))
	assert.Nil(t, Split(logger, "   "))
}

func TestAllBlindAndNoBlind(t *testing.T) {
	s := &Spec{QI: []string{"gender", "ehak"}, Blind: "*"}

	allBlind := []model.Cell{model.StrCell("*"), model.StrCell("*")}
	assert.True(t, s.AllBlind(allBlind))
	assert.False(t, s.NoBlind(allBlind))

	mixed := []model.Cell{model.StrCell("M"), model.StrCell("*")}
	assert.False(t, s.AllBlind(mixed))
	assert.True(t, s.NoBlind(mixed))
}

func TestAllBlindAndNoBlindEmptyQI(t *testing.T) {
	s := &Spec{QI: nil, Blind: "*"}
	assert.True(t, s.AllBlind(nil))
	assert.True(t, s.NoBlind(nil))
}

func TestRenderConjunction(t *testing.T) {
	s := &Spec{QI: []string{"gender", "ehak"}, Blind: "*"}
	got := s.RenderConjunction(s.QI, []model.Cell{model.StrCell("N"), model.IntCell(245)}, "=")
	assert.Equal(t, "gender = 'N' AND ehak = 245", got)
}

func TestIsPlainIdentifierViaSplit(t *testing.T) {
	logger := logging.Nop()
	require.Equal(t, []string{"valid_name"}, Split(logger, "valid_name"))
}
