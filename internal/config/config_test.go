package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[main]
id_columns = "id"
qi_columns = "gender, ehak"
sa_columns = "dgn"
blind = "#"

[arx]
kanonymity = "5"
ldiversity = "5"

[ingest]
driver = "mysql"
dsn = "user:pass@tcp(127.0.0.1:3306)/db"
input_query = "SELECT * FROM input_view"
output_query = "SELECT * FROM output_view"
`

func TestParseFullConfig(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, "id", cfg.IDColumns)
	assert.Equal(t, "gender, ehak", cfg.QIColumns)
	assert.Equal(t, "dgn", cfg.SAColumns)
	assert.Equal(t, "#", cfg.Blind)
	assert.Equal(t, "5", cfg.KAnonymity)
	assert.Equal(t, "5", cfg.LDiversity)
	assert.Equal(t, "mysql", cfg.IngestDriver)
	assert.Equal(t, "user:pass@tcp(127.0.0.1:3306)/db", cfg.IngestDSN)
	assert.Equal(t, "SELECT * FROM input_view", cfg.IngestInputQuery)
	assert.Equal(t, "SELECT * FROM output_view", cfg.IngestOutputQuery)
}

func TestParseDefaultsBlindWhenAbsent(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
[main]
qi_columns = "gender"
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultBlind, cfg.Blind)
}

func TestParseMissingSectionsAreNotAnError(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultBlind, cfg.Blind)
	assert.Empty(t, cfg.QIColumns)
}

func TestParseInvalidTOMLErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("this is not toml {{{"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestParseFileNotFound(t *testing.T) {
	_, err := ParseFile("/nonexistent/path/config.toml")
	assert.Error(t, err)
}

func TestWarnIfErrorNoPanicOnNil(t *testing.T) {
	WarnIfError(nil, "ctx", nil)
}
