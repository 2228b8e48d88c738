// Package config parses the anonaudit TOML configuration file into a typed
// Config, following the teacher's internal/parser/toml shape: a private
// decode target, a converter that fills in defaults, and a Parse entry
// point that wraps decode errors with context.
package config

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// tomlConfig is the raw TOML document shape. [main] carries the column
// classification, [arx] the privacy thresholds (named after the
// de-identification tool whose output this engine audits), [ingest] the
// optional live-table source.
type tomlConfig struct {
	Main   tomlMain   `toml:"main"`
	ARX    tomlARX    `toml:"arx"`
	Ingest tomlIngest `toml:"ingest"`
}

type tomlMain struct {
	IDColumns  string `toml:"id_columns"`
	QIColumns  string `toml:"qi_columns"`
	SAColumns  string `toml:"sa_columns"`
	Blind      string `toml:"blind"`
}

type tomlARX struct {
	KAnonymity string `toml:"kanonymity"`
	LDiversity string `toml:"ldiversity"`
}

type tomlIngest struct {
	Driver      string `toml:"driver"` // "", "mysql", or "postgres"
	DSN         string `toml:"dsn"`
	InputQuery  string `toml:"input_query"`
	OutputQuery string `toml:"output_query"`
}

// Config is the typed configuration consumed by the validator.
type Config struct {
	IDColumns        string
	QIColumns        string
	SAColumns        string
	Blind            string
	KAnonymity       string
	LDiversity       string
	IngestDriver     string
	IngestDSN        string
	IngestInputQuery string
	IngestOutputQuery string
}

// Default blind token, used whenever the configured one is empty or
// illegal (spec.md §4.1).
const DefaultBlind = "*"

// ParseFile opens the file at path and parses it as an anonaudit config.
func ParseFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Op: "open", Err: err}
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads TOML content from r and returns the corresponding Config.
// Missing sections are not an error: an absent [main] or [arx] section
// simply yields empty/unspecified fields, which the validator then
// short-circuits on per spec.md §4.7 step 3-4.
func Parse(r io.Reader) (*Config, error) {
	var tc tomlConfig
	if _, err := toml.NewDecoder(r).Decode(&tc); err != nil {
		return nil, &ConfigError{Op: "decode", Err: err}
	}

	blind := tc.Main.Blind
	if blind == "" {
		blind = DefaultBlind
	}

	return &Config{
		IDColumns:         tc.Main.IDColumns,
		QIColumns:         tc.Main.QIColumns,
		SAColumns:         tc.Main.SAColumns,
		Blind:             blind,
		KAnonymity:        tc.ARX.KAnonymity,
		LDiversity:        tc.ARX.LDiversity,
		IngestDriver:      tc.Ingest.Driver,
		IngestDSN:         tc.Ingest.DSN,
		IngestInputQuery:  tc.Ingest.InputQuery,
		IngestOutputQuery: tc.Ingest.OutputQuery,
	}, nil
}

// ConfigError wraps a failure to open or decode the config file. The CLI
// treats it as fatal and aborts the run.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string { return "config: " + e.Op + ": " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// WarnIfError logs a config-level degradation instead of propagating it,
// matching logging.warning(...) calls throughout the Python original.
func WarnIfError(logger *zap.Logger, context string, err error) {
	if err == nil {
		return
	}
	logger.Warn("configuration degraded", zap.String("context", context), zap.Error(err))
}
