// Package fingerprint attaches provenance to a report run: a content hash
// of each loaded table (so two reports can be compared for "same input
// data, re-run") and a random run identifier. Hashing reuses
// chainhash.HashH, the double-SHA256 the Bitcoin stack already pulls in
// for transaction IDs; a dataset fingerprint has the same shape (a fixed
// digest of canonical bytes) even though nothing else here is
// blockchain-related. Run IDs use google/uuid the same way llr_engine.go
// mints edge identifiers.
package fingerprint

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/google/uuid"

	"anonaudit/internal/model"
)

// NewRunID returns a fresh run identifier, which the CLI logs so two runs
// of the same inputs can still be told apart; it is not written into the
// JSON report.
func NewRunID() string {
	return uuid.New().String()
}

// TableFingerprint returns the hex-encoded double-SHA256 digest of t's
// canonical byte serialization: column names in declared order, then
// every cell in row-major order, each field newline-terminated. Two
// tables with the same fingerprint are byte-identical in content and
// column order.
func TableFingerprint(t *model.Table) (string, error) {
	b, err := canonicalBytes(t)
	if err != nil {
		return "", err
	}
	h := chainhash.HashH(b) // double SHA-256, no error path
	return h.String(), nil
}

func canonicalBytes(t *model.Table) ([]byte, error) {
	var buf []byte
	for _, col := range t.Columns {
		buf = append(buf, []byte(col)...)
		buf = append(buf, '\n')
	}
	buf = append(buf, 0)

	rows := t.RowCount()
	for i := 0; i < rows; i++ {
		vals, err := t.Row(i, t.Columns)
		if err != nil {
			return nil, err
		}
		for _, v := range vals {
			buf = append(buf, []byte(string(v.Kind))...)
			buf = append(buf, ':')
			buf = append(buf, []byte(v.RawString())...)
			buf = append(buf, '\n')
		}
	}
	return buf, nil
}
