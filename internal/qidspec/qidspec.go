// Package qidspec holds the column classification (identifying,
// quasi-identifying, sensitive) and the blind token, and synthesises the
// two predicates every grouping operation downstream needs: ALLBLIND (a
// row is entirely suppressed across QI columns) and NOBLIND (a row
// retains at least one informative QI value). Carrying these as reusable
// predicates avoids re-deriving them at every call site in Grouper,
// ClassSizes, and PrivacyVerifier.
package qidspec

import (
	"strings"

	"go.uber.org/zap"

	"anonaudit/internal/model"
)

// Spec is the column classification plus blind token, and the derived
// predicates built from it.
type Spec struct {
	Identifying []string
	QI          []string
	Sensitive   []string
	Blind       string
}

// New builds a Spec from comma-separated column-list strings and a blind
// token. An illegal blind token (containing a single quote, or empty) is
// coerced to "*" and a warning is logged, per spec.md §4.1.
func New(logger *zap.Logger, identifying, qi, sensitive, blind string) *Spec {
	if strings.Contains(blind, "'") || blind == "" {
		logger.Warn("illegal blind token, defaulting to *", zap.String("given", blind))
		blind = "*"
	}

	return &Spec{
		Identifying: Split(logger, identifying),
		QI:          Split(logger, qi),
		Sensitive:   Split(logger, sensitive),
		Blind:       blind,
	}
}

// Split parses a comma-separated column-name string into a trimmed,
// non-empty list. Internal whitespace within a name is collapsed to a
// single underscore. Each resulting name is checked with the tsqlparser
// lexer: an entry that tokenizes as anything other than a single plain
// identifier (a keyword, an operator, a multi-token expression) is
// dropped and logged, closing off a class of config-injection mistakes
// before render_conjunction ever builds a predicate string from it.
func Split(logger *zap.Logger, columns string) []string {
	if strings.TrimSpace(columns) == "" {
		return nil
	}

	var out []string
	for _, raw := range strings.Split(columns, ",") {
		name := collapseWhitespace(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if !isPlainIdentifier(name) {
			logger.Warn("dropping column-list entry that is not a plain identifier", zap.String("entry", name))
			continue
		}
		out = append(out, name)
	}
	return out
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, "_")
}

// AllBlind reports whether every QI value in vals (ordered per s.QI)
// equals the blind token. For empty QI, this is constant-true.
func (s *Spec) AllBlind(vals []model.Cell) bool {
	if len(s.QI) == 0 {
		return true
	}
	for _, v := range vals {
		if v.RawString() != s.Blind {
			return false
		}
	}
	return true
}

// NoBlind reports whether at least one QI value in vals is distinct from
// the blind token. For empty QI, this is constant-true.
func (s *Spec) NoBlind(vals []model.Cell) bool {
	if len(s.QI) == 0 {
		return true
	}
	for _, v := range vals {
		if v.RawString() != s.Blind {
			return true
		}
	}
	return false
}

// RenderConjunction produces the canonical textual rendering used as a
// stable violation key: "col1 op val1 AND col2 op val2 ...". String
// values are single-quoted by Cell.String; numeric values are bare. Key
// order follows columns, which callers pass as s.QI (or any column
// subset) to preserve QidSpec's declared order.
func (s *Spec) RenderConjunction(columns []string, vals []model.Cell, op string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " " + op + " " + vals[i].String()
	}
	return strings.Join(parts, " AND ")
}
