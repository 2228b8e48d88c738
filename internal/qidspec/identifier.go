package qidspec

import (
	"github.com/ha1tch/tsqlparser"
	"github.com/ha1tch/tsqlparser/token"
)

// isPlainIdentifier reports whether name lexes as a single unquoted SQL
// identifier token followed only by EOF: not a keyword, not an operator,
// not a multi-token expression. Used to reject config mistakes (stray
// commas, embedded clauses, reserved words) before a column name is ever
// trusted to build a render_conjunction predicate string.
func isPlainIdentifier(name string) bool {
	tokens := tsqlparser.Tokenize(name)
	if len(tokens) != 2 {
		return false
	}
	if tokens[0].Type != token.IDENT {
		return false
	}
	if tokens[0].Literal != name {
		return false
	}
	return tokens[1].Type == token.EOF
}
