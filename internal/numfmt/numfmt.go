// Package numfmt renders rounded floats the way the Python original does:
// str(round(value, places)). Go's "%g" drops the fractional part entirely
// for integral values (12.0 becomes "12"), but the reference output always
// keeps at least one decimal digit (12.0, 20.0, 5.882). Every percentage
// string in the report goes through Round so the two stay byte-identical.
package numfmt

import (
	"math"
	"strconv"
	"strings"
)

// Round rounds v to places decimal digits and formats it the way Python's
// str(round(v, places)) would: the shortest decimal representation at that
// precision, with a trailing ".0" when the result is integral. Exact halves
// round away from zero (math.Round), not to even as Python's round does.
func Round(v float64, places int) string {
	rounded := math.Round(v*math.Pow(10, float64(places))) / math.Pow(10, float64(places))
	s := strconv.FormatFloat(rounded, 'f', places, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Pct rounds v to places digits and appends the " %" suffix the report
// uses for every percentage field.
func Pct(v float64, places int) string {
	return Round(v, places) + " %"
}
