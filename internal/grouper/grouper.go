// Package grouper is the shared primitive every stats, class-size, and
// privacy component builds on: equivalence-class discovery over a set of
// quasi-identifier columns, plus the smaller building blocks (filtering,
// distinct counting, value counting) those components compose it with.
package grouper

import (
	"fmt"
	"sort"

	"anonaudit/internal/model"
)

// EqClass is one equivalence class: the shared QI key tuple and the row
// indices of every record that carries it. Size is len(Rows).
type EqClass struct {
	Key  []model.Cell
	Rows []int
}

// Size returns the number of rows in the class.
func (c EqClass) Size() int { return len(c.Rows) }

// GroupByQI returns the multiset of equivalence classes found in t over
// the given QI columns. Ordering is insertion order (first-seen key);
// callers that need ASC/DESC-by-size order sort the result explicitly.
// Empty input (zero rows) returns an empty, non-nil slice.
func GroupByQI(t *model.Table, qi []string) ([]EqClass, error) {
	classes := make([]EqClass, 0)
	index := make(map[string]int)

	rows := t.RowCount()
	for i := 0; i < rows; i++ {
		vals, err := t.Row(i, qi)
		if err != nil {
			return nil, fmt.Errorf("grouper: %w", err)
		}
		key := keyString(vals)
		if pos, ok := index[key]; ok {
			classes[pos].Rows = append(classes[pos].Rows, i)
			continue
		}
		index[key] = len(classes)
		classes = append(classes, EqClass{Key: vals, Rows: []int{i}})
	}
	return classes, nil
}

func keyString(vals []model.Cell) string {
	s := ""
	for _, v := range vals {
		s += string(v.Kind) + ":" + v.RawString() + "\x00"
	}
	return s
}

// Filter returns the row indices of t for which pred, evaluated over the
// values of the given columns, holds.
func Filter(t *model.Table, columns []string, pred func(vals []model.Cell) bool) ([]int, error) {
	var out []int
	rows := t.RowCount()
	for i := 0; i < rows; i++ {
		vals, err := t.Row(i, columns)
		if err != nil {
			return nil, fmt.Errorf("grouper: %w", err)
		}
		if pred(vals) {
			out = append(out, i)
		}
	}
	return out, nil
}

// DistinctCount returns the number of unique values in the given column.
// A column containing only the blind token, or only nulls, is legal and
// simply yields 1 or 0 respectively.
func DistinctCount(t *model.Table, column string) (int, error) {
	col, err := t.Column(column)
	if err != nil {
		return 0, fmt.Errorf("grouper: %w", err)
	}
	seen := make(map[string]struct{})
	for _, c := range col {
		if c.IsNull() {
			continue
		}
		seen[string(c.Kind)+":"+c.RawString()] = struct{}{}
	}
	return len(seen), nil
}

// ValueCount pairs a distinct value with its occurrence count.
type ValueCount struct {
	Value model.Cell
	Count int
}

// ValueCounts returns the distinct values of column with their counts,
// sorted by count descending; ties are broken by first appearance in the
// column, matching the stable grouping order spec.md §5 requires for
// deterministic mode tie-breaking.
func ValueCounts(t *model.Table, column string) ([]ValueCount, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, fmt.Errorf("grouper: %w", err)
	}

	index := make(map[string]int)
	var counts []ValueCount
	for _, c := range col {
		if c.IsNull() {
			continue
		}
		k := string(c.Kind) + ":" + c.RawString()
		if pos, ok := index[k]; ok {
			counts[pos].Count++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, ValueCount{Value: c, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts, nil
}
