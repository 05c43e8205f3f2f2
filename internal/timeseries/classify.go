package timeseries

import "sort"

// RowClass tags one row of a table with its duplicate status.
type RowClass int

const (
	// Unique marks the first chronological occurrence of a timestamp,
	// or any later row at a new timestamp.
	Unique RowClass = iota
	// DuplicateRecord marks a row whose timestamp and every value are
	// identical to an earlier row.
	DuplicateRecord
	// DuplicateIndex marks a row sharing a timestamp with an earlier row
	// but differing in at least one value: an ambiguous reading.
	DuplicateIndex
)

// String returns the class name used in logs and reports.
func (c RowClass) String() string {
	switch c {
	case DuplicateRecord:
		return "duplicate-record"
	case DuplicateIndex:
		return "duplicate-index"
	default:
		return "unique"
	}
}

// Classify computes the three-way duplicate classification for every row
// of the table. The result is indexed by the table's row positions.
//
// Chronological order decides which occurrence counts as "earlier": rows
// are visited in time order, with input order breaking ties, so the
// first occurrence of a timestamp always classifies Unique. A later row
// identical to any earlier row at the same timestamp is a
// DuplicateRecord; a later row that disagrees is a DuplicateIndex.
func Classify(t *Table) []RowClass {
	classes := make([]RowClass, len(t.Rows))
	if len(t.Rows) == 0 {
		return classes
	}

	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.Rows[order[a]].Time.Before(t.Rows[order[b]].Time)
	})

	seen := make(map[int64][]int)
	for _, i := range order {
		row := t.Rows[i]
		key := row.Time.UnixNano()
		earlier := seen[key]
		if len(earlier) == 0 {
			seen[key] = append(earlier, i)
			continue
		}
		class := DuplicateIndex
		for _, j := range earlier {
			if equalValues(row.Values, t.Rows[j].Values) {
				class = DuplicateRecord
				break
			}
		}
		classes[i] = class
		seen[key] = append(earlier, i)
	}
	return classes
}

// DropDuplicates returns the table restricted to rows classified Unique,
// i.e. with all duplicate-record and duplicate-index rows removed and
// the first chronological occurrence of each timestamp kept. classes
// must come from Classify on the same table.
func DropDuplicates(t *Table, classes []RowClass) Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	for i, r := range t.Rows {
		if classes[i] != Unique {
			continue
		}
		out.Rows = append(out.Rows, Row{Time: r.Time, Values: append([]string(nil), r.Values...)})
	}
	return out
}

func equalValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
