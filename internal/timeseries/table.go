package timeseries

import (
	"fmt"
	"sort"
	"time"

	"fluxkit/internal/errors"
)

// Row is one timestamped record. Values holds the raw file tokens in
// column order; cells are never interpreted numerically by this package.
type Row struct {
	Time   time.Time
	Values []string
}

// Table is a time-indexed table of named columns. The index need not be
// unique or sorted on input; conditioning establishes both.
type Table struct {
	Columns []string
	Rows    []Row
}

// ColumnSelector selects a subset of a table's columns. Exactly one of
// Names and Rename may be set:
//
//   - Names subsets and reorders to the given order
//   - Rename subsets in source order and renames old → new
//
// Setting both (or neither on a nil selector check) is a caller mistake
// and fails with a precondition error.
type ColumnSelector struct {
	Names  []string
	Rename map[string]string
}

// Validate checks that the selector is well-formed.
func (s *ColumnSelector) Validate() error {
	if s == nil {
		return nil
	}
	if len(s.Names) > 0 && len(s.Rename) > 0 {
		return errors.NewPreconditionError("column selector must set names or rename, not both", nil)
	}
	return nil
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = Row{Time: r.Time, Values: append([]string(nil), r.Values...)}
	}
	return out
}

// Select applies a column selector and returns the reduced table. A nil
// selector returns a clone of the full table. Selecting a column the
// table does not have is a precondition error; the merge layer relies on
// this to catch variable-map typos early rather than producing an empty
// column.
func (t *Table) Select(sel *ColumnSelector) (Table, error) {
	if err := sel.Validate(); err != nil {
		return Table{}, err
	}
	if sel == nil || (len(sel.Names) == 0 && len(sel.Rename) == 0) {
		return t.Clone(), nil
	}

	var keep []int
	var names []string
	if len(sel.Names) > 0 {
		for _, name := range sel.Names {
			idx := t.ColumnIndex(name)
			if idx < 0 {
				return Table{}, errors.NewPreconditionError(
					fmt.Sprintf("selected column %q not present in table", name), nil)
			}
			keep = append(keep, idx)
			names = append(names, name)
		}
	} else {
		// Rename selects in source column order.
		for i, name := range t.Columns {
			if newName, ok := sel.Rename[name]; ok {
				keep = append(keep, i)
				names = append(names, newName)
			}
		}
		if len(keep) != len(sel.Rename) {
			for old := range sel.Rename {
				if t.ColumnIndex(old) < 0 {
					return Table{}, errors.NewPreconditionError(
						fmt.Sprintf("renamed column %q not present in table", old), nil)
				}
			}
		}
	}

	out := Table{Columns: names, Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		values := make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(r.Values) {
				values[j] = r.Values[idx]
			}
		}
		out.Rows[i] = Row{Time: r.Time, Values: values}
	}
	return out, nil
}

// Drop returns the table without the named columns. Missing names are
// ignored.
func (t *Table) Drop(names []string) Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []int
	var cols []string
	for i, c := range t.Columns {
		if !drop[c] {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}
	out := Table{Columns: cols, Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		values := make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(r.Values) {
				values[j] = r.Values[idx]
			}
		}
		out.Rows[i] = Row{Time: r.Time, Values: values}
	}
	return out
}

// SortByTime sorts rows chronologically in place. The sort is stable so
// rows sharing a timestamp keep their input order, which the duplicate
// classification depends on.
func (t *Table) SortByTime() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Time.Before(t.Rows[j].Time)
	})
}

// Times returns the row timestamps in row order.
func (t *Table) Times() []time.Time {
	out := make([]time.Time, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Time
	}
	return out
}

// Dates returns the distinct calendar dates (UTC midnight) present in
// the table.
func (t *Table) Dates() map[time.Time]struct{} {
	out := make(map[time.Time]struct{})
	for _, r := range t.Rows {
		y, m, d := r.Time.Date()
		out[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)] = struct{}{}
	}
	return out
}
