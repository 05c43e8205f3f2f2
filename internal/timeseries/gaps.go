package timeseries

import (
	"time"

	"fluxkit/internal/errors"
)

// MissingStats summarizes how many records a source is missing relative
// to a uniform grid spanning its first and last timestamps.
type MissingStats struct {
	Count   int
	Percent float64
}

// Gap describes one hole in an otherwise uniform time index: the number
// of records missed and the timestamps immediately before and after.
type Gap struct {
	Missed int
	Before time.Time
	After  time.Time
}

// ComputeMissingStats counts missing records against a uniform grid at
// the given interval spanning [first, last] of the supplied timestamps.
// times must be de-duplicated and sorted.
func ComputeMissingStats(times []time.Time, interval time.Duration) (MissingStats, error) {
	if interval <= 0 {
		return MissingStats{}, errors.NewPreconditionError("missing-record stats require a positive sampling interval", nil)
	}
	if len(times) == 0 {
		return MissingStats{}, nil
	}
	span := times[len(times)-1].Sub(times[0])
	gridLen := int(span/interval) + 1
	missing := gridLen - len(times)
	if missing < 0 {
		missing = 0
	}
	stats := MissingStats{Count: missing}
	if gridLen > 0 {
		stats.Percent = float64(missing) / float64(gridLen) * 100
	}
	return stats, nil
}

// ComputeGapDistribution maps gap size (in missed records) to the number
// of gaps of that size. A step of exactly one interval is not a gap; a
// step of k intervals records a gap of k-1 missed records. times must be
// de-duplicated and sorted.
func ComputeGapDistribution(times []time.Time, interval time.Duration) (map[int]int, error) {
	if interval <= 0 {
		return nil, errors.NewPreconditionError("gap distribution requires a positive sampling interval", nil)
	}
	dist := make(map[int]int)
	for i := 1; i < len(times); i++ {
		if missed := missedRecords(times[i-1], times[i], interval); missed > 0 {
			dist[missed]++
		}
	}
	return dist, nil
}

// ComputeGapBounds lists every gap with its bounding timestamps, in
// chronological order. times must be de-duplicated and sorted.
func ComputeGapBounds(times []time.Time, interval time.Duration) ([]Gap, error) {
	if interval <= 0 {
		return nil, errors.NewPreconditionError("gap bounds require a positive sampling interval", nil)
	}
	var gaps []Gap
	for i := 1; i < len(times); i++ {
		if missed := missedRecords(times[i-1], times[i], interval); missed > 0 {
			gaps = append(gaps, Gap{Missed: missed, Before: times[i-1], After: times[i]})
		}
	}
	return gaps, nil
}

// missedRecords converts the delta between two consecutive timestamps
// into a count of skipped records: k-1 for a delta of k whole intervals,
// rounded down. A delta under twice the interval therefore skips no
// record and is not a gap; off-grid timing is Regrid's concern, not the
// gap counters'.
func missedRecords(before, after time.Time, interval time.Duration) int {
	delta := after.Sub(before)
	if delta <= interval {
		return 0
	}
	return int(delta/interval) - 1
}

// Regrid reindexes the table onto a uniform grid at the given interval
// spanning [first, last]. Rows whose timestamps fall off the grid are
// dropped; grid slots with no row are materialized as rows filled with
// the missing marker. No values are ever inferred. The input table must
// be de-duplicated and sorted.
func Regrid(t *Table, interval time.Duration, missingMarker string) (Table, error) {
	if interval <= 0 {
		return Table{}, errors.NewPreconditionError("regridding requires a positive sampling interval", nil)
	}
	out := Table{Columns: append([]string(nil), t.Columns...)}
	if len(t.Rows) == 0 {
		return out, nil
	}

	byTime := make(map[int64]*Row, len(t.Rows))
	for i := range t.Rows {
		byTime[t.Rows[i].Time.UnixNano()] = &t.Rows[i]
	}

	first := t.Rows[0].Time
	last := t.Rows[len(t.Rows)-1].Time
	for ts := first; !ts.After(last); ts = ts.Add(interval) {
		if row, ok := byTime[ts.UnixNano()]; ok {
			out.Rows = append(out.Rows, Row{Time: row.Time, Values: append([]string(nil), row.Values...)})
			continue
		}
		values := make([]string, len(t.Columns))
		for i := range values {
			values[i] = missingMarker
		}
		out.Rows = append(out.Rows, Row{Time: ts, Values: values})
	}
	return out, nil
}
