package reader

import (
	"strings"
	"time"

	"fluxkit/internal/source"
	"fluxkit/internal/timeseries"
)

const toa5TimeLayout = "2006-01-02 15:04:05"

// parseTOA5 assembles a DataSource from a Campbell-style TOA5 table:
// an environment line, then column names, units, and sampling
// statistics, then data rows keyed by the TIMESTAMP column.
func parseTOA5(path string, records [][]string) (*source.DataSource, error) {
	if len(records) < 4 {
		return nil, parseError(path, len(records), "TOA5 file needs 4 header lines, got %d", len(records))
	}
	if len(records[0]) == 0 || records[0][0] != "TOA5" {
		return nil, parseError(path, 1, "missing TOA5 environment line")
	}

	names := records[1]
	units := records[2]
	statistics := records[3]

	tsIdx := -1
	for i, name := range names {
		if name == "TIMESTAMP" {
			tsIdx = i
			break
		}
	}
	if tsIdx < 0 {
		return nil, parseError(path, 2, "TOA5 file has no TIMESTAMP column")
	}

	// The TIMESTAMP column becomes the table's time index, not a
	// variable.
	var cols []string
	var colUnits []string
	var colStats []string
	for i, name := range names {
		if i == tsIdx {
			continue
		}
		cols = append(cols, name)
		colUnits = append(colUnits, cell(units, i))
		colStats = append(colStats, cell(statistics, i))
	}

	table := timeseries.Table{Columns: cols}
	var timestamps []time.Time
	for lineNo, record := range records[4:] {
		if len(record) <= tsIdx {
			return nil, parseError(path, lineNo+5, "data row has no timestamp field")
		}
		ts, err := time.Parse(toa5TimeLayout, strings.TrimSpace(record[tsIdx]))
		if err != nil {
			return nil, parseError(path, lineNo+5, "bad timestamp %q", record[tsIdx])
		}
		values := make([]string, len(cols))
		j := 0
		for i := range names {
			if i == tsIdx {
				continue
			}
			values[j] = cell(record, i)
			j++
		}
		table.Rows = append(table.Rows, timeseries.Row{Time: ts.UTC(), Values: values})
		timestamps = append(timestamps, ts.UTC())
	}

	header := timeseries.NewHeader(cols, colUnits, colStats)
	return source.New(path, source.RawLogger, InferInterval(timestamps), header, table, nil), nil
}

// cell returns record[i] or "" when the row is short. TOA5 writers pad
// inconsistently, so short rows are tolerated rather than errors.
func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
