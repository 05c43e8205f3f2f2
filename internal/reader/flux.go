package reader

import (
	"strings"
	"time"

	"fluxkit/internal/source"
	"fluxkit/internal/timeseries"
)

const (
	fluxDateLayout = "2006-01-02"
	fluxTimeLayout = "15:04"
)

// parseFluxProcessor assembles a DataSource from an EddyPro-style full
// output table: a group line, then column names and bracketed units,
// then data rows whose date and time columns form the timestamp. Flux
// headers carry no sampling statistic.
func parseFluxProcessor(path string, records [][]string) (*source.DataSource, error) {
	if len(records) < 3 {
		return nil, parseError(path, len(records), "flux-processor file needs 3 header lines, got %d", len(records))
	}

	names := records[1]
	units := records[2]

	dateIdx, timeIdx := -1, -1
	for i, name := range names {
		switch name {
		case "date":
			dateIdx = i
		case "time":
			timeIdx = i
		}
	}
	if dateIdx < 0 || timeIdx < 0 {
		return nil, parseError(path, 2, "flux-processor file has no date/time columns")
	}

	cols := append([]string(nil), names...)
	colUnits := make([]string, len(names))
	for i := range names {
		colUnits[i] = strings.Trim(cell(units, i), "[]")
	}

	table := timeseries.Table{Columns: cols}
	var timestamps []time.Time
	for lineNo, record := range records[3:] {
		if len(record) <= dateIdx || len(record) <= timeIdx {
			return nil, parseError(path, lineNo+4, "data row has no date/time fields")
		}
		ts, err := time.Parse(fluxDateLayout+" "+fluxTimeLayout,
			strings.TrimSpace(record[dateIdx])+" "+strings.TrimSpace(record[timeIdx]))
		if err != nil {
			return nil, parseError(path, lineNo+4, "bad date/time %q %q", record[dateIdx], record[timeIdx])
		}
		values := make([]string, len(cols))
		for i := range cols {
			values[i] = cell(record, i)
		}
		table.Rows = append(table.Rows, timeseries.Row{Time: ts.UTC(), Values: values})
		timestamps = append(timestamps, ts.UTC())
	}

	header := timeseries.NewHeader(cols, colUnits, nil)
	return source.New(path, source.FluxProcessor, InferInterval(timestamps), header, table, nil), nil
}
