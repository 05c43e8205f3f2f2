// Package reader loads measurement files from disk into DataSources: it
// parses the format-specific header layout, builds the time-indexed data
// table, and seeds the declared sampling interval. The conditioning and
// merge layers never re-infer the interval; this package is the only
// place inference happens.
package reader

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"fluxkit/internal/errors"
	"fluxkit/internal/files"
	"fluxkit/internal/naming"
	"fluxkit/internal/source"
)

// Read loads one measurement file of the given kind.
func Read(path string, kind source.FormatKind) (*source.DataSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open measurement file", err).
			WithContext("file", path)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to read measurement file", err).
			WithContext("file", path)
	}

	var src *source.DataSource
	switch kind {
	case source.FluxProcessor:
		src, err = parseFluxProcessor(path, records)
	default:
		src, err = parseTOA5(path, records)
	}
	if err != nil {
		return nil, err
	}

	interval, _ := src.Interval()
	table := src.Table()
	slog.Debug("read measurement file",
		slog.String("file", path),
		slog.String("kind", kind.String()),
		slog.Int("rows", table.Len()),
		slog.Duration("interval", interval))
	return src, nil
}

// InferInterval returns the most common positive delta between the
// sorted, de-duplicated timestamps, or 0 when fewer than two distinct
// timestamps exist. The result seeds a DataSource's declared interval.
func InferInterval(timestamps []time.Time) time.Duration {
	if len(timestamps) < 2 {
		return 0
	}
	sorted := append([]time.Time(nil), timestamps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	counts := make(map[time.Duration]int)
	for i := 1; i < len(sorted); i++ {
		if delta := sorted[i].Sub(sorted[i-1]); delta > 0 {
			counts[delta]++
		}
	}

	var modal time.Duration
	best := 0
	for delta, n := range counts {
		if n > best || (n == best && (modal == 0 || delta < modal)) {
			modal = delta
			best = n
		}
	}
	return modal
}

// EligibleBackups lists the sibling files of path that belong to the
// same logical series per the naming convention: same kind, site, and
// table, different file name. The result is sorted by name. Siblings
// that do not parse are skipped, not errors.
func EligibleBackups(path string) ([]string, error) {
	if _, err := naming.Parse(path); err != nil {
		return nil, err
	}

	d := files.NewDiscovery(filepath.Dir(path))
	siblings, err := d.FindSeriesFiles(".", filepath.Base(path))
	if err != nil {
		return nil, errors.NewStorageError("failed to discover series siblings", err).
			WithContext("file", path)
	}

	backups := make([]string, 0, len(siblings))
	for _, sibling := range siblings {
		backups = append(backups, sibling.Path)
	}
	return backups, nil
}

// NonNumericColumns re-exports the format's structural column set for
// callers that do not hold a DataSource.
func NonNumericColumns(kind source.FormatKind) []string {
	return kind.NonNumericColumns()
}

func parseError(path string, line int, format string, args ...interface{}) error {
	return errors.NewParsingError(fmt.Sprintf(format, args...), nil).
		WithContext("file", path).
		WithContext("line", line)
}
