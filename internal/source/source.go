package source

import (
	"time"

	"fluxkit/internal/timeseries"
)

// DataSource is one logical file's header, data, and declared sampling
// interval. The interval is set once at construction and is immutable
// for the lifetime of the object; consumers treat the whole DataSource
// as read-only.
type DataSource struct {
	path     string
	kind     FormatKind
	interval time.Duration
	header   timeseries.Header
	table    timeseries.Table
	dates    map[time.Time]struct{}
}

// New constructs a DataSource. interval is the declared sampling
// interval; pass 0 for single-record or interval-less sources. dates may
// be nil, in which case the calendar dates are derived from the table.
func New(path string, kind FormatKind, interval time.Duration, header timeseries.Header, table timeseries.Table, dates map[time.Time]struct{}) *DataSource {
	if dates == nil {
		dates = table.Dates()
	}
	return &DataSource{
		path:     path,
		kind:     kind,
		interval: interval,
		header:   header,
		table:    table,
		dates:    dates,
	}
}

// Path returns the file path the source was read from.
func (s *DataSource) Path() string { return s.path }

// Kind returns the source's format kind.
func (s *DataSource) Kind() FormatKind { return s.kind }

// Interval returns the declared sampling interval and whether one is
// set. Sources without an interval (single-record files) report false.
func (s *DataSource) Interval() (time.Duration, bool) {
	return s.interval, s.interval > 0
}

// Header returns a copy of the source's variable header.
func (s *DataSource) Header() timeseries.Header {
	return s.header.Clone()
}

// Table returns a copy of the source's raw data table.
func (s *DataSource) Table() timeseries.Table {
	return s.table.Clone()
}

// Dates returns the set of calendar dates (UTC midnight) present in the
// source.
func (s *DataSource) Dates() map[time.Time]struct{} {
	out := make(map[time.Time]struct{}, len(s.dates))
	for d := range s.dates {
		out[d] = struct{}{}
	}
	return out
}
