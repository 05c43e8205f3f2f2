package source

import (
	"fmt"
	"log/slog"
	"time"

	"fluxkit/internal/errors"
	"fluxkit/internal/timeseries"
)

// Handler exposes conditioned views over one DataSource: duplicate
// classification, gap statistics, column subset/rename, interval-aligned
// resampling, and format-specific output shaping. A Handler is cheap to
// construct and is meant to live for one operation.
type Handler struct {
	src     *DataSource
	logger  *slog.Logger
	classes []timeseries.RowClass
}

// ConditionOptions configures a ConditionedData call.
type ConditionOptions struct {
	// Selector subsets (and optionally renames) columns. Nil keeps all.
	Selector *timeseries.ColumnSelector
	// DropNonNumeric removes the format's structural columns from the
	// output.
	DropNonNumeric bool
	// AlignToGrid reindexes onto a uniform grid at the source's declared
	// interval. Requesting this on an interval-less source is a
	// precondition error.
	AlignToGrid bool
	// ResampleInterval, when positive, reindexes onto a uniform grid at
	// this cadence regardless of AlignToGrid or the declared interval.
	ResampleInterval time.Duration
	// StrictDuplicates fails with an ambiguity error when any
	// duplicate-index rows exist instead of silently dropping them.
	StrictDuplicates bool
}

// NewHandler wraps a DataSource. A nil logger falls back to the default.
func NewHandler(src *DataSource, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		src:    src,
		logger: logger.With(slog.String("component", "source_handler"), slog.String("file", src.Path())),
	}
}

// Source returns the wrapped DataSource.
func (h *Handler) Source() *DataSource { return h.src }

// classify computes the duplicate classification once over the original
// full-width table, so the same row is classified identically everywhere
// it is used and ambiguity detection is not defeated by column dropping.
func (h *Handler) classify() []timeseries.RowClass {
	if h.classes == nil {
		h.classes = timeseries.Classify(&h.src.table)
	}
	return h.classes
}

// ConditionedData returns the source's data with duplicates resolved and
// the requested shaping applied. Duplicate-record and duplicate-index
// rows are dropped with the first chronological occurrence kept, unless
// StrictDuplicates turns remaining ambiguities into an error.
func (h *Handler) ConditionedData(opts ConditionOptions) (timeseries.Table, error) {
	selected, err := h.src.table.Select(opts.Selector)
	if err != nil {
		return timeseries.Table{}, err
	}

	classes := h.classify()
	if opts.StrictDuplicates {
		if n := countClass(classes, timeseries.DuplicateIndex); n > 0 {
			return timeseries.Table{}, errors.NewAmbiguityError(
				fmt.Sprintf("%d rows share a timestamp but disagree in value", n)).
				WithContext("file", h.src.Path())
		}
	}

	out := timeseries.DropDuplicates(&selected, classes)
	out.SortByTime()

	interval := opts.ResampleInterval
	if interval <= 0 && opts.AlignToGrid {
		declared, ok := h.src.Interval()
		if !ok {
			return timeseries.Table{}, errors.NewPreconditionError(
				"grid alignment requires a declared sampling interval", nil).
				WithContext("file", h.src.Path())
		}
		interval = declared
	}
	if interval > 0 {
		out, err = timeseries.Regrid(&out, interval, h.src.Kind().MissingMarker())
		if err != nil {
			return timeseries.Table{}, err
		}
	}

	if opts.DropNonNumeric {
		out = out.Drop(h.src.Kind().NonNumericColumns())
	}

	h.logger.Debug("conditioned data",
		slog.Int("rows_in", h.src.table.Len()),
		slog.Int("rows_out", out.Len()),
		slog.Bool("regridded", interval > 0))
	return out, nil
}

// ConditionedHeader returns the header with the same selection and
// structural-column semantics as ConditionedData. Duplicate and resample
// concerns do not apply to headers.
func (h *Handler) ConditionedHeader(sel *timeseries.ColumnSelector, dropNonNumeric bool) (timeseries.Header, error) {
	out, err := h.src.header.Select(sel)
	if err != nil {
		return timeseries.Header{}, err
	}
	if dropNonNumeric {
		out = out.Drop(h.src.Kind().NonNumericColumns())
	}
	return out, nil
}

// DuplicateRecords flags, per row of the original table, the rows that
// repeat an earlier row's timestamp and every value.
func (h *Handler) DuplicateRecords() []bool {
	return classMask(h.classify(), timeseries.DuplicateRecord)
}

// DuplicateIndices flags, per row of the original table, the rows that
// share a timestamp with an earlier row but disagree in value.
func (h *Handler) DuplicateIndices() []bool {
	return classMask(h.classify(), timeseries.DuplicateIndex)
}

// DuplicateIndexTimes returns the timestamps of the duplicate-index rows
// in row order.
func (h *Handler) DuplicateIndexTimes() []time.Time {
	var out []time.Time
	for i, c := range h.classify() {
		if c == timeseries.DuplicateIndex {
			out = append(out, h.src.table.Rows[i].Time)
		}
	}
	return out
}

// MissingStats counts the records missing from a uniform grid spanning
// the de-duplicated index at the declared interval. Interval-less
// sources fail with a precondition error.
func (h *Handler) MissingStats() (timeseries.MissingStats, error) {
	interval, err := h.requireInterval("missing-record stats")
	if err != nil {
		return timeseries.MissingStats{}, err
	}
	return timeseries.ComputeMissingStats(h.dedupedTimes(), interval)
}

// GapDistribution maps gap size in missed records to occurrence count
// over the de-duplicated, time-sorted index.
func (h *Handler) GapDistribution() (map[int]int, error) {
	interval, err := h.requireInterval("gap distribution")
	if err != nil {
		return nil, err
	}
	return timeseries.ComputeGapDistribution(h.dedupedTimes(), interval)
}

// GapBounds lists every gap with the timestamps immediately before and
// after it.
func (h *Handler) GapBounds() ([]timeseries.Gap, error) {
	interval, err := h.requireInterval("gap bounds")
	if err != nil {
		return nil, err
	}
	return timeseries.ComputeGapBounds(h.dedupedTimes(), interval)
}

// requireInterval returns the declared interval or a precondition error
// naming the analysis that needs it. Single-record sources have no gap
// concept.
func (h *Handler) requireInterval(what string) (time.Duration, error) {
	interval, ok := h.src.Interval()
	if !ok {
		return 0, errors.NewPreconditionError(
			fmt.Sprintf("%s requires a declared sampling interval", what), nil).
			WithContext("file", h.src.Path())
	}
	return interval, nil
}

func (h *Handler) dedupedTimes() []time.Time {
	deduped := timeseries.DropDuplicates(&h.src.table, h.classify())
	deduped.SortByTime()
	return deduped.Times()
}

func classMask(classes []timeseries.RowClass, want timeseries.RowClass) []bool {
	out := make([]bool, len(classes))
	for i, c := range classes {
		out[i] = c == want
	}
	return out
}

func countClass(classes []timeseries.RowClass, want timeseries.RowClass) int {
	n := 0
	for _, c := range classes {
		if c == want {
			n++
		}
	}
	return n
}
