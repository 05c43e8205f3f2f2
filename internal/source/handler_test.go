package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fluxkit/internal/errors"
	"fluxkit/internal/timeseries"
)

func ts(minutes int) time.Time {
	return time.Date(2021, 6, 28, 10, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

func newTestSource(t *testing.T, interval time.Duration, rows []timeseries.Row) *DataSource {
	t.Helper()
	header := timeseries.NewHeader(
		[]string{"RECORD", "Ta_Avg", "RH_Avg"},
		[]string{"RN", "degC", "%"},
		[]string{"", "Avg", "Avg"},
	)
	table := timeseries.Table{Columns: []string{"RECORD", "Ta_Avg", "RH_Avg"}, Rows: rows}
	return New("/data/TOA5_Calperum_met.dat", RawLogger, interval, header, table, nil)
}

func TestConditionedDataDropsDuplicates(t *testing.T) {
	src := newTestSource(t, 30*time.Minute, []timeseries.Row{
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
		{Time: ts(0), Values: []string{"1", "99.9", "55.1"}},
		{Time: ts(30), Values: []string{"2", "21.8", "54.0"}},
	})
	h := NewHandler(src, nil)

	got, err := h.ConditionedData(ConditionOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, []string{"1", "21.3", "55.1"}, got.Rows[0].Values)
	assert.Equal(t, []string{"2", "21.8", "54.0"}, got.Rows[1].Values)
}

func TestConditionedDataStrictDuplicates(t *testing.T) {
	src := newTestSource(t, 30*time.Minute, []timeseries.Row{
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
		{Time: ts(0), Values: []string{"1", "99.9", "55.1"}},
	})
	h := NewHandler(src, nil)

	_, err := h.ConditionedData(ConditionOptions{StrictDuplicates: true})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeAmbiguity))
}

func TestConditionedDataClassifiesOnFullRows(t *testing.T) {
	// The two rows differ only in RH_Avg. Selecting Ta_Avg alone must not
	// turn the conflict into an apparent exact duplicate.
	src := newTestSource(t, 30*time.Minute, []timeseries.Row{
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
		{Time: ts(0), Values: []string{"1", "21.3", "60.0"}},
	})
	h := NewHandler(src, nil)

	_, err := h.ConditionedData(ConditionOptions{
		Selector:         &timeseries.ColumnSelector{Names: []string{"Ta_Avg"}},
		StrictDuplicates: true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeAmbiguity))
}

func TestConditionedDataAlignToGrid(t *testing.T) {
	src := newTestSource(t, 30*time.Minute, []timeseries.Row{
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
		{Time: ts(90), Values: []string{"4", "22.0", "53.2"}},
	})
	h := NewHandler(src, nil)

	got, err := h.ConditionedData(ConditionOptions{AlignToGrid: true})
	require.NoError(t, err)
	require.Equal(t, 4, got.Len())
	assert.Equal(t, []string{"NAN", "NAN", "NAN"}, got.Rows[1].Values)
}

func TestConditionedDataExplicitResampleWins(t *testing.T) {
	src := newTestSource(t, 30*time.Minute, []timeseries.Row{
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
		{Time: ts(60), Values: []string{"3", "22.1", "52.7"}},
	})
	h := NewHandler(src, nil)

	got, err := h.ConditionedData(ConditionOptions{
		AlignToGrid:      true,
		ResampleInterval: 60 * time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestConditionedDataAlignWithoutIntervalFails(t *testing.T) {
	src := newTestSource(t, 0, []timeseries.Row{
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
	})
	h := NewHandler(src, nil)

	_, err := h.ConditionedData(ConditionOptions{AlignToGrid: true})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypePrecondition))

	// An explicit resample interval works regardless of the declared one.
	_, err = h.ConditionedData(ConditionOptions{ResampleInterval: 30 * time.Minute})
	assert.NoError(t, err)
}

func TestConditionedDataDropNonNumeric(t *testing.T) {
	src := newTestSource(t, 30*time.Minute, []timeseries.Row{
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
	})
	h := NewHandler(src, nil)

	got, err := h.ConditionedData(ConditionOptions{DropNonNumeric: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ta_Avg", "RH_Avg"}, got.Columns)
}

func TestConditionedHeader(t *testing.T) {
	src := newTestSource(t, 30*time.Minute, nil)
	h := NewHandler(src, nil)

	got, err := h.ConditionedHeader(&timeseries.ColumnSelector{Rename: map[string]string{"Ta_Avg": "Ta"}}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ta"}, got.Names)
	assert.Equal(t, "degC", got.Units("Ta"))

	got, err = h.ConditionedHeader(nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ta_Avg", "RH_Avg"}, got.Names)
}

func TestDuplicateFlags(t *testing.T) {
	src := newTestSource(t, 30*time.Minute, []timeseries.Row{
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
		{Time: ts(0), Values: []string{"1", "77.7", "55.1"}},
		{Time: ts(30), Values: []string{"2", "21.8", "54.0"}},
	})
	h := NewHandler(src, nil)

	assert.Equal(t, []bool{false, true, false, false}, h.DuplicateRecords())
	assert.Equal(t, []bool{false, false, true, false}, h.DuplicateIndices())
	assert.Equal(t, []time.Time{ts(0)}, h.DuplicateIndexTimes())
}

func TestGapAnalytics(t *testing.T) {
	src := newTestSource(t, 30*time.Minute, []timeseries.Row{
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
		{Time: ts(30), Values: []string{"2", "21.8", "54.0"}},
		{Time: ts(30), Values: []string{"2", "21.8", "54.0"}},
		{Time: ts(150), Values: []string{"5", "22.4", "51.9"}},
	})
	h := NewHandler(src, nil)

	stats, err := h.MissingStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 50.0, stats.Percent, 1e-9)

	dist, err := h.GapDistribution()
	require.NoError(t, err)
	assert.Equal(t, map[int]int{3: 1}, dist)

	gaps, err := h.GapBounds()
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, timeseries.Gap{Missed: 3, Before: ts(30), After: ts(150)}, gaps[0])
}

func TestGapAnalyticsWithoutInterval(t *testing.T) {
	src := newTestSource(t, 0, []timeseries.Row{
		{Time: ts(0), Values: []string{"1", "21.3", "55.1"}},
	})
	h := NewHandler(src, nil)

	_, err := h.MissingStats()
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypePrecondition))
	_, err = h.GapDistribution()
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypePrecondition))
	_, err = h.GapBounds()
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypePrecondition))
}

func TestFormatKind(t *testing.T) {
	tests := []struct {
		in      string
		want    FormatKind
		wantErr bool
	}{
		{in: "toa5", want: RawLogger},
		{in: "rawlogger", want: RawLogger},
		{in: "EddyPro", want: FluxProcessor},
		{in: "fluxprocessor", want: FluxProcessor},
		{in: "netcdf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormatKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "NAN", RawLogger.MissingMarker())
	assert.Equal(t, "-9999", FluxProcessor.MissingMarker())
	assert.Contains(t, RawLogger.NonNumericColumns(), "RECORD")
	assert.Contains(t, FluxProcessor.NonNumericColumns(), "DOY")
}
