package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fluxkit/internal/errors"
)

func ts(minutes int) time.Time {
	return time.Date(2021, 6, 28, 10, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

func sampleTable() Table {
	return Table{
		Columns: []string{"Ta_Avg", "RH_Avg", "Fn_Avg"},
		Rows: []Row{
			{Time: ts(0), Values: []string{"21.3", "55.1", "410.2"}},
			{Time: ts(30), Values: []string{"21.8", "54.0", "415.9"}},
			{Time: ts(60), Values: []string{"22.1", "52.7", "418.0"}},
		},
	}
}

func TestTableSelect(t *testing.T) {
	tests := []struct {
		name        string
		selector    *ColumnSelector
		wantColumns []string
		wantFirst   []string
		wantErrType apperrors.ErrorType
	}{
		{
			name:        "nil selector returns full table",
			selector:    nil,
			wantColumns: []string{"Ta_Avg", "RH_Avg", "Fn_Avg"},
			wantFirst:   []string{"21.3", "55.1", "410.2"},
		},
		{
			name:        "names subset preserves requested order",
			selector:    &ColumnSelector{Names: []string{"Fn_Avg", "Ta_Avg"}},
			wantColumns: []string{"Fn_Avg", "Ta_Avg"},
			wantFirst:   []string{"410.2", "21.3"},
		},
		{
			name:        "rename subsets in source order",
			selector:    &ColumnSelector{Rename: map[string]string{"RH_Avg": "RH", "Ta_Avg": "Ta"}},
			wantColumns: []string{"Ta", "RH"},
			wantFirst:   []string{"21.3", "55.1"},
		},
		{
			name:        "unknown name is a precondition error",
			selector:    &ColumnSelector{Names: []string{"Missing"}},
			wantErrType: apperrors.ErrTypePrecondition,
		},
		{
			name:        "unknown rename key is a precondition error",
			selector:    &ColumnSelector{Rename: map[string]string{"Missing": "M"}},
			wantErrType: apperrors.ErrTypePrecondition,
		},
		{
			name: "names and rename together is a precondition error",
			selector: &ColumnSelector{
				Names:  []string{"Ta_Avg"},
				Rename: map[string]string{"Ta_Avg": "Ta"},
			},
			wantErrType: apperrors.ErrTypePrecondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := sampleTable()
			got, err := tab.Select(tt.selector)
			if tt.wantErrType != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.wantErrType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumns, got.Columns)
			require.NotEmpty(t, got.Rows)
			assert.Equal(t, tt.wantFirst, got.Rows[0].Values)
		})
	}
}

func TestTableSelectDoesNotMutateInput(t *testing.T) {
	tab := sampleTable()
	_, err := tab.Select(&ColumnSelector{Names: []string{"Fn_Avg"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ta_Avg", "RH_Avg", "Fn_Avg"}, tab.Columns)
	assert.Equal(t, []string{"21.3", "55.1", "410.2"}, tab.Rows[0].Values)
}

func TestTableDrop(t *testing.T) {
	tab := sampleTable()
	got := tab.Drop([]string{"RH_Avg", "NotThere"})
	assert.Equal(t, []string{"Ta_Avg", "Fn_Avg"}, got.Columns)
	assert.Equal(t, []string{"21.3", "410.2"}, got.Rows[0].Values)
}

func TestTableSortByTimeIsStable(t *testing.T) {
	tab := Table{
		Columns: []string{"v"},
		Rows: []Row{
			{Time: ts(30), Values: []string{"b"}},
			{Time: ts(0), Values: []string{"a"}},
			{Time: ts(30), Values: []string{"c"}},
		},
	}
	tab.SortByTime()
	assert.Equal(t, []string{"a"}, tab.Rows[0].Values)
	assert.Equal(t, []string{"b"}, tab.Rows[1].Values)
	assert.Equal(t, []string{"c"}, tab.Rows[2].Values)
}

func TestTableDates(t *testing.T) {
	tab := Table{
		Columns: []string{"v"},
		Rows: []Row{
			{Time: time.Date(2021, 6, 28, 23, 30, 0, 0, time.UTC), Values: []string{"1"}},
			{Time: time.Date(2021, 6, 29, 0, 0, 0, 0, time.UTC), Values: []string{"2"}},
			{Time: time.Date(2021, 6, 29, 0, 30, 0, 0, time.UTC), Values: []string{"3"}},
		},
	}
	dates := tab.Dates()
	assert.Len(t, dates, 2)
	assert.Contains(t, dates, time.Date(2021, 6, 28, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, dates, time.Date(2021, 6, 29, 0, 0, 0, 0, time.UTC))
}

func TestHeaderSelect(t *testing.T) {
	h := NewHeader(
		[]string{"Ta_Avg", "RH_Avg"},
		[]string{"degC", "%"},
		[]string{"Avg", "Avg"},
	)

	t.Run("names", func(t *testing.T) {
		got, err := h.Select(&ColumnSelector{Names: []string{"RH_Avg"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"RH_Avg"}, got.Names)
		assert.Equal(t, "%", got.Units("RH_Avg"))
	})

	t.Run("rename", func(t *testing.T) {
		got, err := h.Select(&ColumnSelector{Rename: map[string]string{"Ta_Avg": "Ta"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ta"}, got.Names)
		assert.Equal(t, "degC", got.Units("Ta"))
		assert.Equal(t, "Avg", got.Info["Ta"].Statistic)
	})

	t.Run("unknown variable", func(t *testing.T) {
		_, err := h.Select(&ColumnSelector{Names: []string{"Missing"}})
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypePrecondition))
	})
}

func TestHeaderAppendFirstDeclarationWins(t *testing.T) {
	h := NewHeader([]string{"Ta_Avg"}, []string{"degC"}, []string{"Avg"})
	h.Append("Ta_Avg", Variable{Units: "K"})
	assert.Equal(t, []string{"Ta_Avg"}, h.Names)
	assert.Equal(t, "degC", h.Units("Ta_Avg"))

	h.Append("RH_Avg", Variable{Units: "%"})
	assert.Equal(t, []string{"Ta_Avg", "RH_Avg"}, h.Names)
}
