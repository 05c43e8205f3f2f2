package reader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fluxkit/internal/errors"
	"fluxkit/internal/source"
)

const toa5Sample = `"TOA5","Calperum","CR3000","1234","CR3000.Std.32","CPU:met.CR3","56789","met"
"TIMESTAMP","RECORD","Ta_Avg","RH_Avg"
"TS","RN","degC","%"
"","","Avg","Avg"
"2021-06-28 10:00:00",1,21.3,55.1
"2021-06-28 10:30:00",2,21.8,54.0
"2021-06-28 11:30:00",4,22.4,51.9
`

const fluxSample = `file_info,file_info,file_info,file_info,corrected_fluxes
filename,date,time,DOY,H
,[yyyy-mm-dd],[HH:MM],[ddd.ddd],[W+1m-2]
f1.raw,2021-06-28,10:00,179.4167,120.4
f1.raw,2021-06-28,10:30,179.4375,131.9
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadTOA5(t *testing.T) {
	path := writeFile(t, t.TempDir(), "TOA5_Calperum_met.dat", toa5Sample)

	src, err := Read(path, source.RawLogger)
	require.NoError(t, err)

	header := src.Header()
	assert.Equal(t, []string{"RECORD", "Ta_Avg", "RH_Avg"}, header.Names)
	assert.Equal(t, "degC", header.Units("Ta_Avg"))
	assert.Equal(t, "Avg", header.Info["RH_Avg"].Statistic)

	table := src.Table()
	require.Equal(t, 3, table.Len())
	assert.Equal(t, time.Date(2021, 6, 28, 10, 0, 0, 0, time.UTC), table.Rows[0].Time)
	assert.Equal(t, []string{"1", "21.3", "55.1"}, table.Rows[0].Values)

	interval, ok := src.Interval()
	require.True(t, ok)
	assert.Equal(t, 30*time.Minute, interval)

	dates := src.Dates()
	assert.Len(t, dates, 1)
	assert.Contains(t, dates, time.Date(2021, 6, 28, 0, 0, 0, 0, time.UTC))
}

func TestReadTOA5Malformed(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing environment line", func(t *testing.T) {
		path := writeFile(t, dir, "bad_env.dat", "\"CSV\",\"x\"\na,b\nc,d\ne,f\n")
		_, err := Read(path, source.RawLogger)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	})

	t.Run("no timestamp column", func(t *testing.T) {
		path := writeFile(t, dir, "no_ts.dat", "\"TOA5\",\"x\"\n\"RECORD\",\"Ta\"\n\"RN\",\"degC\"\n\"\",\"Avg\"\n")
		_, err := Read(path, source.RawLogger)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Read(filepath.Join(dir, "absent.dat"), source.RawLogger)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
	})
}

func TestReadFluxProcessor(t *testing.T) {
	path := writeFile(t, t.TempDir(), "eddypro_Calperum_full_output_exp.csv", fluxSample)

	src, err := Read(path, source.FluxProcessor)
	require.NoError(t, err)

	header := src.Header()
	assert.Equal(t, []string{"filename", "date", "time", "DOY", "H"}, header.Names)
	assert.Equal(t, "W+1m-2", header.Units("H"))
	assert.Equal(t, "yyyy-mm-dd", header.Units("date"))

	table := src.Table()
	require.Equal(t, 2, table.Len())
	assert.Equal(t, time.Date(2021, 6, 28, 10, 30, 0, 0, time.UTC), table.Rows[1].Time)

	interval, ok := src.Interval()
	require.True(t, ok)
	assert.Equal(t, 30*time.Minute, interval)
}

func TestInferInterval(t *testing.T) {
	base := time.Date(2021, 6, 28, 10, 0, 0, 0, time.UTC)
	at := func(minutes ...int) []time.Time {
		out := make([]time.Time, len(minutes))
		for i, m := range minutes {
			out[i] = base.Add(time.Duration(m) * time.Minute)
		}
		return out
	}

	tests := []struct {
		name  string
		times []time.Time
		want  time.Duration
	}{
		{name: "uniform", times: at(0, 30, 60, 90), want: 30 * time.Minute},
		{name: "modal delta wins over a gap", times: at(0, 30, 60, 180, 210), want: 30 * time.Minute},
		{name: "unsorted input", times: at(60, 0, 30), want: 30 * time.Minute},
		{name: "single record has no interval", times: at(0), want: 0},
		{name: "empty", times: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferInterval(tt.times))
		})
	}
}

func TestEligibleBackups(t *testing.T) {
	dir := t.TempDir()
	master := writeFile(t, dir, "TOA5_Calperum_met.dat", toa5Sample)
	backup1 := writeFile(t, dir, "TOA5_Calperum_met_20210621.dat", toa5Sample)
	backup2 := writeFile(t, dir, "TOA5_Calperum_met_20210614.dat", toa5Sample)
	writeFile(t, dir, "TOA5_Calperum_soil.dat", toa5Sample)
	writeFile(t, dir, "TOA5_Gingin_met.dat", toa5Sample)
	writeFile(t, dir, "notes.txt", "unrelated")

	backups, err := EligibleBackups(master)
	require.NoError(t, err)
	assert.Equal(t, []string{backup2, backup1}, backups)
}

func TestNonNumericColumns(t *testing.T) {
	assert.Equal(t, []string{"RECORD"}, NonNumericColumns(source.RawLogger))
	assert.Equal(t, []string{"filename", "date", "time", "DOY"}, NonNumericColumns(source.FluxProcessor))
}
