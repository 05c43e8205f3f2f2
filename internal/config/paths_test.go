package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsFrom(t *testing.T) {
	p := PathsFrom("/opt/fluxkit")

	assert.Equal(t, "/opt/fluxkit", p.ExecutableDir)
	assert.Equal(t, filepath.Join("/opt/fluxkit", "data"), p.DataDir)
	assert.Equal(t, filepath.Join("/opt/fluxkit", "data", "rawdata"), p.RawDataDir)
	assert.Equal(t, filepath.Join("/opt/fluxkit", "data", "merged"), p.MergedDir)
	assert.Equal(t, filepath.Join("/opt/fluxkit", "data", "reports"), p.ReportsDir)
	assert.Equal(t, filepath.Join("/opt/fluxkit", "logs"), p.LogsDir)
	assert.Equal(t, filepath.Join("/opt/fluxkit", DefaultSiteMasterFile), p.SiteMasterFile)
	assert.Equal(t, filepath.Join("/opt/fluxkit", DefaultVariableMapFile), p.VariableMapFile)
}

func TestPathHelpers(t *testing.T) {
	p := PathsFrom("/base")

	assert.Equal(t, filepath.Join("/base", "data", "rawdata", "TOA5_x_met.dat"), p.GetRawDataPath("TOA5_x_met.dat"))
	assert.Equal(t, filepath.Join("/base", "data", "merged", "out.dat"), p.GetMergedPath("out.dat"))
	assert.Equal(t, filepath.Join("/base", "data", "reports", "merge.txt"), p.GetReportPath("merge.txt"))
	assert.Equal(t, filepath.Join("/base", "logs", "fluxkit.log"), p.GetLogPath("fluxkit.log"))
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	p := PathsFrom(base)

	require.NoError(t, p.EnsureDirectories())

	for _, dir := range []string{p.DataDir, p.RawDataDir, p.MergedDir, p.ReportsDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Idempotent.
	require.NoError(t, p.EnsureDirectories())
}

func TestGetPaths(t *testing.T) {
	p, err := GetPaths()
	require.NoError(t, err)
	assert.NotEmpty(t, p.ExecutableDir)
	assert.Equal(t, filepath.Join(p.ExecutableDir, "data"), p.DataDir)
}
