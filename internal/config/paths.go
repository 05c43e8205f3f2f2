package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file paths in the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	RawDataDir    string
	MergedDir     string
	ReportsDir    string
	LogsDir       string

	// Config files (root of executable directory)
	SiteMasterFile  string
	VariableMapFile string
}

// GetPaths returns the application paths relative to the executable
// location, never the current working directory, so the tools behave the
// same wherever they are launched from.
//
// Directory structure:
//
//	fluxkit/
//	  ├── site_master.xlsx
//	  ├── variable_map.yaml
//	  ├── data/
//	  │   ├── rawdata/    (logger and processor files)
//	  │   ├── merged/     (combined TOA5 output)
//	  │   └── reports/    (merge and gap reports)
//	  └── logs/
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return PathsFrom(filepath.Dir(exe)), nil
}

// PathsFrom builds the path set under an explicit base directory. Used
// by GetPaths and by tests that cannot anchor to the test binary.
func PathsFrom(baseDir string) *Paths {
	return &Paths{
		ExecutableDir:   baseDir,
		DataDir:         filepath.Join(baseDir, DefaultDataDir),
		RawDataDir:      filepath.Join(baseDir, DefaultRawDataDir),
		MergedDir:       filepath.Join(baseDir, DefaultMergedDir),
		ReportsDir:      filepath.Join(baseDir, DefaultReportsDir),
		LogsDir:         filepath.Join(baseDir, DefaultLogsDir),
		SiteMasterFile:  filepath.Join(baseDir, DefaultSiteMasterFile),
		VariableMapFile: filepath.Join(baseDir, DefaultVariableMapFile),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.RawDataDir,
		p.MergedDir,
		p.ReportsDir,
		p.LogsDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetRawDataPath returns the full path for a file in the rawdata directory
func (p *Paths) GetRawDataPath(filename string) string {
	return filepath.Join(p.RawDataDir, filename)
}

// GetMergedPath returns the full path for a file in the merged directory
func (p *Paths) GetMergedPath(filename string) string {
	return filepath.Join(p.MergedDir, filename)
}

// GetReportPath returns the full path for a file in the reports directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path for a file in the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
