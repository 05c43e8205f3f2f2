package config

import "time"

// Application constants - hardcoded values shared by the fluxkit tools
const (
	// Application Info
	AppName    = "fluxkit"
	AppVersion = "1.0.0"

	// File Paths (relative to executable)
	DefaultDataDir     = "data"
	DefaultRawDataDir  = "data/rawdata"
	DefaultMergedDir   = "data/merged"
	DefaultReportsDir  = "data/reports"
	DefaultLogsDir     = "logs"
	DefaultLogFilePath = "logs/fluxkit.log"

	// Metadata files (root of executable directory)
	DefaultSiteMasterFile  = "site_master.xlsx"
	DefaultVariableMapFile = "variable_map.yaml"

	// Sampling intervals supported by the site loggers
	TimeStepFast     = 15 * time.Minute
	TimeStepStandard = 30 * time.Minute
	TimeStepSlow     = 60 * time.Minute

	// File extensions
	LoggerFileExt    = ".dat"
	ProcessorFileExt = ".csv"
	ReportFileExt    = ".txt"
)
