package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Merge   MergeConfig   `yaml:"merge" envconfig:"MERGE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/fluxkit.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	RawDataDir    string `yaml:"rawdata_dir" envconfig:"RAWDATA_DIR" default:"data/rawdata"`
	MergedDir     string `yaml:"merged_dir" envconfig:"MERGED_DIR" default:"data/merged"`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// MergeConfig contains merge-run configuration
type MergeConfig struct {
	// SiteMasterFile is the workbook holding per-site metadata.
	SiteMasterFile string `yaml:"site_master_file" envconfig:"SITE_MASTER_FILE" default:"site_master.xlsx"`
	// VariableMapFile is the per-site variable rename/units map.
	VariableMapFile string `yaml:"variable_map_file" envconfig:"VARIABLE_MAP_FILE" default:"variable_map.yaml"`
	// WriteReports controls whether merge runs write sibling .txt reports.
	WriteReports bool `yaml:"write_reports" envconfig:"WRITE_REPORTS" default:"true"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("FLUXKIT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.RawDataDir == "" {
		envConfig.Paths.RawDataDir = fileConfig.Paths.RawDataDir
	}
	if envConfig.Paths.MergedDir == "" {
		envConfig.Paths.MergedDir = fileConfig.Paths.MergedDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Merge.SiteMasterFile == "" {
		envConfig.Merge.SiteMasterFile = fileConfig.Merge.SiteMasterFile
	}
	if envConfig.Merge.VariableMapFile == "" {
		envConfig.Merge.VariableMapFile = fileConfig.Merge.VariableMapFile
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	// Always JSON format, always dual output
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFilePath
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"fluxkit.yaml",
		"configs/fluxkit.yaml",
		"../configs/fluxkit.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: DefaultLogFilePath,
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			RawDataDir: DefaultRawDataDir,
			MergedDir:  DefaultMergedDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
		Merge: MergeConfig{
			SiteMasterFile:  DefaultSiteMasterFile,
			VariableMapFile: DefaultVariableMapFile,
			WriteReports:    true,
		},
	}
}
