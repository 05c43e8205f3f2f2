// Package config provides centralized configuration management for the
// fluxkit tools. It handles loading configuration from multiple sources,
// validation, and the single source of truth for file system paths.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (fluxkit.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern FLUXKIT_* for namespacing:
//
//	FLUXKIT_LOGGING_LEVEL=debug
//	FLUXKIT_PATHS_DATA_DIR=/srv/fluxkit/data
//	FLUXKIT_MERGE_WRITE_REPORTS=false
//
// # Paths
//
// All file paths resolve relative to the executable directory, never the
// current working directory, so the CLIs behave identically wherever
// they are launched from. Use GetPaths for the resolved set and
// EnsureDirectories to create the layout.
package config
