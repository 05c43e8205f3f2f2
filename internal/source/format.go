package source

import (
	"fmt"
	"strings"
)

// FormatKind identifies the family a measurement file belongs to. Each
// kind carries its own structural column set and missing-value marker.
type FormatKind int

const (
	// RawLogger is a Campbell-style TOA5 logger table.
	RawLogger FormatKind = iota
	// FluxProcessor is a post-processed flux-software table (EddyPro-style
	// full output).
	FluxProcessor
)

// String returns the name used in flags, logs, and reports.
func (k FormatKind) String() string {
	switch k {
	case FluxProcessor:
		return "fluxprocessor"
	default:
		return "rawlogger"
	}
}

// ParseFormatKind converts a flag or config value into a FormatKind.
func ParseFormatKind(s string) (FormatKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rawlogger", "toa5", "raw":
		return RawLogger, nil
	case "fluxprocessor", "flux", "eddypro":
		return FluxProcessor, nil
	default:
		return RawLogger, fmt.Errorf("unknown format kind %q", s)
	}
}

// NonNumericColumns returns the structural columns of the format: columns
// that carry bookkeeping rather than measurements and are excluded when a
// caller asks for numeric-only output.
func (k FormatKind) NonNumericColumns() []string {
	switch k {
	case FluxProcessor:
		return []string{"filename", "date", "time", "DOY"}
	default:
		return []string{"RECORD"}
	}
}

// MissingMarker returns the token the format uses for a missing value.
func (k FormatKind) MissingMarker() string {
	switch k {
	case FluxProcessor:
		return "-9999"
	default:
		return "NAN"
	}
}
