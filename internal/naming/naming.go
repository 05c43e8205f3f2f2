// Package naming parses the file naming conventions used by logger and
// flux-processor output, so sibling files of the same logical series can
// be discovered without opening them.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"fluxkit/internal/errors"
	"fluxkit/internal/source"
)

// FileName holds the fields parsed out of a measurement file's name.
type FileName struct {
	Kind         source.FormatKind
	Site         string
	Table        string
	Datestamp    time.Time
	HasDatestamp bool
	Sequence     int
	HasSequence  bool
}

// TOA5 logger tables: TOA5_<site>_<table>[_<YYYYMMDD>][_<n>].dat
var toa5Pattern = regexp.MustCompile(`^TOA5_([A-Za-z0-9]+)_(.+?)(?:_(\d{8}))?(?:_(\d+))?\.dat$`)

// EddyPro exports: eddypro_<site>_full_output_<anything>.csv
var fluxPattern = regexp.MustCompile(`^eddypro_([A-Za-z0-9]+)_full_output_(.+)\.csv$`)

// Parse extracts the naming-convention fields from a file name or path.
// Unrecognized names fail with a parsing error.
func Parse(name string) (FileName, error) {
	base := filepath.Base(name)

	if m := toa5Pattern.FindStringSubmatch(base); m != nil {
		fn := FileName{Kind: source.RawLogger, Site: m[1], Table: m[2]}
		if m[3] != "" {
			stamp, err := time.Parse("20060102", m[3])
			if err != nil {
				return FileName{}, errors.NewParsingError(
					fmt.Sprintf("bad datestamp in file name %q", base), err)
			}
			fn.Datestamp = stamp
			fn.HasDatestamp = true
		}
		if m[4] != "" {
			seq, err := strconv.Atoi(m[4])
			if err != nil {
				return FileName{}, errors.NewParsingError(
					fmt.Sprintf("bad sequence in file name %q", base), err)
			}
			fn.Sequence = seq
			fn.HasSequence = true
		}
		return fn, nil
	}

	if m := fluxPattern.FindStringSubmatch(base); m != nil {
		return FileName{Kind: source.FluxProcessor, Site: m[1], Table: "full_output"}, nil
	}

	return FileName{}, errors.NewParsingError(
		fmt.Sprintf("file name %q does not match a known naming convention", base), nil)
}

// SameSeries reports whether two parsed names belong to the same logical
// series: same format kind, site, and table.
func SameSeries(a, b FileName) bool {
	return a.Kind == b.Kind && a.Site == b.Site && a.Table == b.Table
}
