// Package timeseries provides the in-memory table model shared by the
// conditioning and merge subsystems: a time-indexed table of raw cell
// tokens, an ordered variable header, three-way duplicate classification,
// and gap analytics over a declared sampling interval.
//
// # Architecture
//
// The package is organized into four pieces:
//
// 1. Table/Row: the time-indexed data model, with selection and sorting
// 2. Header: ordered variable metadata (units, sampling statistic)
// 3. Classification: unique / duplicate-record / duplicate-index tagging
// 4. Gap analytics: missing-record stats, gap distribution, regridding
//
// # Data Flow
//
// The typical flow through this package:
//
//	raw Table → Classify → DropDuplicates → SortByTime → gap analytics / Regrid
//
// Cell values are kept as raw file tokens; the package never interprets
// them numerically. Structural non-numeric columns are a per-format name
// set handled by the source package.
package timeseries
