// Package source models one logical measurement file (a DataSource: path,
// format kind, declared sampling interval, header, data) and its
// conditioned views. The Handler turns a raw DataSource into output that
// is safe for downstream consumption: duplicates classified and dropped,
// columns selected or renamed, the index optionally aligned to a uniform
// grid, and format-specific structural columns removed.
//
// A DataSource's declared interval is authoritative for gap and resample
// logic; it is seeded by the reader once and never re-inferred here.
package source
