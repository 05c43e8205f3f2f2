// Package exporter materializes conditioned and merged datasets to
// disk: combined tables as TOA5 text files and merge reports as plain
// text. It is the concrete downstream serializer fed by the merge
// layer; NetCDF assembly stays outside this repository.
package exporter
