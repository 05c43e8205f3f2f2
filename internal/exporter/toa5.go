package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fluxkit/internal/errors"
	"fluxkit/internal/timeseries"
)

const toa5TimeLayout = "2006-01-02 15:04:05"

// TOA5Environment carries the fields of a TOA5 file's first header line.
type TOA5Environment struct {
	Station     string
	LoggerModel string
	SerialNo    string
	OSVersion   string
	ProgramName string
	ProgramSig  string
	TableName   string
}

// TOA5Writer writes tables in the four-line TOA5 layout: environment,
// variable names, units, sampling statistics, then data rows keyed by a
// leading TIMESTAMP column.
type TOA5Writer struct {
	logger *slog.Logger
}

// NewTOA5Writer creates a TOA5 writer. A nil logger falls back to the
// default.
func NewTOA5Writer(logger *slog.Logger) *TOA5Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TOA5Writer{logger: logger.With(slog.String("component", "toa5_writer"))}
}

// Write materializes header and table at path, creating parent
// directories as needed. Empty cells are written as the missing marker.
func (w *TOA5Writer) Write(path string, env TOA5Environment, header timeseries.Header, table timeseries.Table, missingMarker string) error {
	if len(header.Names) != len(table.Columns) {
		return errors.NewPreconditionError(
			fmt.Sprintf("header declares %d variables but table has %d columns", len(header.Names), len(table.Columns)), nil).
			WithContext("file", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("file", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create output file", err).
			WithContext("file", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	envLine := []string{"TOA5", env.Station, env.LoggerModel, env.SerialNo,
		env.OSVersion, env.ProgramName, env.ProgramSig, env.TableName}
	names := append([]string{"TIMESTAMP"}, header.Names...)
	units := []string{"TS"}
	statistics := []string{""}
	for _, name := range header.Names {
		units = append(units, header.Units(name))
		statistics = append(statistics, header.Info[name].Statistic)
	}
	for _, line := range [][]string{envLine, names, units, statistics} {
		if err := writer.Write(line); err != nil {
			return errors.NewStorageError("failed to write TOA5 header", err).
				WithContext("file", path)
		}
	}

	for i, row := range table.Rows {
		record := make([]string, 0, len(row.Values)+1)
		record = append(record, row.Time.Format(toa5TimeLayout))
		for _, value := range row.Values {
			if value == "" {
				value = missingMarker
			}
			record = append(record, value)
		}
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err).
				WithContext("file", path)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush output file", err).
			WithContext("file", path)
	}

	w.logger.Info("wrote TOA5 file",
		slog.String("file", path),
		slog.Int("rows_written", table.Len()),
		slog.Int("variables", len(header.Names)))
	return nil
}
