package exporter

import (
	"log/slog"
	"path/filepath"
	"strings"

	"fluxkit/internal/config"
	"fluxkit/internal/errors"
	"fluxkit/internal/merge"
)

// ReportWriter writes merge reports as sibling .txt files next to the
// merged output.
type ReportWriter struct {
	logger *slog.Logger
}

// NewReportWriter creates a report writer. A nil logger falls back to
// the default.
func NewReportWriter(logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{logger: logger.With(slog.String("component", "report_writer"))}
}

// Write writes the report to path.
func (w *ReportWriter) Write(path string, report merge.Report) error {
	if err := report.Write(path); err != nil {
		return errors.NewStorageError("failed to write merge report", err).
			WithContext("file", path)
	}
	w.logger.Info("wrote merge report",
		slog.String("file", path),
		slog.String("run_id", report.RunID),
		slog.Int("candidates", len(report.Candidates)))
	return nil
}

// SiblingReportPath derives the report path for a merged output file:
// same directory, same base name, .txt extension.
func SiblingReportPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + config.ReportFileExt
}
