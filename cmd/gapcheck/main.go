package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fluxkit/internal/config"
	apperrors "fluxkit/internal/errors"
	"fluxkit/internal/exporter"
	"fluxkit/internal/infrastructure"
	"fluxkit/internal/reader"
	"fluxkit/internal/source"
)

const timeLayout = "2006-01-02 15:04:05"

func main() {
	filePath := flag.String("file", "", "measurement file to analyze (required)")
	kindName := flag.String("kind", "toa5", "file format: toa5 or eddypro")
	resample := flag.Duration("resample", 0, "resample onto a uniform grid at this interval (e.g. 30m)")
	strict := flag.Bool("strict", false, "fail when rows share a timestamp but disagree in value")
	dropNonNumeric := flag.Bool("drop-non-numeric", false, "drop the format's structural columns from the output")
	outPath := flag.String("out", "", "write the conditioned table as TOA5 to this path")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: gapcheck -file <file> [-kind toa5|eddypro] [-resample 30m] [-strict] [-drop-non-numeric] [-out file]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	kind, err := source.ParseFormatKind(*kindName)
	if err != nil {
		logger.Error("Unknown format kind", slog.String("kind", *kindName))
		os.Exit(2)
	}

	src, err := reader.Read(*filePath, kind)
	if err != nil {
		logger.Error("Failed to read file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handler := source.NewHandler(src, logger)
	printSummary(src, handler)

	if *outPath == "" && !*strict {
		return
	}

	opts := source.ConditionOptions{
		DropNonNumeric:   *dropNonNumeric,
		ResampleInterval: *resample,
		StrictDuplicates: *strict,
	}
	data, err := handler.ConditionedData(opts)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeAmbiguity) {
			logger.Error("Conflicting duplicate timestamps found", slog.String("error", err.Error()))
			os.Exit(3)
		}
		logger.Error("Conditioning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *outPath != "" {
		header, err := handler.ConditionedHeader(nil, *dropNonNumeric)
		if err != nil {
			logger.Error("Conditioning failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		env := exporter.TOA5Environment{
			TableName: strings.TrimSuffix(filepath.Base(*outPath), filepath.Ext(*outPath)),
		}
		if err := exporter.NewTOA5Writer(logger).Write(*outPath, env, header, data, kind.MissingMarker()); err != nil {
			logger.Error("Failed to write conditioned output", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Wrote conditioned table",
			slog.String("output", *outPath),
			slog.Int("rows", data.Len()))
	}
}

// printSummary prints the duplicate and gap statistics for one file.
// Sources without a declared interval get the duplicate section only.
func printSummary(src *source.DataSource, handler *source.Handler) {
	fmt.Printf("file: %s\n", src.Path())
	table := src.Table()
	fmt.Printf("rows: %d\n", table.Len())

	if interval, ok := src.Interval(); ok {
		fmt.Printf("interval: %s\n", interval)
	} else {
		fmt.Println("interval: none declared")
	}

	records := countTrue(handler.DuplicateRecords())
	indices := countTrue(handler.DuplicateIndices())
	fmt.Printf("duplicate records: %d\n", records)
	fmt.Printf("conflicting duplicate timestamps: %d\n", indices)
	for _, ts := range handler.DuplicateIndexTimes() {
		fmt.Printf("  conflict at %s\n", ts.Format(timeLayout))
	}

	stats, err := handler.MissingStats()
	if err != nil {
		fmt.Println("gap analysis: skipped (no declared interval)")
		return
	}
	fmt.Printf("missing records: %d (%.2f%%)\n", stats.Count, stats.Percent)

	dist, err := handler.GapDistribution()
	if err != nil || len(dist) == 0 {
		return
	}
	sizes := make([]int, 0, len(dist))
	for size := range dist {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	fmt.Println("gap distribution:")
	for _, size := range sizes {
		fmt.Printf("  %d missed x %d\n", size, dist[size])
	}

	gaps, err := handler.GapBounds()
	if err != nil {
		return
	}
	fmt.Println("gaps:")
	for _, gap := range gaps {
		fmt.Printf("  %d missed between %s and %s\n",
			gap.Missed, gap.Before.Format(timeLayout), gap.After.Format(timeLayout))
	}
}

func countTrue(mask []bool) int {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n
}
