package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fluxkit/internal/config"
	"fluxkit/internal/exporter"
	"fluxkit/internal/infrastructure"
	"fluxkit/internal/merge"
	"fluxkit/internal/metadata"
	"fluxkit/internal/reader"
	"fluxkit/internal/source"
	"fluxkit/internal/timeseries"
)

func main() {
	masterPath := flag.String("master", "", "master file to merge candidates into (required)")
	candidateList := flag.String("candidates", "", "comma-separated candidate files (default: auto-discover siblings of the master)")
	kindName := flag.String("kind", "toa5", "file format: toa5 or eddypro")
	outPath := flag.String("out", "", "output TOA5 file (defaults to data/merged/<master name>)")
	site := flag.String("site", "", "site name to apply site-master checks and variable renames")
	siteMasterPath := flag.String("sitemaster", "", "site master workbook (default: site_master.xlsx beside the executable)")
	varmapPath := flag.String("varmap", "", "variable map file (default: variable_map.yaml beside the executable)")
	reportPath := flag.String("report", "", "merge report path (default: sibling .txt of the output)")
	noReport := flag.Bool("no-report", false, "skip writing the merge report")
	flag.Parse()

	if *masterPath == "" {
		fmt.Fprintln(os.Stderr, "usage: merger -master <file> [-candidates a,b,c] [-kind toa5|eddypro] [-out file] [-site name]")
		os.Exit(2)
	}

	// Initialize paths first to get default directories
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("merger.log")
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

	logger.Info("Starting merge run",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("master", *masterPath),
		slog.String("kind", kind.String()),
		slog.String("site", *site))

	master, err := reader.Read(*masterPath, kind)
	if err != nil {
		logger.Error("Failed to read master file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	candidatePaths, err := resolveCandidates(*masterPath, *candidateList)
	if err != nil {
		logger.Error("Failed to resolve candidate files", slog.String("error", err.Error()))
		os.Exit(1)
	}

	candidates := make([]*source.DataSource, 0, len(candidatePaths))
	for _, path := range candidatePaths {
		candidate, err := reader.Read(path, kind)
		if err != nil {
			logger.Error("Failed to read candidate file",
				slog.String("candidate", path),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		candidates = append(candidates, candidate)
	}

	var selector *timeseries.ColumnSelector
	if *site != "" {
		selector = loadSiteMetadata(logger, metadataPaths{
			siteMaster:  firstNonEmpty(*siteMasterPath, absOrEmpty(cfg.Merge.SiteMasterFile), paths.SiteMasterFile),
			variableMap: firstNonEmpty(*varmapPath, absOrEmpty(cfg.Merge.VariableMapFile), paths.VariableMapFile),
		}, *site, master)
	}

	concatenator, err := merge.NewConcatenator(master, candidates, merge.DefaultUnitAliases(), logger)
	if err != nil {
		logger.Error("Merge construction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Everything from here on is part of one identified run.
	ctx := infrastructure.WithRunID(context.Background(), concatenator.RunID())
	runLogger := infrastructure.LoggerFromContext(ctx)

	// Concatenation never de-duplicates; a conditioning pass over the
	// combined result does.
	combined := source.New(*masterPath, kind, declaredInterval(master), concatenator.Header(), concatenator.Data(), nil)
	handler := source.NewHandler(combined, runLogger)
	data, err := handler.ConditionedData(source.ConditionOptions{Selector: selector, AlignToGrid: hasInterval(master)})
	if err != nil {
		runLogger.Error("Conditioning of merged data failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	header, err := handler.ConditionedHeader(selector, false)
	if err != nil {
		runLogger.Error("Conditioning of merged header failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	out := *outPath
	if out == "" {
		out = paths.GetMergedPath(filepath.Base(*masterPath))
	}
	writer := exporter.NewTOA5Writer(runLogger)
	env := exporter.TOA5Environment{Station: *site, TableName: strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))}
	if err := writer.Write(out, env, header, data, kind.MissingMarker()); err != nil {
		runLogger.Error("Failed to write merged output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if !*noReport && (cfg.Merge.WriteReports || *reportPath != "") {
		report := *reportPath
		if report == "" {
			report = exporter.SiblingReportPath(out)
		}
		if err := exporter.NewReportWriter(runLogger).Write(report, concatenator.Report()); err != nil {
			runLogger.Error("Failed to write merge report", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Rejected candidates are not an error; the report records why.
	runLogger.Info("Merge run complete",
		slog.String("output", out),
		slog.Int("candidates", len(candidates)),
		slog.Int("accepted", len(concatenator.Accepted())),
		slog.Int("rows_written", data.Len()))
}

// resolveCandidates returns the explicit candidate list, or discovers
// the master's series siblings when none is given.
func resolveCandidates(masterPath, list string) ([]string, error) {
	if list != "" {
		var out []string
		for _, path := range strings.Split(list, ",") {
			if trimmed := strings.TrimSpace(path); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out, nil
	}
	return reader.EligibleBackups(masterPath)
}

type metadataPaths struct {
	siteMaster  string
	variableMap string
}

// loadSiteMetadata loads the site master and variable map for the named
// site. Metadata problems are warnings, not fatal: the merge itself does
// not depend on them.
func loadSiteMetadata(logger *slog.Logger, paths metadataPaths, site string, master *source.DataSource) *timeseries.ColumnSelector {
	if sites, err := metadata.LoadSiteMaster(paths.siteMaster); err != nil {
		logger.Warn("Site master unavailable", slog.String("error", err.Error()))
	} else if entry, ok := metadata.SiteByName(sites, site); !ok {
		logger.Warn("Site not present in site master", slog.String("site", site))
	} else if interval, hasIt := master.Interval(); hasIt {
		expected := time.Duration(entry.TimeStep) * time.Minute
		if interval != expected {
			logger.Warn("Master interval differs from site master time step",
				slog.Duration("declared", interval),
				slog.Duration("expected", expected))
		}
	}

	vm, err := metadata.LoadVariableMap(paths.variableMap)
	if err != nil {
		logger.Warn("Variable map unavailable", slog.String("error", err.Error()))
		return nil
	}
	return vm.SelectorFor(site)
}

// firstNonEmpty returns the first non-empty candidate.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// absOrEmpty keeps only absolute config paths; relative defaults fall
// through to the executable-anchored location.
func absOrEmpty(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return ""
}

func declaredInterval(src *source.DataSource) time.Duration {
	interval, _ := src.Interval()
	return interval
}

func hasInterval(src *source.DataSource) bool {
	_, ok := src.Interval()
	return ok
}
