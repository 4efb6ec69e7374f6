// Command migration-report aggregates the clean tables into the migration
// summary report: one CSV per grouped table, summary.json and the Excel
// workbook, all under the reports directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"raptorcli/internal/config"
	"raptorcli/internal/dataprocessing"
	"raptorcli/internal/infrastructure"
	"raptorcli/internal/report"
	"raptorcli/pkg/contracts/domain"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults to config.yaml or configs/config.yaml)")
	dataDir := flag.String("data", "", "base directory for the data tree (defaults to the executable directory)")
	inDir := flag.String("in", "", "override the clean-data directory")
	outDir := flag.String("out", "", "override the reports directory")
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	flag.Parse()

	paths, err := resolvePaths(*dataDir)
	if err != nil {
		slog.Error("Failed to initialize paths", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *inDir != "" {
		paths.OverrideCleanDir(*inDir)
	}
	if *outDir != "" {
		paths.OverrideReportsDir(*outDir)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if cfg.Logging.FilePath == config.Default().Logging.FilePath {
		cfg.Logging.FilePath = paths.GetLogPath("migration-report.log")
	}

	if err := os.MkdirAll(paths.ReportsDir, 0755); err != nil {
		slog.Error("Failed to create reports directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()
	logger = infrastructure.WithComponent(logger, "migration-report")

	runID := infrastructure.GenerateTraceID()
	ctx, cancel := context.WithTimeout(context.Background(), config.ReportGenerationTimeout)
	defer cancel()
	ctx = infrastructure.WithTraceID(ctx, runID)

	fmt.Printf("Migration summary report v%s\n", config.AppVersion)
	fmt.Printf("Clean input: %s\n", paths.CleanDir)
	fmt.Printf("Reports:     %s\n", paths.ReportsDir)

	if !config.FileExists(paths.CapturesCleanCSV) {
		logger.Error("Clean captures table not found",
			slog.String("path", paths.CapturesCleanCSV),
			slog.String("hint", "Run processor first to generate the clean tables"))
		fmt.Printf("\nClean captures table not found: %s\nRun processor first.\n", paths.CapturesCleanCSV)
		os.Exit(1)
	}

	start := time.Now()
	loader := dataprocessing.NewLoader(logger)

	captures, err := loader.ReadCapturesClean(paths.CapturesCleanCSV)
	if err != nil {
		logger.Error("Failed to read clean captures", slog.String("error", err.Error()))
		fmt.Printf("\nFailed to read clean captures: %v\n", err)
		os.Exit(1)
	}

	activity, err := readOptionalActivity(loader, paths.ActivityCleanCSV, logger)
	if err != nil {
		fmt.Printf("\nFailed to read clean activity: %v\n", err)
		os.Exit(1)
	}
	strikes, err := readOptionalStrikes(loader, paths.StrikesCleanCSV, logger)
	if err != nil {
		fmt.Printf("\nFailed to read clean strikes: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Clean tables loaded",
		slog.String("run_id", runID),
		slog.Int("captures", len(captures)),
		slog.Int("activity", len(activity)),
		slog.Int("strikes", len(strikes)))
	fmt.Printf("\nLoaded %d captures, %d activity records, %d strikes\n",
		len(captures), len(activity), len(strikes))

	input := report.Input{
		Captures:     captures,
		Activity:     activity,
		Strikes:      strikes,
		TraceID:      runID,
		CaptureStats: domain.InputStats{Loaded: len(captures), Reported: len(captures)},
		SurveyStats:  domain.InputStats{Loaded: len(activity), Reported: len(activity)},
		StrikeStats:  domain.InputStats{Loaded: len(strikes), Reported: len(strikes)},
	}

	gen := report.NewGenerator(paths, logger)
	summary, err := gen.Generate(ctx, input)
	if err != nil {
		logger.Error("Report generation failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
		fmt.Printf("\nReport generation failed: %v\n", err)
		os.Exit(1)
	}

	printTableCounts(summary)

	logger.Info("Report generation complete",
		slog.String("run_id", runID),
		slog.String("summary_json", paths.SummaryJSON),
		slog.String("workbook", paths.SummaryWorkbook),
		slog.Duration("duration", time.Since(start)))
	fmt.Printf("\nSummary JSON: %s\n", paths.SummaryJSON)
	fmt.Printf("Workbook:     %s\n", paths.SummaryWorkbook)
	fmt.Printf("Report complete in %s\n", time.Since(start).Round(time.Millisecond))
}

// resolvePaths roots the data tree at the -data flag when given, otherwise
// at the executable directory.
func resolvePaths(dataDir string) (*config.Paths, error) {
	if dataDir != "" {
		return config.NewPaths(dataDir), nil
	}
	return config.GetPaths()
}

// readOptionalActivity reads the clean activity table. A missing file is
// not an error: some stations have no survey program, and the report
// degrades to empty activity tables.
func readOptionalActivity(loader *dataprocessing.Loader, path string, logger *slog.Logger) ([]dataprocessing.ActivityRecord, error) {
	if !config.FileExists(path) {
		logger.Warn("Clean activity table not found, reporting without it",
			slog.String("path", path))
		return nil, nil
	}
	records, err := loader.ReadActivityClean(path)
	if err != nil {
		logger.Error("Failed to read clean activity", slog.String("error", err.Error()))
		return nil, err
	}
	return records, nil
}

// readOptionalStrikes reads the clean strikes table, tolerating a missing
// file the same way as readOptionalActivity.
func readOptionalStrikes(loader *dataprocessing.Loader, path string, logger *slog.Logger) ([]dataprocessing.StrikeRecord, error) {
	if !config.FileExists(path) {
		logger.Warn("Clean strikes table not found, reporting without it",
			slog.String("path", path))
		return nil, nil
	}
	records, err := loader.ReadStrikesClean(path)
	if err != nil {
		logger.Error("Failed to read clean strikes", slog.String("error", err.Error()))
		return nil, err
	}
	return records, nil
}

func printTableCounts(summary *domain.SummaryReport) {
	tables := []struct {
		file string
		rows int
	}{
		{report.CapturesByPeriodCSV, len(summary.CapturesByPeriod)},
		{report.CapturesByPeriodMethodCSV, len(summary.CapturesByPeriodMethod)},
		{report.TimingByPeriodCSV, len(summary.TimingByPeriod)},
		{report.TimingBySpeciesCSV, len(summary.TimingBySpecies)},
		{report.CapturesByPeriodDielCSV, len(summary.CapturesByPeriodDiel)},
		{report.ActivityByPeriodCSV, len(summary.ActivityByPeriod)},
		{report.StrikesByPeriodCSV, len(summary.StrikesByPeriod)},
	}

	fmt.Println("\nTables:")
	for _, tbl := range tables {
		fmt.Printf("  %-32s %5d rows\n", tbl.file, tbl.rows)
	}
}
