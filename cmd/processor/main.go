// Command processor ingests the raw field sources (agency capture logs,
// banding-lab workbooks, activity surveys and strike report extracts),
// harmonizes their labels and writes the period-labeled clean tables that
// the reporting tools consume.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"raptorcli/internal/config"
	"raptorcli/internal/infrastructure"
	"raptorcli/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults to config.yaml or configs/config.yaml)")
	dataDir := flag.String("data", "", "base directory for the data tree (defaults to the executable directory)")
	inDir := flag.String("in", "", "override the raw-input directory")
	outDir := flag.String("out", "", "override the clean-output directory")
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	flag.Parse()

	paths, err := resolvePaths(*dataDir)
	if err != nil {
		slog.Error("Failed to initialize paths", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *inDir != "" {
		paths.OverrideRawDir(*inDir)
	}
	if *outDir != "" {
		paths.OverrideCleanDir(*outDir)
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
		cfg.Logging.FilePath = paths.GetLogPath("processor.log")
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()
	logger = infrastructure.WithComponent(logger, "processor")

	runID := infrastructure.GenerateTraceID()
	ctx, cancel := context.WithTimeout(context.Background(), config.ProcessorTimeout)
	defer cancel()
	ctx = infrastructure.WithTraceID(ctx, runID)

	logger.Info("Starting raw source processing",
		slog.String("run_id", runID),
		slog.String("raw_dir", paths.RawDir),
		slog.String("clean_dir", paths.CleanDir),
		slog.Int("sites", len(cfg.Sites)))

	fmt.Printf("Raptor migration processor v%s\n", config.AppVersion)
	fmt.Printf("Raw sources:  %s\n", paths.RawDir)
	fmt.Printf("Clean output: %s\n", paths.CleanDir)

	sites := pipeline.SitesFromConfig(cfg.Sites, logger)
	if len(sites) == 0 {
		fmt.Println("No sites configured; capture times will not get a diel classification")
	}

	runner := pipeline.NewRunner(logger)
	state, runErr := runner.Run(ctx, runID, pipeline.ProcessorSteps(paths, sites, logger))

	printStepSummary(os.Stdout, state)
	printSourceCounts(os.Stdout, state)

	if runErr != nil {
		logger.Error("Processing failed",
			slog.String("run_id", runID),
			slog.String("error", runErr.Error()))
		fmt.Printf("\nProcessing failed: %v\n", runErr)
		os.Exit(1)
	}

	logger.Info("Processing complete",
		slog.String("run_id", runID),
		slog.Duration("duration", state.Duration()))
	fmt.Printf("\nProcessing complete in %s\n", state.Duration().Round(time.Millisecond))
}

// resolvePaths roots the data tree at the -data flag when given, otherwise
// at the executable directory.
func resolvePaths(dataDir string) (*config.Paths, error) {
	if dataDir != "" {
		return config.NewPaths(dataDir), nil
	}
	return config.GetPaths()
}

func printStepSummary(w io.Writer, state *pipeline.State) {
	if state == nil {
		return
	}
	fmt.Fprintln(w, "\nSteps:")
	for _, ss := range state.Steps() {
		line := fmt.Sprintf("  %-20s %-10s", ss.Name, ss.Status)
		if d := ss.Duration(); d > 0 {
			line += fmt.Sprintf("  %s", d.Round(time.Millisecond))
		}
		if ss.Message != "" {
			line += "  " + ss.Message
		}
		fmt.Fprintln(w, line)
	}
}

func printSourceCounts(w io.Writer, state *pipeline.State) {
	if state == nil {
		return
	}
	sources := []struct {
		label string
		key   string
	}{
		{"Captures", pipeline.ContextKeyCaptureCounts},
		{"Activity", pipeline.ContextKeyActivityCounts},
		{"Strikes", pipeline.ContextKeyStrikeCounts},
	}
	fmt.Fprintln(w, "\nRecords:")
	for _, src := range sources {
		counts := pipeline.SourceCountsFrom(state, src.key)
		fmt.Fprintf(w, "  %-10s loaded %5d   excluded %4d   written %5d\n",
			src.label, counts.Loaded, counts.Excluded, counts.Written)
	}
}
