// Command chartgen renders the summary charts from a previously generated
// summary.json: self-contained HTML pages, plus PNG snapshots when -png is
// set (requires a local Chrome or Chromium).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"raptorcli/internal/charts"
	"raptorcli/internal/config"
	"raptorcli/internal/infrastructure"
	"raptorcli/pkg/contracts/domain"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults to config.yaml or configs/config.yaml)")
	dataDir := flag.String("data", "", "base directory for the data tree (defaults to the executable directory)")
	inDir := flag.String("in", "", "override the reports directory holding summary.json")
	outDir := flag.String("out", "", "override the charts output directory")
	png := flag.Bool("png", false, "also rasterize each chart to PNG via headless Chrome")
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	flag.Parse()

	paths, err := resolvePaths(*dataDir)
	if err != nil {
		slog.Error("Failed to initialize paths", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *inDir != "" {
		paths.OverrideReportsDir(*inDir)
	}
	if *outDir != "" {
		paths.OverrideChartsDir(*outDir)
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
		cfg.Logging.FilePath = paths.GetLogPath("chartgen.log")
	}

	if err := os.MkdirAll(paths.ChartsDir, 0755); err != nil {
		slog.Error("Failed to create charts directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()
	logger = infrastructure.WithComponent(logger, "chartgen")

	runID := infrastructure.GenerateTraceID()
	ctx := infrastructure.WithTraceID(context.Background(), runID)

	fmt.Printf("Migration chart generator v%s\n", config.AppVersion)
	fmt.Printf("Summary input: %s\n", paths.SummaryJSON)
	fmt.Printf("Chart output:  %s\n", paths.ChartsDir)

	summary, err := loadSummary(paths.SummaryJSON)
	if err != nil {
		logger.Error("Failed to load summary report",
			slog.String("path", paths.SummaryJSON),
			slog.String("error", err.Error()),
			slog.String("hint", "Run migration-report first to generate summary.json"))
		fmt.Printf("\nFailed to load summary report: %v\nRun migration-report first.\n", err)
		os.Exit(1)
	}

	start := time.Now()
	builder := charts.NewBuilder(cfg.Charts, logger)
	htmlPaths, err := builder.RenderAll(summary, paths)
	if err != nil {
		logger.Error("Chart rendering failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
		fmt.Printf("\nChart rendering failed: %v\n", err)
		os.Exit(1)
	}
	if len(htmlPaths) == 0 {
		logger.Warn("Summary report has no populated tables, nothing to chart",
			slog.String("run_id", runID))
		fmt.Println("\nSummary report has no populated tables, nothing to chart")
		return
	}

	fmt.Println("\nCharts:")
	for _, p := range htmlPaths {
		fmt.Printf("  %s\n", p)
	}

	if *png {
		snapshotter := charts.NewSnapshotter(cfg.Charts, logger)
		pngPaths, err := snapshotter.SnapshotAll(ctx, htmlPaths)
		if err != nil {
			logger.Error("Chart snapshot failed",
				slog.String("run_id", runID),
				slog.String("error", err.Error()),
				slog.String("hint", "PNG export needs a local Chrome or Chromium install"))
			fmt.Printf("\nChart snapshot failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\nSnapshots:")
		for _, p := range pngPaths {
			fmt.Printf("  %s\n", p)
		}
	}

	logger.Info("Chart generation complete",
		slog.String("run_id", runID),
		slog.Int("charts", len(htmlPaths)),
		slog.Bool("png", *png),
		slog.Duration("duration", time.Since(start)))
	fmt.Printf("\nChart generation complete in %s\n", time.Since(start).Round(time.Millisecond))
}

// resolvePaths roots the data tree at the -data flag when given, otherwise
// at the executable directory.
func resolvePaths(dataDir string) (*config.Paths, error) {
	if dataDir != "" {
		return config.NewPaths(dataDir), nil
	}
	return config.GetPaths()
}

// loadSummary reads and decodes a summary.json produced by migration-report.
func loadSummary(path string) (*domain.SummaryReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var summary domain.SummaryReport
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &summary, nil
}
