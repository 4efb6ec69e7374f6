package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"raptorcli/internal/config"
	"raptorcli/internal/dataprocessing"
	"raptorcli/internal/errors"
	"raptorcli/internal/exporter"
	"raptorcli/pkg/contracts/domain"
)

// Generator builds the migration summary report and persists every output
// format: the per-table CSVs, summary.json and the workbook.
type Generator struct {
	paths      *config.Paths
	csvWriter  *exporter.CSVWriter
	summarizer *Summarizer
	logger     *slog.Logger
}

// NewGenerator creates a report generator rooted at the given paths.
func NewGenerator(paths *config.Paths, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		paths:      paths,
		csvWriter:  exporter.NewCSVWriter(paths),
		summarizer: NewSummarizer(logger),
		logger:     logger,
	}
}

// Input bundles the prepared records and run provenance for one report run.
type Input struct {
	Captures []dataprocessing.CaptureRecord
	Activity []dataprocessing.ActivityRecord
	Strikes  []dataprocessing.StrikeRecord

	TraceID      string
	CaptureStats domain.InputStats
	SurveyStats  domain.InputStats
	StrikeStats  domain.InputStats
}

// Generate aggregates the input into a summary report, validates it and
// writes every output format. The validated report is returned so callers
// can feed it onward, e.g. into chart generation.
func (g *Generator) Generate(ctx context.Context, input Input) (*domain.SummaryReport, error) {
	report, err := g.summarizer.Summarize(ctx, input.Captures, input.Activity, input.Strikes)
	if err != nil {
		return nil, err
	}

	report.Metadata = domain.ReportMetadata{
		GeneratedAt: time.Now().UTC(),
		Version:     config.AppVersion,
		TraceID:     input.TraceID,
		Captures:    input.CaptureStats,
		Surveys:     input.SurveyStats,
		Strikes:     input.StrikeStats,
	}

	if err := domain.ValidateSummaryReport(report); err != nil {
		return nil, fmt.Errorf("summary report validation failed: %w", err)
	}

	tables := renderTables(report)
	for _, table := range tables {
		if err := g.csvWriter.WriteSimpleCSV(table.fileName, table.header, table.rows); err != nil {
			return nil, fmt.Errorf("write %s: %w", table.fileName, err)
		}
	}

	if err := g.writeJSON(ctx, report); err != nil {
		return nil, err
	}
	if err := g.writeWorkbook(ctx, tables); err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "migration summary report written",
		slog.String("reports_dir", g.paths.ReportsDir),
		slog.Int("tables", len(tables)),
		slog.String("trace_id", input.TraceID))

	return report, nil
}

// writeJSON persists the full report, metadata included, as indented JSON.
func (g *Generator) writeJSON(ctx context.Context, report *domain.SummaryReport) error {
	path := g.paths.GetReportPath(config.SummaryJSONFileName)
	g.logger.InfoContext(ctx, "writing summary JSON",
		slog.String("path", path))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for summary JSON", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create summary JSON file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return errors.NewStorageError("failed to encode summary report to JSON", err)
	}

	return nil
}
