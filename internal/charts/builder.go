// Package charts builds the manuscript figures from summary report tables
// and renders them as self-contained HTML pages. Optional PNG rasterization
// of the rendered pages lives in snapshot.go.
package charts

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"raptorcli/internal/config"
	"raptorcli/internal/errors"
	"raptorcli/internal/migration"
	"raptorcli/pkg/contracts/domain"
)

// Chart file names, written under the charts directory. PNG snapshots use
// the same base name with a .png extension.
const (
	CapturesPerPeriodHTML = "captures_per_period.html"
	CaptureTimingHTML     = "capture_timing_by_period.html"
	StrikesPerPeriodHTML  = "strikes_per_period.html"
	DielBreakdownHTML     = "diel_breakdown.html"
)

// dielSeries is the series order of the diel breakdown chart.
var dielSeries = []string{
	migration.DielDawn,
	migration.DielDay,
	migration.DielDusk,
	migration.DielNight,
	domain.DielUnknown,
}

func boolPtr(b bool) *bool { return &b }

// renderable is the part of a go-echarts chart the builder needs to write
// it out.
type renderable interface {
	Render(w io.Writer) error
}

// Builder constructs the summary charts. Chart dimensions and the optional
// assets host come from the charts configuration section.
type Builder struct {
	cfg    config.ChartsConfig
	logger *slog.Logger
}

// NewBuilder creates a chart builder. Zero-value dimensions fall back to the
// defaults.
func NewBuilder(cfg config.ChartsConfig, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Width == "" {
		cfg.Width = config.DefaultChartWidth
	}
	if cfg.Height == "" {
		cfg.Height = config.DefaultChartHeight
	}
	return &Builder{cfg: cfg, logger: logger}
}

// globalOpts assembles the option set shared by every chart.
func (b *Builder) globalOpts(title, xName, yName string) []charts.GlobalOpts {
	init := opts.Initialization{
		Width:     b.cfg.Width,
		Height:    b.cfg.Height,
		PageTitle: title,
	}
	if b.cfg.AssetsHost != "" {
		init.AssetsHost = b.cfg.AssetsHost
	}

	return []charts.GlobalOpts{
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      xName,
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
		charts.WithGridOpts(opts.Grid{
			ContainLabel: boolPtr(true),
			Left:         "3%",
			Right:        "4%",
			Bottom:       "15%",
		}),
	}
}

// CapturesPerPeriod builds the bar chart of capture counts per migration
// period.
func (b *Builder) CapturesPerPeriod(rows []domain.PeriodCaptureSummary) *charts.Bar {
	periods := make([]string, 0, len(rows))
	counts := make([]opts.BarData, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, row.Period)
		counts = append(counts, opts.BarData{Value: row.N})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(b.globalOpts("Raptor Captures per Migration Period", "Migration Period", "Captures")...)
	bar.SetXAxis(periods).AddSeries("Captures", counts)
	return bar
}

// CaptureTiming builds the box plot of fiscal day-of-year distributions per
// migration period. Each box is the five-number summary of its period.
func (b *Builder) CaptureTiming(rows []domain.FiscalTimingSummary) *charts.BoxPlot {
	groups := make([]string, 0, len(rows))
	boxes := make([]opts.BoxPlotData, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, row.Group)
		boxes = append(boxes, opts.BoxPlotData{
			Value: []float64{row.Min, row.Q1, row.Median, row.Q3, row.Max},
		})
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(b.globalOpts("Capture Timing by Migration Period", "Migration Period", "Fiscal Day of Year")...)
	box.SetXAxis(groups).AddSeries("Fiscal DOY", boxes)
	return box
}

// StrikesPerPeriod builds the line chart of strike counts per migration
// period, with a second series for damaging strikes.
func (b *Builder) StrikesPerPeriod(rows []domain.PeriodStrikeSummary) *charts.Line {
	periods := make([]string, 0, len(rows))
	totals := make([]opts.LineData, 0, len(rows))
	damaging := make([]opts.LineData, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, row.Period)
		totals = append(totals, opts.LineData{Value: row.N})
		damaging = append(damaging, opts.LineData{Value: row.NDamaging})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(b.globalOpts("Aircraft Strikes per Migration Period", "Migration Period", "Strikes")...)
	line.SetXAxis(periods).
		AddSeries("Strikes", totals).
		AddSeries("Damaging", damaging)
	return line
}

// DielBreakdown builds the grouped bar chart of capture counts per period
// and diel bucket. Buckets absent from every period are omitted.
func (b *Builder) DielBreakdown(rows []domain.PeriodDielSummary) *charts.Bar {
	counts := make(map[string]map[string]int)
	periods := make([]string, 0)
	for _, row := range rows {
		if _, ok := counts[row.Period]; !ok {
			counts[row.Period] = make(map[string]int)
			periods = append(periods, row.Period)
		}
		counts[row.Period][row.DielPeriod] += row.N
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(b.globalOpts("Captures by Diel Period", "Migration Period", "Captures")...)
	bar.SetXAxis(periods)

	for _, diel := range dielSeries {
		series := make([]opts.BarData, 0, len(periods))
		total := 0
		for _, period := range periods {
			n := counts[period][diel]
			total += n
			series = append(series, opts.BarData{Value: n})
		}
		if total == 0 {
			continue
		}
		bar.AddSeries(diel, series)
	}
	return bar
}

// RenderHTML writes one chart as a standalone HTML page.
func (b *Builder) RenderHTML(chart renderable, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewChartError("failed to create charts directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewChartError(fmt.Sprintf("failed to create chart file %s", filepath.Base(path)), err)
	}
	defer file.Close()

	if err := chart.Render(file); err != nil {
		return errors.NewChartError(fmt.Sprintf("failed to render chart %s", filepath.Base(path)), err)
	}
	return nil
}

// RenderAll builds every chart the report has data for and writes the HTML
// files under the charts directory. Charts whose source table is empty are
// skipped. Returns the paths written, in a fixed order, for optional
// snapshotting.
func (b *Builder) RenderAll(report *domain.SummaryReport, paths *config.Paths) ([]string, error) {
	written := make([]string, 0, 4)

	if len(report.CapturesByPeriod) > 0 {
		path := paths.GetChartPath(CapturesPerPeriodHTML)
		if err := b.RenderHTML(b.CapturesPerPeriod(report.CapturesByPeriod), path); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if len(report.TimingByPeriod) > 0 {
		path := paths.GetChartPath(CaptureTimingHTML)
		if err := b.RenderHTML(b.CaptureTiming(report.TimingByPeriod), path); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if len(report.StrikesByPeriod) > 0 {
		path := paths.GetChartPath(StrikesPerPeriodHTML)
		if err := b.RenderHTML(b.StrikesPerPeriod(report.StrikesByPeriod), path); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if len(report.CapturesByPeriodDiel) > 0 {
		path := paths.GetChartPath(DielBreakdownHTML)
		if err := b.RenderHTML(b.DielBreakdown(report.CapturesByPeriodDiel), path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	b.logger.Info("Summary charts rendered",
		slog.Int("charts", len(written)),
		slog.String("dir", paths.ChartsDir))
	return written, nil
}
