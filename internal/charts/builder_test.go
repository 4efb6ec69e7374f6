package charts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raptorcli/internal/config"
	"raptorcli/internal/migration"
	"raptorcli/pkg/contracts/domain"
)

func testBuilder() *Builder {
	return NewBuilder(config.ChartsConfig{}, nil)
}

// renderToString renders a chart to a temp file and returns the HTML.
func renderToString(t *testing.T, b *Builder, chart renderable) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.html")
	require.NoError(t, b.RenderHTML(chart, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCapturesPerPeriod(t *testing.T) {
	rows := []domain.PeriodCaptureSummary{
		{Period: "2016-2017", N: 12},
		{Period: "2020-2021", N: 30},
	}

	html := renderToString(t, testBuilder(), testBuilder().CapturesPerPeriod(rows))

	assert.Contains(t, html, "2016-2017")
	assert.Contains(t, html, "2020-2021")
	assert.Contains(t, html, "Captures")
	assert.Contains(t, html, "Raptor Captures per Migration Period")
}

func TestCaptureTiming(t *testing.T) {
	rows := []domain.FiscalTimingSummary{
		{Group: "2020-2021", N: 5, Min: 10, Q1: 25, Median: 40, Q3: 55, Max: 90},
	}

	html := renderToString(t, testBuilder(), testBuilder().CaptureTiming(rows))

	assert.Contains(t, html, "2020-2021")
	assert.Contains(t, html, "Fiscal Day of Year")
	// Five-number summary travels as the box plot values.
	assert.Contains(t, html, "[10,25,40,55,90]")
}

func TestStrikesPerPeriod(t *testing.T) {
	rows := []domain.PeriodStrikeSummary{
		{Period: "2019-2020", N: 4, NDamaging: 1},
		{Period: "2020-2021", N: 7, NDamaging: 0},
	}

	html := renderToString(t, testBuilder(), testBuilder().StrikesPerPeriod(rows))

	assert.Contains(t, html, "2019-2020")
	assert.Contains(t, html, "Strikes")
	assert.Contains(t, html, "Damaging")
}

func TestDielBreakdown(t *testing.T) {
	rows := []domain.PeriodDielSummary{
		{Period: "2020-2021", DielPeriod: migration.DielDay, N: 6},
		{Period: "2020-2021", DielPeriod: domain.DielUnknown, N: 2},
		{Period: "2021-2022", DielPeriod: migration.DielDay, N: 3},
	}

	html := renderToString(t, testBuilder(), testBuilder().DielBreakdown(rows))

	assert.Contains(t, html, migration.DielDay)
	assert.Contains(t, html, domain.DielUnknown)
	// Buckets with no captures anywhere are left out entirely.
	assert.NotContains(t, html, migration.DielDusk)
}

func TestRenderAll(t *testing.T) {
	report := &domain.SummaryReport{
		CapturesByPeriod: []domain.PeriodCaptureSummary{
			{Period: "2020-2021", N: 10, Proportion: 1},
		},
		TimingByPeriod: []domain.FiscalTimingSummary{
			{Group: "2020-2021", N: 10, Min: 5, Q1: 20, Median: 35, Q3: 50, Max: 80},
		},
		CapturesByPeriodDiel: []domain.PeriodDielSummary{
			{Period: "2020-2021", DielPeriod: migration.DielDawn, N: 10},
		},
		StrikesByPeriod: []domain.PeriodStrikeSummary{
			{Period: "2020-2021", N: 3, Proportion: 1},
		},
	}
	paths := config.NewPaths(t.TempDir())

	written, err := testBuilder().RenderAll(report, paths)
	require.NoError(t, err)

	want := []string{
		paths.GetChartPath(CapturesPerPeriodHTML),
		paths.GetChartPath(CaptureTimingHTML),
		paths.GetChartPath(StrikesPerPeriodHTML),
		paths.GetChartPath(DielBreakdownHTML),
	}
	assert.Equal(t, want, written)
	for _, path := range written {
		assert.FileExists(t, path)
	}
}

func TestRenderAll_SkipsEmptyTables(t *testing.T) {
	report := &domain.SummaryReport{
		CapturesByPeriod: []domain.PeriodCaptureSummary{
			{Period: "2020-2021", N: 10, Proportion: 1},
		},
	}
	paths := config.NewPaths(t.TempDir())

	written, err := testBuilder().RenderAll(report, paths)
	require.NoError(t, err)

	assert.Equal(t, []string{paths.GetChartPath(CapturesPerPeriodHTML)}, written)
	assert.NoFileExists(t, paths.GetChartPath(StrikesPerPeriodHTML))
}

func TestRenderAll_EmptyReport(t *testing.T) {
	paths := config.NewPaths(t.TempDir())

	written, err := testBuilder().RenderAll(&domain.SummaryReport{}, paths)
	require.NoError(t, err)
	assert.Empty(t, written)
}

func TestPNGPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "captures_per_period.png"),
		PNGPath(filepath.Join("out", "captures_per_period.html")))
}

func TestNewBuilder_Defaults(t *testing.T) {
	b := NewBuilder(config.ChartsConfig{}, nil)
	assert.Equal(t, config.DefaultChartWidth, b.cfg.Width)
	assert.Equal(t, config.DefaultChartHeight, b.cfg.Height)

	b = NewBuilder(config.ChartsConfig{Width: "1200px", Height: "600px"}, nil)
	assert.Equal(t, "1200px", b.cfg.Width)
}

func TestNewSnapshotter_Defaults(t *testing.T) {
	s := NewSnapshotter(config.ChartsConfig{}, nil)
	assert.Equal(t, config.ChartSnapshotTimeout, s.timeout)
	assert.Equal(t, config.DefaultSnapshotWorkers, s.workers)
}
