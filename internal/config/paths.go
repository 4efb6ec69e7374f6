package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	DataDir       string
	RawDir        string
	CapturesDir   string
	BandingDir    string
	SurveysDir    string
	StrikesDir    string
	CleanDir      string
	ReportsDir    string
	ChartsDir     string
	LogsDir       string

	// Well-known clean data files
	CapturesCleanCSV string
	ActivityCleanCSV string
	StrikesCleanCSV  string

	// Well-known report files
	SummaryJSON     string
	SummaryWorkbook string
}

// GetPaths returns the application paths relative to the executable location
// All paths are ALWAYS relative to the executable directory, never the current working directory
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return NewPaths(filepath.Dir(exe)), nil
}

// NewPaths builds the path layout rooted at baseDir. Tools use this with the
// -data flag; tests use it with t.TempDir().
//
// Directory structure:
//
//	base/
//	  ├── data/
//	  │   ├── raw/
//	  │   │   ├── captures/   (agency capture logs, CSV)
//	  │   │   ├── banding/    (banding-lab workbooks, XLSX)
//	  │   │   ├── surveys/    (wildlife activity surveys, CSV)
//	  │   │   └── strikes/    (strike report extracts, CSV)
//	  │   ├── clean/          (harmonized, period-labeled CSVs)
//	  │   ├── reports/        (summary tables)
//	  │   └── charts/         (rendered charts)
//	  └── logs/               (application logs)
func NewPaths(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, DefaultDataDir)
	rawDir := filepath.Join(dataDir, "raw")
	cleanDir := filepath.Join(dataDir, "clean")
	reportsDir := filepath.Join(dataDir, "reports")
	chartsDir := filepath.Join(dataDir, "charts")

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		RawDir:        rawDir,
		CapturesDir:   filepath.Join(rawDir, "captures"),
		BandingDir:    filepath.Join(rawDir, "banding"),
		SurveysDir:    filepath.Join(rawDir, "surveys"),
		StrikesDir:    filepath.Join(rawDir, "strikes"),
		CleanDir:      cleanDir,
		ReportsDir:    reportsDir,
		ChartsDir:     chartsDir,
		LogsDir:       filepath.Join(baseDir, DefaultLogsDir),

		CapturesCleanCSV: filepath.Join(cleanDir, CapturesCleanFileName),
		ActivityCleanCSV: filepath.Join(cleanDir, ActivityCleanFileName),
		StrikesCleanCSV:  filepath.Join(cleanDir, StrikesCleanFileName),

		SummaryJSON:     filepath.Join(reportsDir, SummaryJSONFileName),
		SummaryWorkbook: filepath.Join(reportsDir, SummaryWorkbookFileName),
	}
}

// OverrideRawDir points the raw-input tree at a different root, keeping the
// per-source subdirectory layout. Used by the processor's -in flag.
func (p *Paths) OverrideRawDir(dir string) {
	p.RawDir = dir
	p.CapturesDir = filepath.Join(dir, "captures")
	p.BandingDir = filepath.Join(dir, "banding")
	p.SurveysDir = filepath.Join(dir, "surveys")
	p.StrikesDir = filepath.Join(dir, "strikes")
}

// OverrideCleanDir points the clean-data tree at a different directory.
func (p *Paths) OverrideCleanDir(dir string) {
	p.CleanDir = dir
	p.CapturesCleanCSV = filepath.Join(dir, CapturesCleanFileName)
	p.ActivityCleanCSV = filepath.Join(dir, ActivityCleanFileName)
	p.StrikesCleanCSV = filepath.Join(dir, StrikesCleanFileName)
}

// OverrideReportsDir points the summary-table tree at a different directory.
func (p *Paths) OverrideReportsDir(dir string) {
	p.ReportsDir = dir
	p.SummaryJSON = filepath.Join(dir, SummaryJSONFileName)
	p.SummaryWorkbook = filepath.Join(dir, SummaryWorkbookFileName)
}

// OverrideChartsDir points chart output at a different directory.
func (p *Paths) OverrideChartsDir(dir string) {
	p.ChartsDir = dir
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.CapturesDir,
		p.BandingDir,
		p.SurveysDir,
		p.StrikesDir,
		p.CleanDir,
		p.ReportsDir,
		p.ChartsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetCapturePath returns the path for a raw agency capture log
func (p *Paths) GetCapturePath(filename string) string {
	return filepath.Join(p.CapturesDir, filename)
}

// GetBandingPath returns the path for a banding-lab workbook
func (p *Paths) GetBandingPath(filename string) string {
	return filepath.Join(p.BandingDir, filename)
}

// GetSurveyPath returns the path for a raw activity survey log
func (p *Paths) GetSurveyPath(filename string) string {
	return filepath.Join(p.SurveysDir, filename)
}

// GetStrikePath returns the path for a raw strike report extract
func (p *Paths) GetStrikePath(filename string) string {
	return filepath.Join(p.StrikesDir, filename)
}

// GetCleanPath returns the path for a harmonized clean data file
func (p *Paths) GetCleanPath(filename string) string {
	return filepath.Join(p.CleanDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetChartPath returns the path for a rendered chart file
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("captures", p.CapturesDir),
			slog.String("banding", p.BandingDir),
			slog.String("surveys", p.SurveysDir),
			slog.String("strikes", p.StrikesDir),
			slog.String("clean", p.CleanDir),
			slog.String("reports", p.ReportsDir),
			slog.String("charts", p.ChartsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("clean_files",
			slog.String("captures", p.CapturesCleanCSV),
			slog.String("activity", p.ActivityCleanCSV),
			slog.String("strikes", p.StrikesCleanCSV),
		),
		slog.Group("report_files",
			slog.String("summary_json", p.SummaryJSON),
			slog.String("summary_workbook", p.SummaryWorkbook),
		))
}
