package config

import "time"

// Application constants - all hardcoded values for the Raptor Pulse pipeline
const (
	// Application Info
	AppName    = "Raptor Pulse"
	AppVersion = "1.4.0"

	// Raw input file patterns
	CaptureLogPattern      = "*.csv"
	BandingWorkbookPattern = "*.xlsx"
	SurveyLogPattern       = "*.csv"
	StrikeReportPattern    = "*.csv"

	// Well-known clean data files
	CapturesCleanFileName = "captures_clean.csv"
	ActivityCleanFileName = "activity_clean.csv"
	StrikesCleanFileName  = "strikes_clean.csv"

	// Well-known report files
	SummaryJSONFileName     = "summary.json"
	SummaryWorkbookFileName = "migration_summary.xlsx"

	// Operation Timeouts
	ProcessorTimeout        = 30 * time.Minute
	ReportGenerationTimeout = 15 * time.Minute
	ChartSnapshotTimeout    = 2 * time.Minute

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// File Paths (relative to executable)
	DefaultDataDir = "data"
	DefaultLogsDir = "logs"

	// Chart defaults
	DefaultChartWidth      = "900px"
	DefaultChartHeight     = "500px"
	DefaultSnapshotWorkers = 2
)
