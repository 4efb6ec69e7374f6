package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"raptorcli/internal/config"
	"raptorcli/internal/dataprocessing"
	"raptorcli/internal/exporter"
	"raptorcli/internal/harmonize"
	"raptorcli/internal/migration"
	"raptorcli/internal/validation"
)

// Processor step identifiers.
const (
	StepIDLoad      = "load"
	StepIDHarmonize = "harmonize"
	StepIDAssign    = "assign"
	StepIDWrite     = "write"
)

// Processor step names.
const (
	StepNameLoad      = "Source Ingestion"
	StepNameHarmonize = "Label Harmonization"
	StepNameAssign    = "Period Assignment"
	StepNameWrite     = "Clean Output"
)

// Context keys for the processor run state.
const (
	ContextKeyCaptures       = "captures"
	ContextKeyActivity       = "activity"
	ContextKeyStrikes        = "strikes"
	ContextKeyCaptureCounts  = "capture_counts"
	ContextKeyActivityCounts = "activity_counts"
	ContextKeyStrikeCounts   = "strike_counts"
	ContextKeyCorrections    = "corrections"
)

// SourceCounts tracks one source's record counts across a run.
type SourceCounts struct {
	Loaded   int
	Excluded int
	Written  int
}

// SourceCountsFrom reads a source's counts from the run state. Unknown keys
// return zero counts.
func SourceCountsFrom(state *State, key string) SourceCounts {
	val, ok := state.GetContext(key)
	if !ok {
		return SourceCounts{}
	}
	counts, ok := val.(SourceCounts)
	if !ok {
		return SourceCounts{}
	}
	return counts
}

// ProcessorSteps assembles the standard processor run: load raw sources,
// harmonize capture labels, assign migration periods, write clean CSVs.
func ProcessorSteps(paths *config.Paths, sites []migration.Site, logger *slog.Logger) []Step {
	return []Step{
		NewLoadStep(paths, logger),
		NewHarmonizeStep(logger),
		NewAssignStep(sites, logger),
		NewWriteStep(paths, logger),
	}
}

// SitesFromConfig converts configured study sites into classifier sites,
// resolving each timezone. Unresolvable timezones fall back to UTC with a
// warning rather than failing the run.
func SitesFromConfig(cfgs []config.SiteConfig, logger *slog.Logger) []migration.Site {
	if logger == nil {
		logger = slog.Default()
	}
	sites := make([]migration.Site, 0, len(cfgs))
	for _, sc := range cfgs {
		loc, err := sc.Location()
		if err != nil {
			logger.Warn("Unknown site timezone, using UTC",
				slog.String("site", sc.Code),
				slog.String("timezone", sc.Timezone))
			loc = time.UTC
		}
		sites = append(sites, migration.Site{
			Code:      sc.Code,
			Latitude:  sc.Latitude,
			Longitude: sc.Longitude,
			Elevation: sc.Elevation,
			Location:  loc,
		})
	}
	return sites
}

// LoadStep reads every raw source file into memory: agency capture logs and
// banding-lab workbooks into capture records, survey logs into activity
// records, strike extracts into strike records.
type LoadStep struct {
	paths     *config.Paths
	loader    *dataprocessing.Loader
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewLoadStep creates the ingestion step.
func NewLoadStep(paths *config.Paths, logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{
		paths:     paths,
		loader:    dataprocessing.NewLoader(logger),
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}
}

func (s *LoadStep) ID() string   { return StepIDLoad }
func (s *LoadStep) Name() string { return StepNameLoad }

// Validate requires the raw data directory to exist. Empty source
// subdirectories are fine; they just contribute zero records.
func (s *LoadStep) Validate(state *State) error {
	return s.validator.ValidateInputDirectory(s.paths.RawDir, "")
}

func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	captures, err := s.loadCaptures()
	if err != nil {
		return err
	}
	surveys, err := s.loadSurveys()
	if err != nil {
		return err
	}
	strikes, err := s.loadStrikes()
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyCaptures, captures)
	state.SetContext(ContextKeyActivity, surveys)
	state.SetContext(ContextKeyStrikes, strikes)
	state.SetContext(ContextKeyCaptureCounts, SourceCounts{Loaded: len(captures)})
	state.SetContext(ContextKeyActivityCounts, SourceCounts{Loaded: len(surveys)})
	state.SetContext(ContextKeyStrikeCounts, SourceCounts{Loaded: len(strikes)})

	s.logger.InfoContext(ctx, "sources_loaded",
		slog.Int("captures", len(captures)),
		slog.Int("surveys", len(surveys)),
		slog.Int("strikes", len(strikes)))
	return nil
}

func (s *LoadStep) loadCaptures() ([]dataprocessing.CaptureRecord, error) {
	var records []dataprocessing.CaptureRecord

	agencyFiles, err := s.validator.ListFiles(s.paths.CapturesDir, "*.csv")
	if err != nil {
		return nil, err
	}
	for _, path := range agencyFiles {
		batch, err := s.loader.LoadAgencyCaptures(path)
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}

	bandingFiles, err := s.validator.ListFiles(s.paths.BandingDir, "*.xlsx")
	if err != nil {
		return nil, err
	}
	for _, path := range bandingFiles {
		if err := s.validator.ValidateExcelFile(path); err != nil {
			return nil, err
		}
		batch, err := s.loader.LoadBandingWorkbook(path)
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}

	return records, nil
}

func (s *LoadStep) loadSurveys() ([]dataprocessing.ActivityRecord, error) {
	var records []dataprocessing.ActivityRecord

	files, err := s.validator.ListFiles(s.paths.SurveysDir, "*.csv")
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		batch, err := s.loader.LoadActivitySurveys(path)
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	return records, nil
}

func (s *LoadStep) loadStrikes() ([]dataprocessing.StrikeRecord, error) {
	var records []dataprocessing.StrikeRecord

	files, err := s.validator.ListFiles(s.paths.StrikesDir, "*.csv")
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		batch, err := s.loader.LoadStrikeReports(path)
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	return records, nil
}

// HarmonizeStep maps raw capture method and outcome labels to the controlled
// vocabulary and applies the documented correction rules.
type HarmonizeStep struct {
	logger *slog.Logger
}

// NewHarmonizeStep creates the harmonization step.
func NewHarmonizeStep(logger *slog.Logger) *HarmonizeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &HarmonizeStep{logger: logger}
}

func (s *HarmonizeStep) ID() string   { return StepIDHarmonize }
func (s *HarmonizeStep) Name() string { return StepNameHarmonize }

func (s *HarmonizeStep) Validate(state *State) error {
	_, err := capturesFromState(state)
	return err
}

func (s *HarmonizeStep) Execute(ctx context.Context, state *State) error {
	records, err := capturesFromState(state)
	if err != nil {
		return err
	}

	harmonized, corrections := dataprocessing.HarmonizeCaptures(records)
	state.SetContext(ContextKeyCaptures, harmonized)
	state.SetContext(ContextKeyCorrections, corrections)

	for _, rule := range harmonize.Corrections {
		if n := corrections[rule.ID]; n > 0 {
			s.logger.InfoContext(ctx, "correction_applied",
				slog.String("rule", rule.ID),
				slog.Int("records", n))
		}
	}

	s.logger.InfoContext(ctx, "labels_harmonized",
		slog.Int("captures", len(harmonized)))
	return nil
}

// AssignStep assigns migration periods and fiscal day-of-year ordinals to
// every record, drops pre-study and calendar-invalid records, and classifies
// capture times into diel periods.
type AssignStep struct {
	classifier *migration.DielClassifier
	logger     *slog.Logger
}

// NewAssignStep creates the period-assignment step for the given study sites.
func NewAssignStep(sites []migration.Site, logger *slog.Logger) *AssignStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignStep{
		classifier: migration.NewDielClassifier(sites, logger),
		logger:     logger,
	}
}

func (s *AssignStep) ID() string   { return StepIDAssign }
func (s *AssignStep) Name() string { return StepNameAssign }

func (s *AssignStep) Validate(state *State) error {
	if _, err := capturesFromState(state); err != nil {
		return err
	}
	if _, err := activityFromState(state); err != nil {
		return err
	}
	_, err := strikesFromState(state)
	return err
}

func (s *AssignStep) Execute(ctx context.Context, state *State) error {
	captures, err := capturesFromState(state)
	if err != nil {
		return err
	}
	surveys, err := activityFromState(state)
	if err != nil {
		return err
	}
	strikes, err := strikesFromState(state)
	if err != nil {
		return err
	}

	keptCaptures, captureRes := dataprocessing.AssignCapturePeriods(captures, s.logger)
	keptCaptures = dataprocessing.ClassifyCaptureDiel(keptCaptures, s.classifier)
	state.SetContext(ContextKeyCaptures, keptCaptures)
	state.SetContext(ContextKeyCaptureCounts, SourceCounts{
		Loaded:   len(captures),
		Excluded: captureRes.Excluded(),
	})

	keptSurveys, surveyRes := dataprocessing.AssignActivityPeriods(surveys, s.logger)
	state.SetContext(ContextKeyActivity, keptSurveys)
	state.SetContext(ContextKeyActivityCounts, SourceCounts{
		Loaded:   len(surveys),
		Excluded: surveyRes.Excluded(),
	})

	keptStrikes, strikeRes := dataprocessing.AssignStrikePeriods(strikes, s.logger)
	state.SetContext(ContextKeyStrikes, keptStrikes)
	state.SetContext(ContextKeyStrikeCounts, SourceCounts{
		Loaded:   len(strikes),
		Excluded: strikeRes.Excluded(),
	})

	s.logger.InfoContext(ctx, "periods_assigned",
		slog.Int("captures_kept", len(keptCaptures)),
		slog.Int("captures_excluded", captureRes.Excluded()),
		slog.Int("surveys_kept", len(keptSurveys)),
		slog.Int("surveys_excluded", surveyRes.Excluded()),
		slog.Int("strikes_kept", len(keptStrikes)),
		slog.Int("strikes_excluded", strikeRes.Excluded()))
	return nil
}

// WriteStep persists the harmonized, period-labeled records as the three
// clean CSV files.
type WriteStep struct {
	writer    *exporter.CSVWriter
	validator *validation.FileValidator
	paths     *config.Paths
	logger    *slog.Logger
}

// NewWriteStep creates the clean-output step.
func NewWriteStep(paths *config.Paths, logger *slog.Logger) *WriteStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteStep{
		writer:    exporter.NewCSVWriter(paths),
		validator: validation.NewFileValidator(logger),
		paths:     paths,
		logger:    logger,
	}
}

func (s *WriteStep) ID() string   { return StepIDWrite }
func (s *WriteStep) Name() string { return StepNameWrite }

func (s *WriteStep) Validate(state *State) error {
	if err := s.validator.ValidateOutputDirectory(s.paths.CleanDir); err != nil {
		return err
	}
	if _, err := capturesFromState(state); err != nil {
		return err
	}
	if _, err := activityFromState(state); err != nil {
		return err
	}
	_, err := strikesFromState(state)
	return err
}

func (s *WriteStep) Execute(ctx context.Context, state *State) error {
	captures, err := capturesFromState(state)
	if err != nil {
		return err
	}
	surveys, err := activityFromState(state)
	if err != nil {
		return err
	}
	strikes, err := strikesFromState(state)
	if err != nil {
		return err
	}

	if err := dataprocessing.WriteCapturesClean(s.writer, captures); err != nil {
		return err
	}
	if err := dataprocessing.WriteActivityClean(s.writer, surveys); err != nil {
		return err
	}
	if err := dataprocessing.WriteStrikesClean(s.writer, strikes); err != nil {
		return err
	}

	markWritten(state, ContextKeyCaptureCounts, len(captures))
	markWritten(state, ContextKeyActivityCounts, len(surveys))
	markWritten(state, ContextKeyStrikeCounts, len(strikes))

	s.logger.InfoContext(ctx, "clean_files_written",
		slog.String("dir", s.paths.CleanDir),
		slog.Int("captures", len(captures)),
		slog.Int("surveys", len(surveys)),
		slog.Int("strikes", len(strikes)))
	return nil
}

// markWritten records how many rows of a source reached the clean output.
func markWritten(state *State, key string, written int) {
	counts := SourceCountsFrom(state, key)
	counts.Written = written
	state.SetContext(key, counts)
}

func capturesFromState(state *State) ([]dataprocessing.CaptureRecord, error) {
	val, ok := state.GetContext(ContextKeyCaptures)
	if !ok {
		return nil, fmt.Errorf("capture records not found in run state")
	}
	records, ok := val.([]dataprocessing.CaptureRecord)
	if !ok {
		return nil, fmt.Errorf("unexpected capture record type %T in run state", val)
	}
	return records, nil
}

func activityFromState(state *State) ([]dataprocessing.ActivityRecord, error) {
	val, ok := state.GetContext(ContextKeyActivity)
	if !ok {
		return nil, fmt.Errorf("activity records not found in run state")
	}
	records, ok := val.([]dataprocessing.ActivityRecord)
	if !ok {
		return nil, fmt.Errorf("unexpected activity record type %T in run state", val)
	}
	return records, nil
}

func strikesFromState(state *State) ([]dataprocessing.StrikeRecord, error) {
	val, ok := state.GetContext(ContextKeyStrikes)
	if !ok {
		return nil, fmt.Errorf("strike records not found in run state")
	}
	records, ok := val.([]dataprocessing.StrikeRecord)
	if !ok {
		return nil, fmt.Errorf("unexpected strike record type %T in run state", val)
	}
	return records, nil
}
