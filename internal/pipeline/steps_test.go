package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"raptorcli/internal/config"
	"raptorcli/internal/dataprocessing"
	"raptorcli/internal/harmonize"
	"raptorcli/internal/migration"
)

func writeRawFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// writeRawFixtures lays down one small file per raw source: two agency
// captures (one pre-study), one banding workbook row, one survey row and one
// strike row.
func writeRawFixtures(t *testing.T, paths *config.Paths) {
	t.Helper()
	require.NoError(t, paths.EnsureDirectories())

	writeRawFile(t, paths.GetCapturePath("captures_2020.csv"),
		"capture_date,capture_time,band_id,species_code,zone,site_code,method_code,outcome\n"+
			"10/5/2020,07:15,1387-12345,rtha,AOA-1,jfk,bc,Relocated\n"+
			"8/15/2010,,1387-00001,RTHA,AOA-1,JFK,BC,Released\n")

	writeRawFile(t, paths.GetSurveyPath("surveys_2021.csv"),
		"activity_date,obs_time,species_code,zone,count\n"+
			"3/7/2021,09:30,rtha,AOA-2,4\n")

	writeRawFile(t, paths.GetStrikePath("strikes_2020.csv"),
		"INCIDENT_DATE,INCIDENT_TIME,SPECIES,AIRPORT_ID,DAMAGE\n"+
			"10/12/2020,17:40,Red-tailed hawk,kjfk,M\n")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Banding Records"))
	rows := [][]interface{}{
		{"BAND_NUMBER", "SPECIES_NAME", "BANDING_MONTH", "BANDING_DAY", "BANDING_YEAR",
			"CAPTURE_METHOD", "DISPOSITION", "BANDING_LOCATION"},
		{"1387-54321", "Red-tailed Hawk", 10, 20, 2020, "BC", "Released", "JFK"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Banding Records", cell, &row))
	}
	require.NoError(t, f.SaveAs(paths.GetBandingPath("banding_2020.xlsx")))
	require.NoError(t, f.Close())
}

func testSites() []migration.Site {
	return []migration.Site{{
		Code:      "JFK",
		Latitude:  40.6413,
		Longitude: -73.7781,
		Location:  time.FixedZone("EDT", -4*60*60),
	}}
}

func TestProcessorSteps_Order(t *testing.T) {
	steps := ProcessorSteps(config.NewPaths(t.TempDir()), nil, nil)
	require.Len(t, steps, 4)

	ids := make([]string, 0, len(steps))
	for _, step := range steps {
		ids = append(ids, step.ID())
	}
	assert.Equal(t, []string{StepIDLoad, StepIDHarmonize, StepIDAssign, StepIDWrite}, ids)
}

func TestProcessorSteps_EndToEnd(t *testing.T) {
	paths := config.NewPaths(t.TempDir())
	writeRawFixtures(t, paths)

	runner := NewRunner(slog.Default())
	state, err := runner.Run(context.Background(), "test-run",
		ProcessorSteps(paths, testSites(), slog.Default()))
	require.NoError(t, err)

	for _, ss := range state.Steps() {
		assert.Equal(t, StepStatusCompleted, ss.Status, "step %s", ss.ID)
	}

	capCounts := SourceCountsFrom(state, ContextKeyCaptureCounts)
	assert.Equal(t, 3, capCounts.Loaded, "two agency rows plus one banding row")
	assert.Equal(t, 1, capCounts.Excluded, "the 2010 capture predates the study")
	assert.Equal(t, 2, capCounts.Written)

	surveyCounts := SourceCountsFrom(state, ContextKeyActivityCounts)
	assert.Equal(t, 1, surveyCounts.Loaded)
	assert.Equal(t, 0, surveyCounts.Excluded)
	assert.Equal(t, 1, surveyCounts.Written)

	strikeCounts := SourceCountsFrom(state, ContextKeyStrikeCounts)
	assert.Equal(t, 1, strikeCounts.Written)

	loader := dataprocessing.NewLoader(slog.Default())

	captures, err := loader.ReadCapturesClean(paths.CapturesCleanCSV)
	require.NoError(t, err)
	require.Len(t, captures, 2)

	agency := captures[0]
	assert.Equal(t, dataprocessing.SourceAgency, agency.Source)
	assert.Equal(t, harmonize.MethodBalChatri, agency.Method)
	assert.Equal(t, harmonize.OutcomeTranslocated, agency.Outcome)
	assert.Equal(t, "2020-2021", agency.MigrationLabel)
	assert.Equal(t, 35, agency.FiscalDayOfYear)
	assert.Equal(t, migration.DielDay, agency.DielPeriod,
		"07:15 in early October is after sunrise at JFK")

	banding := captures[1]
	assert.Equal(t, dataprocessing.SourceBandingLab, banding.Source)
	assert.Equal(t, harmonize.OutcomeReleasedOnSite, banding.Outcome)
	assert.Equal(t, "2020-2021", banding.MigrationLabel)
	assert.Equal(t, "", banding.DielPeriod, "banding rows carry no capture time")

	surveys, err := loader.ReadActivityClean(paths.ActivityCleanCSV)
	require.NoError(t, err)
	require.Len(t, surveys, 1)
	assert.Equal(t, "RTHA", surveys[0].Species)
	assert.Equal(t, 4, surveys[0].Count)
	assert.Equal(t, "2020-2021", surveys[0].MigrationLabel)
	assert.Equal(t, 188, surveys[0].FiscalDayOfYear)

	strikes, err := loader.ReadStrikesClean(paths.StrikesCleanCSV)
	require.NoError(t, err)
	require.Len(t, strikes, 1)
	assert.Equal(t, "KJFK", strikes[0].AirportID)
	assert.True(t, strikes[0].Damaging())
	assert.Equal(t, "2020-2021", strikes[0].MigrationLabel)
}

func TestProcessorSteps_EmptySources(t *testing.T) {
	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	state, err := NewRunner(slog.Default()).Run(context.Background(), "empty-run",
		ProcessorSteps(paths, nil, slog.Default()))
	require.NoError(t, err)

	for _, ss := range state.Steps() {
		assert.Equal(t, StepStatusCompleted, ss.Status, "step %s", ss.ID)
	}
	assert.Equal(t, SourceCounts{}, SourceCountsFrom(state, ContextKeyCaptureCounts))

	// Header-only clean files still appear so downstream tools see a table.
	assert.FileExists(t, paths.CapturesCleanCSV)
	assert.FileExists(t, paths.ActivityCleanCSV)
	assert.FileExists(t, paths.StrikesCleanCSV)
}

func TestProcessorSteps_MissingRawDirFailsValidation(t *testing.T) {
	paths := config.NewPaths(filepath.Join(t.TempDir(), "never-created"))

	state, err := NewRunner(slog.Default()).Run(context.Background(), "bad-run",
		ProcessorSteps(paths, nil, slog.Default()))
	require.Error(t, err)

	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
	assert.Equal(t, StepStatusFailed, state.Step(StepIDLoad).Status)
	assert.Equal(t, StepStatusSkipped, state.Step(StepIDWrite).Status)
}

func TestProcessorSteps_BadSourceFileFailsRun(t *testing.T) {
	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	writeRawFile(t, paths.GetCapturePath("broken.csv"),
		"capture_date,band_id\n10/5/2020,1387-12345\n")

	state, err := NewRunner(slog.Default()).Run(context.Background(), "broken-run",
		ProcessorSteps(paths, nil, slog.Default()))
	require.Error(t, err)

	assert.Equal(t, ErrorTypeExecution, GetErrorType(err))
	assert.Contains(t, err.Error(), "missing required column")
	assert.Equal(t, StepStatusFailed, state.Step(StepIDLoad).Status)
	assert.Equal(t, StepStatusSkipped, state.Step(StepIDHarmonize).Status)
}

func TestHarmonizeStep_RequiresLoadedCaptures(t *testing.T) {
	state, err := NewRunner(slog.Default()).Run(context.Background(), "lone-step",
		[]Step{NewHarmonizeStep(nil)})
	require.Error(t, err)

	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
	assert.Contains(t, err.Error(), "capture records not found")
	assert.Equal(t, StepStatusFailed, state.Step(StepIDHarmonize).Status)
}

func TestSitesFromConfig(t *testing.T) {
	sites := SitesFromConfig([]config.SiteConfig{
		{Code: "JFK", Latitude: 40.6413, Longitude: -73.7781, Elevation: 4},
		{Code: "LGA", Latitude: 40.7769, Longitude: -73.874, Timezone: "Not/AZone"},
	}, slog.Default())
	require.Len(t, sites, 2)

	assert.Equal(t, "JFK", sites[0].Code)
	assert.Equal(t, 40.6413, sites[0].Latitude)
	assert.Equal(t, time.Local, sites[0].Location, "empty timezone means local time")

	assert.Equal(t, time.UTC, sites[1].Location, "unresolvable timezones fall back to UTC")
}

func TestSourceCountsFrom_MissingKey(t *testing.T) {
	state := NewState("run")
	assert.Equal(t, SourceCounts{}, SourceCountsFrom(state, ContextKeyCaptureCounts))

	state.SetContext(ContextKeyCaptureCounts, "not counts")
	assert.Equal(t, SourceCounts{}, SourceCountsFrom(state, ContextKeyCaptureCounts))
}
