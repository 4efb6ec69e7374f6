package dataprocessing

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raptorcli/internal/errors"
	"raptorcli/internal/shared/testutil"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAgencyCaptures(t *testing.T) {
	csvData := "capture_date,capture_time,band_id,species_code,zone,site_code,method_code,outcome\n" +
		"10/5/2020,07:15,1387-12345,rtha,AOA-1,jfk,bc,Relocated\n" +
		"2021-03-07,,1387-12346,AMKE,AOA-2,JFK,mn,Released\n"
	path := writeTestFile(t, "captures_2020.csv", csvData)

	loader := NewLoader(slog.Default())
	records, err := loader.LoadAgencyCaptures(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, SourceAgency, first.Source)
	assert.Equal(t, "1387-12345", first.BandID)
	assert.Equal(t, "RTHA", first.Species, "species codes are upper-cased")
	assert.Equal(t, 2020, first.Year)
	assert.Equal(t, 10, first.Month)
	assert.Equal(t, 5, first.Day)
	assert.True(t, first.DateValid)
	assert.Equal(t, "07:15", first.TimeOfDay)
	assert.Equal(t, "AOA-1", first.Zone)
	assert.Equal(t, "JFK", first.Site, "site codes are upper-cased")
	assert.Equal(t, "bc", first.Method, "harmonization happens later, not at load")
	assert.Equal(t, "Relocated", first.Outcome)

	second := records[1]
	assert.True(t, second.DateValid)
	assert.Equal(t, 3, second.Month)
	assert.Equal(t, "", second.TimeOfDay, "missing time stays empty")
}

func TestLoadAgencyCaptures_UnparseableDateKept(t *testing.T) {
	csvData := "capture_date,capture_time,band_id,species_code,zone,site_code,method_code,outcome\n" +
		"sometime in fall,07:15,1387-12345,RTHA,AOA-1,JFK,BC,Translocated\n" +
		"10/5/2020,late morning,1387-12346,RTHA,AOA-1,JFK,BC,Translocated\n"
	path := writeTestFile(t, "captures_bad.csv", csvData)

	logger, handler := testutil.NewTestLogger(t)
	loader := NewLoader(logger)
	records, err := loader.LoadAgencyCaptures(path)
	require.NoError(t, err)
	require.Len(t, records, 2, "bad fields never drop the record at load time")

	assert.False(t, records[0].DateValid)
	assert.Equal(t, 0, records[0].Year)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Unparseable capture date")

	assert.True(t, records[1].DateValid)
	assert.Equal(t, "", records[1].TimeOfDay)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Unparseable capture time")
}

func TestLoadAgencyCaptures_SkipsBlankRows(t *testing.T) {
	csvData := "capture_date,capture_time,band_id,species_code,zone,site_code,method_code,outcome\n" +
		"10/5/2020,07:15,1387-12345,RTHA,AOA-1,JFK,BC,Translocated\n" +
		",,,,,,,\n"
	path := writeTestFile(t, "captures_blank.csv", csvData)

	loader := NewLoader(slog.Default())
	records, err := loader.LoadAgencyCaptures(path)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLoadAgencyCaptures_Errors(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		errorContains string
	}{
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.csv")
			},
			errorContains: "open",
		},
		{
			name: "empty file",
			setupFunc: func(t *testing.T) string {
				return writeTestFile(t, "empty.csv", "")
			},
			errorContains: "is empty",
		},
		{
			name: "missing required column",
			setupFunc: func(t *testing.T) string {
				return writeTestFile(t, "no_outcome.csv",
					"capture_date,band_id,species_code,zone,site_code,method_code\n")
			},
			errorContains: `missing required column "outcome"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(slog.Default())
			_, err := loader.LoadAgencyCaptures(tt.setupFunc(t))

			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeParsing),
				"loader failures are parsing errors, got: %v", err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestMapColumns_BOMAndCase(t *testing.T) {
	cols, err := mapColumns(
		[]string{"\uFEFFCAPTURE_DATE", " Band_ID ", "species_code"},
		[]string{"capture_date", "band_id"},
		"x.csv")
	require.NoError(t, err)

	assert.Equal(t, 0, cols["capture_date"])
	assert.Equal(t, 1, cols["band_id"])
	assert.Equal(t, 2, cols["species_code"])
}

func TestCell_ShortRow(t *testing.T) {
	cols := map[string]int{"a": 0, "b": 5}
	row := []string{" one "}

	assert.Equal(t, "one", cell(row, cols, "a"))
	assert.Equal(t, "", cell(row, cols, "b"), "short rows read as empty cells")
	assert.Equal(t, "", cell(row, cols, "missing"))
}
