package dataprocessing

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raptorcli/internal/shared/testutil"
)

func TestLoadStrikeReports(t *testing.T) {
	path := writeTestFile(t, "strikes_2021.csv",
		"INCIDENT_DATE,INCIDENT_TIME,SPECIES,AIRPORT_ID,DAMAGE\n"+
			"10/5/2020,1845,Red-tailed Hawk,kjfk,M\n"+
			"2021-03-07,,Gulls,KJFK,\n")

	loader := NewLoader(slog.Default())
	records, err := loader.LoadStrikeReports(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Red-tailed Hawk", first.Species)
	assert.Equal(t, "KJFK", first.AirportID, "airport identifiers are upper-cased")
	assert.Equal(t, 2020, first.Year)
	assert.Equal(t, 10, first.Month)
	assert.Equal(t, 5, first.Day)
	assert.True(t, first.DateValid)
	assert.Equal(t, "18:45", first.TimeOfDay)
	assert.Equal(t, "M", first.Damage)

	assert.Equal(t, "", records[1].TimeOfDay)
	assert.Equal(t, "", records[1].Damage)
}

func TestLoadStrikeReports_WithoutOptionalColumns(t *testing.T) {
	path := writeTestFile(t, "strikes_2021.csv",
		"INCIDENT_DATE,SPECIES,AIRPORT_ID\n"+
			"10/5/2020,Red-tailed Hawk,KJFK\n")

	loader := NewLoader(slog.Default())
	records, err := loader.LoadStrikeReports(path)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].TimeOfDay)
	assert.Equal(t, "", records[0].Damage)
}

func TestLoadStrikeReports_UnparseableDateKept(t *testing.T) {
	path := writeTestFile(t, "strikes_2021.csv",
		"INCIDENT_DATE,SPECIES,AIRPORT_ID\n"+
			"fall 2020,Red-tailed Hawk,KJFK\n")

	logger, handler := testutil.NewTestLogger(t)
	loader := NewLoader(logger)
	records, err := loader.LoadStrikeReports(path)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.False(t, records[0].DateValid)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Unparseable incident date")
}

func TestStrikeRecord_Damaging(t *testing.T) {
	tests := []struct {
		name   string
		damage string
		want   bool
	}{
		{name: "blank means none reported", damage: "", want: false},
		{name: "N code", damage: "N", want: false},
		{name: "lower-case n", damage: "n", want: false},
		{name: "NONE spelled out", damage: "NONE", want: false},
		{name: "minor damage", damage: "M", want: true},
		{name: "substantial damage", damage: "S", want: true},
		{name: "free-text damage note", damage: "engine ingestion", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := StrikeRecord{Damage: tt.damage}
			assert.Equal(t, tt.want, rec.Damaging())
		})
	}
}
