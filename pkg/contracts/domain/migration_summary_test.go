package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSummaryReport() *SummaryReport {
	return &SummaryReport{
		Metadata: ReportMetadata{
			GeneratedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
			Version:     "1.4.0",
			TraceID:     "run-123",
			Captures:    InputStats{Loaded: 12, Excluded: 2, Reported: 10},
		},
		CapturesByPeriod: []PeriodCaptureSummary{
			{Period: "2020-2021", N: 10, Proportion: 1.0, DistinctBands: 7, Recaptures: 3, RecaptureRate: 0.3},
		},
		CapturesByPeriodMethod: []PeriodMethodSummary{
			{Period: "2020-2021", Method: "Bal-Chatri (BC)", N: 10, ProportionOfPeriod: 1.0},
		},
		TimingByPeriod: []FiscalTimingSummary{
			{Group: "2020-2021", N: 10, Mean: 40, SD: 5, SE: 1.58, CILow: 36.9, CIHigh: 43.1,
				Min: 30, Q1: 35, Median: 40, Q3: 45, Max: 50},
		},
		TimingBySpecies: []FiscalTimingSummary{
			{Group: "RTHA", N: 10, Mean: 40, SD: 5, SE: 1.58, CILow: 36.9, CIHigh: 43.1,
				Min: 30, Q1: 35, Median: 40, Q3: 45, Max: 50},
		},
		CapturesByPeriodDiel: []PeriodDielSummary{
			{Period: "2020-2021", DielPeriod: "Dawn", N: 4},
		},
		ActivityByPeriod: []PeriodActivitySummary{
			{Period: "2020-2021", Species: "RTHA", NSurveys: 3, TotalCount: 12},
		},
		StrikesByPeriod: []PeriodStrikeSummary{
			{Period: "2020-2021", N: 5, Proportion: 1.0, NDamaging: 2},
		},
	}
}

func TestValidateSummaryReport(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(r *SummaryReport)
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid report",
			mutate: func(r *SummaryReport) {},
		},
		{
			name: "empty tables are valid once metadata is set",
			mutate: func(r *SummaryReport) {
				r.CapturesByPeriod = nil
				r.CapturesByPeriodMethod = nil
				r.TimingByPeriod = nil
				r.TimingBySpecies = nil
				r.CapturesByPeriodDiel = nil
				r.ActivityByPeriod = nil
				r.StrikesByPeriod = nil
			},
		},
		{
			name:        "missing generated_at",
			mutate:      func(r *SummaryReport) { r.Metadata.GeneratedAt = time.Time{} },
			wantErr:     true,
			errContains: "generated_at is required",
		},
		{
			name:        "missing version",
			mutate:      func(r *SummaryReport) { r.Metadata.Version = "" },
			wantErr:     true,
			errContains: "version is required",
		},
		{
			name:        "malformed period label",
			mutate:      func(r *SummaryReport) { r.CapturesByPeriod[0].Period = "2020/21" },
			wantErr:     true,
			errContains: "malformed period label",
		},
		{
			name:        "proportion above one",
			mutate:      func(r *SummaryReport) { r.CapturesByPeriod[0].Proportion = 1.5 },
			wantErr:     true,
			errContains: "outside [0,1]",
		},
		{
			name:        "recaptures exceed count",
			mutate:      func(r *SummaryReport) { r.CapturesByPeriod[0].Recaptures = 11 },
			wantErr:     true,
			errContains: "recaptures 11 exceed count 10",
		},
		{
			name:        "distinct bands exceed count",
			mutate:      func(r *SummaryReport) { r.CapturesByPeriod[0].DistinctBands = 11 },
			wantErr:     true,
			errContains: "distinct bands 11 exceed count 10",
		},
		{
			name:        "empty method",
			mutate:      func(r *SummaryReport) { r.CapturesByPeriodMethod[0].Method = "" },
			wantErr:     true,
			errContains: "empty method",
		},
		{
			name:        "timing quartiles out of order",
			mutate:      func(r *SummaryReport) { r.TimingByPeriod[0].Q1 = 45 },
			wantErr:     true,
			errContains: "quartiles out of order",
		},
		{
			name:        "fiscal day beyond calendar",
			mutate:      func(r *SummaryReport) { r.TimingBySpecies[0].Max = 400 },
			wantErr:     true,
			errContains: "fiscal days outside",
		},
		{
			name:        "species timing group may be any non-empty string",
			mutate:      func(r *SummaryReport) { r.TimingBySpecies[0].Group = "Red-tailed Hawk" },
			wantErr:     false,
		},
		{
			name:        "confidence bounds inverted",
			mutate:      func(r *SummaryReport) { r.TimingByPeriod[0].CILow, r.TimingByPeriod[0].CIHigh = 43.1, 36.9 },
			wantErr:     true,
			errContains: "confidence bounds inverted",
		},
		{
			name:        "timing sample below one",
			mutate:      func(r *SummaryReport) { r.TimingByPeriod[0].N = 0 },
			wantErr:     true,
			errContains: "sample size 0 below 1",
		},
		{
			name:        "empty diel period",
			mutate:      func(r *SummaryReport) { r.CapturesByPeriodDiel[0].DielPeriod = "" },
			wantErr:     true,
			errContains: "empty diel period",
		},
		{
			name:        "damaging strikes exceed count",
			mutate:      func(r *SummaryReport) { r.StrikesByPeriod[0].NDamaging = 6 },
			wantErr:     true,
			errContains: "damaging strikes 6 exceed count 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := validSummaryReport()
			tt.mutate(report)

			err := ValidateSummaryReport(report)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSummaryReport_Nil(t *testing.T) {
	err := ValidateSummaryReport(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be nil")
}

func TestIsValidPeriodLabel(t *testing.T) {
	assert.True(t, IsValidPeriodLabel("2016-2017"))
	assert.True(t, IsValidPeriodLabel("2020-2021"))
	assert.False(t, IsValidPeriodLabel("2020-21"))
	assert.False(t, IsValidPeriodLabel("2020/2021"))
	assert.False(t, IsValidPeriodLabel(""))
	assert.False(t, IsValidPeriodLabel("период"))
}
