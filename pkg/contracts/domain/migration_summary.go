package domain

import (
	"fmt"
	"regexp"
	"time"
)

// This file defines the Single Source of Truth (SSOT) structures for the
// migration summary report. Every consumer of the report output — the CSV
// tables, summary.json, the workbook sheets and the chart generator — reads
// these structures, so field names and semantics must stay stable across
// releases.
//
// A migration period runs September 1 through August 31 and is labelled
// "startYear-startYear+1", e.g. "2020-2021". Fiscal day-of-year counts from
// September 1 (= 1) through August 31 (= 365) on a non-leap reference
// calendar.

// DielUnknown is the diel bucket reported for captures whose diel period
// could not be determined. It is part of the table contract: consumers group
// on it like any other diel label.
const DielUnknown = "Unknown"

// PeriodCaptureSummary is one row of the captures-by-period table.
type PeriodCaptureSummary struct {
	// Period is the migration period label, e.g. "2020-2021".
	Period string `json:"period" csv:"period" validate:"required"`

	// N is the number of capture records in the period.
	N int `json:"n" csv:"n" validate:"min=0"`

	// Proportion is N over the total capture count across all periods.
	Proportion float64 `json:"proportion" csv:"proportion" validate:"min=0,max=1"`

	// DistinctBands counts distinct non-empty band IDs in the period.
	DistinctBands int `json:"distinct_bands" csv:"distinct_bands" validate:"min=0"`

	// Recaptures is the number of banded captures beyond the first capture
	// of each band: bandedCaptures - distinctBands.
	Recaptures int `json:"recaptures" csv:"recaptures" validate:"min=0"`

	// RecaptureRate is Recaptures over N.
	RecaptureRate float64 `json:"recapture_rate" csv:"recapture_rate" validate:"min=0,max=1"`
}

// PeriodMethodSummary is one row of the captures-by-period-and-method table.
type PeriodMethodSummary struct {
	Period string `json:"period" csv:"period" validate:"required"`
	Method string `json:"method" csv:"method" validate:"required"`
	N      int    `json:"n" csv:"n" validate:"min=0"`

	// ProportionOfPeriod is N over the period's total capture count.
	ProportionOfPeriod float64 `json:"proportion_of_period" csv:"proportion_of_period" validate:"min=0,max=1"`
}

// FiscalTimingSummary is one row of a capture-timing table: the distribution
// of fiscal day-of-year values within one group. The same row shape serves
// both the by-period table (Group is a period label) and the by-species
// table (Group is a species code).
type FiscalTimingSummary struct {
	Group string `json:"group" csv:"group" validate:"required"`

	// N is the sample size the distribution statistics are computed over.
	N int `json:"n" csv:"n" validate:"min=1"`

	Mean   float64 `json:"mean" csv:"mean"`
	SD     float64 `json:"sd" csv:"sd" validate:"min=0"`
	SE     float64 `json:"se" csv:"se" validate:"min=0"`
	CILow  float64 `json:"ci95_low" csv:"ci95_low"`
	CIHigh float64 `json:"ci95_high" csv:"ci95_high"`
	Min    float64 `json:"min" csv:"min"`
	Q1     float64 `json:"q1" csv:"q1"`
	Median float64 `json:"median" csv:"median"`
	Q3     float64 `json:"q3" csv:"q3"`
	Max    float64 `json:"max" csv:"max"`
}

// PeriodDielSummary is one row of the captures-by-period-and-diel table.
// DielPeriod is Dawn, Day, Dusk or Night; captures whose diel period could
// not be determined are reported under "Unknown" so period totals still add
// up.
type PeriodDielSummary struct {
	Period     string `json:"period" csv:"period" validate:"required"`
	DielPeriod string `json:"diel_period" csv:"diel_period" validate:"required"`
	N          int    `json:"n" csv:"n" validate:"min=0"`
}

// PeriodActivitySummary is one row of the activity-by-period-and-species
// table, aggregated from wildlife survey records.
type PeriodActivitySummary struct {
	Period   string `json:"period" csv:"period" validate:"required"`
	Species  string `json:"species" csv:"species" validate:"required"`
	NSurveys int    `json:"n_surveys" csv:"n_surveys" validate:"min=0"`

	// TotalCount is the summed individual count across the group's surveys.
	TotalCount int `json:"total_count" csv:"total_count" validate:"min=0"`
}

// PeriodStrikeSummary is one row of the strikes-by-period table.
type PeriodStrikeSummary struct {
	Period     string  `json:"period" csv:"period" validate:"required"`
	N          int     `json:"n" csv:"n" validate:"min=0"`
	Proportion float64 `json:"proportion" csv:"proportion" validate:"min=0,max=1"`

	// NDamaging counts strikes whose damage code records aircraft damage.
	NDamaging int `json:"n_damaging" csv:"n_damaging" validate:"min=0"`
}

// InputStats describes what happened to one input stream during a run.
type InputStats struct {
	// Loaded is the number of records read from the raw sources.
	Loaded int `json:"loaded" validate:"min=0"`

	// Excluded is the number of records dropped: unusable dates plus
	// records from before the study window.
	Excluded int `json:"excluded" validate:"min=0"`

	// Reported is the number of records the summary tables are built from.
	Reported int `json:"reported" validate:"min=0"`
}

// ReportMetadata carries run provenance for a summary report.
type ReportMetadata struct {
	GeneratedAt time.Time  `json:"generated_at" validate:"required"`
	Version     string     `json:"version" validate:"required"`
	TraceID     string     `json:"trace_id,omitempty"`
	Captures    InputStats `json:"captures"`
	Surveys     InputStats `json:"surveys"`
	Strikes     InputStats `json:"strikes"`
}

// SummaryReport is the complete migration summary: every aggregate table
// plus run metadata. This is the structure serialized to summary.json and
// the source for the CSV tables and the workbook sheets.
type SummaryReport struct {
	Metadata ReportMetadata `json:"metadata"`

	CapturesByPeriod       []PeriodCaptureSummary  `json:"captures_by_period"`
	CapturesByPeriodMethod []PeriodMethodSummary   `json:"captures_by_period_method"`
	TimingByPeriod         []FiscalTimingSummary   `json:"capture_timing_by_period"`
	TimingBySpecies        []FiscalTimingSummary   `json:"capture_timing_by_species"`
	CapturesByPeriodDiel   []PeriodDielSummary     `json:"captures_by_period_diel"`
	ActivityByPeriod       []PeriodActivitySummary `json:"activity_by_period_species"`
	StrikesByPeriod        []PeriodStrikeSummary   `json:"strikes_by_period"`
}

// SummaryValidationRules defines the format constraints shared by every
// summary table.
var SummaryValidationRules = struct {
	PeriodPattern *regexp.Regexp
	MinFiscalDay  float64
	MaxFiscalDay  float64
	ProportionEps float64
	ReportVersion string
}{
	PeriodPattern: regexp.MustCompile(`^\d{4}-\d{4}$`),
	MinFiscalDay:  1,
	MaxFiscalDay:  365,
	ProportionEps: 1e-9,
	ReportVersion: "1.0",
}

// IsValidPeriodLabel reports whether a string is a well-formed migration
// period label such as "2020-2021".
func IsValidPeriodLabel(label string) bool {
	return SummaryValidationRules.PeriodPattern.MatchString(label)
}

// ValidateSummaryReport checks a complete report against the table
// invariants before it is written anywhere:
//   - metadata carries a timestamp and version
//   - every period label matches "YYYY-YYYY"
//   - counts are non-negative and proportions stay within [0,1]
//   - recaptures and distinct bands never exceed the period count
//   - timing distributions are ordered min <= q1 <= median <= q3 <= max
//     and stay within the fiscal calendar
//
// Returns nil if the report is consistent, or an error naming the first
// offending table and row.
func ValidateSummaryReport(report *SummaryReport) error {
	if report == nil {
		return fmt.Errorf("summary report cannot be nil")
	}
	if report.Metadata.GeneratedAt.IsZero() {
		return fmt.Errorf("metadata generated_at is required")
	}
	if report.Metadata.Version == "" {
		return fmt.Errorf("metadata version is required")
	}

	for i, row := range report.CapturesByPeriod {
		if !IsValidPeriodLabel(row.Period) {
			return fmt.Errorf("captures_by_period[%d]: malformed period label %q", i, row.Period)
		}
		if row.N < 0 {
			return fmt.Errorf("captures_by_period[%d]: negative count %d", i, row.N)
		}
		if err := validateProportion("captures_by_period", i, "proportion", row.Proportion); err != nil {
			return err
		}
		if row.DistinctBands > row.N {
			return fmt.Errorf("captures_by_period[%d]: distinct bands %d exceed count %d", i, row.DistinctBands, row.N)
		}
		if row.Recaptures > row.N {
			return fmt.Errorf("captures_by_period[%d]: recaptures %d exceed count %d", i, row.Recaptures, row.N)
		}
		if err := validateProportion("captures_by_period", i, "recapture_rate", row.RecaptureRate); err != nil {
			return err
		}
	}

	for i, row := range report.CapturesByPeriodMethod {
		if !IsValidPeriodLabel(row.Period) {
			return fmt.Errorf("captures_by_period_method[%d]: malformed period label %q", i, row.Period)
		}
		if row.Method == "" {
			return fmt.Errorf("captures_by_period_method[%d]: empty method", i)
		}
		if err := validateProportion("captures_by_period_method", i, "proportion_of_period", row.ProportionOfPeriod); err != nil {
			return err
		}
	}

	if err := validateTimingTable("capture_timing_by_period", report.TimingByPeriod, true); err != nil {
		return err
	}
	if err := validateTimingTable("capture_timing_by_species", report.TimingBySpecies, false); err != nil {
		return err
	}

	for i, row := range report.CapturesByPeriodDiel {
		if !IsValidPeriodLabel(row.Period) {
			return fmt.Errorf("captures_by_period_diel[%d]: malformed period label %q", i, row.Period)
		}
		if row.DielPeriod == "" {
			return fmt.Errorf("captures_by_period_diel[%d]: empty diel period", i)
		}
		if row.N < 0 {
			return fmt.Errorf("captures_by_period_diel[%d]: negative count %d", i, row.N)
		}
	}

	for i, row := range report.ActivityByPeriod {
		if !IsValidPeriodLabel(row.Period) {
			return fmt.Errorf("activity_by_period_species[%d]: malformed period label %q", i, row.Period)
		}
		if row.Species == "" {
			return fmt.Errorf("activity_by_period_species[%d]: empty species", i)
		}
		if row.NSurveys < 0 || row.TotalCount < 0 {
			return fmt.Errorf("activity_by_period_species[%d]: negative counts", i)
		}
	}

	for i, row := range report.StrikesByPeriod {
		if !IsValidPeriodLabel(row.Period) {
			return fmt.Errorf("strikes_by_period[%d]: malformed period label %q", i, row.Period)
		}
		if err := validateProportion("strikes_by_period", i, "proportion", row.Proportion); err != nil {
			return err
		}
		if row.NDamaging > row.N {
			return fmt.Errorf("strikes_by_period[%d]: damaging strikes %d exceed count %d", i, row.NDamaging, row.N)
		}
	}

	return nil
}

func validateProportion(table string, row int, field string, v float64) error {
	eps := SummaryValidationRules.ProportionEps
	if v < -eps || v > 1+eps {
		return fmt.Errorf("%s[%d]: %s %.6f outside [0,1]", table, row, field, v)
	}
	return nil
}

func validateTimingTable(table string, rows []FiscalTimingSummary, groupIsPeriod bool) error {
	for i, row := range rows {
		if groupIsPeriod && !IsValidPeriodLabel(row.Group) {
			return fmt.Errorf("%s[%d]: malformed period label %q", table, i, row.Group)
		}
		if row.Group == "" {
			return fmt.Errorf("%s[%d]: empty group", table, i)
		}
		if row.N < 1 {
			return fmt.Errorf("%s[%d]: sample size %d below 1", table, i, row.N)
		}
		if row.Min > row.Q1 || row.Q1 > row.Median || row.Median > row.Q3 || row.Q3 > row.Max {
			return fmt.Errorf("%s[%d]: quartiles out of order", table, i)
		}
		if row.Min < SummaryValidationRules.MinFiscalDay || row.Max > SummaryValidationRules.MaxFiscalDay {
			return fmt.Errorf("%s[%d]: fiscal days outside [%g,%g]", table, i,
				SummaryValidationRules.MinFiscalDay, SummaryValidationRules.MaxFiscalDay)
		}
		if row.SD < 0 || row.SE < 0 {
			return fmt.Errorf("%s[%d]: negative dispersion", table, i)
		}
		if row.CILow > row.CIHigh {
			return fmt.Errorf("%s[%d]: confidence bounds inverted", table, i)
		}
	}
	return nil
}
