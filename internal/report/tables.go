package report

import (
	"strings"

	"raptorcli/internal/exporter"
	"raptorcli/pkg/contracts/domain"
)

// Summary table file names, written under the reports directory. The
// workbook uses the same names (minus extension) as sheet names, so they
// must stay within the 31-character sheet name limit.
const (
	CapturesByPeriodCSV       = "captures_by_period.csv"
	CapturesByPeriodMethodCSV = "captures_by_period_method.csv"
	TimingByPeriodCSV         = "capture_timing_by_period.csv"
	TimingBySpeciesCSV        = "capture_timing_by_species.csv"
	CapturesByPeriodDielCSV   = "captures_by_period_diel.csv"
	ActivityByPeriodCSV       = "activity_by_period_species.csv"
	StrikesByPeriodCSV        = "strikes_by_period.csv"
)

// summaryTable is one rendered output table: file name, workbook sheet
// name, header and stringified rows. Counts render as integers, rates with
// four decimals and distribution statistics with two, matching the exporter
// format helpers.
type summaryTable struct {
	fileName  string
	sheetName string
	header    []string
	rows      [][]string
}

// renderTables renders every table of a report in its fixed output order.
func renderTables(report *domain.SummaryReport) []summaryTable {
	return []summaryTable{
		capturesByPeriodTable(report.CapturesByPeriod),
		capturesByPeriodMethodTable(report.CapturesByPeriodMethod),
		timingTableRows(TimingByPeriodCSV, "period", report.TimingByPeriod),
		timingTableRows(TimingBySpeciesCSV, "species", report.TimingBySpecies),
		capturesByPeriodDielTable(report.CapturesByPeriodDiel),
		activityByPeriodTable(report.ActivityByPeriod),
		strikesByPeriodTable(report.StrikesByPeriod),
	}
}

func sheetName(fileName string) string {
	return strings.TrimSuffix(fileName, ".csv")
}

func capturesByPeriodTable(rows []domain.PeriodCaptureSummary) summaryTable {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Period,
			exporter.FormatCount(r.N),
			exporter.FormatRate(r.Proportion),
			exporter.FormatCount(r.DistinctBands),
			exporter.FormatCount(r.Recaptures),
			exporter.FormatRate(r.RecaptureRate),
		}
	}
	return summaryTable{
		fileName:  CapturesByPeriodCSV,
		sheetName: sheetName(CapturesByPeriodCSV),
		header:    []string{"period", "n", "proportion", "distinct_bands", "recaptures", "recapture_rate"},
		rows:      out,
	}
}

func capturesByPeriodMethodTable(rows []domain.PeriodMethodSummary) summaryTable {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Period,
			r.Method,
			exporter.FormatCount(r.N),
			exporter.FormatRate(r.ProportionOfPeriod),
		}
	}
	return summaryTable{
		fileName:  CapturesByPeriodMethodCSV,
		sheetName: sheetName(CapturesByPeriodMethodCSV),
		header:    []string{"period", "method", "n", "proportion_of_period"},
		rows:      out,
	}
}

func timingTableRows(fileName, keyHeader string, rows []domain.FiscalTimingSummary) summaryTable {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Group,
			exporter.FormatCount(r.N),
			exporter.FormatStat(r.Mean),
			exporter.FormatStat(r.SD),
			exporter.FormatStat(r.SE),
			exporter.FormatStat(r.CILow),
			exporter.FormatStat(r.CIHigh),
			exporter.FormatStat(r.Min),
			exporter.FormatStat(r.Q1),
			exporter.FormatStat(r.Median),
			exporter.FormatStat(r.Q3),
			exporter.FormatStat(r.Max),
		}
	}
	return summaryTable{
		fileName:  fileName,
		sheetName: sheetName(fileName),
		header: []string{
			keyHeader, "n", "mean", "sd", "se", "ci95_low", "ci95_high",
			"min", "q1", "median", "q3", "max",
		},
		rows: out,
	}
}

func capturesByPeriodDielTable(rows []domain.PeriodDielSummary) summaryTable {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Period, r.DielPeriod, exporter.FormatCount(r.N)}
	}
	return summaryTable{
		fileName:  CapturesByPeriodDielCSV,
		sheetName: sheetName(CapturesByPeriodDielCSV),
		header:    []string{"period", "diel_period", "n"},
		rows:      out,
	}
}

func activityByPeriodTable(rows []domain.PeriodActivitySummary) summaryTable {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Period,
			r.Species,
			exporter.FormatCount(r.NSurveys),
			exporter.FormatCount(r.TotalCount),
		}
	}
	return summaryTable{
		fileName:  ActivityByPeriodCSV,
		sheetName: sheetName(ActivityByPeriodCSV),
		header:    []string{"period", "species", "n_surveys", "total_count"},
		rows:      out,
	}
}

func strikesByPeriodTable(rows []domain.PeriodStrikeSummary) summaryTable {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Period,
			exporter.FormatCount(r.N),
			exporter.FormatRate(r.Proportion),
			exporter.FormatCount(r.NDamaging),
		}
	}
	return summaryTable{
		fileName:  StrikesByPeriodCSV,
		sheetName: sheetName(StrikesByPeriodCSV),
		header:    []string{"period", "n", "proportion", "n_damaging"},
		rows:      out,
	}
}
