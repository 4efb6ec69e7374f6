package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"raptorcli/internal/dataprocessing"
	"raptorcli/internal/migration"
	"raptorcli/pkg/contracts/domain"
)

// dielOrder fixes the row order of diel buckets within a period: the day
// cycle first, then the Unknown bucket for captures whose diel period could
// not be determined.
var dielOrder = map[string]int{
	migration.DielDawn:  0,
	migration.DielDay:   1,
	migration.DielDusk:  2,
	migration.DielNight: 3,
	domain.DielUnknown:  4,
}

// Summarizer is the Single Source of Truth for the aggregate migration
// tables. All summary output — CSV, JSON and workbook — is built from its
// results, never recomputed elsewhere.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer. A nil logger falls back to the default.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Summarize builds every aggregate table from prepared records. Metadata is
// left for the caller to fill; the returned report is otherwise complete.
func (s *Summarizer) Summarize(
	ctx context.Context,
	captures []dataprocessing.CaptureRecord,
	activity []dataprocessing.ActivityRecord,
	strikes []dataprocessing.StrikeRecord,
) (*domain.SummaryReport, error) {
	s.logger.InfoContext(ctx, "building migration summary tables",
		slog.Int("captures", len(captures)),
		slog.Int("surveys", len(activity)),
		slog.Int("strikes", len(strikes)))

	byPeriod, err := s.CapturesByPeriod(captures)
	if err != nil {
		return nil, err
	}
	byMethod, err := s.CapturesByPeriodMethod(captures)
	if err != nil {
		return nil, err
	}
	timingByPeriod, err := s.TimingByPeriod(captures)
	if err != nil {
		return nil, err
	}
	timingBySpecies, err := s.TimingBySpecies(captures)
	if err != nil {
		return nil, err
	}
	byStrike, err := s.StrikesByPeriod(strikes)
	if err != nil {
		return nil, err
	}

	report := &domain.SummaryReport{
		CapturesByPeriod:       byPeriod,
		CapturesByPeriodMethod: byMethod,
		TimingByPeriod:         timingByPeriod,
		TimingBySpecies:        timingBySpecies,
		CapturesByPeriodDiel:   s.CapturesByPeriodDiel(captures),
		ActivityByPeriod:       s.ActivityByPeriodSpecies(activity),
		StrikesByPeriod:        byStrike,
	}

	s.logger.InfoContext(ctx, "migration summary tables built",
		slog.Int("periods", len(report.CapturesByPeriod)),
		slog.Int("timing_species", len(report.TimingBySpecies)))

	return report, nil
}

// CapturesByPeriod aggregates capture counts, band statistics and the
// recapture rate per migration period. Recaptures are banded captures beyond
// the first capture of each band; captures without a band ID never count as
// recaptures.
func (s *Summarizer) CapturesByPeriod(captures []dataprocessing.CaptureRecord) ([]domain.PeriodCaptureSummary, error) {
	groups := make(map[string][]dataprocessing.CaptureRecord)
	for _, rec := range captures {
		groups[rec.MigrationLabel] = append(groups[rec.MigrationLabel], rec)
	}

	total := len(captures)
	rows := make([]domain.PeriodCaptureSummary, 0, len(groups))
	for period, recs := range groups {
		n := len(recs)
		prop, err := proportion(n, total)
		if err != nil {
			return nil, fmt.Errorf("captures_by_period %s: %w", period, err)
		}

		bands := make(map[string]struct{})
		banded := 0
		for _, rec := range recs {
			if rec.BandID == "" {
				continue
			}
			banded++
			bands[rec.BandID] = struct{}{}
		}
		recaptures := banded - len(bands)

		rate, err := proportion(recaptures, n)
		if err != nil {
			return nil, fmt.Errorf("captures_by_period %s: %w", period, err)
		}

		rows = append(rows, domain.PeriodCaptureSummary{
			Period:        period,
			N:             n,
			Proportion:    prop,
			DistinctBands: len(bands),
			Recaptures:    recaptures,
			RecaptureRate: rate,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Period < rows[j].Period
	})
	return rows, nil
}

// CapturesByPeriodMethod aggregates capture counts per period and capture
// method, with each row's share of its period total.
func (s *Summarizer) CapturesByPeriodMethod(captures []dataprocessing.CaptureRecord) ([]domain.PeriodMethodSummary, error) {
	type key struct{ period, method string }
	counts := make(map[key]int)
	periodTotals := make(map[string]int)
	for _, rec := range captures {
		counts[key{rec.MigrationLabel, rec.Method}]++
		periodTotals[rec.MigrationLabel]++
	}

	rows := make([]domain.PeriodMethodSummary, 0, len(counts))
	for k, n := range counts {
		prop, err := proportion(n, periodTotals[k.period])
		if err != nil {
			return nil, fmt.Errorf("captures_by_period_method %s/%s: %w", k.period, k.method, err)
		}
		rows = append(rows, domain.PeriodMethodSummary{
			Period:             k.period,
			Method:             k.method,
			N:                  n,
			ProportionOfPeriod: prop,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Period != rows[j].Period {
			return rows[i].Period < rows[j].Period
		}
		return rows[i].Method < rows[j].Method
	})
	return rows, nil
}

// TimingByPeriod summarizes the fiscal day-of-year distribution of captures
// within each migration period.
func (s *Summarizer) TimingByPeriod(captures []dataprocessing.CaptureRecord) ([]domain.FiscalTimingSummary, error) {
	samples := make(map[string][]float64)
	for _, rec := range captures {
		samples[rec.MigrationLabel] = append(samples[rec.MigrationLabel], float64(rec.FiscalDayOfYear))
	}
	return s.timingTable("capture_timing_by_period", samples)
}

// TimingBySpecies summarizes the fiscal day-of-year distribution of captures
// per species, pooled across periods.
func (s *Summarizer) TimingBySpecies(captures []dataprocessing.CaptureRecord) ([]domain.FiscalTimingSummary, error) {
	samples := make(map[string][]float64)
	for _, rec := range captures {
		samples[rec.Species] = append(samples[rec.Species], float64(rec.FiscalDayOfYear))
	}
	return s.timingTable("capture_timing_by_species", samples)
}

func (s *Summarizer) timingTable(table string, samples map[string][]float64) ([]domain.FiscalTimingSummary, error) {
	keys := make([]string, 0, len(samples))
	for key := range samples {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]domain.FiscalTimingSummary, 0, len(keys))
	for _, key := range keys {
		row, err := describeTiming(samples[key])
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", table, key, err)
		}
		row.Group = key
		rows = append(rows, row)
	}
	return rows, nil
}

// CapturesByPeriodDiel counts captures per period and diel bucket. Captures
// with no determined diel period land in the Unknown bucket.
func (s *Summarizer) CapturesByPeriodDiel(captures []dataprocessing.CaptureRecord) []domain.PeriodDielSummary {
	type key struct{ period, diel string }
	counts := make(map[key]int)
	for _, rec := range captures {
		diel := rec.DielPeriod
		if diel == "" {
			diel = domain.DielUnknown
		}
		counts[key{rec.MigrationLabel, diel}]++
	}

	rows := make([]domain.PeriodDielSummary, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, domain.PeriodDielSummary{
			Period:     k.period,
			DielPeriod: k.diel,
			N:          n,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Period != rows[j].Period {
			return rows[i].Period < rows[j].Period
		}
		return dielOrder[rows[i].DielPeriod] < dielOrder[rows[j].DielPeriod]
	})
	return rows
}

// ActivityByPeriodSpecies aggregates survey effort and observed individuals
// per period and species.
func (s *Summarizer) ActivityByPeriodSpecies(activity []dataprocessing.ActivityRecord) []domain.PeriodActivitySummary {
	type key struct{ period, species string }
	type agg struct {
		surveys int
		count   int
	}
	groups := make(map[key]*agg)
	for _, rec := range activity {
		k := key{rec.MigrationLabel, rec.Species}
		a, ok := groups[k]
		if !ok {
			a = &agg{}
			groups[k] = a
		}
		a.surveys++
		a.count += rec.Count
	}

	rows := make([]domain.PeriodActivitySummary, 0, len(groups))
	for k, a := range groups {
		rows = append(rows, domain.PeriodActivitySummary{
			Period:     k.period,
			Species:    k.species,
			NSurveys:   a.surveys,
			TotalCount: a.count,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Period != rows[j].Period {
			return rows[i].Period < rows[j].Period
		}
		return rows[i].Species < rows[j].Species
	})
	return rows
}

// StrikesByPeriod aggregates strike counts and damaging-strike counts per
// migration period.
func (s *Summarizer) StrikesByPeriod(strikes []dataprocessing.StrikeRecord) ([]domain.PeriodStrikeSummary, error) {
	groups := make(map[string][]dataprocessing.StrikeRecord)
	for _, rec := range strikes {
		groups[rec.MigrationLabel] = append(groups[rec.MigrationLabel], rec)
	}

	total := len(strikes)
	rows := make([]domain.PeriodStrikeSummary, 0, len(groups))
	for period, recs := range groups {
		prop, err := proportion(len(recs), total)
		if err != nil {
			return nil, fmt.Errorf("strikes_by_period %s: %w", period, err)
		}
		damaging := 0
		for _, rec := range recs {
			if rec.Damaging() {
				damaging++
			}
		}
		rows = append(rows, domain.PeriodStrikeSummary{
			Period:     period,
			N:          len(recs),
			Proportion: prop,
			NDamaging:  damaging,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Period < rows[j].Period
	})
	return rows, nil
}
