package dataprocessing

import (
	"log/slog"

	"raptorcli/internal/harmonize"
	"raptorcli/internal/migration"
)

// HarmonizeCaptures maps every record's method and outcome onto the
// controlled vocabulary, then applies the correction rules. It returns the
// harmonized records and the number of times each correction rule fired,
// keyed by rule ID.
func HarmonizeCaptures(records []CaptureRecord) ([]CaptureRecord, map[string]int) {
	corrections := make(map[string]int)
	out := make([]CaptureRecord, len(records))
	for i, rec := range records {
		method := harmonize.Method(rec.Method)
		outcome := harmonize.Outcome(rec.Outcome)
		method, outcome, fired := harmonize.ApplyCorrections(method, outcome)
		for _, id := range fired {
			corrections[id]++
		}
		rec.Method = method
		rec.Outcome = outcome
		out[i] = rec
	}
	return out, corrections
}

// AssignResult reports what a period-assignment pass dropped.
type AssignResult struct {
	ExcludedInvalidDate int
	ExcludedPreStudy    int
}

// Excluded is the total number of records dropped by the pass.
func (r AssignResult) Excluded() int {
	return r.ExcludedInvalidDate + r.ExcludedPreStudy
}

// AssignCapturePeriods fills the derived period fields on every record with
// a valid date and drops the rest: records whose date never parsed, records
// whose numeric date is calendar-invalid, and records dated before the
// study window.
func AssignCapturePeriods(records []CaptureRecord, logger *slog.Logger) ([]CaptureRecord, AssignResult) {
	if logger == nil {
		logger = slog.Default()
	}
	var res AssignResult
	kept := make([]CaptureRecord, 0, len(records))
	for _, rec := range records {
		if !rec.DateValid {
			res.ExcludedInvalidDate++
			continue
		}
		fiscal, err := migration.FiscalDayOfYear(rec.Month, rec.Day)
		if err != nil {
			logger.Warn("Calendar-invalid capture date, record excluded",
				slog.String("source", rec.Source),
				slog.String("band_id", rec.BandID),
				slog.Int("year", rec.Year),
				slog.Int("month", rec.Month),
				slog.Int("day", rec.Day))
			res.ExcludedInvalidDate++
			continue
		}
		start := migration.StartYear(rec.Month, rec.Year)
		if !migration.Included(start) {
			res.ExcludedPreStudy++
			continue
		}
		rec.MigrationStartYear = start
		rec.MigrationLabel = migration.Label(rec.Month, rec.Year)
		rec.FiscalDayOfYear = fiscal
		kept = append(kept, rec)
	}
	return kept, res
}

// AssignActivityPeriods is the period-assignment pass over survey records.
func AssignActivityPeriods(records []ActivityRecord, logger *slog.Logger) ([]ActivityRecord, AssignResult) {
	if logger == nil {
		logger = slog.Default()
	}
	var res AssignResult
	kept := make([]ActivityRecord, 0, len(records))
	for _, rec := range records {
		if !rec.DateValid {
			res.ExcludedInvalidDate++
			continue
		}
		fiscal, err := migration.FiscalDayOfYear(rec.Month, rec.Day)
		if err != nil {
			logger.Warn("Calendar-invalid activity date, record excluded",
				slog.String("species", rec.Species),
				slog.Int("year", rec.Year),
				slog.Int("month", rec.Month),
				slog.Int("day", rec.Day))
			res.ExcludedInvalidDate++
			continue
		}
		start := migration.StartYear(rec.Month, rec.Year)
		if !migration.Included(start) {
			res.ExcludedPreStudy++
			continue
		}
		rec.MigrationStartYear = start
		rec.MigrationLabel = migration.Label(rec.Month, rec.Year)
		rec.FiscalDayOfYear = fiscal
		kept = append(kept, rec)
	}
	return kept, res
}

// AssignStrikePeriods is the period-assignment pass over strike records.
func AssignStrikePeriods(records []StrikeRecord, logger *slog.Logger) ([]StrikeRecord, AssignResult) {
	if logger == nil {
		logger = slog.Default()
	}
	var res AssignResult
	kept := make([]StrikeRecord, 0, len(records))
	for _, rec := range records {
		if !rec.DateValid {
			res.ExcludedInvalidDate++
			continue
		}
		fiscal, err := migration.FiscalDayOfYear(rec.Month, rec.Day)
		if err != nil {
			logger.Warn("Calendar-invalid incident date, record excluded",
				slog.String("airport", rec.AirportID),
				slog.Int("year", rec.Year),
				slog.Int("month", rec.Month),
				slog.Int("day", rec.Day))
			res.ExcludedInvalidDate++
			continue
		}
		start := migration.StartYear(rec.Month, rec.Year)
		if !migration.Included(start) {
			res.ExcludedPreStudy++
			continue
		}
		rec.MigrationStartYear = start
		rec.MigrationLabel = migration.Label(rec.Month, rec.Year)
		rec.FiscalDayOfYear = fiscal
		kept = append(kept, rec)
	}
	return kept, res
}

// ClassifyCaptureDiel fills the diel period on each capture that has a
// valid date, a time of day and a site. Everything else keeps an empty diel
// period; the classifier itself warns on unknown sites.
func ClassifyCaptureDiel(records []CaptureRecord, classifier *migration.DielClassifier) []CaptureRecord {
	out := make([]CaptureRecord, len(records))
	for i, rec := range records {
		if rec.DateValid && rec.TimeOfDay != "" && rec.Site != "" {
			rec.DielPeriod = classifier.Classify(rec.Site, rec.Year, rec.Month, rec.Day, rec.TimeOfDay)
		}
		out[i] = rec
	}
	return out
}
