package dataprocessing

import (
	"log/slog"
	"strconv"

	"raptorcli/internal/config"
	"raptorcli/internal/exporter"
)

// Clean-table headers. Column order is the on-disk contract between the
// processor and the reporting tools.
var (
	CapturesCleanHeader = []string{
		"source", "band_id", "species", "year", "month", "day", "time",
		"zone", "site", "method", "outcome", "migration_period",
		"migration_start_year", "fiscal_doy", "diel_period",
	}
	ActivityCleanHeader = []string{
		"species", "year", "month", "day", "time", "zone", "count",
		"migration_period", "migration_start_year", "fiscal_doy",
	}
	StrikesCleanHeader = []string{
		"species", "airport_id", "year", "month", "day", "time", "damage",
		"migration_period", "migration_start_year", "fiscal_doy",
	}
)

// WriteCapturesClean persists prepared capture records as the canonical
// clean table.
func WriteCapturesClean(w *exporter.CSVWriter, records []CaptureRecord) error {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.Source,
			r.BandID,
			r.Species,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Day),
			r.TimeOfDay,
			r.Zone,
			r.Site,
			r.Method,
			r.Outcome,
			r.MigrationLabel,
			strconv.Itoa(r.MigrationStartYear),
			strconv.Itoa(r.FiscalDayOfYear),
			r.DielPeriod,
		}
	}
	return w.WriteSimpleCSV("clean/"+config.CapturesCleanFileName, CapturesCleanHeader, rows)
}

// WriteActivityClean persists prepared survey records. Activity is by far
// the largest table, so rows stream to disk instead of buffering.
func WriteActivityClean(w *exporter.CSVWriter, records []ActivityRecord) error {
	stream, err := w.CreateStreamWriter("clean/"+config.ActivityCleanFileName, ActivityCleanHeader)
	if err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Species,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Day),
			r.TimeOfDay,
			r.Zone,
			strconv.Itoa(r.Count),
			r.MigrationLabel,
			strconv.Itoa(r.MigrationStartYear),
			strconv.Itoa(r.FiscalDayOfYear),
		}
		if err := stream.WriteRecord(row); err != nil {
			stream.Close()
			return err
		}
	}
	return stream.Close()
}

// WriteStrikesClean persists prepared strike records.
func WriteStrikesClean(w *exporter.CSVWriter, records []StrikeRecord) error {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.Species,
			r.AirportID,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Day),
			r.TimeOfDay,
			r.Damage,
			r.MigrationLabel,
			strconv.Itoa(r.MigrationStartYear),
			strconv.Itoa(r.FiscalDayOfYear),
		}
	}
	return w.WriteSimpleCSV("clean/"+config.StrikesCleanFileName, StrikesCleanHeader, rows)
}

// ReadCapturesClean loads a clean capture table back into records. Clean
// rows carry valid dates by construction; rows with corrupted numeric
// fields are skipped with a warning.
func (l *Loader) ReadCapturesClean(path string) ([]CaptureRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	cols, err := mapColumns(rows[0], CapturesCleanHeader, path)
	if err != nil {
		return nil, err
	}

	records := make([]CaptureRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if rowEmpty(row) {
			continue
		}
		year, yearErr := strconv.Atoi(cell(row, cols, "year"))
		month, monthErr := strconv.Atoi(cell(row, cols, "month"))
		day, dayErr := strconv.Atoi(cell(row, cols, "day"))
		start, startErr := strconv.Atoi(cell(row, cols, "migration_start_year"))
		fiscal, fiscalErr := strconv.Atoi(cell(row, cols, "fiscal_doy"))
		if yearErr != nil || monthErr != nil || dayErr != nil || startErr != nil || fiscalErr != nil {
			l.logger.Warn("Malformed clean capture row skipped",
				slog.String("file", path),
				slog.Int("line", i+2))
			continue
		}

		records = append(records, CaptureRecord{
			Source:             cell(row, cols, "source"),
			BandID:             cell(row, cols, "band_id"),
			Species:            cell(row, cols, "species"),
			Year:               year,
			Month:              month,
			Day:                day,
			DateValid:          true,
			TimeOfDay:          cell(row, cols, "time"),
			Zone:               cell(row, cols, "zone"),
			Site:               cell(row, cols, "site"),
			Method:             cell(row, cols, "method"),
			Outcome:            cell(row, cols, "outcome"),
			MigrationLabel:     cell(row, cols, "migration_period"),
			MigrationStartYear: start,
			FiscalDayOfYear:    fiscal,
			DielPeriod:         cell(row, cols, "diel_period"),
		})
	}
	return records, nil
}

// ReadActivityClean loads a clean survey table back into records.
func (l *Loader) ReadActivityClean(path string) ([]ActivityRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	cols, err := mapColumns(rows[0], ActivityCleanHeader, path)
	if err != nil {
		return nil, err
	}

	records := make([]ActivityRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if rowEmpty(row) {
			continue
		}
		year, yearErr := strconv.Atoi(cell(row, cols, "year"))
		month, monthErr := strconv.Atoi(cell(row, cols, "month"))
		day, dayErr := strconv.Atoi(cell(row, cols, "day"))
		count, countErr := strconv.Atoi(cell(row, cols, "count"))
		start, startErr := strconv.Atoi(cell(row, cols, "migration_start_year"))
		fiscal, fiscalErr := strconv.Atoi(cell(row, cols, "fiscal_doy"))
		if yearErr != nil || monthErr != nil || dayErr != nil || countErr != nil || startErr != nil || fiscalErr != nil {
			l.logger.Warn("Malformed clean activity row skipped",
				slog.String("file", path),
				slog.Int("line", i+2))
			continue
		}

		records = append(records, ActivityRecord{
			Species:            cell(row, cols, "species"),
			Year:               year,
			Month:              month,
			Day:                day,
			DateValid:          true,
			TimeOfDay:          cell(row, cols, "time"),
			Zone:               cell(row, cols, "zone"),
			Count:              count,
			MigrationLabel:     cell(row, cols, "migration_period"),
			MigrationStartYear: start,
			FiscalDayOfYear:    fiscal,
		})
	}
	return records, nil
}

// ReadStrikesClean loads a clean strike table back into records.
func (l *Loader) ReadStrikesClean(path string) ([]StrikeRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	cols, err := mapColumns(rows[0], StrikesCleanHeader, path)
	if err != nil {
		return nil, err
	}

	records := make([]StrikeRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if rowEmpty(row) {
			continue
		}
		year, yearErr := strconv.Atoi(cell(row, cols, "year"))
		month, monthErr := strconv.Atoi(cell(row, cols, "month"))
		day, dayErr := strconv.Atoi(cell(row, cols, "day"))
		start, startErr := strconv.Atoi(cell(row, cols, "migration_start_year"))
		fiscal, fiscalErr := strconv.Atoi(cell(row, cols, "fiscal_doy"))
		if yearErr != nil || monthErr != nil || dayErr != nil || startErr != nil || fiscalErr != nil {
			l.logger.Warn("Malformed clean strike row skipped",
				slog.String("file", path),
				slog.Int("line", i+2))
			continue
		}

		records = append(records, StrikeRecord{
			Species:            cell(row, cols, "species"),
			AirportID:          cell(row, cols, "airport_id"),
			Year:               year,
			Month:              month,
			Day:                day,
			DateValid:          true,
			TimeOfDay:          cell(row, cols, "time"),
			Damage:             cell(row, cols, "damage"),
			MigrationLabel:     cell(row, cols, "migration_period"),
			MigrationStartYear: start,
			FiscalDayOfYear:    fiscal,
		})
	}
	return records, nil
}
