package dataprocessing

import (
	"log/slog"
	"path/filepath"
	"strings"
)

// strikeRequired lists the columns a strike extract must carry;
// INCIDENT_TIME and DAMAGE are optional. Header matching is
// case-insensitive, so the extract's upper-case dialect maps cleanly.
var strikeRequired = []string{
	"incident_date",
	"species",
	"airport_id",
}

// LoadStrikeReports reads one aircraft-strike extract CSV.
func (l *Loader) LoadStrikeReports(path string) ([]StrikeRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	cols, err := mapColumns(rows[0], strikeRequired, path)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	records := make([]StrikeRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if rowEmpty(row) {
			continue
		}

		rec := StrikeRecord{
			Species:   cell(row, cols, "species"),
			AirportID: strings.ToUpper(cell(row, cols, "airport_id")),
			Damage:    cell(row, cols, "damage"),
		}

		rawDate := cell(row, cols, "incident_date")
		if date, err := parseDate(rawDate); err != nil {
			l.logger.Warn("Unparseable incident date, record kept without period",
				slog.String("file", base),
				slog.Int("line", line),
				slog.String("value", rawDate))
		} else {
			rec.Year, rec.Month, rec.Day = splitDate(date)
			rec.DateValid = true
		}

		rawClock := cell(row, cols, "incident_time")
		clock, ok := normalizeClock(rawClock)
		if !ok {
			l.logger.Warn("Unparseable incident time, field left empty",
				slog.String("file", base),
				slog.Int("line", line),
				slog.String("value", rawClock))
		}
		rec.TimeOfDay = clock

		records = append(records, rec)
	}

	l.logger.Info("Strike extract loaded",
		slog.String("file", base),
		slog.Int("records", len(records)))
	return records, nil
}
