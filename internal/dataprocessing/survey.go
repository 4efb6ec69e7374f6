package dataprocessing

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
)

// surveyRequired lists the columns an activity survey log must carry. The
// time column is probed separately: obs_time when present, survey_time
// otherwise, none when neither exists.
var surveyRequired = []string{
	"activity_date",
	"species_code",
	"zone",
	"count",
}

// LoadActivitySurveys reads one wildlife-activity survey CSV. Rows with a
// non-numeric count are skipped with a warning; unparseable dates and times
// become missing values on a kept record.
func (l *Loader) LoadActivitySurveys(path string) ([]ActivityRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	cols, err := mapColumns(rows[0], surveyRequired, path)
	if err != nil {
		return nil, err
	}

	timeCol := ""
	if _, ok := cols["obs_time"]; ok {
		timeCol = "obs_time"
	} else if _, ok := cols["survey_time"]; ok {
		timeCol = "survey_time"
	}

	base := filepath.Base(path)
	records := make([]ActivityRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if rowEmpty(row) {
			continue
		}

		count, err := strconv.Atoi(cell(row, cols, "count"))
		if err != nil {
			l.logger.Warn("Non-numeric survey count, row skipped",
				slog.String("file", base),
				slog.Int("line", line),
				slog.String("value", cell(row, cols, "count")))
			continue
		}

		rec := ActivityRecord{
			Species: strings.ToUpper(cell(row, cols, "species_code")),
			Zone:    cell(row, cols, "zone"),
			Count:   count,
		}

		rawDate := cell(row, cols, "activity_date")
		if date, err := parseDate(rawDate); err != nil {
			l.logger.Warn("Unparseable activity date, record kept without period",
				slog.String("file", base),
				slog.Int("line", line),
				slog.String("value", rawDate))
		} else {
			rec.Year, rec.Month, rec.Day = splitDate(date)
			rec.DateValid = true
		}

		if timeCol != "" {
			rawClock := cell(row, cols, timeCol)
			clock, ok := normalizeClock(rawClock)
			if !ok {
				l.logger.Warn("Unparseable survey time, field left empty",
					slog.String("file", base),
					slog.Int("line", line),
					slog.String("value", rawClock))
			}
			rec.TimeOfDay = clock
		}

		records = append(records, rec)
	}

	l.logger.Info("Activity survey log loaded",
		slog.String("file", base),
		slog.Int("records", len(records)))
	return records, nil
}
