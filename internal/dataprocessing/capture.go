package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"raptorcli/internal/errors"
)

// Loader reads raw field-data files into canonical records.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// agencyRequired lists the columns an agency capture log must carry;
// capture_time is optional.
var agencyRequired = []string{
	"capture_date",
	"band_id",
	"species_code",
	"zone",
	"site_code",
	"method_code",
	"outcome",
}

// LoadAgencyCaptures reads one agency capture log CSV. Rows with
// unparseable dates or times are kept with the field marked missing;
// completely empty rows are skipped.
func (l *Loader) LoadAgencyCaptures(path string) ([]CaptureRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	cols, err := mapColumns(rows[0], agencyRequired, path)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	records := make([]CaptureRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header row
		if rowEmpty(row) {
			continue
		}

		rec := CaptureRecord{
			Source:  SourceAgency,
			BandID:  strings.ToUpper(cell(row, cols, "band_id")),
			Species: strings.ToUpper(cell(row, cols, "species_code")),
			Zone:    cell(row, cols, "zone"),
			Site:    strings.ToUpper(cell(row, cols, "site_code")),
			Method:  cell(row, cols, "method_code"),
			Outcome: cell(row, cols, "outcome"),
		}

		rawDate := cell(row, cols, "capture_date")
		if date, err := parseDate(rawDate); err != nil {
			l.logger.Warn("Unparseable capture date, record kept without period",
				slog.String("file", base),
				slog.Int("line", line),
				slog.String("value", rawDate))
		} else {
			rec.Year, rec.Month, rec.Day = splitDate(date)
			rec.DateValid = true
		}

		rawClock := cell(row, cols, "capture_time")
		clock, ok := normalizeClock(rawClock)
		if !ok {
			l.logger.Warn("Unparseable capture time, field left empty",
				slog.String("file", base),
				slog.Int("line", line),
				slog.String("value", rawClock))
		}
		rec.TimeOfDay = clock

		records = append(records, rec)
	}

	l.logger.Info("Agency capture log loaded",
		slog.String("file", base),
		slog.Int("records", len(records)))
	return records, nil
}

// readCSV reads a whole CSV file. Ragged rows are tolerated here; loaders
// check lengths per row through the column map.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("open %s", filepath.Base(path)), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("read %s", filepath.Base(path)), err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParsingError(fmt.Sprintf("%s is empty", filepath.Base(path)), nil)
	}
	return rows, nil
}

// mapColumns builds a case-insensitive header name → index map and verifies
// every required column is present. A UTF-8 BOM on the first header cell is
// stripped.
func mapColumns(header []string, required []string, path string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if key == "" {
			continue
		}
		if _, exists := cols[key]; !exists {
			cols[key] = i
		}
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, errors.NewParsingError(
				fmt.Sprintf("%s missing required column %q", filepath.Base(path), name), nil)
		}
	}
	return cols, nil
}

// cell returns the trimmed value of a named column, or "" when the row is
// too short or the column was never mapped.
func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// rowEmpty reports whether every cell in the row is blank.
func rowEmpty(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// splitDate breaks a parsed date into the record's numeric fields.
func splitDate(date time.Time) (year, month, day int) {
	y, m, d := date.Date()
	return y, int(m), d
}
