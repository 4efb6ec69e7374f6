package dataprocessing

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"raptorcli/internal/errors"
)

// bandingSheetNames are tried in order before falling back to scanning
// every sheet for banding headers. Lab exports have shipped under all of
// these over the years.
var bandingSheetNames = []string{
	"Banding Records",
	"Banding",
	"Records",
	"Export",
	"Sheet1",
}

// bandingRequired lists the columns a lab export must carry;
// BANDING_LOCATION is optional.
var bandingRequired = []string{
	"band_number",
	"species_name",
	"banding_month",
	"banding_day",
	"banding_year",
	"capture_method",
	"disposition",
}

// LoadBandingWorkbook reads one banding-lab XLSX export. The sheet name and
// header row position are probed, not assumed. Rows with non-numeric date
// parts are skipped with a warning; numeric but calendar-invalid dates keep
// the record with the date marked invalid.
func (l *Loader) LoadBandingWorkbook(path string) ([]CaptureRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("open %s", filepath.Base(path)), err)
	}
	defer f.Close()

	base := filepath.Base(path)
	rows, sheetName, err := findBandingSheet(f)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("%s: %v", base, err), nil)
	}

	headerRow, cols := findBandingHeader(rows)
	if headerRow == -1 {
		return nil, errors.NewParsingError(
			fmt.Sprintf("%s: could not find banding header row in sheet %q", base, sheetName), nil)
	}
	for _, name := range bandingRequired {
		if _, ok := cols[name]; !ok {
			return nil, errors.NewParsingError(
				fmt.Sprintf("%s missing required column %q", base, strings.ToUpper(name)), nil)
		}
	}

	l.logger.Debug("Banding header located",
		slog.String("file", base),
		slog.String("sheet", sheetName),
		slog.Int("header_row", headerRow+1))

	records := make([]CaptureRecord, 0, len(rows)-headerRow-1)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if rowEmpty(row) {
			continue
		}

		month, monthErr := strconv.Atoi(cell(row, cols, "banding_month"))
		day, dayErr := strconv.Atoi(cell(row, cols, "banding_day"))
		year, yearErr := strconv.Atoi(cell(row, cols, "banding_year"))
		if monthErr != nil || dayErr != nil || yearErr != nil {
			l.logger.Warn("Non-numeric banding date parts, row skipped",
				slog.String("file", base),
				slog.String("sheet", sheetName),
				slog.Int("row", i+1))
			continue
		}

		rec := CaptureRecord{
			Source:    SourceBandingLab,
			BandID:    strings.ToUpper(cell(row, cols, "band_number")),
			Species:   cell(row, cols, "species_name"),
			Year:      year,
			Month:     month,
			Day:       day,
			DateValid: true,
			Site:      strings.ToUpper(cell(row, cols, "banding_location")),
			Method:    cell(row, cols, "capture_method"),
			Outcome:   cell(row, cols, "disposition"),
		}

		if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 {
			l.logger.Warn("Implausible banding date, record kept without period",
				slog.String("file", base),
				slog.String("sheet", sheetName),
				slog.Int("row", i+1),
				slog.Int("year", year),
				slog.Int("month", month),
				slog.Int("day", day))
			rec.DateValid = false
		}

		records = append(records, rec)
	}

	l.logger.Info("Banding workbook loaded",
		slog.String("file", base),
		slog.String("sheet", sheetName),
		slog.Int("records", len(records)))
	return records, nil
}

// findBandingSheet returns the rows of the sheet holding banding records.
// Known sheet names are tried first; otherwise every sheet is scanned for a
// row mentioning both band number and species columns.
func findBandingSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range bandingSheetNames {
		if rows, err := f.GetRows(name); err == nil && len(rows) > 0 {
			return rows, name, nil
		}
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		limit := len(rows)
		if limit > 10 {
			limit = 10
		}
		for _, row := range rows[:limit] {
			rowText := strings.ToLower(strings.Join(row, " "))
			if strings.Contains(rowText, "band_number") && strings.Contains(rowText, "species_name") {
				return rows, name, nil
			}
		}
	}

	return nil, "", fmt.Errorf("could not find banding records sheet")
}

// findBandingHeader locates the header row and builds the lower-cased
// column name → index map. Returns headerRow == -1 when no row qualifies.
func findBandingHeader(rows [][]string) (int, map[string]int) {
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		rowText := strings.ToLower(strings.Join(row, " "))
		if !strings.Contains(rowText, "band_number") || !strings.Contains(rowText, "banding_year") {
			continue
		}

		cols := make(map[string]int, len(row))
		for j, header := range row {
			key := strings.ToLower(strings.TrimSpace(header))
			if key == "" {
				continue
			}
			if _, exists := cols[key]; !exists {
				cols[key] = j
			}
		}
		return i, cols
	}
	return -1, nil
}
