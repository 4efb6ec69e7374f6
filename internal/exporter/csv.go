// Package exporter writes the pipeline's tabular outputs: clean record
// tables under data/clean and summary tables under data/reports, as CSV
// with a UTF-8 BOM so field biologists can open them straight in Excel.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"raptorcli/internal/config"
)

// utf8BOM marks exported files as UTF-8 so Excel decodes species names
// with diacritics correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes CSV tables into the study's directory layout.
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteSimpleCSV writes a complete table: BOM, header row, then records.
// An existing file at the same path is replaced.
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	file, fullPath, err := w.open(filePath, os.O_TRUNC)
	if err != nil {
		return err
	}
	defer file.Close()

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(records)))

	if _, err := file.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// AppendToCSV appends records to an existing table, leaving the original
// BOM and header row in place.
func (w *CSVWriter) AppendToCSV(filePath string, records [][]string) error {
	file, _, err := w.open(filePath, os.O_APPEND)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// open resolves filePath against the directory layout, creates the parent
// directory when missing and opens the file for writing with modeFlag
// (os.O_TRUNC or os.O_APPEND).
func (w *CSVWriter) open(filePath string, modeFlag int) (*os.File, string, error) {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|modeFlag, 0644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return file, fullPath, nil
}

// StreamWriter writes one table row at a time. The activity table can run
// to tens of thousands of survey rows per season, so the processor streams
// it instead of buffering the rendered rows.
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter opens a stream onto filePath and writes the BOM and
// header row up front.
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	file, fullPath, err := w.open(filePath, os.O_TRUNC)
	if err != nil {
		return nil, err
	}

	slog.Info("Creating CSV stream writer",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("header_count", len(headers)))

	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream.
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes pending rows and closes the underlying file.
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// resolvePath maps a relative file path onto the directory layout: a
// "clean/" prefix targets the clean data directory, "charts/" the charts
// directory, everything else the reports directory. Absolute paths pass
// through.
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}

	switch {
	case strings.HasPrefix(filePath, "clean/"):
		return w.paths.GetCleanPath(strings.TrimPrefix(filePath, "clean/"))
	case strings.HasPrefix(filePath, "charts/"):
		return w.paths.GetChartPath(strings.TrimPrefix(filePath, "charts/"))
	default:
		return w.paths.GetReportPath(filePath)
	}
}
