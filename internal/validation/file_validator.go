// Package validation gates the files and directories the pipeline touches:
// raw source directories before a run starts, output directories before
// anything is written, and individual source files before a loader opens
// them.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileValidator checks source files and directories for the pipeline tools.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a file validator. A nil logger falls back to the
// default.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateInputDirectory checks that an input directory exists. With a
// non-empty pattern it also looks for matching files; finding none is not an
// error, raw sources are allowed to be empty.
func (v *FileValidator) ValidateInputDirectory(dir string, requiredPattern string) error {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return fmt.Errorf("input directory %s does not exist", dir)
	case err != nil:
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	case !info.IsDir():
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return fmt.Errorf("%s is not a directory", dir)
	}

	if requiredPattern == "" {
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, requiredPattern))
	if err != nil {
		return fmt.Errorf("failed to check for files: %w", err)
	}
	if len(matches) == 0 {
		v.logger.Warn("No files matching pattern found",
			slog.String("directory", dir),
			slog.String("pattern", requiredPattern))
		return nil
	}

	v.logger.Info("Input directory validated",
		slog.String("directory", dir),
		slog.Int("files_found", len(matches)),
		slog.String("pattern", requiredPattern))
	return nil
}

// ValidateOutputDirectory ensures an output directory exists and is
// writable, creating it if needed.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Probe with a throwaway file; permission bits alone don't settle it.
	probe := filepath.Join(dir, ".write_test")
	f, err := os.Create(probe)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	f.Close()
	os.Remove(probe)
	return nil
}

// ValidateFile checks that a path names a readable regular file.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("file %s does not exist", path)
	case err != nil:
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	case info.IsDir():
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	f.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ListFiles returns the sorted paths of regular files matching a pattern in a
// directory. Excel lock files ("~$...") are skipped.
func (v *FileValidator) ListFiles(dir string, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		v.logger.Error("Failed to list files",
			slog.String("directory", dir),
			slog.String("pattern", pattern),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		if strings.HasPrefix(filepath.Base(match), "~$") {
			continue
		}
		info, err := os.Stat(match)
		if err == nil && !info.IsDir() {
			files = append(files, match)
		}
	}
	sort.Strings(files)

	v.logger.Debug("Files listed",
		slog.String("directory", dir),
		slog.String("pattern", pattern),
		slog.Int("count", len(files)))
	return files, nil
}

// CountFiles counts files matching a pattern in a directory.
func (v *FileValidator) CountFiles(dir string, pattern string) (int, error) {
	files, err := v.ListFiles(dir, pattern)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// ValidateExcelFile checks that a path names a readable workbook and not a
// lock file left behind by an open workbook.
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Skipping temporary Excel file",
			slog.String("file", path))
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" && ext != ".xls" {
		return fmt.Errorf("file %s is not an Excel file (extension: %s)", path, ext)
	}
	return nil
}

// ValidateCSVFile checks that a path names a readable .csv file.
func (v *FileValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		return fmt.Errorf("file %s is not a CSV file (extension: %s)", path, ext)
	}
	return nil
}
