package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raptorcli/internal/config"
)

// setupTestWriter builds a CSVWriter rooted in a temp directory tree.
func setupTestWriter(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()

	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	return NewCSVWriter(paths), paths
}

func readBack(t *testing.T, path string) [][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"), "expected UTF-8 BOM")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	writer, paths := setupTestWriter(t)

	err := writer.WriteSimpleCSV("captures_by_period.csv",
		[]string{"period", "n"},
		[][]string{
			{"2020-2021", "42"},
			{"2021-2022", "57"},
		})
	require.NoError(t, err)

	rows := readBack(t, paths.GetReportPath("captures_by_period.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"period", "n"}, rows[0])
	assert.Equal(t, []string{"2020-2021", "42"}, rows[1])
	assert.Equal(t, []string{"2021-2022", "57"}, rows[2])
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	writer, paths := setupTestWriter(t)

	tests := []struct {
		name     string
		filePath string
		wantPath string
	}{
		{
			name:     "clean prefix targets clean dir",
			filePath: "clean/captures_clean.csv",
			wantPath: paths.GetCleanPath("captures_clean.csv"),
		},
		{
			name:     "charts prefix targets charts dir",
			filePath: "charts/captures.html",
			wantPath: paths.GetChartPath("captures.html"),
		},
		{
			name:     "bare name targets reports dir",
			filePath: "summary.csv",
			wantPath: paths.GetReportPath("summary.csv"),
		},
		{
			name:     "absolute path passes through",
			filePath: filepath.Join(paths.DataDir, "elsewhere.csv"),
			wantPath: filepath.Join(paths.DataDir, "elsewhere.csv"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPath, writer.resolvePath(tt.filePath))
		})
	}
}

func TestCSVWriter_Append(t *testing.T) {
	writer, paths := setupTestWriter(t)

	require.NoError(t, writer.WriteSimpleCSV("log.csv",
		[]string{"period", "n"},
		[][]string{{"2020-2021", "1"}}))
	require.NoError(t, writer.AppendToCSV("log.csv",
		[][]string{{"2021-2022", "2"}}))

	rows := readBack(t, paths.GetReportPath("log.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2021-2022", "2"}, rows[2])
}

func TestCSVWriter_CreatesMissingDirectory(t *testing.T) {
	paths := config.NewPaths(t.TempDir())
	// No EnsureDirectories: the writer must create what it needs.
	writer := NewCSVWriter(paths)

	err := writer.WriteSimpleCSV("clean/captures_clean.csv",
		[]string{"source"}, [][]string{{"agency"}})
	require.NoError(t, err)

	_, err = os.Stat(paths.GetCleanPath("captures_clean.csv"))
	assert.NoError(t, err)
}

func TestStreamWriter(t *testing.T) {
	writer, paths := setupTestWriter(t)

	stream, err := writer.CreateStreamWriter("clean/activity_clean.csv", []string{"species", "count"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"RTHA", "3"}))
	require.NoError(t, stream.WriteRecord([]string{"AMKE", "11"}))
	require.NoError(t, stream.Close())

	rows := readBack(t, paths.GetCleanPath("activity_clean.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"AMKE", "11"}, rows[2])
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "13.40", FormatStat(13.4))
	assert.Equal(t, "2.14", FormatStat(2.138089935299395))
	assert.Equal(t, "0.3000", FormatRate(0.3))
	assert.Equal(t, "0.0417", FormatRate(1.0/24.0))
	assert.Equal(t, "42", FormatCount(42))
}
