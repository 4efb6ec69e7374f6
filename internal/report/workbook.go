package report

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"raptorcli/internal/config"
	"raptorcli/internal/errors"
)

// writeWorkbook persists every summary table as one sheet of a single XLSX
// workbook, in the same order and with the same cell text as the CSVs.
func (g *Generator) writeWorkbook(ctx context.Context, tables []summaryTable) error {
	path := g.paths.GetReportPath(config.SummaryWorkbookFileName)
	g.logger.InfoContext(ctx, "writing summary workbook",
		slog.String("path", path),
		slog.Int("sheets", len(tables)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for summary workbook", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", table.sheetName); err != nil {
				return errors.NewStorageError("failed to name workbook sheet", err)
			}
		} else {
			if _, err := f.NewSheet(table.sheetName); err != nil {
				return errors.NewStorageError("failed to add workbook sheet", err)
			}
		}

		if err := writeSheetRow(f, table.sheetName, 1, table.header); err != nil {
			return err
		}
		for r, row := range table.rows {
			if err := writeSheetRow(f, table.sheetName, r+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save summary workbook", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return errors.NewStorageError("failed to compute workbook cell name", err)
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return errors.NewStorageError("failed to write workbook row", err)
	}
	return nil
}
