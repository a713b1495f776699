package importer

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	jerrors "forex-journal/internal/errors"
	"forex-journal/internal/normalize"
)

// ReadWorkbook loads a sheet from an xlsx workbook as a cell grid. Cells are
// read raw so date and time serial numbers survive instead of arriving
// pre-formatted by the workbook's display settings. An empty sheet name
// selects the workbook's first sheet.
func ReadWorkbook(path, sheet string) ([][]normalize.Cell, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, jerrors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, jerrors.Wrapf(jerrors.ErrSheetNotFound, "%q", sheet)
	}

	grid := make([][]normalize.Cell, len(rows))
	for i, row := range rows {
		cells := make([]normalize.Cell, len(row))
		for j, raw := range row {
			cells[j] = parseRawCell(raw)
		}
		grid[i] = cells
	}
	return grid, nil
}

// parseRawCell distinguishes numeric cells from text. Raw xlsx numerics
// include date and time serials, which the normalizer converts itself.
func parseRawCell(raw string) normalize.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return normalize.NumberCell(v)
		}
	}
	return normalize.TextCell(raw)
}
