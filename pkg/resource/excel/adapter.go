// Package excel loads and saves tables as xlsx workbooks.
package excel

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kasuganosora/autojoin/pkg/types"
)

// Load reads one sheet of an xlsx workbook into a table. An empty sheet
// name selects the first sheet. The first row is the header.
func Load(path, sheetName string) (*types.Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file %q: %w", path, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in excel file %q", path)
	}
	if sheetName == "" {
		sheetName = sheets[0]
	} else {
		found := false
		for _, sheet := range sheets {
			if sheet == sheetName {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("sheet not found in %q: %s", path, sheetName)
		}
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read excel rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty: %s", sheetName)
	}

	header := rows[0]
	dataRows := rows[1:]

	t := types.NewTable(label(path))
	for i, name := range header {
		raw := make([]string, len(dataRows))
		for r, row := range dataRows {
			if i < len(row) {
				raw[r] = strings.TrimSpace(row[i])
			}
		}
		if err := t.AddColumn(types.NewTextColumn(strings.TrimSpace(name), raw)); err != nil {
			return nil, fmt.Errorf("excel file %q: %w", path, err)
		}
	}
	return t, nil
}

// Save writes a table as a single-sheet xlsx workbook
func Save(t *types.Table, path string) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := t.Label
	if sheet == "" {
		sheet = "Sheet1"
	}
	index, err := file.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	file.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := file.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}

	header := make([]interface{}, len(t.Columns))
	for i, name := range t.ColumnNames() {
		header[i] = name
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < t.RowCount(); i++ {
		row := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			v := c.Values[i]
			switch v.Kind {
			case types.KindNumber:
				row[j] = v.Num
			case types.KindDatetime:
				row[j] = v.Time
			case types.KindText:
				row[j] = v.Str
			default:
				row[j] = nil
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save excel file %q: %w", path, err)
	}
	return nil
}

func label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
