// Package csv loads and saves tables as delimited text files.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kasuganosora/autojoin/pkg/types"
)

// delimiters tried in order until one yields more than a single column
var delimiters = []rune{',', ';', '\t'}

// Load reads a CSV file into a table. The first row is the header. The
// delimiter is sniffed: when parsing with a delimiter produces a single
// column, the next candidate is tried.
func Load(path string) (*types.Table, error) {
	var single *types.Table
	var lastErr error
	for _, delim := range delimiters {
		t, err := loadWith(path, delim)
		if err != nil {
			lastErr = err
			continue
		}
		if len(t.Columns) > 1 {
			return t, nil
		}
		// A single column may be genuine; keep it as the fallback while
		// the remaining delimiters are tried.
		if single == nil {
			single = t
		}
	}
	if single != nil {
		return single, nil
	}
	return nil, lastErr
}

// LoadWithDelimiter reads a CSV file using an explicit delimiter
func LoadWithDelimiter(path string, delimiter rune) (*types.Table, error) {
	return loadWith(path, delimiter)
}

func loadWith(path string, delimiter rune) (*types.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file %q is empty", path)
	}

	header := records[0]
	rows := records[1:]

	t := types.NewTable(label(path))
	for i, name := range header {
		raw := make([]string, len(rows))
		for r, row := range rows {
			if i < len(row) {
				raw[r] = strings.TrimSpace(row[i])
			}
		}
		if err := t.AddColumn(types.NewTextColumn(strings.TrimSpace(name), raw)); err != nil {
			return nil, fmt.Errorf("CSV file %q: %w", path, err)
		}
	}
	return t, nil
}

// Save writes a table as a comma-separated file
func Save(t *types.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := 0; i < t.RowCount(); i++ {
		record := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			record[j] = c.Values[i].String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
