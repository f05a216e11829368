// Package parquet loads and saves tables as parquet files.
package parquet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	pq "github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"github.com/kasuganosora/autojoin/pkg/types"
)

// Load reads a parquet file into a table. Numeric leaves become numeric
// values, timestamp-annotated int64 leaves become datetimes, everything
// else becomes text.
func Load(path string) (*types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file %q: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat parquet file %q: %w", path, err)
	}
	pf, err := pq.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file %q: %w", path, err)
	}

	fields := pf.Schema().Fields()
	columns := make([]*types.Column, len(fields))
	tsConvert := make([]func(int64) time.Time, len(fields))
	for i, field := range fields {
		columns[i] = types.NewColumn(field.Name(), types.TypeText, nil)
		if field.Leaf() {
			if lt := field.Type().LogicalType(); lt != nil && lt.Timestamp != nil {
				tsConvert[i] = timestampConverter(lt.Timestamp.Unit)
			}
		}
	}

	reader := pq.NewReader(f)
	defer reader.Close()

	buf := make([]pq.Row, 128)
	for {
		n, err := reader.ReadRows(buf)
		for r := 0; r < n; r++ {
			row := buf[r]
			for i := range columns {
				if i < len(row) {
					columns[i].Values = append(columns[i].Values, parquetValue(row[i], tsConvert[i]))
				} else {
					columns[i].Values = append(columns[i].Values, types.Null())
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read rows from %q: %w", path, err)
		}
	}

	t := types.NewTable(label(path))
	for _, c := range columns {
		c.Type = inferColumnType(c)
		if err := t.AddColumn(c); err != nil {
			return nil, fmt.Errorf("parquet file %q: %w", path, err)
		}
	}
	return t, nil
}

// timestampConverter maps the file's declared time unit to a time.Time
// constructor
func timestampConverter(unit format.TimeUnit) func(int64) time.Time {
	switch {
	case unit.Micros != nil:
		return func(n int64) time.Time { return time.UnixMicro(n).UTC() }
	case unit.Nanos != nil:
		return func(n int64) time.Time { return time.Unix(0, n).UTC() }
	default:
		return func(n int64) time.Time { return time.UnixMilli(n).UTC() }
	}
}

// parquetValue converts one parquet leaf value to a table value
func parquetValue(v pq.Value, tsConvert func(int64) time.Time) types.Value {
	if v.IsNull() {
		return types.Null()
	}
	switch v.Kind() {
	case pq.Boolean:
		if v.Boolean() {
			return types.Text("true")
		}
		return types.Text("false")
	case pq.Int32:
		return types.Number(float64(v.Int32()))
	case pq.Int64:
		if tsConvert != nil {
			return types.Datetime(tsConvert(v.Int64()))
		}
		return types.Number(float64(v.Int64()))
	case pq.Float:
		return types.Number(float64(v.Float()))
	case pq.Double:
		return types.Number(v.Double())
	default:
		s := string(v.ByteArray())
		if s == "" {
			return types.Null()
		}
		return types.Text(s)
	}
}

// inferColumnType settles the column's semantic type from its values
func inferColumnType(c *types.Column) types.SemanticType {
	hasNum, hasTime, hasText := false, false, false
	for _, v := range c.Values {
		switch v.Kind {
		case types.KindNumber:
			hasNum = true
		case types.KindDatetime:
			hasTime = true
		case types.KindText:
			hasText = true
		}
	}
	switch {
	case hasNum && !hasTime && !hasText:
		return types.TypeNumeric
	case hasTime && !hasNum && !hasText:
		return types.TypeDatetime
	default:
		return types.TypeText
	}
}

// Save writes a table to a parquet file atomically, snappy-compressed
func Save(t *types.Table, path string) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".parquet_tmp_*.parquet")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	group := make(pq.Group)
	for _, c := range t.Columns {
		group[c.Name] = pq.Optional(parquetNode(c.Type))
	}
	schema := pq.NewSchema(t.Label, group)

	writer := pq.NewGenericWriter[map[string]interface{}](tmpFile, schema, pq.Compression(&pq.Snappy))

	batch := make([]map[string]interface{}, 0, 1024)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := writer.Write(batch); err != nil {
			return fmt.Errorf("failed to write rows: %w", err)
		}
		batch = batch[:0]
		return nil
	}
	for i := 0; i < t.RowCount(); i++ {
		row := make(map[string]interface{}, len(t.Columns))
		for _, c := range t.Columns {
			row[c.Name] = goValue(c.Values[i])
		}
		batch = append(batch, row)
		if len(batch) >= 1024 {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}

func parquetNode(t types.SemanticType) pq.Node {
	switch t {
	case types.TypeNumeric:
		return pq.Leaf(pq.DoubleType)
	case types.TypeDatetime:
		return pq.Timestamp(pq.Millisecond)
	default:
		return pq.String()
	}
}

func goValue(v types.Value) interface{} {
	switch v.Kind {
	case types.KindNumber:
		return v.Num
	case types.KindDatetime:
		return v.Time.UnixMilli()
	case types.KindText:
		return v.Str
	default:
		return nil
	}
}

func label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
