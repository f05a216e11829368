// Package sqlite loads and saves tables in SQLite database files.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kasuganosora/autojoin/pkg/types"
)

// Load reads a table from a SQLite database file. When tableName is
// empty, the file must contain exactly one user table.
func Load(ctx context.Context, path, tableName string) (*types.Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}
	defer db.Close()

	if tableName == "" {
		tables, err := userTables(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("sqlite database %q: %w", path, err)
		}
		switch len(tables) {
		case 0:
			return nil, fmt.Errorf("sqlite database %q has no tables", path)
		case 1:
			tableName = tables[0]
		default:
			return nil, fmt.Errorf("sqlite database %q has %d tables, specify one of: %s",
				path, len(tables), strings.Join(tables, ", "))
		}
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", quoteIdent(tableName)))
	if err != nil {
		return nil, fmt.Errorf("failed to query table %q: %w", tableName, err)
	}
	defer rows.Close()

	t, err := scanRows(rows, label(path))
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", tableName, err)
	}
	return t, nil
}

// userTables returns all user table names in the database
func userTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("get tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// scanRows converts a generic result set into a table
func scanRows(rows *sql.Rows, tableLabel string) (*types.Table, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	columns := make([]*types.Column, len(names))
	for i, name := range names {
		columns[i] = types.NewColumn(name, types.TypeText, nil)
	}

	for rows.Next() {
		values := make([]interface{}, len(names))
		scanTargets := make([]interface{}, len(names))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			columns[i].Values = append(columns[i].Values, types.FromAny(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	t := types.NewTable(tableLabel)
	for _, c := range columns {
		c.Type = settleType(c)
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// settleType picks a semantic type when every non-null value agrees on it
func settleType(c *types.Column) types.SemanticType {
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

// Save writes a table into a SQLite database file, replacing any
// existing table with the same name.
func Save(ctx context.Context, t *types.Table, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}
	defer db.Close()

	tableName := t.Label
	if tableName == "" {
		tableName = label(path)
	}

	cols := make([]string, len(t.Columns))
	placeholders := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = fmt.Sprintf("%s %s", quoteIdent(c.Name), sqliteType(c.Type))
		placeholders[i] = "?"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(tableName))); err != nil {
		return fmt.Errorf("failed to drop table %q: %w", tableName, err)
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %q: %w", tableName, err)
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(tableName), strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < t.RowCount(); i++ {
		args := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			args[j] = bindValue(c.Values[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func sqliteType(t types.SemanticType) string {
	switch t {
	case types.TypeNumeric:
		return "REAL"
	default:
		return "TEXT"
	}
}

func bindValue(v types.Value) interface{} {
	switch v.Kind {
	case types.KindNumber:
		return v.Num
	case types.KindDatetime:
		return v.Time.Format(time.RFC3339)
	case types.KindText:
		return v.Str
	default:
		return nil
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
