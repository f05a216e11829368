// Package sqldb loads tables from networked SQL databases. MySQL and
// PostgreSQL drivers are registered; the caller picks one by name.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/kasuganosora/autojoin/pkg/types"
)

const connectTimeout = 10 * time.Second

// Load connects with the given driver and DSN and reads one table.
// Supported drivers are "mysql" and "postgres".
func Load(ctx context.Context, driver, dsn, tableName string) (*types.Table, error) {
	switch driver {
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported driver %q, want mysql or postgres", driver)
	}
	if tableName == "" {
		return nil, fmt.Errorf("table name is required for %s sources", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", quoteIdent(driver, tableName)))
	if err != nil {
		return nil, fmt.Errorf("failed to query table %q: %w", tableName, err)
	}
	defer rows.Close()

	t, err := scanRows(rows, tableName)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", tableName, err)
	}
	return t, nil
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

func quoteIdent(driver, name string) string {
	if driver == "mysql" {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
