// Package resource loads tables from files and databases and writes the
// join result back out. Format handling lives in the per-format
// subpackages; this package only dispatches on file extension.
package resource

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kasuganosora/autojoin/pkg/resource/csv"
	"github.com/kasuganosora/autojoin/pkg/resource/excel"
	"github.com/kasuganosora/autojoin/pkg/resource/parquet"
	"github.com/kasuganosora/autojoin/pkg/resource/sqlite"
	"github.com/kasuganosora/autojoin/pkg/types"
)

// SupportedExtensions lists the file formats Load and Save understand
var SupportedExtensions = []string{".csv", ".parquet", ".xlsx", ".sqlite", ".db"}

// Load reads a table from path, picking the format from the extension.
// The table label defaults to the file name without extension.
func Load(ctx context.Context, path string) (*types.Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return csv.Load(path)
	case ".parquet":
		return parquet.Load(path)
	case ".xlsx":
		return excel.Load(path, "")
	case ".sqlite", ".db":
		return sqlite.Load(ctx, path, "")
	default:
		return nil, fmt.Errorf("unsupported input format %q, supported: %s", ext, strings.Join(SupportedExtensions, ", "))
	}
}

// Save writes a table to path, picking the format from the extension
func Save(ctx context.Context, t *types.Table, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return csv.Save(t, path)
	case ".parquet":
		return parquet.Save(t, path)
	case ".xlsx":
		return excel.Save(t, path)
	case ".sqlite", ".db":
		return sqlite.Save(ctx, t, path)
	default:
		return fmt.Errorf("unsupported output format %q, supported: %s", ext, strings.Join(SupportedExtensions, ", "))
	}
}

// Label derives a table label from a file path
func Label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
