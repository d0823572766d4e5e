// Package schema declares the tables the climate API reads and checks that an
// externally supplied store carries them. The service never creates or alters
// tables; DDL is exposed for fixtures and tooling only.
package schema

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

//go:embed schema.sql
var DDL string

// Tables lists every table and the columns queries depend on.
var Tables = map[string][]string{
	"station":     {"id", "station", "name", "latitude", "longitude", "elevation"},
	"measurement": {"id", "station", "date", "prcp", "tobs"},
}

const (
	sqliteColumnsSQL   = `SELECT name FROM pragma_table_info(?)`
	postgresColumnsSQL = `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`
)

// Verify reads the store's catalog and reports the first missing table or column.
func Verify(ctx context.Context, db *sql.DB, driverName string) error {
	query := sqliteColumnsSQL
	if driverName == "pgx" {
		query = postgresColumnsSQL
	}

	names := make([]string, 0, len(Tables))
	for name := range Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, table := range names {
		have, err := columns(ctx, db, query, table)
		if err != nil {
			return fmt.Errorf("inspect table %s: %w", table, err)
		}
		if len(have) == 0 {
			return fmt.Errorf("schema: table %q not found", table)
		}
		for _, col := range Tables[table] {
			if !have[col] {
				return fmt.Errorf("schema: table %q missing column %q", table, col)
			}
		}
		slog.Debug("schema table verified", "table", table, "columns", len(have))
	}
	return nil
}

func columns(ctx context.Context, db *sql.DB, query, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close schema rows", "table", table, "error", err)
		}
	}()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[strings.ToLower(name)] = true
	}
	return out, rows.Err()
}
