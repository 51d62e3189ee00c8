package core

import (
	"context"
	"fmt"
	"strings"
)

const createStateTableSQL = `CREATE TABLE IF NOT EXISTS address_import_state (
	month text PRIMARY KEY,
	status text,
	finished_at timestamptz,
	expected_count integer
)`

func createTableSQL(table string) string {
	defs := make([]string, len(addressColumns))
	for i, c := range addressColumns {
		defs[i] = c.name + " " + c.kind.sqlType()
		if c.name == "id" {
			defs[i] += " PRIMARY KEY"
		}
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(defs, ",\n\t"))
}

func createIndexSQL(table, lang string) string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING gin (search_%s gin_trgm_ops)",
		searchIndexName(table, lang), table, lang)
}

// EnsureSchema creates the trigram extension, the three generation tables,
// the state table and the serving table's search indexes. Every statement is
// idempotent.
func EnsureSchema(ctx context.Context, db Execer) error {
	stmts := []string{"CREATE EXTENSION IF NOT EXISTS pg_trgm"}
	for _, g := range []Generation{GenerationCurrent, GenerationNext, GenerationPrev} {
		stmts = append(stmts, createTableSQL(g.Table()))
	}
	stmts = append(stmts, createStateTableSQL)
	for _, lang := range searchLanguages {
		stmts = append(stmts, createIndexSQL(GenerationCurrent.Table(), lang))
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ensureIndexes builds the search indexes of g.
func ensureIndexes(ctx context.Context, db Execer, g Generation) error {
	for _, lang := range searchLanguages {
		if _, err := db.Exec(ctx, createIndexSQL(g.Table(), lang)); err != nil {
			return fmt.Errorf("create %s index on %s: %w", lang, g.Table(), err)
		}
	}
	return nil
}

// dropIndexes removes the search indexes of g.
func dropIndexes(ctx context.Context, db Execer, g Generation) error {
	for _, name := range g.SearchIndexes() {
		if _, err := db.Exec(ctx, "DROP INDEX IF EXISTS "+name); err != nil {
			return fmt.Errorf("drop index %s: %w", name, err)
		}
	}
	return nil
}

func truncateTable(ctx context.Context, db Execer, g Generation) error {
	if _, err := db.Exec(ctx, "TRUNCATE TABLE "+g.Table()); err != nil {
		return fmt.Errorf("truncate %s: %w", g.Table(), err)
	}
	return nil
}

// countRows returns the exact row count of g.
func countRows(ctx context.Context, db DBTX, g Generation) (int64, error) {
	var n int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM "+g.Table()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", g.Table(), err)
	}
	return n, nil
}
