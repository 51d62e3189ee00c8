package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Generation identifies one of the three address tables. A generation's
// identity moves by renaming tables, never by copying rows.
type Generation int

const (
	// GenerationCurrent is the table readers query.
	GenerationCurrent Generation = iota
	// GenerationNext is the shadow table an import loads.
	GenerationNext
	// GenerationPrev is the table replaced by the last swap.
	GenerationPrev
)

// Table returns the table name of g.
func (g Generation) Table() string {
	switch g {
	case GenerationNext:
		return "addresses_next"
	case GenerationPrev:
		return "addresses_prev"
	default:
		return "addresses"
	}
}

func (g Generation) String() string {
	switch g {
	case GenerationNext:
		return "next"
	case GenerationPrev:
		return "prev"
	default:
		return "current"
	}
}

// Search index languages, in creation order.
var searchLanguages = []string{"ko", "en"}

func searchIndexName(table, lang string) string {
	return table + "_search_" + lang + "_idx"
}

// SearchIndexes returns the trigram index names of g.
func (g Generation) SearchIndexes() []string {
	names := make([]string, len(searchLanguages))
	for i, lang := range searchLanguages {
		names[i] = searchIndexName(g.Table(), lang)
	}
	return names
}

// swapStatements promotes next to current and current to prev. Index
// renames use IF EXISTS since a generation may have been loaded without them.
func swapStatements() []string {
	cur, next, prev := GenerationCurrent, GenerationNext, GenerationPrev

	stmts := []string{
		"DROP TABLE IF EXISTS " + prev.Table(),
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", cur.Table(), prev.Table()),
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", next.Table(), cur.Table()),
	}
	for _, lang := range searchLanguages {
		stmts = append(stmts, fmt.Sprintf("ALTER INDEX IF EXISTS %s RENAME TO %s",
			searchIndexName(cur.Table(), lang), searchIndexName(prev.Table(), lang)))
	}
	for _, lang := range searchLanguages {
		stmts = append(stmts, fmt.Sprintf("ALTER INDEX IF EXISTS %s RENAME TO %s",
			searchIndexName(next.Table(), lang), searchIndexName(cur.Table(), lang)))
	}
	return stmts
}

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool and *pgxpool.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// swapTables runs swapStatements in one transaction. On any error the whole
// sequence is rolled back and all three tables keep their names.
func swapTables(ctx context.Context, db TxBeginner) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin swap: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range swapStatements() {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("swap %q: %w", stmt, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit swap: %w", err)
	}
	return nil
}
