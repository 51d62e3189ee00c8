package core

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestGeneration_Names(t *testing.T) {
	tests := []struct {
		gen     Generation
		table   string
		indexes []string
	}{
		{GenerationCurrent, "addresses", []string{"addresses_search_ko_idx", "addresses_search_en_idx"}},
		{GenerationNext, "addresses_next", []string{"addresses_next_search_ko_idx", "addresses_next_search_en_idx"}},
		{GenerationPrev, "addresses_prev", []string{"addresses_prev_search_ko_idx", "addresses_prev_search_en_idx"}},
	}

	for _, tt := range tests {
		t.Run(tt.gen.String(), func(t *testing.T) {
			if got := tt.gen.Table(); got != tt.table {
				t.Errorf("Table() = %q, want %q", got, tt.table)
			}
			if got := tt.gen.SearchIndexes(); !reflect.DeepEqual(got, tt.indexes) {
				t.Errorf("SearchIndexes() = %v, want %v", got, tt.indexes)
			}
		})
	}
}

func TestSwapStatements(t *testing.T) {
	want := []string{
		"DROP TABLE IF EXISTS addresses_prev",
		"ALTER TABLE addresses RENAME TO addresses_prev",
		"ALTER TABLE addresses_next RENAME TO addresses",
		"ALTER INDEX IF EXISTS addresses_search_ko_idx RENAME TO addresses_prev_search_ko_idx",
		"ALTER INDEX IF EXISTS addresses_search_en_idx RENAME TO addresses_prev_search_en_idx",
		"ALTER INDEX IF EXISTS addresses_next_search_ko_idx RENAME TO addresses_search_ko_idx",
		"ALTER INDEX IF EXISTS addresses_next_search_en_idx RENAME TO addresses_search_en_idx",
	}
	if got := swapStatements(); !reflect.DeepEqual(got, want) {
		t.Errorf("swapStatements() =\n%v\nwant\n%v", got, want)
	}
}

func TestSwapTables_Commits(t *testing.T) {
	conn := &fakeConn{}
	if err := swapTables(context.Background(), conn); err != nil {
		t.Fatalf("swapTables() error = %v", err)
	}

	want := append([]string{"BEGIN"}, swapStatements()...)
	want = append(want, "COMMIT")
	if !reflect.DeepEqual(conn.log, want) {
		t.Errorf("log =\n%v\nwant\n%v", conn.log, want)
	}
}

func TestSwapTables_RollsBackOnFailure(t *testing.T) {
	conn := &fakeConn{failOn: "addresses_next RENAME TO addresses"}
	err := swapTables(context.Background(), conn)
	if !errors.Is(err, errInjected) {
		t.Fatalf("swapTables() error = %v, want injected failure", err)
	}

	last := conn.log[len(conn.log)-1]
	if last != "ROLLBACK" {
		t.Errorf("last statement = %q, want ROLLBACK", last)
	}
	for _, stmt := range conn.log {
		if stmt == "COMMIT" {
			t.Fatal("swap committed after a failed statement")
		}
		if stmt == swapStatements()[3] {
			t.Error("statements after the failure should not run")
		}
	}
}
