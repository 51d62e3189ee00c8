// Package core provides the address registry import pipeline and the search
// read path. It has no transport dependencies and is driven by the server,
// the one-shot CLI and tests alike.
package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// ImportPhase indicates the current stage of an import run.
type ImportPhase string

const (
	PhaseNotStarted        ImportPhase = "not_started"
	PhaseLockAcquired      ImportPhase = "lock_acquired"
	PhaseSchemaEnsured     ImportPhase = "schema_ensured"
	PhaseDownloading       ImportPhase = "downloading"
	PhaseCountingLines     ImportPhase = "counting_lines"
	PhaseIndexingRoad      ImportPhase = "indexing_road"
	PhaseLoading           ImportPhase = "loading"
	PhaseVerifying         ImportPhase = "verifying"
	PhaseRebuildingIndexes ImportPhase = "rebuilding_indexes"
	PhaseSwapping          ImportPhase = "swapping"
	PhaseCompleted         ImportPhase = "completed"
	PhaseFailed            ImportPhase = "failed"
)

// Reasons a run returns without importing.
const (
	SkipReasonLocked    = "lock_not_acquired"
	SkipReasonCompleted = "already_completed"
)

// Result is the outcome of one import run.
type Result struct {
	RunID         string        `json:"runId"`
	Month         string        `json:"month"`
	Skipped       bool          `json:"skipped"`
	SkipReason    string        `json:"skipReason,omitempty"`
	Processed     int64         `json:"processed"`
	Inserted      int64         `json:"inserted"`
	SkippedRows   int64         `json:"skippedRows"`
	ExpectedCount *int64        `json:"expectedCount,omitempty"`
	Duration      time.Duration `json:"duration"`
}
