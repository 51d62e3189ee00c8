package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ImportStatus is the persisted status of a month's import.
type ImportStatus string

const (
	StatusInProgress ImportStatus = "in_progress"
	StatusCompleted  ImportStatus = "completed"
	StatusFailed     ImportStatus = "failed"
)

// ImportState is one row of address_import_state.
type ImportState struct {
	Month         string       `json:"month"`
	Status        ImportStatus `json:"status"`
	FinishedAt    *time.Time   `json:"finishedAt,omitempty"`
	ExpectedCount *int64       `json:"expectedCount,omitempty"`
}

// StateStore reads and writes address_import_state.
type StateStore struct {
	db DBTX
}

// NewStateStore returns a store backed by db.
func NewStateStore(db DBTX) *StateStore {
	return &StateStore{db: db}
}

// Get returns the state of month, or ErrStateNotFound.
func (s *StateStore) Get(ctx context.Context, month string) (*ImportState, error) {
	var (
		status   pgtype.Text
		finished pgtype.Timestamptz
		expected pgtype.Int8
	)
	err := s.db.QueryRow(ctx, `
		SELECT status, finished_at, expected_count
		FROM address_import_state
		WHERE month = $1
		LIMIT 1`, month).Scan(&status, &finished, &expected)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get import state %s: %w", month, err)
	}

	st := &ImportState{Month: month, Status: ImportStatus(status.String)}
	if finished.Valid {
		t := finished.Time
		st.FinishedAt = &t
	}
	if expected.Valid {
		n := expected.Int64
		st.ExpectedCount = &n
	}
	return st, nil
}

// Completed reports whether month has already been imported.
func (s *StateStore) Completed(ctx context.Context, month string) (bool, error) {
	st, err := s.Get(ctx, month)
	if errors.Is(err, ErrStateNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return st.Status == StatusCompleted, nil
}

// Set upserts the state of st.Month. Nil fields are stored as NULL.
func (s *StateStore) Set(ctx context.Context, st ImportState) error {
	finished := pgtype.Timestamptz{}
	if st.FinishedAt != nil {
		finished = pgtype.Timestamptz{Time: *st.FinishedAt, Valid: true}
	}
	expected := pgtype.Int4{}
	if st.ExpectedCount != nil {
		expected = pgtype.Int4{Int32: int32(*st.ExpectedCount), Valid: true}
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO address_import_state (month, status, finished_at, expected_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (month)
		DO UPDATE SET
			status = EXCLUDED.status,
			finished_at = EXCLUDED.finished_at,
			expected_count = EXCLUDED.expected_count`,
		st.Month, string(st.Status), finished, expected)
	if err != nil {
		return fmt.Errorf("set import state %s=%s: %w", st.Month, st.Status, err)
	}
	return nil
}
