package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/addresses/internal/metrics"
)

// DefaultChunkSize is the number of documents per bulk insert.
const DefaultChunkSize = 5000

// ImportMode selects how batches are written.
type ImportMode string

const (
	// ModeUpsert replaces existing rows with the same id.
	ModeUpsert ImportMode = "upsert"
	// ModeReplace is a plain insert. It is only valid against the freshly
	// truncated shadow table.
	ModeReplace ImportMode = "replace"
)

// ParseImportMode validates s. An empty s selects ModeUpsert.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeUpsert:
		return ModeUpsert, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", fmt.Errorf("unknown import mode %q", s)
	}
}

// Execer is the write side of DBTX.
type Execer interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
}

// insertSQL builds the UNNEST insert for table. Parameter i is the typed
// array of column i.
func insertSQL(table string, mode ImportMode) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(columnList())
	b.WriteString(") SELECT * FROM UNNEST(")
	for i, c := range addressColumns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d::%s", i+1, c.kind.arrayType())
	}
	b.WriteString(")")

	if mode == ModeUpsert {
		b.WriteString(" ON CONFLICT (id) DO UPDATE SET ")
		first := true
		for _, c := range addressColumns {
			if c.name == "id" {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&b, "%s = EXCLUDED.%s", c.name, c.name)
		}
	}
	return b.String()
}

// BatchLoader buffers documents and writes them in chunks of chunkSize.
// It is not safe for concurrent use.
type BatchLoader struct {
	db        Execer
	table     string
	sql       string
	chunkSize int

	buf      []*Document
	inserted int64
	flushes  int

	afterFlush func(ctx context.Context) error
	metrics    *metrics.Metrics
}

// NewBatchLoader writes into table through db. A chunkSize below 1 selects
// DefaultChunkSize.
func NewBatchLoader(db Execer, table string, mode ImportMode, chunkSize int) *BatchLoader {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	return &BatchLoader{
		db:        db,
		table:     table,
		sql:       insertSQL(table, mode),
		chunkSize: chunkSize,
		buf:       make([]*Document, 0, chunkSize),
	}
}

// OnFlush registers fn to run after every successful flush.
func (l *BatchLoader) OnFlush(fn func(ctx context.Context) error) *BatchLoader {
	l.afterFlush = fn
	return l
}

// WithMetrics records flushes on m.
func (l *BatchLoader) WithMetrics(m *metrics.Metrics) *BatchLoader {
	l.metrics = m
	return l
}

// Add buffers doc and flushes when the buffer is full.
func (l *BatchLoader) Add(ctx context.Context, doc *Document) error {
	l.buf = append(l.buf, doc)
	if len(l.buf) >= l.chunkSize {
		return l.flush(ctx)
	}
	return nil
}

// Close flushes the remaining partial batch.
func (l *BatchLoader) Close(ctx context.Context) error {
	if len(l.buf) == 0 {
		return nil
	}
	return l.flush(ctx)
}

// Inserted returns the number of documents written so far.
func (l *BatchLoader) Inserted() int64 { return l.inserted }

// Flushes returns the number of batches written so far.
func (l *BatchLoader) Flushes() int { return l.flushes }

func (l *BatchLoader) flush(ctx context.Context) error {
	start := time.Now()
	n := len(l.buf)

	if _, err := l.db.Exec(ctx, l.sql, columnArrays(l.buf)...); err != nil {
		return fmt.Errorf("insert batch into %s: %w", l.table, err)
	}

	clear(l.buf)
	l.buf = l.buf[:0]
	l.inserted += int64(n)
	l.flushes++
	l.metrics.ObserveFlush(n, start)

	if l.afterFlush != nil {
		return l.afterFlush(ctx)
	}
	return nil
}
