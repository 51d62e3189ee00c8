package core

// streaming.go provides the memory-bounded readers used by the importer:
//
//   - LineReader: decodes a legacy-encoded stream and yields logical lines
//   - CountingReader: tracks bytes read for download progress
//   - CountLines: counts newline-terminated lines without decoding
//
// None of them materialize a whole file.

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const lineBufferSize = 64 * 1024

// LineReader is a pull iterator over the decoded lines of a stream.
//
// Each line has its trailing "\r" and a leading U+FEFF removed. Empty lines
// are dropped and a final unterminated line is returned once. The decoding
// transformer keeps undecoded trailing bytes between reads, so a multi-byte
// character split across two reads decodes intact.
//
//	lr := NewLineReader(f, enc)
//	for lr.Next() {
//	    handle(lr.Line())
//	}
//	if err := lr.Err(); err != nil { ... }
type LineReader struct {
	br   *bufio.Reader
	line string
	err  error
	done bool
}

// NewLineReader decodes r with enc. A nil enc reads r as UTF-8.
func NewLineReader(r io.Reader, enc encoding.Encoding) *LineReader {
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}
	return &LineReader{br: bufio.NewReaderSize(r, lineBufferSize)}
}

// Next advances to the next non-empty line. It returns false at end of
// stream or on a read error; check Err afterwards.
func (r *LineReader) Next() bool {
	for !r.done {
		s, err := r.br.ReadString('\n')
		if err != nil {
			r.done = true
			if !errors.Is(err, io.EOF) {
				r.err = err
				r.line = ""
				return false
			}
		}

		s = strings.TrimSuffix(s, "\n")
		s = strings.TrimSuffix(s, "\r")
		s = strings.TrimPrefix(s, "\ufeff")
		if s == "" {
			continue
		}

		r.line = s
		return true
	}
	r.line = ""
	return false
}

// Line returns the current line.
func (r *LineReader) Line() string { return r.line }

// Err returns the first non-EOF read error.
func (r *LineReader) Err() error { return r.err }

// CountLines counts lines the way LineReader sees them before blank-line
// filtering: every "\n", plus one for a trailing unterminated fragment.
func CountLines(r io.Reader) (int64, error) {
	buf := make([]byte, lineBufferSize)
	var count int64
	var last byte
	sawAny := false

	for {
		n, err := r.Read(buf)
		if n > 0 {
			sawAny = true
			count += int64(bytes.Count(buf[:n], []byte{'\n'}))
			last = buf[n-1]
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, err
		}
	}

	if sawAny && last != '\n' {
		count++
	}
	return count, nil
}

// CountingReader wraps an io.Reader to track bytes read.
// When a progress callback is set it is invoked at most once per interval.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Total     int64 // If known (0 if unknown)

	every    time.Duration
	lastCall time.Time
	report   func(read, total int64)
}

// NewCountingReader creates a counting reader with optional total size.
func NewCountingReader(r io.Reader, total int64) *CountingReader {
	return &CountingReader{
		reader: r,
		Total:  total,
	}
}

// OnProgress registers fn to be called after reads, throttled to every.
// The first read always reports.
func (r *CountingReader) OnProgress(every time.Duration, fn func(read, total int64)) *CountingReader {
	r.every = every
	r.report = fn
	return r
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)

	if r.report != nil && n > 0 {
		now := time.Now()
		if r.lastCall.IsZero() || now.Sub(r.lastCall) >= r.every {
			r.lastCall = now
			r.report(r.BytesRead, r.Total)
		}
	}
	return n, err
}

// Percent returns read progress clamped to 0-100.
// Returns 0 if total is unknown.
func (r *CountingReader) Percent() float64 {
	return percent(r.BytesRead, r.Total)
}

func percent(done, total int64) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(done) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
