package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"golang.org/x/text/encoding/korean"
)

func readAllLines(t *testing.T, lr *LineReader) []string {
	t.Helper()
	var lines []string
	for lr.Next() {
		lines = append(lines, lr.Line())
	}
	if err := lr.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return lines
}

func TestLineReader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "bom blank line and crlf",
			input:    "\ufeffline1\n\nline2\r\n",
			expected: []string{"line1", "line2"},
		},
		{
			name:     "unterminated final line",
			input:    "a|b\nc|d",
			expected: []string{"a|b", "c|d"},
		},
		{
			name:     "final line with cr only",
			input:    "a\nb\r",
			expected: []string{"a", "b"},
		},
		{
			name:     "only blank lines",
			input:    "\n\r\n\n",
			expected: nil,
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "bom on a later line",
			input:    "a\n\ufeffb\n",
			expected: []string{"a", "b"},
		},
		{
			name:     "interior cr kept",
			input:    "a\rb\n",
			expected: []string{"a\rb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLineReader(strings.NewReader(tt.input), nil)
			got := readAllLines(t, lr)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %q, want %q", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLineReader_SplitMultiByte(t *testing.T) {
	text := "서울특별시|강남구|테헤란로\n부산광역시|해운대구\n"
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// One byte per read splits every two-byte Hangul character.
	lr := NewLineReader(iotest.OneByteReader(bytes.NewReader(encoded)), korean.EUCKR)
	got := readAllLines(t, lr)

	want := []string{"서울특별시|강남구|테헤란로", "부산광역시|해운대구"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLineReader_ReadError(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("a\n"), iotest.ErrReader(boom))
	lr := NewLineReader(r, nil)

	if !lr.Next() || lr.Line() != "a" {
		t.Fatalf("first line = %q, want %q", lr.Line(), "a")
	}
	if lr.Next() {
		t.Fatalf("Next() = true after read error, line %q", lr.Line())
	}
	if !errors.Is(lr.Err(), boom) {
		t.Errorf("Err() = %v, want %v", lr.Err(), boom)
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"empty", "", 0},
		{"terminated", "a\nb\n", 2},
		{"unterminated", "a\nb", 2},
		{"blank lines count", "a\n\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountLines(iotest.HalfReader(strings.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CountLines(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestCountingReader(t *testing.T) {
	data := strings.Repeat("x", 1000)
	var calls int
	var lastRead int64

	r := NewCountingReader(iotest.HalfReader(strings.NewReader(data)), 2000).
		OnProgress(0, func(read, total int64) {
			calls++
			lastRead = read
			if total != 2000 {
				t.Errorf("total = %d, want 2000", total)
			}
		})

	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatalf("copy: %v", err)
	}

	if r.BytesRead != 1000 {
		t.Errorf("BytesRead = %d, want 1000", r.BytesRead)
	}
	if got := r.Percent(); got != 50 {
		t.Errorf("Percent() = %v, want 50", got)
	}
	if calls == 0 || lastRead != 1000 {
		t.Errorf("progress calls = %d, last read = %d", calls, lastRead)
	}
}

func TestCountingReader_UnknownTotal(t *testing.T) {
	r := NewCountingReader(strings.NewReader("abc"), 0)
	io.Copy(io.Discard, r)
	if got := r.Percent(); got != 0 {
		t.Errorf("Percent() = %v, want 0 without total", got)
	}
}
