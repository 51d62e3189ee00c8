package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "lock held", err: ErrLockNotAcquired, wantCode: "IMP001"},
		{name: "wrapped empty shadow", err: fmt.Errorf("load: %w", ErrShadowTableEmpty), wantCode: "IMP002"},
		{name: "no decoder", err: fmt.Errorf("%w: tried x", ErrNoDecoder), wantCode: "IMP003"},
		{name: "archive entry", err: fmt.Errorf("%w: build_*.txt", ErrArchiveEntryMissing), wantCode: "IMP004"},
		{name: "download status", err: &DownloadStatusError{StatusCode: 503}, wantCode: "IMP005"},
		{name: "import running", err: ErrImportRunning, wantCode: "IMP006"},
		{name: "query required", err: ErrQueryRequired, wantCode: "QRY001"},
		{name: "state not found", err: ErrStateNotFound, wantCode: "QRY002"},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), wantCode: "DB004"},
		{name: "deadline before timeout", err: errors.New("context deadline exceeded (timeout)"), wantCode: "REQ002"},
		{name: "plain timeout", err: errors.New("i/o timeout"), wantCode: "DB006"},
		{name: "case insensitive", err: errors.New("DEADLOCK detected"), wantCode: "DB007"},
		{name: "unknown error", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err); got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrQueryRequired)
	want := "A search query is required (Code: QRY001). Provide a non-empty query"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"sentinel is user facing", ErrShadowTableEmpty, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
