package core

import (
	"errors"
	"fmt"
)

var (
	// ErrLockNotAcquired means another import holds the advisory lock.
	// Run reports it as a skip, not a failure.
	ErrLockNotAcquired = errors.New("import lock not acquired")

	// ErrShadowTableEmpty aborts a run before the swap.
	ErrShadowTableEmpty = errors.New("shadow table is empty after import")

	// ErrNoDecoder is returned when none of the configured encodings is usable.
	ErrNoDecoder = errors.New("no usable text decoder")

	// ErrArchiveEntryMissing is returned when the road dictionary or the
	// building files are absent from the archive.
	ErrArchiveEntryMissing = errors.New("archive entry missing")

	// ErrDownloadStatus matches any *DownloadStatusError.
	ErrDownloadStatus = errors.New("unexpected download status")

	// ErrStateNotFound is returned when no import state exists for a month.
	ErrStateNotFound = errors.New("import state not found")

	// ErrQueryRequired is returned for a blank search query.
	ErrQueryRequired = errors.New("search query is required")

	// ErrImportRunning is returned when an import is already running in this process.
	ErrImportRunning = errors.New("import already running")
)

// DownloadStatusError carries the HTTP status of a failed archive download.
type DownloadStatusError struct {
	StatusCode int
}

func (e *DownloadStatusError) Error() string {
	return fmt.Sprintf("download failed: HTTP %d", e.StatusCode)
}

func (e *DownloadStatusError) Is(target error) bool {
	return target == ErrDownloadStatus
}
