package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/JonMunkholm/addresses/internal/logging"
	"github.com/JonMunkholm/addresses/internal/metrics"
)

// MaxRedirects is how many redirects a download follows.
const MaxRedirects = 5

const downloadUserAgent = "addresses-importer"

// Downloader fetches the registry archive to a local file.
type Downloader struct {
	client   *http.Client
	logEvery time.Duration
	metrics  *metrics.Metrics
}

// NewDownloader returns a downloader whose requests time out after timeout
// and which logs progress every logEvery.
func NewDownloader(timeout, logEvery time.Duration, m *metrics.Metrics) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", MaxRedirects)
				}
				return nil
			},
		},
		logEvery: logEvery,
		metrics:  m,
	}
}

func (d *Downloader) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", downloadUserAgent)
	req.Header.Set("Accept", "*/*")
	return req, nil
}

// headContentLength returns the size reported by a HEAD request, or 0.
func (d *Downloader) headContentLength(ctx context.Context, url string) int64 {
	req, err := d.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		return 0
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return 0
	}
	resp.Body.Close()
	if resp.ContentLength < 0 {
		return 0
	}
	return resp.ContentLength
}

// Download writes url to dest and returns the bytes written. A final
// status outside 2xx is a *DownloadStatusError. The HEAD size is used for
// progress when the response carries no Content-Length.
func (d *Downloader) Download(ctx context.Context, url, dest string) (int64, error) {
	log := logging.FromContext(ctx)
	headTotal := d.headContentLength(ctx, url)

	req, err := d.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return 0, fmt.Errorf("build download request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, &DownloadStatusError{StatusCode: resp.StatusCode}
	}

	total := resp.ContentLength
	if total <= 0 {
		total = headTotal
	}
	log.Info("download started", "total", sizeOrUnknown(total))

	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dest, err)
	}

	body := NewCountingReader(resp.Body, total).OnProgress(d.logEvery, func(read, total int64) {
		log.Info("download progress",
			"pct", downloadPercent(read, total),
			"downloaded", HumanBytes(read),
			"total", sizeOrUnknown(total),
		)
	})

	n, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	d.metrics.AddDownloaded(n)
	if err := errors.Join(copyErr, closeErr); err != nil {
		return n, fmt.Errorf("write %s: %w", dest, err)
	}

	log.Info("download done",
		"pct", downloadPercent(n, total),
		"downloaded", HumanBytes(n),
		"total", sizeOrUnknown(total),
	)
	return n, nil
}

func downloadPercent(done, total int64) string {
	if total <= 0 {
		return "?"
	}
	return fmt.Sprintf("%.1f%%", percent(done, total))
}
