package core

import (
	"fmt"
	"log/slog"
	"time"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// HumanBytes formats n with binary units: whole bytes below 1 KB, one
// decimal above. Non-positive sizes print as "0 B".
func HumanBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f %s", v, byteUnits[i])
}

// sizeOrUnknown prints "?" for an unknown size.
func sizeOrUnknown(n int64) string {
	if n <= 0 {
		return "?"
	}
	return HumanBytes(n)
}

// loadProgress counts building rows and logs throughput at most once per
// interval.
type loadProgress struct {
	Processed int64
	Inserted  int64
	Skipped   int64
	Expected  *int64

	log   *slog.Logger
	every time.Duration
	start time.Time
	last  time.Time
}

func newLoadProgress(log *slog.Logger, every time.Duration, expected *int64) *loadProgress {
	now := time.Now()
	return &loadProgress{
		Expected: expected,
		log:      log,
		every:    every,
		start:    now,
		last:     now.Add(-every),
	}
}

// rate returns processed rows per second since start.
func (p *loadProgress) rate(now time.Time) float64 {
	elapsed := now.Sub(p.start).Seconds()
	if elapsed < 0.001 {
		elapsed = 0.001
	}
	return float64(p.Processed) / elapsed
}

func (p *loadProgress) maybeLog() {
	now := time.Now()
	if now.Sub(p.last) < p.every {
		return
	}
	p.last = now
	p.emit(now, "load progress")
}

func (p *loadProgress) done() {
	p.emit(time.Now(), "load done")
}

func (p *loadProgress) emit(now time.Time, msg string) {
	attrs := []any{"processed", p.Processed}
	if p.Expected != nil && *p.Expected > 0 {
		attrs = append(attrs,
			"expected", *p.Expected,
			"pct", fmt.Sprintf("%.2f", percent(p.Processed, *p.Expected)),
		)
	}
	attrs = append(attrs,
		"inserted", p.Inserted,
		"skipped", p.Skipped,
		"speed", fmt.Sprintf("%.0f/s", p.rate(now)),
	)
	p.log.Info(msg, attrs...)
}
