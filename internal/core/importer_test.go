package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JonMunkholm/addresses/internal/config"
	"github.com/JonMunkholm/addresses/internal/metrics"
)

type fakeLocker struct {
	err      error
	acquired int
	released int
}

func (l *fakeLocker) TryAcquire(context.Context) (Lock, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return fakeLock{l}, nil
}

type fakeLock struct{ l *fakeLocker }

func (f fakeLock) Release(context.Context) error {
	f.l.released++
	return nil
}

func TestResolveMonth(t *testing.T) {
	now := time.Date(2026, time.March, 9, 12, 0, 0, 0, time.Local)

	tests := []struct {
		raw  string
		want string
	}{
		{"202401", "202401"},
		{" 202312 ", "202312"},
		{"", "202603"},
		{"2024-01", "202603"},
		{"20240", "202603"},
		{"2024011", "202603"},
		{"abcdef", "202603"},
	}

	for _, tt := range tests {
		if got := ResolveMonth(tt.raw, now); got != tt.want {
			t.Errorf("ResolveMonth(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestBuildDownloadURL(t *testing.T) {
	want := "https://business.juso.go.kr/api/jst/download" +
		"?regYmd=2024&reqType=ALLRDNM&ctprvnCd=00&stdde=202401" +
		"&fileName=202401_%25EA%25B1%25B4%25EB%25AC%25BCDB_%25EC%25A0%2584%25EC%25B2%25B4%25EB%25B6%2584.zip" +
		"&realFileName=202401ALLRDNM00.zip&intFileNo=0&intNum=0&_Html5=true" +
		"&_StartOffset=0&_EndOffset=149056343"

	if got := BuildDownloadURL("", "202401"); got != want {
		t.Errorf("BuildDownloadURL() =\n%s\nwant\n%s", got, want)
	}

	got := BuildDownloadURL("http://127.0.0.1:9999/dl?token=x", "202401")
	if !strings.HasPrefix(got, "http://127.0.0.1:9999/dl?token=x&regYmd=2024&") {
		t.Errorf("BuildDownloadURL() with query base = %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Import: config.ImportConfig{
			Mode:               "replace",
			ChunkSize:          100,
			CommitEveryBatches: 3,
			Encodings:          []string{"euc-kr"},
		},
		Format: config.FormatConfig{UndergroundWordEn: true},
	}

	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig() error = %v", err)
	}
	if opts.Mode != ModeReplace || opts.ChunkSize != 100 || opts.CommitEveryBatches != 3 {
		t.Errorf("opts = %+v", opts)
	}
	if !opts.Format.UndergroundWordEn || opts.Format.MountainPrefixKo {
		t.Errorf("format = %+v", opts.Format)
	}

	cfg.Import.Mode = "bogus"
	if _, err := OptionsFromConfig(cfg); err == nil {
		t.Error("OptionsFromConfig() accepted an unknown mode")
	}
}

func TestImporter_NoDecoderBeforeLock(t *testing.T) {
	locker := &fakeLocker{}
	im := NewImporter(nil, Options{Encodings: []string{"klingon"}}, nil).WithLocker(locker)

	_, err := im.Run(context.Background())
	if !errors.Is(err, ErrNoDecoder) {
		t.Fatalf("Run() error = %v, want ErrNoDecoder", err)
	}
	if locker.acquired != 0 {
		t.Error("lock taken before the decoder was resolved")
	}
}

func TestImporter_LockHeldIsSkip(t *testing.T) {
	m := metrics.New()
	im := NewImporter(nil, Options{Month: "202401"}, m).WithLocker(&fakeLocker{err: ErrLockNotAcquired})

	res, err := im.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if !res.Skipped || res.SkipReason != SkipReasonLocked {
		t.Errorf("result = %+v, want lock skip", res)
	}
	if res.Month != "202401" || res.RunID == "" {
		t.Errorf("result month/run = %q/%q", res.Month, res.RunID)
	}
	if v := testutil.ToFloat64(m.Runs.WithLabelValues(metrics.OutcomeSkipped)); v != 1 {
		t.Errorf("skipped runs = %v, want 1", v)
	}
}

func TestImporter_LockErrorIsFailure(t *testing.T) {
	boom := errors.New("pool closed")
	im := NewImporter(nil, Options{}, nil).WithLocker(&fakeLocker{err: boom})

	res, err := im.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if res.Skipped {
		t.Error("a lock error must not be reported as a skip")
	}
}

func TestTransformLine(t *testing.T) {
	im := &Importer{opts: Options{Format: DefaultFormat()}}
	idx := teheranIndex()

	if _, ok := im.transformLine(pipeLine(gangnamBuildRow("T1")), idx); !ok {
		t.Error("full row rejected")
	}
	if _, ok := im.transformLine(pipeLine(gangnamBuildRow("T2")[:15]), idx); ok {
		t.Error("15-column row accepted")
	}
	if _, ok := im.transformLine(pipeLine(gangnamBuildRow("T3")[:16]), idx); ok {
		t.Error("16-column row without a serial accepted")
	}
	row := gangnamBuildRow("T4")[:17]
	if _, ok := im.transformLine(pipeLine(row), idx); !ok {
		t.Error("17-column row rejected")
	}
}
