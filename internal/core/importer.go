package core

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/encoding"

	"github.com/JonMunkholm/addresses/internal/config"
	"github.com/JonMunkholm/addresses/internal/logging"
	"github.com/JonMunkholm/addresses/internal/metrics"
)

// ContextCheckInterval is how often line loops check for context cancellation.
var ContextCheckInterval = 100

// DefaultBaseURL is the registry download endpoint.
const DefaultBaseURL = "https://business.juso.go.kr/api/jst/download"

var monthPattern = regexp.MustCompile(`^\d{6}$`)

// Options configures an Importer.
type Options struct {
	Month              string
	Mode               ImportMode
	ChunkSize          int
	CommitEveryBatches int
	DropIndexes        bool
	CountLines         bool
	DownloadTimeout    time.Duration
	DownloadLogEvery   time.Duration
	InsertLogEvery     time.Duration
	BaseURL            string
	Encodings          []string
	TempDir            string
	Format             Format
}

// OptionsFromConfig maps the ADDRESS_* settings.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	mode, err := ParseImportMode(cfg.Import.Mode)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Month:              cfg.Import.Month,
		Mode:               mode,
		ChunkSize:          cfg.Import.ChunkSize,
		CommitEveryBatches: cfg.Import.CommitEveryBatches,
		DropIndexes:        cfg.Import.DropIndexes,
		CountLines:         cfg.Import.CountLines,
		DownloadTimeout:    cfg.Import.DownloadTimeout,
		DownloadLogEvery:   cfg.Import.DownloadLogEvery,
		InsertLogEvery:     cfg.Import.InsertLogEvery,
		BaseURL:            cfg.Import.BaseURL,
		Encodings:          cfg.Import.Encodings,
		TempDir:            cfg.Import.TempDir,
		Format:             FormatFromConfig(cfg.Format),
	}, nil
}

// ResolveMonth returns raw when it is YYYYMM, otherwise the month of now.
func ResolveMonth(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if monthPattern.MatchString(raw) {
		return raw
	}
	return now.Format("200601")
}

// BuildDownloadURL returns the archive URL for month. The query keeps the
// parameter order the registry endpoint expects. fileName is already
// percent-encoded and is escaped again, so it goes out as %25EA...
func BuildDownloadURL(base, month string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	year := month
	if len(month) >= 4 {
		year = month[:4]
	}

	params := [][2]string{
		{"regYmd", year},
		{"reqType", "ALLRDNM"},
		{"ctprvnCd", "00"},
		{"stdde", month},
		{"fileName", month + "_%EA%B1%B4%EB%AC%BCDB_%EC%A0%84%EC%B2%B4%EB%B6%84.zip"},
		{"realFileName", month + "ALLRDNM00.zip"},
		{"intFileNo", "0"},
		{"intNum", "0"},
		{"_Html5", "true"},
		{"_StartOffset", "0"},
		{"_EndOffset", "149056343"},
	}
	pairs := make([]string, len(params))
	for i, p := range params {
		pairs[i] = url.QueryEscape(p[0]) + "=" + url.QueryEscape(p[1])
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + strings.Join(pairs, "&")
}

// Runner runs one import. The scheduler and HTTP trigger depend on it.
type Runner interface {
	Run(ctx context.Context) (*Result, error)
}

// Importer loads one month of the registry into the shadow table and swaps
// it in. Concurrent runs across processes are serialized by the Locker.
type Importer struct {
	pool       *pgxpool.Pool
	locker     Locker
	state      *StateStore
	downloader *Downloader
	metrics    *metrics.Metrics
	opts       Options
	now        func() time.Time
}

// NewImporter returns an importer using pool for every connection it needs:
// one for the advisory lock and one for the load session.
func NewImporter(pool *pgxpool.Pool, opts Options, m *metrics.Metrics) *Importer {
	if len(opts.Encodings) == 0 {
		opts.Encodings = DefaultEncodings
	}
	return &Importer{
		pool:       pool,
		locker:     NewAdvisoryLocker(pool),
		state:      NewStateStore(pool),
		downloader: NewDownloader(opts.DownloadTimeout, opts.DownloadLogEvery, m),
		metrics:    m,
		opts:       opts,
		now:        time.Now,
	}
}

// WithLocker replaces the advisory locker.
func (im *Importer) WithLocker(l Locker) *Importer {
	im.locker = l
	return im
}

func (im *Importer) setPhase(p ImportPhase) {
	im.metrics.SetPhase(string(p))
}

// Run imports the configured month. A held lock or an already completed
// month is reported through Result.Skipped with a nil error.
func (im *Importer) Run(ctx context.Context) (*Result, error) {
	start := im.now()
	month := ResolveMonth(im.opts.Month, start)
	runID := uuid.NewString()

	ctx = logging.WithRun(ctx, runID, month)
	log := logging.FromContext(ctx)

	res := &Result{RunID: runID, Month: month}
	defer func() { res.Duration = time.Since(start) }()
	im.setPhase(PhaseNotStarted)

	enc, encName, err := ResolveEncoding(im.opts.Encodings)
	if err != nil {
		im.metrics.ObserveRun(metrics.OutcomeFailed, start)
		return res, err
	}

	lock, err := im.locker.TryAcquire(ctx)
	if errors.Is(err, ErrLockNotAcquired) {
		log.Info("import skipped", "reason", SkipReasonLocked)
		return im.skip(res, SkipReasonLocked, start), nil
	}
	if err != nil {
		im.metrics.ObserveRun(metrics.OutcomeFailed, start)
		return res, err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			log.Error("release import lock", "error", err)
		}
	}()
	im.setPhase(PhaseLockAcquired)

	if err := EnsureSchema(ctx, im.pool); err != nil {
		im.metrics.ObserveRun(metrics.OutcomeFailed, start)
		return res, fmt.Errorf("ensure schema: %w", err)
	}
	im.setPhase(PhaseSchemaEnsured)

	done, err := im.state.Completed(ctx, month)
	if err != nil {
		im.metrics.ObserveRun(metrics.OutcomeFailed, start)
		return res, err
	}
	if done {
		log.Info("import skipped", "reason", SkipReasonCompleted)
		return im.skip(res, SkipReasonCompleted, start), nil
	}

	log.Info("import started",
		"mode", im.opts.Mode,
		"chunk_size", im.opts.ChunkSize,
		"commit_every_batches", im.opts.CommitEveryBatches,
		"encoding", encName,
	)

	if err := im.load(ctx, month, enc, res); err != nil {
		im.setPhase(PhaseFailed)
		im.markFailed(ctx, month, res.ExpectedCount)
		im.metrics.ObserveRun(metrics.OutcomeFailed, start)
		log.Error("import failed", "error", err, "processed", res.Processed, "inserted", res.Inserted)
		return res, err
	}

	im.setPhase(PhaseCompleted)
	im.metrics.ObserveRun(metrics.OutcomeCompleted, start)
	log.Info("import completed",
		"processed", res.Processed,
		"inserted", res.Inserted,
		"skipped_rows", res.SkippedRows,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (im *Importer) skip(res *Result, reason string, start time.Time) *Result {
	res.Skipped = true
	res.SkipReason = reason
	im.metrics.ObserveRun(metrics.OutcomeSkipped, start)
	return res
}

// markFailed records the failure even when ctx was cancelled.
func (im *Importer) markFailed(ctx context.Context, month string, expected *int64) {
	ctx = context.WithoutCancel(ctx)
	finished := im.now()
	err := im.state.Set(ctx, ImportState{
		Month:         month,
		Status:        StatusFailed,
		FinishedAt:    &finished,
		ExpectedCount: expected,
	})
	if err != nil {
		logging.FromContext(ctx).Error("record failed import", "error", err)
	}
}

// load runs every phase from download to swap.
func (im *Importer) load(ctx context.Context, month string, enc encoding.Encoding, res *Result) error {
	log := logging.FromContext(ctx)

	tmpDir, err := os.MkdirTemp(im.opts.TempDir, "addr-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			log.Warn("remove temp dir", "dir", tmpDir, "error", err)
			return
		}
		log.Debug("temp files removed", "dir", tmpDir)
	}()
	zipPath := filepath.Join(tmpDir, month+".zip")

	if err := im.state.Set(ctx, ImportState{Month: month, Status: StatusInProgress}); err != nil {
		return err
	}
	if err := truncateTable(ctx, im.pool, GenerationNext); err != nil {
		return err
	}

	im.setPhase(PhaseDownloading)
	if _, err := im.downloader.Download(ctx, BuildDownloadURL(im.opts.BaseURL, month), zipPath); err != nil {
		return err
	}

	if im.opts.DropIndexes {
		log.Info("dropping search indexes on shadow table")
		if err := dropIndexes(ctx, im.pool, GenerationNext); err != nil {
			return err
		}
	}

	archive, err := OpenArchive(zipPath)
	if err != nil {
		return err
	}
	defer archive.Close()
	log.Info("archive opened", "road", archive.Road.Name, "build_files", len(archive.Builds))

	if im.opts.CountLines {
		im.setPhase(PhaseCountingLines)
		countStart := time.Now()
		total, err := archive.CountBuildLines(ctx)
		if err != nil {
			return err
		}
		res.ExpectedCount = &total
		if err := im.state.Set(ctx, ImportState{Month: month, Status: StatusInProgress, ExpectedCount: &total}); err != nil {
			return err
		}
		log.Info("build lines counted", "total_lines", total, "duration_ms", time.Since(countStart).Milliseconds())
	}

	im.setPhase(PhaseIndexingRoad)
	idx, err := im.buildRoadIndex(ctx, archive.Road, enc)
	if err != nil {
		return err
	}

	im.setPhase(PhaseLoading)
	if err := im.loadBuildFiles(ctx, archive.Builds, idx, enc, res); err != nil {
		return err
	}

	im.setPhase(PhaseVerifying)
	count, err := countRows(ctx, im.pool, GenerationNext)
	if err != nil {
		return err
	}
	log.Info("shadow table verified", "count", count)
	if count <= 0 {
		return ErrShadowTableEmpty
	}

	im.setPhase(PhaseRebuildingIndexes)
	if err := ensureIndexes(ctx, im.pool, GenerationNext); err != nil {
		return err
	}

	im.setPhase(PhaseSwapping)
	if err := swapTables(ctx, im.pool); err != nil {
		return err
	}

	finished := im.now()
	return im.state.Set(ctx, ImportState{
		Month:         month,
		Status:        StatusCompleted,
		FinishedAt:    &finished,
		ExpectedCount: res.ExpectedCount,
	})
}

func (im *Importer) buildRoadIndex(ctx context.Context, f *zip.File, enc encoding.Encoding) (RoadIndex, error) {
	start := time.Now()
	rc, err := openEntry(f)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	idx, err := BuildRoadIndex(ctx, NewLineReader(rc, enc))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	logging.FromContext(ctx).Info("road index built", "size", len(idx), "duration_ms", time.Since(start).Milliseconds())
	return idx, nil
}

// loadBuildFiles streams every building file through one load session.
func (im *Importer) loadBuildFiles(ctx context.Context, files []*zip.File, idx RoadIndex, enc encoding.Encoding, res *Result) error {
	log := logging.FromContext(ctx)

	conn, err := im.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire load connection: %w", err)
	}
	session, err := openLoadSession(ctx, conn, im.opts.CommitEveryBatches)
	if err != nil {
		return err
	}
	defer session.close(ctx)

	loader := NewBatchLoader(session, GenerationNext.Table(), im.opts.Mode, im.opts.ChunkSize).
		OnFlush(session.batchFlushed).
		WithMetrics(im.metrics)
	progress := newLoadProgress(log, im.opts.InsertLogEvery, res.ExpectedCount)

	defer func() {
		res.Processed = progress.Processed
		res.Inserted = loader.Inserted()
		res.SkippedRows = progress.Skipped
	}()

	for _, f := range files {
		log.Info("processing build file", "file", f.Name)
		if err := im.loadFile(ctx, f, enc, idx, loader, progress); err != nil {
			return err
		}
	}

	if err := loader.Close(ctx); err != nil {
		return err
	}
	if err := session.commit(ctx); err != nil {
		return err
	}
	progress.Inserted = loader.Inserted()
	progress.done()
	return nil
}

func (im *Importer) loadFile(ctx context.Context, f *zip.File, enc encoding.Encoding, idx RoadIndex, loader *BatchLoader, p *loadProgress) error {
	rc, err := openEntry(f)
	if err != nil {
		return err
	}
	defer rc.Close()

	lr := NewLineReader(rc, enc)
	var n int
	for lr.Next() {
		n++
		if n%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		p.Processed++
		im.metrics.IncProcessed()

		doc, ok := im.transformLine(lr.Line(), idx)
		if !ok {
			p.Skipped++
			im.metrics.IncSkipped()
			p.maybeLog()
			continue
		}
		if err := loader.Add(ctx, doc); err != nil {
			return err
		}
		p.Inserted = loader.Inserted()
		p.maybeLog()
	}
	if err := lr.Err(); err != nil {
		return fmt.Errorf("read %s: %w", f.Name, err)
	}
	return nil
}

// transformLine splits one building line. Rows shorter than MinBuildColumns
// are rejected before transform.
func (im *Importer) transformLine(line string, idx RoadIndex) (*Document, bool) {
	cols := strings.Split(line, "|")
	if len(cols) < MinBuildColumns {
		return nil, false
	}
	return Transform(cols, idx, im.opts.Format)
}
