package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/cleantags/internal/audio"
	"github.com/handiism/cleantags/internal/config"
	ioutils "github.com/handiism/cleantags/internal/io"
	"github.com/handiism/cleantags/internal/logging"
	"github.com/handiism/cleantags/internal/model"
	"github.com/handiism/cleantags/internal/queue"
	"github.com/handiism/cleantags/internal/scanner"
	"github.com/handiism/cleantags/internal/tags"
)

var (
	// ErrNotDirectory is returned when the scan root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrLocked is returned when another live run holds the lock.
	ErrLocked = errors.New("another live run is in progress")
)

// Progress is a snapshot of the counters of the current run.
type Progress struct {
	Discovered int64
	Processed  int64
	Fixed      int64
	Failed     int64
	Done       bool
}

// Manager coordinates scan runs.
//
// A run starts one traversal goroutine producing paths and one tagger
// goroutine consuming them through an unbounded queue. The manager shuts
// the queue down once traversal returns or the run is cancelled.
type Manager struct {
	settings *config.Settings
	codec    tags.Codec
	logger   *zap.Logger

	onProgress func(model.ProgressEvent)

	mu      sync.Mutex
	scanner *scanner.Scanner
	report  *model.Report
	done    atomic.Bool
}

// NewManager creates a new Manager.
//
// If settings is nil, config.DefaultSettings() is used. If codec is nil,
// tags.DefaultRegistry() is used. If logger is nil, logging is disabled.
func NewManager(settings *config.Settings, codec tags.Codec, logger *zap.Logger) *Manager {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if codec == nil {
		codec = tags.DefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		settings: settings,
		codec:    codec,
		logger:   logger,
	}
}

// OnProgress registers a callback receiving a progress event per file.
// It must be set before Run.
func (m *Manager) OnProgress(fn func(model.ProgressEvent)) {
	m.onProgress = fn
}

// Run scans root and fixes (or, in dry-run mode, reports) duplicated tag
// values in every matching file.
//
// Per-file failures are recorded in the report and never end the run.
// Run returns an error for setup failures (root missing or not a
// directory, lock held) and when traversal of root itself fails or ctx is
// cancelled; in the latter cases the partial report is returned as well.
func (m *Manager) Run(ctx context.Context, root string) (*model.Report, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotDirectory)
	}

	if !m.settings.DryRun {
		unlock, err := m.lock()
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	runID := uuid.NewString()
	logger := m.logger.With(zap.String(logging.FieldRunID, runID))

	q := queue.New[string]()
	sc := scanner.New(q, m.settings.Extensions, logger)
	tagger := audio.NewTagger(q, m.codec, m.settings.ToTagConfig(), logger)
	tagger.OnProgress(m.onProgress)
	report := model.NewReport(runID, abs, m.settings.DryRun)

	m.mu.Lock()
	m.scanner, m.report = sc, report
	m.mu.Unlock()
	m.done.Store(false)
	defer m.done.Store(true)

	logger.Info("run started",
		zap.String("root", abs),
		zap.Bool("dry_run", m.settings.DryRun),
		zap.Strings("extensions", m.settings.Extensions))

	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, q.Shutdown)
	defer stop()

	g.Go(func() error {
		defer q.Shutdown()
		return sc.Visit(gctx, abs)
	})
	g.Go(func() error {
		return tagger.ProcessFiles(gctx, report)
	})

	err = g.Wait()
	report.Finish()

	fields := []zap.Field{
		zap.Int64("discovered", sc.Discovered()),
		zap.Int("processed", report.Processed()),
		zap.Int("fixed", report.Count(model.StatusFixed)),
		zap.Int("would_fix", report.Count(model.StatusWouldFix)),
		zap.Int("fields", report.FieldsFixed()),
		zap.Int("failed", report.Failures()),
		zap.Int64("skipped_dirs", sc.Skipped()),
		zap.Duration("duration", report.Duration()),
	}
	if err != nil {
		logger.Error("run aborted", append(fields, zap.Error(err))...)
		return report, fmt.Errorf("run %s: %w", runID, err)
	}
	logger.Info("run finished", fields...)
	return report, nil
}

// Progress returns the counters of the current or last run.
func (m *Manager) Progress() Progress {
	m.mu.Lock()
	sc, report := m.scanner, m.report
	m.mu.Unlock()

	var p Progress
	if sc != nil {
		p.Discovered = sc.Discovered()
	}
	if report != nil {
		p.Processed = int64(report.Processed())
		p.Fixed = int64(report.Count(model.StatusFixed) + report.Count(model.StatusWouldFix))
		p.Failed = int64(report.Failures())
	}
	p.Done = report != nil && m.done.Load()
	return p
}

// WritePlaylist writes a playlist of the files in report that were fixed
// or would be fixed. If path is a directory, the playlist is named after
// the scan root. It returns the path written.
func (m *Manager) WritePlaylist(ctx context.Context, report *model.Report, path string) (string, error) {
	creator, err := m.settings.PlaylistCreator()
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		name := ioutils.SanitizeFileName(filepath.Base(report.Root))
		if name == "" {
			name = "cleantags"
		}
		path = filepath.Join(path, name+creator.Format().Extension())
	}

	content := creator.CreatePlaylist(report.Affected())
	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		return "", fmt.Errorf("write playlist: %w", err)
	}

	m.logger.Info("playlist written", zap.String("path", path), zap.Int("entries", len(report.Affected())))
	return path, nil
}

func (m *Manager) lock() (func(), error) {
	lockPath := m.settings.LockFile
	if err := ioutils.EnsureDir(filepath.Dir(lockPath)); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", lockPath, ErrLocked)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			m.logger.Warn("failed to release lock", zap.String("lock", lockPath), zap.Error(err))
		}
	}, nil
}
