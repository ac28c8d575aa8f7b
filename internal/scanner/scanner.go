package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/handiism/cleantags/internal/queue"
)

// DefaultExtensions returns the audio file extensions scanned by default.
func DefaultExtensions() []string {
	return []string{"mp3", "ogg", "opus", "m4a", "m4b"}
}

// Sink receives the paths found by a Scanner.
type Sink interface {
	Put(path string) error
}

var _ Sink = (*queue.Queue[string])(nil)

// Scanner finds audio files below a root directory.
type Scanner struct {
	sink       Sink
	extensions map[string]struct{}
	logger     *zap.Logger

	discovered atomic.Int64
	skipped    atomic.Int64
}

// New creates a Scanner that puts matching paths onto sink.
//
// Extensions are given without the leading dot and are matched
// case-insensitively. If logger is nil, logging is disabled.
func New(sink Sink, extensions []string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}

	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts["."+ext] = struct{}{}
		}
	}

	return &Scanner{
		sink:       sink,
		extensions: exts,
		logger:     logger.With(zap.String("component", "scanner")),
	}
}

// Matches reports whether name carries one of the scanner's extensions.
func (s *Scanner) Matches(name string) bool {
	_, ok := s.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Discovered returns how many files have been queued so far.
func (s *Scanner) Discovered() int64 {
	return s.discovered.Load()
}

// Skipped returns how many unreadable directories were skipped.
func (s *Scanner) Skipped() int64 {
	return s.skipped.Load()
}

// Visit walks root and queues every matching file.
//
// Visit returns an error only if root itself cannot be read or ctx is
// cancelled. If the sink stops accepting paths, traversal ends early
// without an error. Visit never shuts the queue down.
func (s *Scanner) Visit(ctx context.Context, root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", root, err)
	}

	s.logger.Debug("scan started", zap.String("root", abs))

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if path == abs {
				return walkErr
			}
			s.skipped.Add(1)
			s.logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(walkErr))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !s.Matches(d.Name()) || !isRegular(path, d) {
			return nil
		}

		if err := s.sink.Put(path); err != nil {
			if errors.Is(err, queue.ErrShutdown) {
				s.logger.Debug("queue shut down, stopping scan", zap.String("path", path))
				return filepath.SkipAll
			}
			return err
		}
		s.discovered.Add(1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", abs, err)
	}

	s.logger.Debug("scan finished",
		zap.String("root", abs),
		zap.Int64("discovered", s.discovered.Load()),
		zap.Int64("skipped", s.skipped.Load()))
	return nil
}

// isRegular reports whether the entry is a regular file or a symlink to
// one.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
