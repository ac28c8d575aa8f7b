package audio

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/handiism/cleantags/internal/model"
	"github.com/handiism/cleantags/internal/queue"
	"github.com/handiism/cleantags/internal/tags"
)

// TagConfig controls what the Tagger checks and whether it writes.
//
// Example:
//
//	cfg := &TagConfig{
//	    DryRun: false,                  // write fixes back to the files
//	    Fields: tags.DefaultFields(),   // artist/TPE1, album/TALB, title/TIT2
//	    Summaries: true,                // attach canonical summaries to results
//	}
type TagConfig struct {
	// DryRun computes fixes without touching any file.
	DryRun bool

	// Fields lists the logical fields to check, in order.
	Fields []tags.Field

	// Summaries attaches a canonical summary (with "N/M" track and disc
	// numbers reduced to N) to every decoded file's result.
	Summaries bool
}

// DefaultTagConfig returns the default tag configuration.
//
// The default is a dry run over artist, album and title.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		DryRun: true,
		Fields: tags.DefaultFields(),
	}
}

// Source yields paths until it is shut down and drained.
type Source interface {
	Get() (string, bool)
}

var _ Source = (*queue.Queue[string])(nil)

// SummaryFunc reads the canonical summary of a file.
type SummaryFunc func(path string) (model.Summary, error)

// Tagger consumes paths from a Source and repairs duplicated tag values.
//
// Files are processed strictly one at a time: each file is decoded,
// normalized and, if needed, persisted before the next path is taken.
type Tagger struct {
	source  Source
	codec   tags.Codec
	config  *TagConfig
	logger  *zap.Logger
	summary SummaryFunc

	onProgress func(model.ProgressEvent)
}

// NewTagger creates a new Tagger.
//
// If config is nil, DefaultTagConfig() is used. If logger is nil, logging
// is disabled.
func NewTagger(source Source, codec tags.Codec, config *TagConfig, logger *zap.Logger) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tagger{
		source:  source,
		codec:   codec,
		config:  config,
		logger:  logger.With(zap.String("component", "tagger")),
		summary: tags.ReadSummary,
	}
}

// OnProgress registers a callback receiving a progress event per file.
func (t *Tagger) OnProgress(fn func(model.ProgressEvent)) {
	t.onProgress = fn
}

// SetSummaryFunc replaces the reader used when TagConfig.Summaries is set.
func (t *Tagger) SetSummaryFunc(fn SummaryFunc) {
	t.summary = fn
}

// ProcessFiles takes paths off the source until it reports shutdown, and
// processes each of them. Results are added to report when it is not nil.
//
// When ctx is cancelled, ProcessFiles returns ctx.Err() after finishing
// the file in progress. Per-file failures never end the loop.
func (t *Tagger) ProcessFiles(ctx context.Context, report *model.Report) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		path, ok := t.source.Get()
		if !ok {
			return nil
		}

		res := t.ProcessFile(path)
		if report != nil {
			report.Add(res)
		}
	}
}

// ProcessFile decodes, normalizes and, unless in dry-run mode, fixes a
// single file.
func (t *Tagger) ProcessFile(path string) model.FileResult {
	log := t.logger.With(zap.String("path", path))
	log.Debug("processing file")

	res := model.FileResult{Path: path}

	c, err := t.codec.Decode(path)
	if err != nil {
		log.Warn("cannot read tags", zap.Error(err))
		res.Status = model.StatusDecodeFailed
		res.Err = err
		t.progress(model.ProgressEvent{Message: fmt.Sprintf("Cannot read %s: %v", filepath.Base(path), err), Level: model.LevelWarning})
		return res
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Debug("close tags", zap.Error(err))
		}
	}()

	res.Scheme = string(c.Scheme())
	if t.config.Summaries {
		t.attachSummary(&res, log)
	}

	res.Fixes = Normalize(c, t.config.Fields)
	fixCnt := len(res.Fixes)

	switch {
	case fixCnt == 0:
		res.Status = model.StatusClean
		t.progress(model.ProgressEvent{Message: fmt.Sprintf("Clean: %s", filepath.Base(path)), Level: model.LevelVerbose})

	case t.config.DryRun:
		res.Status = model.StatusWouldFix
		log.Info("would fix duplicated values", zap.Int("fields", fixCnt), zap.Strings("keys", fixKeys(res.Fixes)))
		t.progress(model.ProgressEvent{Message: fmt.Sprintf("Would fix %d field(s) in %s", fixCnt, filepath.Base(path)), Level: model.LevelInfo})

	default:
		if err := t.persist(c, res.Fixes); err != nil {
			log.Error("cannot save fixed tags", zap.Int("fields", fixCnt), zap.Error(err))
			res.Status = model.StatusPersistFailed
			res.Err = err
			t.progress(model.ProgressEvent{Message: fmt.Sprintf("Cannot save %s: %v", filepath.Base(path), err), Level: model.LevelError})
			return res
		}
		res.Status = model.StatusFixed
		log.Info("fixed duplicated values", zap.Int("fields", fixCnt), zap.Strings("keys", fixKeys(res.Fixes)))
		t.progress(model.ProgressEvent{Message: fmt.Sprintf("Fixed %d field(s) in %s", fixCnt, filepath.Base(path)), Level: model.LevelSuccess})
	}

	return res
}

// persist applies all fixes and writes the container once.
func (t *Tagger) persist(c tags.Container, fixes []model.FieldFix) error {
	if err := Apply(c, fixes); err != nil {
		return fmt.Errorf("%w %s: %w", tags.ErrPersist, c.Path(), err)
	}
	return t.codec.Persist(c)
}

func (t *Tagger) attachSummary(res *model.FileResult, log *zap.Logger) {
	if t.summary == nil {
		return
	}
	s, err := t.summary(res.Path)
	if err != nil {
		log.Debug("no summary", zap.Error(err))
		return
	}
	res.Summary = &s
	log.Debug("summary",
		zap.String("artist", s.Artist),
		zap.String("album", s.Album),
		zap.String("title", s.Title),
		zap.String("disc", s.Disc),
		zap.String("track", s.Track))
}

func (t *Tagger) progress(event model.ProgressEvent) {
	if t.onProgress != nil {
		t.onProgress(event)
	}
}

func fixKeys(fixes []model.FieldFix) []string {
	keys := make([]string, len(fixes))
	for i, fix := range fixes {
		keys[i] = fix.Key
	}
	return keys
}
