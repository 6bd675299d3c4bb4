// Package combine drives the discovery pipeline: it resolves each root, walks it,
// filters the entries and streams the surviving files through an Emitter.
package combine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"printcode/pkg/comments"
	"printcode/pkg/config"
	"printcode/pkg/ignore"
	"printcode/pkg/walk"

	"go.uber.org/zap"
)

// ErrIncomplete is returned when the run finished but at least one root, walk
// step or file could not be processed. Output for everything else was written.
var ErrIncomplete = errors.New("one or more files could not be read, see stderr for details")

// runner carries the state of one Run.
type runner struct {
	cfg      *config.RunConfig
	excludes *walk.ExcludeRuleSet
	rules    *ignore.Stack
	leaders  comments.Table
	emitter  Emitter
	logger   *zap.Logger
	failed   bool
	emitted  int
}

// Run executes the pipeline for every root in cfg and writes the records to out.
// An invalid exclude pattern aborts before anything is written. Per-root and
// per-file problems are logged and skipped; they make Run return ErrIncomplete
// once all roots have been processed. Skips caused by the size limit or the
// binary heuristic are informational only.
func Run(cfg *config.RunConfig, out io.Writer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	excludes, err := walk.CompileExcludes(cfg.Excludes)
	if err != nil {
		return err
	}

	startTime := time.Now()
	logger.Debug("Starting combine process",
		zap.Strings("paths", cfg.Paths),
		zap.Strings("extensions", cfg.Extensions.Sorted()),
		zap.Strings("excludes", excludes.Patterns()))

	r := &runner{
		cfg:      cfg,
		excludes: excludes,
		emitter:  NewEmitter(out, cfg.JSON, cfg.EndMarker),
		logger:   logger,
	}
	if !cfg.NoGitignore {
		r.rules = ignore.NewStack(ignore.LoadGlobal(logger), logger)
	}
	if cfg.StripComments {
		r.leaders = comments.DefaultTable.With(cfg.CommentLeaders)
	}

	if err := r.emitter.Begin(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, raw := range cfg.Paths {
		if err := r.processRoot(raw); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := r.emitter.End(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Debug("Combine process completed",
		zap.Int("totalFiles", r.emitted),
		zap.Duration("elapsed", time.Since(startTime)))

	if r.failed {
		return ErrIncomplete
	}
	return nil
}

// processRoot walks one root. Only output errors are returned; everything else
// is logged and recorded in r.failed.
func (r *runner) processRoot(raw string) error {
	root, err := ResolveRoot(raw)
	if err != nil {
		r.logger.Error("Skipping root", zap.String("root", raw), zap.Error(err))
		r.failed = true
		return nil
	}
	r.logger.Debug("Processing root", zap.String("root", raw), zap.String("canonical", root))

	filter := walk.EntryFilter{Root: root, Excludes: r.excludes}
	w := walk.New(root, walk.Options{
		FollowSymlinks: r.cfg.FollowSymlinks,
		Hidden:         r.cfg.Hidden,
		Ignore:         r.rules.WithParents(root),
		Filter:         filter,
	}, r.logger)

	for entry, err := range w.Entries() {
		if err != nil {
			r.logger.Error("Walk error", zap.Error(err))
			r.failed = true
			continue
		}
		if !entry.IsFile() || !r.cfg.Extensions.Matches(entry.Path) {
			continue
		}
		if err := r.processFile(entry.Path, walk.DisplayPath(root, entry.Path)); err != nil {
			return err
		}
	}
	return nil
}

// processFile applies the size gate, reads and transforms one file and emits it.
func (r *runner) processFile(path, displayPath string) error {
	if limit := r.cfg.MaxBytes; limit != nil {
		if info, err := os.Stat(path); err == nil && uint64(info.Size()) > *limit {
			r.logger.Info("Skipping file over size limit",
				zap.String("file", displayPath),
				zap.Int64("sizeBytes", info.Size()),
				zap.Uint64("maxBytes", *limit))
			return nil
		}
	}

	content, err := readFile(path, displayPath)
	if err != nil {
		r.logger.Error("Error printing file", zap.String("file", displayPath), zap.Error(err))
		r.failed = true
		return nil
	}

	if r.cfg.SkipBinary && looksBinary(content) {
		r.logger.Info("Skipping binary file", zap.String("file", displayPath))
		return nil
	}

	if err := r.emitter.Emit(buildRecord(path, displayPath, content, r.leaders)); err != nil {
		return err
	}
	r.emitted++
	return nil
}
