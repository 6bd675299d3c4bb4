// Package walk performs the depth-first directory traversal of a root, pruning
// entries by ignore files, hidden names and user exclude globs before descent.
package walk

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"printcode/pkg/ignore"

	"go.uber.org/zap"
)

// Kind classifies a walk entry.
type Kind uint8

const (
	KindOther Kind = iota // Anything that is neither a regular file nor a directory.
	KindFile
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

// Entry is one path produced by the walker.
type Entry struct {
	Path  string // Path under the root, rooted like the root itself.
	Depth int    // Distance from the root; the root is 0.
	Kind  Kind
}

// IsFile reports whether the entry is a regular file.
func (e Entry) IsFile() bool { return e.Kind == KindFile }

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Kind == KindDir }

// Options controls traversal policy.
type Options struct {
	FollowSymlinks bool          // Classify symlinks by target and descend into linked directories.
	Hidden         bool          // Yield entries whose name starts with a dot.
	Ignore         *ignore.Stack // Base ignore rules; nil disables ignore files entirely.
	Filter         EntryFilter   // User exclude filter.
}

// Walker walks one canonical root.
type Walker struct {
	root   string
	opts   Options
	logger *zap.Logger
}

// New creates a walker for root.
func New(root string, opts Options, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{root: root, opts: opts, logger: logger}
}

// Entries returns the lazy depth-first sequence of entries under the root. The
// root is yielded first. A directory is yielded before its children, and its
// children are read only if the directory itself was kept. Errors are yielded
// with a zero Entry and the walk continues with the next sibling. Each call
// starts a fresh traversal.
func (w *Walker) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		info, err := os.Stat(w.root)
		if err != nil {
			yield(Entry{}, fmt.Errorf("stat root %s: %w", w.root, err))
			return
		}

		root := Entry{Path: w.root, Depth: 0, Kind: kindOf(info.Mode())}
		if !yield(root, nil) || !root.IsDir() {
			return
		}

		var visited []string
		if w.opts.FollowSymlinks {
			visited = []string{w.root}
		}
		w.walkDir(w.root, nil, 1, w.opts.Ignore, visited, yield)
	}
}

// walkDir yields the children of dir. rel holds dir's path components relative to
// the root and visited the resolved paths of the directories currently being
// walked, used to detect symlink loops. It returns false once the consumer stops.
func (w *Walker) walkDir(dir string, rel []string, depth int, rules *ignore.Stack, visited []string, yield func(Entry, error) bool) bool {
	rules = rules.Descend(dir, rel)

	// ReadDir returns the entries read before an error; those are still walked.
	children, err := os.ReadDir(dir)
	if err != nil && !yield(Entry{}, fmt.Errorf("read directory %s: %w", dir, err)) {
		return false
	}

	for _, child := range children {
		name := child.Name()
		path := filepath.Join(dir, name)

		if !w.opts.Hidden && strings.HasPrefix(name, ".") {
			continue
		}

		kind, err := w.classify(path, child)
		if err != nil {
			if !yield(Entry{}, err) {
				return false
			}
			continue
		}

		childRel := append(rel[:len(rel):len(rel)], name)
		if rules.Ignored(childRel, kind == KindDir) {
			w.logger.Debug("Skipping ignored path", zap.String("path", path))
			continue
		}
		if !w.opts.Filter.Keep(path, depth, kind == KindDir) {
			w.logger.Debug("Skipping excluded path", zap.String("path", path))
			continue
		}

		if !yield(Entry{Path: path, Depth: depth, Kind: kind}, nil) {
			return false
		}
		if kind != KindDir {
			continue
		}

		next := visited
		if w.opts.FollowSymlinks {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				if !yield(Entry{}, fmt.Errorf("resolve %s: %w", path, err)) {
					return false
				}
				continue
			}
			if slices.Contains(visited, resolved) {
				if !yield(Entry{}, fmt.Errorf("symlink loop detected at %s -> %s", path, resolved)) {
					return false
				}
				continue
			}
			next = append(visited[:len(visited):len(visited)], resolved)
		}

		if !w.walkDir(path, childRel, depth+1, rules, next, yield) {
			return false
		}
	}
	return true
}

// classify determines the entry kind. Symlinks are "other" unless symlinks are
// followed, in which case the target decides.
func (w *Walker) classify(path string, d fs.DirEntry) (Kind, error) {
	if d.Type()&fs.ModeSymlink == 0 {
		return kindOf(d.Type()), nil
	}
	if !w.opts.FollowSymlinks {
		return KindOther, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return KindOther, fmt.Errorf("follow symlink %s: %w", path, err)
	}
	return kindOf(info.Mode()), nil
}

func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}
