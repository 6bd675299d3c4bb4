package walk

import (
	"path/filepath"
	"strings"
)

// EntryFilter is the read-only filter context for one root. It is built once per
// root and consulted for every visited entry before the walker descends.
type EntryFilter struct {
	Root     string          // Canonical root the display paths are relative to.
	Excludes *ExcludeRuleSet // User excludes; nil keeps everything.
}

// Keep reports whether the entry at path survives the user excludes. The root
// itself (depth 0) is always kept. Directories are also tested with a trailing
// "/" so a pattern such as "tests/**" prunes the whole subtree at once.
func (f EntryFilter) Keep(path string, depth int, isDir bool) bool {
	if depth == 0 || f.Excludes == nil {
		return true
	}

	rel := DisplayPath(f.Root, path)
	if f.Excludes.Match(rel) {
		return false
	}
	if isDir && !strings.HasSuffix(rel, "/") && f.Excludes.Match(rel+"/") {
		return false
	}
	return true
}

// DisplayPath returns path relative to root with forward slashes. When path is
// the root itself, as for a root that is a single file, the base name is used.
func DisplayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	if rel == "." {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
