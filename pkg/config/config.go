// Package config holds the validated configuration for one pc run.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoExtensions is returned when no usable extension remains after normalization.
var ErrNoExtensions = errors.New("no valid extensions provided (after normalisation)")

// ExtensionSet is a set of lowercase extensions without a leading dot.
type ExtensionSet map[string]struct{}

// NormalizeExtensions converts user input such as "py", ".PY" or "*.py" into an
// ExtensionSet. Empty values are skipped; an empty result is ErrNoExtensions.
func NormalizeExtensions(exts []string) (ExtensionSet, error) {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		ext = strings.TrimPrefix(ext, "*.")
		ext = strings.TrimLeft(ext, ".")
		ext = strings.ToLower(ext)
		if ext == "" {
			continue
		}
		set[ext] = struct{}{}
	}
	if len(set) == 0 {
		return nil, ErrNoExtensions
	}
	return set, nil
}

// Matches reports whether path has an extension contained in the set.
// Files without an extension (including dotfiles such as ".bashrc") never match.
func (s ExtensionSet) Matches(path string) bool {
	ext, ok := Extension(path)
	if !ok {
		return false
	}
	_, found := s[strings.ToLower(ext)]
	return found
}

// Sorted returns the extensions in lexical order.
func (s ExtensionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for ext := range s {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Extension returns the text after the final dot of the base name of path.
func Extension(path string) (string, bool) {
	name := filepath.Base(path)
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return "", false
	}
	return name[idx+1:], true
}

// RunConfig is the immutable input of one pipeline run.
type RunConfig struct {
	Extensions     ExtensionSet        // Allowed extensions, never empty.
	Paths          []string            // Roots to traverse, in order.
	FollowSymlinks bool                // Descend into symlinked directories.
	NoGitignore    bool                // Disable every ignore-file source.
	Hidden         bool                // Include entries whose name starts with a dot.
	JSON           bool                // Emit a JSON array instead of text blocks.
	EndMarker      bool                // Emit an END FILE marker after each text block.
	StripComments  bool                // Drop full-line comments and blank lines.
	SkipBinary     bool                // Skip files that look binary.
	MaxBytes       *uint64             // Skip files larger than this, when set.
	Excludes       []string            // Raw user exclude globs.
	CommentLeaders map[string][]string // Extra comment leaders per extension.
}

// Validate checks the invariants the pipeline relies on.
func (c *RunConfig) Validate() error {
	if len(c.Extensions) == 0 {
		return ErrNoExtensions
	}
	if len(c.Paths) == 0 {
		return fmt.Errorf("at least one path is required")
	}
	return nil
}
