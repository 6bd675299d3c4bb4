// Package ignore implements version-control ignore semantics for directory walks.
//
// Rules come from the system and user git configuration, from a repository's
// .git/info/exclude and from .gitignore and .ignore files in every directory.
// Each directory's rules are scoped to its own subtree and take precedence over
// the rules of its ancestors. The walked tree does not need to be a git repository.
package ignore

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
)

// Per-directory rule sources in increasing order of precedence.
var dirSources = []string{
	filepath.Join(".git", "info", "exclude"),
	".gitignore",
	".ignore",
}

// Stack is the ordered set of ignore patterns in effect for one directory.
// A nil *Stack ignores nothing.
type Stack struct {
	patterns []gitignore.Pattern // Lowest precedence first.
	matcher  gitignore.Matcher
	logger   *zap.Logger
}

// NewStack creates a stack seeded with base patterns, typically the result of LoadGlobal.
func NewStack(base []gitignore.Pattern, logger *zap.Logger) *Stack {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stack{
		patterns: base,
		matcher:  gitignore.NewMatcher(base),
		logger:   logger,
	}
}

// Len returns the number of patterns in effect.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}

// Descend returns the stack for dir, whose path relative to the walk root is rel.
// Rules found in dir are appended after the inherited ones; when dir has no rule
// files the receiver itself is returned.
func (s *Stack) Descend(dir string, rel []string) *Stack {
	if s == nil {
		return nil
	}
	return s.extend(s.readDir(dir, rel))
}

// readDir parses the rule files of dir, lowest precedence first, scoping them
// to domain.
func (s *Stack) readDir(dir string, domain []string) []gitignore.Pattern {
	var local []gitignore.Pattern
	for _, name := range dirSources {
		path := filepath.Join(dir, name)
		ps, err := ReadPatternFile(path, domain)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
				s.logger.Warn("Failed to read ignore file", zap.String("filePath", path), zap.Error(err))
			}
			continue
		}
		if len(ps) > 0 {
			s.logger.Debug("Compiled ignore patterns",
				zap.String("filePath", path),
				zap.Int("patternCount", len(ps)))
		}
		local = append(local, ps...)
	}
	return local
}

// extend returns a stack with local appended after the receiver's patterns.
func (s *Stack) extend(local []gitignore.Pattern) *Stack {
	if len(local) == 0 {
		return s
	}

	patterns := make([]gitignore.Pattern, 0, len(s.patterns)+len(local))
	patterns = append(patterns, s.patterns...)
	patterns = append(patterns, local...)

	return &Stack{
		patterns: patterns,
		matcher:  gitignore.NewMatcher(patterns),
		logger:   s.logger,
	}
}

// Ignored reports whether the entry at rel (path components relative to the walk
// root) is ignored. The last matching pattern wins, so a negated rule in a nested
// directory re-includes what an ancestor excluded.
func (s *Stack) Ignored(rel []string, isDir bool) bool {
	if s == nil || len(s.patterns) == 0 || len(rel) == 0 {
		return false
	}
	return s.matcher.Match(rel, isDir)
}

// ReadPatternFile parses a gitignore-format file. Patterns are scoped to domain,
// the root-relative components of the directory that owns the file.
func ReadPatternFile(path string, domain []string) ([]gitignore.Pattern, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePatterns(content, domain), nil
}

// ParsePatterns parses gitignore-format lines, skipping blanks and comments.
func ParsePatterns(content []byte, domain []string) []gitignore.Pattern {
	var ps []gitignore.Pattern

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := trimPatternLine(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, domain))
	}
	return ps
}

// trimPatternLine drops a CR terminator and trailing spaces that are not escaped.
func trimPatternLine(line string) string {
	line = strings.TrimSuffix(line, "\r")
	for strings.HasSuffix(line, " ") && !strings.HasSuffix(line, `\ `) {
		line = line[:len(line)-1]
	}
	return line
}
