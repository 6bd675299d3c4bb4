package walk

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// ExcludeRuleSet is a compiled set of user exclude globs. Patterns are compiled
// without a separator, so "*" and "**" both match across "/". Matching is always
// done against slash-separated paths relative to the current root.
type ExcludeRuleSet struct {
	patterns []compiledPattern
}

// CompileExcludes compiles the user exclude patterns. Blank patterns are skipped;
// when none remain the result is nil, which matches nothing.
func CompileExcludes(patterns []string) (*ExcludeRuleSet, error) {
	var set ExcludeRuleSet
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid --exclude glob pattern %q: %w", pattern, err)
		}
		set.patterns = append(set.patterns, compiledPattern{pattern: pattern, glob: g})
	}
	if len(set.patterns) == 0 {
		return nil, nil
	}
	return &set, nil
}

// Match reports whether displayPath matches any pattern.
func (s *ExcludeRuleSet) Match(displayPath string) bool {
	if s == nil {
		return false
	}
	for _, cp := range s.patterns {
		if cp.glob.Match(displayPath) {
			return true
		}
	}
	return false
}

// Patterns returns the compiled pattern strings in input order.
func (s *ExcludeRuleSet) Patterns() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.patterns))
	for i, cp := range s.patterns {
		out[i] = cp.pattern
	}
	return out
}
