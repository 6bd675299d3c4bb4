package ignore

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// rootedPattern is a rule from a directory above the walk root. Its domain is
// absolute, so root-relative paths are matched with the root's components
// prepended.
type rootedPattern struct {
	gitignore.Pattern
	root []string
}

func (p rootedPattern) Match(path []string, isDir bool) gitignore.MatchResult {
	full := make([]string, 0, len(p.root)+len(path))
	full = append(full, p.root...)
	full = append(full, path...)
	return p.Pattern.Match(full, isDir)
}

// WithParents returns the stack for a walk rooted at root, an absolute directory,
// with the rule files of every directory above it layered in from the outermost
// inwards. Rules that match root itself or one of its ancestors are dropped: the
// root was named explicitly, so its contents are walked even when it lies inside
// an ignored directory.
func (s *Stack) WithParents(root string) *Stack {
	if s == nil {
		return nil
	}

	components := splitAbs(root)
	volume := filepath.VolumeName(root)

	var local []gitignore.Pattern
	for depth := range len(components) {
		domain := components[:depth]
		dir := volume + string(filepath.Separator) + filepath.Join(domain...)
		for _, p := range s.readDir(dir, domain) {
			if coversRoot(p, components) {
				continue
			}
			local = append(local, rootedPattern{Pattern: p, root: components})
		}
	}
	return s.extend(local)
}

// coversRoot reports whether p matches root or any directory above it.
func coversRoot(p gitignore.Pattern, root []string) bool {
	for n := 1; n <= len(root); n++ {
		if p.Match(root[:n], true) != gitignore.NoMatch {
			return true
		}
	}
	return false
}

// splitAbs returns the components of an absolute path without its volume.
func splitAbs(path string) []string {
	rest := filepath.ToSlash(strings.TrimPrefix(filepath.Clean(path), filepath.VolumeName(path)))
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}
