// Package comments strips full-line comments and blank lines from source text.
//
// Detection is a line-prefix heuristic: a line is a comment only when its first
// non-whitespace characters are a leader registered for the file's extension.
// Trailing comments after code and block comments are left untouched.
package comments

import (
	"slices"
	"strings"
	"unicode"
)

// Table maps a lowercase extension (no leading dot) to its full-line comment leaders.
type Table map[string][]string

var (
	hashLeaders   = []string{"#"}
	slashLeaders  = []string{"//"}
	dashDashLeads = []string{"--"}
)

// DefaultTable is the built-in leader table.
var DefaultTable = Table{
	"py":   hashLeaders,
	"sh":   hashLeaders,
	"bash": hashLeaders,
	"zsh":  hashLeaders,
	"rb":   hashLeaders,
	"yaml": hashLeaders,
	"yml":  hashLeaders,
	"toml": hashLeaders,

	"rs":    slashLeaders,
	"c":     slashLeaders,
	"h":     slashLeaders,
	"cpp":   slashLeaders,
	"hpp":   slashLeaders,
	"cc":    slashLeaders,
	"js":    slashLeaders,
	"ts":    slashLeaders,
	"java":  slashLeaders,
	"go":    slashLeaders,
	"cs":    slashLeaders,
	"swift": slashLeaders,
	"kt":    slashLeaders,

	"sql": dashDashLeads,
}

// Leaders returns the leaders registered for ext, compared case-insensitively.
func (t Table) Leaders(ext string) []string {
	return t[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// With returns a copy of t extended with extra leaders. Keys are normalized the
// same way as Leaders; empty leaders are dropped.
func (t Table) With(extra map[string][]string) Table {
	out := make(Table, len(t)+len(extra))
	for ext, leaders := range t {
		out[ext] = append([]string(nil), leaders...)
	}
	for ext, leaders := range extra {
		key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if key == "" {
			continue
		}
		for _, leader := range leaders {
			leader = strings.TrimSpace(leader)
			if leader == "" || slices.Contains(out[key], leader) {
				continue
			}
			out[key] = append(out[key], leader)
		}
	}
	return out
}

// Strip drops blank lines and full-line comments for ext from src. Every kept
// line is reproduced as-is and terminated by a single "\n".
func (t Table) Strip(src, ext string) string {
	leaders := t.Leaders(ext)

	var out strings.Builder
	out.Grow(len(src))

	for _, line := range splitLines(src) {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if strings.TrimRightFunc(trimmed, unicode.IsSpace) == "" {
			continue
		}
		if hasLeader(trimmed, leaders) {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}

	return out.String()
}

// Strip applies DefaultTable.
func Strip(src, ext string) string {
	return DefaultTable.Strip(src, ext)
}

// splitLines splits on "\n", dropping one trailing "\r" per line and the empty
// remainder after a final terminator.
func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	lines := strings.Split(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func hasLeader(s string, leaders []string) bool {
	for _, leader := range leaders {
		if strings.HasPrefix(s, leader) {
			return true
		}
	}
	return false
}
