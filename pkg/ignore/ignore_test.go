package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNilStackIgnoresNothing(t *testing.T) {
	var s *Stack

	assert.False(t, s.Ignored([]string{"a.py"}, false))
	assert.Nil(t, s.Descend(t.TempDir(), nil))
	assert.Zero(t, s.Len())
}

func TestDescendWithoutRulesReturnsSameStack(t *testing.T) {
	s := NewStack(nil, zaptest.NewLogger(t))

	assert.Same(t, s, s.Descend(t.TempDir(), nil))
}

func TestNestedRulesAreScopedToTheirSubtree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "root_ignored.txt\n")
	writeFile(t, filepath.Join(root, "nested", ".gitignore"), "nested_ignored.txt\n")

	top := NewStack(nil, zaptest.NewLogger(t)).Descend(root, nil)
	nested := top.Descend(filepath.Join(root, "nested"), []string{"nested"})

	assert.True(t, top.Ignored([]string{"root_ignored.txt"}, false))
	assert.False(t, top.Ignored([]string{"root_included.txt"}, false))
	assert.False(t, top.Ignored([]string{"nested_ignored.txt"}, false), "nested rule must not leak upwards")

	assert.True(t, nested.Ignored([]string{"nested", "nested_ignored.txt"}, false))
	assert.True(t, nested.Ignored([]string{"nested", "root_ignored.txt"}, false), "ancestor rule applies below")
	assert.False(t, nested.Ignored([]string{"nested", "nested_included.txt"}, false))
}

func TestCloserRulesTakePrecedence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\n")
	writeFile(t, filepath.Join(root, "keep", ".gitignore"), "!important.log\n")

	top := NewStack(nil, nil).Descend(root, nil)
	keep := top.Descend(filepath.Join(root, "keep"), []string{"keep"})

	assert.True(t, keep.Ignored([]string{"keep", "debug.log"}, false))
	assert.False(t, keep.Ignored([]string{"keep", "important.log"}, false))
	assert.True(t, top.Ignored([]string{"important.log"}, false))
}

func TestDotIgnoreOverridesGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "gen/\n")
	writeFile(t, filepath.Join(root, ".ignore"), "!gen/\nscratch.py\n")

	s := NewStack(nil, nil).Descend(root, nil)

	assert.False(t, s.Ignored([]string{"gen"}, true))
	assert.True(t, s.Ignored([]string{"scratch.py"}, false))
}

func TestRepositoryExcludeFileIsHonored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "info", "exclude"), "# local only\nlocal.py\n")

	s := NewStack(nil, nil).Descend(root, nil)

	assert.True(t, s.Ignored([]string{"local.py"}, false))
	assert.True(t, s.Ignored([]string{"sub", "local.py"}, false))
}

func TestDirectoryOnlyPattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "build/\n")

	s := NewStack(nil, nil).Descend(root, nil)

	assert.True(t, s.Ignored([]string{"build"}, true))
	assert.False(t, s.Ignored([]string{"build"}, false))
}

func TestParsePatternsSkipsCommentsAndBlankLines(t *testing.T) {
	ps := ParsePatterns([]byte("# comment\n\n   \n*.tmp   \r\n!keep.tmp\n"), nil)

	require.Len(t, ps, 3)
	s := NewStack(ps, nil)
	assert.True(t, s.Ignored([]string{"a.tmp"}, false))
	assert.False(t, s.Ignored([]string{"keep.tmp"}, false))
}

func TestLoadGlobalReadsExcludesFile(t *testing.T) {
	home := t.TempDir()
	excludes := filepath.Join(home, "global_ignore")
	writeFile(t, excludes, "*.secret\n")
	writeFile(t, filepath.Join(home, ".gitconfig"), "[core]\n\texcludesfile = "+excludes+"\n")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))

	s := NewStack(LoadGlobal(zaptest.NewLogger(t)), nil)

	assert.True(t, s.Ignored([]string{"keys", "id.secret"}, false))
	assert.False(t, s.Ignored([]string{"main.py"}, false))
}

func TestLoadGlobalFallsBackToXDGIgnore(t *testing.T) {
	home := t.TempDir()
	xdg := filepath.Join(home, "xdg")
	writeFile(t, filepath.Join(xdg, "git", "ignore"), "*.swp\n")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)

	s := NewStack(LoadGlobal(nil), nil)

	assert.True(t, s.Ignored([]string{"main.py.swp"}, false))
}
