package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExtensions(t *testing.T) {
	set, err := NormalizeExtensions([]string{" py", ".RS", "*.Go", "", "  ", "py"})
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "py", "rs"}, set.Sorted())
}

func TestNormalizeExtensionsRejectsEmptySet(t *testing.T) {
	_, err := NormalizeExtensions([]string{"", " . ", "."})
	assert.ErrorIs(t, err, ErrNoExtensions)
}

func TestMatchesIsCaseInsensitiveAndRequiresExtension(t *testing.T) {
	set, err := NormalizeExtensions([]string{"py"})
	require.NoError(t, err)

	assert.True(t, set.Matches("foo.PY"))
	assert.True(t, set.Matches(filepath.Join("dir", "bar.py")))
	assert.False(t, set.Matches("README"))
	assert.False(t, set.Matches("script.sh"))
	assert.False(t, set.Matches(".py"), "dotfile has no extension")
	assert.False(t, set.Matches("trailing."))
}

func TestExtension(t *testing.T) {
	tests := []struct {
		path string
		ext  string
		ok   bool
	}{
		{"a.py", "py", true},
		{"a.tar.GZ", "GZ", true},
		{".bashrc", "", false},
		{".config.yml", "yml", true},
		{"Makefile", "", false},
		{"dir.d/file", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ext, ok := Extension(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &RunConfig{Paths: []string{"."}}
	assert.ErrorIs(t, cfg.Validate(), ErrNoExtensions)

	cfg.Extensions = ExtensionSet{"py": {}}
	assert.NoError(t, cfg.Validate())

	cfg.Paths = nil
	assert.Error(t, cfg.Validate())
}

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	v.Set(KeyTypes, []string{"py,rs", "go"})

	cfg, err := FromViper(v, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "py", "rs"}, cfg.Extensions.Sorted())
	assert.Equal(t, []string{"."}, cfg.Paths)
	assert.Nil(t, cfg.MaxBytes)
	assert.Nil(t, cfg.CommentLeaders)
	assert.False(t, cfg.JSON)
	assert.False(t, cfg.NoGitignore)
}

func TestFromViperAllKeys(t *testing.T) {
	v := viper.New()
	v.Set(KeyTypes, []string{"py"})
	v.Set(KeyExclude, []string{"tests/**", "*.gen.py"})
	v.Set(KeyMaxBytes, "50")
	v.Set(KeyFollowSymlinks, true)
	v.Set(KeyNoGitignore, true)
	v.Set(KeyHidden, true)
	v.Set(KeyJSON, true)
	v.Set(KeyEndMarker, true)
	v.Set(KeyStripComments, true)
	v.Set(KeySkipBinary, true)

	cfg, err := FromViper(v, []string{"src", "tests"})
	require.NoError(t, err)

	require.NotNil(t, cfg.MaxBytes)
	assert.Equal(t, uint64(50), *cfg.MaxBytes)
	assert.Equal(t, []string{"src", "tests"}, cfg.Paths)
	assert.Equal(t, []string{"tests/**", "*.gen.py"}, cfg.Excludes)
	assert.True(t, cfg.FollowSymlinks)
	assert.True(t, cfg.NoGitignore)
	assert.True(t, cfg.Hidden)
	assert.True(t, cfg.JSON)
	assert.True(t, cfg.EndMarker)
	assert.True(t, cfg.StripComments)
	assert.True(t, cfg.SkipBinary)
}

func TestFromViperSplitsCommaSeparatedExcludes(t *testing.T) {
	v := viper.New()
	v.Set(KeyTypes, []string{"py"})
	v.Set(KeyExclude, []string{"tests/**, *.gen.py", "build"})

	cfg, err := FromViper(v, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"tests/**", "*.gen.py", "build"}, cfg.Excludes)
}

func TestFromViperRejectsBadMaxBytes(t *testing.T) {
	v := viper.New()
	v.Set(KeyTypes, []string{"py"})
	v.Set(KeyMaxBytes, "-3")

	_, err := FromViper(v, nil)
	assert.ErrorContains(t, err, KeyMaxBytes)
}

func TestFromViperRequiresTypes(t *testing.T) {
	_, err := FromViper(viper.New(), nil)
	assert.ErrorIs(t, err, ErrNoExtensions)
}

func TestConfigFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pc.yaml")
	content := `types: [py]
max_bytes: 1024
strip_comments: true
comment_leaders:
  lua: ["--"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("PC_JSON", "true")

	v := NewViper(path)
	require.NoError(t, ReadConfigFile(v))

	cfg, err := FromViper(v, nil)
	require.NoError(t, err)

	require.NotNil(t, cfg.MaxBytes)
	assert.Equal(t, uint64(1024), *cfg.MaxBytes)
	assert.True(t, cfg.StripComments)
	assert.True(t, cfg.JSON, "environment variables override defaults")
	assert.Equal(t, []string{"--"}, cfg.CommentLeaders["lua"])
}

func TestReadConfigFileMissingIsNotAnError(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	assert.NoError(t, ReadConfigFile(NewViper("")))
}
