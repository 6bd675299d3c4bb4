package ignore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
)

// LoadGlobal collects the patterns that apply to every walk: the system
// core.excludesFile, then the user's core.excludesFile or, when none is
// configured, git's default $XDG_CONFIG_HOME/git/ignore. Unreadable sources are
// logged and skipped.
func LoadGlobal(logger *zap.Logger) []gitignore.Pattern {
	if logger == nil {
		logger = zap.NewNop()
	}
	rootFS := osfs.New(string(filepath.Separator))

	var patterns []gitignore.Pattern

	system, err := gitignore.LoadSystemPatterns(rootFS)
	if err != nil {
		logger.Warn("Failed to load system ignore patterns", zap.Error(err))
	}
	patterns = append(patterns, system...)

	user, err := gitignore.LoadGlobalPatterns(rootFS)
	if err != nil {
		logger.Warn("Failed to load global ignore patterns", zap.Error(err))
	}
	if len(user) == 0 {
		user = loadDefaultUserPatterns(logger)
	}
	patterns = append(patterns, user...)

	logger.Debug("Loaded global ignore patterns", zap.Int("totalPatterns", len(patterns)))
	return patterns
}

func loadDefaultUserPatterns(logger *zap.Logger) []gitignore.Pattern {
	path := defaultUserIgnorePath()
	if path == "" {
		return nil
	}
	ps, err := ReadPatternFile(path, nil)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to read ignore file", zap.String("filePath", path), zap.Error(err))
		}
		return nil
	}
	return ps
}

// defaultUserIgnorePath mirrors git's fallback location for core.excludesFile.
func defaultUserIgnorePath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "git", "ignore")
}
