package combine

import (
	"fmt"
	"path/filepath"
)

// ResolveRoot returns the canonical form of a root: absolute, cleaned and with
// every symlink resolved. Display paths are computed against this value, which
// makes them independent of the working directory.
func ResolveRoot(raw string) (string, error) {
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return canon, nil
}
