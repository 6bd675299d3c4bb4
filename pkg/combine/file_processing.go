package combine

import (
	"fmt"
	"os"
	"path/filepath"

	"printcode/pkg/comments"
	"printcode/pkg/config"

	"golang.org/x/text/encoding/unicode"
)

// readFile reads path as raw bytes.
func readFile(path, displayPath string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", displayPath, err)
	}
	return content, nil
}

// decodeText decodes content as UTF-8, replacing invalid sequences with U+FFFD.
func decodeText(content []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(content)
	if err != nil {
		// The UTF-8 decoder substitutes instead of failing; keep the raw bytes if it ever does.
		return string(content)
	}
	return string(decoded)
}

// buildRecord turns the bytes of one file into a FileRecord, stripping comments
// when leaders is non-nil.
func buildRecord(path, displayPath string, content []byte, leaders comments.Table) FileRecord {
	text := decodeText(content)
	if leaders != nil {
		ext, _ := config.Extension(path)
		text = leaders.Strip(text, ext)
	}
	return FileRecord{
		Path:     displayPath,
		FileName: filepath.Base(path),
		Content:  text,
	}
}
