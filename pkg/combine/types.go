package combine

// FileRecord is one surviving file, ready for an Emitter. Records are built one at
// a time and discarded after emission.
type FileRecord struct {
	Path     string `json:"path"`      // Slash-separated path relative to its root.
	FileName string `json:"file_name"` // Base name of the file.
	Content  string `json:"content"`   // Decoded and optionally comment-stripped text.
}

// Constants
const (
	binarySniffLen     = 512 // Bytes inspected by the binary heuristic.
	binaryNonPrintable = 0.3 // Non-printable ratio above which content is binary.
)
