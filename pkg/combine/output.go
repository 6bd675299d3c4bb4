package combine

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Emitter renders FileRecords to an output stream as they arrive.
type Emitter interface {
	// Begin writes any leading framing. It is called once before the first record.
	Begin() error
	// Emit writes one record.
	Emit(rec FileRecord) error
	// End writes trailing framing and flushes. It is called once after the last record.
	End() error
}

// NewEmitter returns the JSON or text emitter for the run configuration.
func NewEmitter(w io.Writer, jsonMode, endMarker bool) Emitter {
	if jsonMode {
		return NewJSONEmitter(w)
	}
	return NewTextEmitter(w, endMarker)
}

// TextEmitter writes human-readable blocks:
//
//	========== FILE: <path> ==========
//	<content>
//	[========== END FILE: <path> ==========]
//	<blank line>
type TextEmitter struct {
	w         *bufio.Writer
	endMarker bool
}

// NewTextEmitter creates a text emitter; endMarker adds the END FILE line.
func NewTextEmitter(w io.Writer, endMarker bool) *TextEmitter {
	return &TextEmitter{w: bufio.NewWriter(w), endMarker: endMarker}
}

// Begin implements Emitter.
func (e *TextEmitter) Begin() error { return nil }

// Emit implements Emitter.
func (e *TextEmitter) Emit(rec FileRecord) error {
	fmt.Fprintf(e.w, "========== FILE: %s ==========\n", rec.Path)
	e.w.WriteString(rec.Content)
	if !strings.HasSuffix(rec.Content, "\n") {
		e.w.WriteByte('\n')
	}
	if e.endMarker {
		fmt.Fprintf(e.w, "========== END FILE: %s ==========\n\n", rec.Path)
	} else {
		e.w.WriteByte('\n')
	}
	return e.flushIfLarge()
}

// End implements Emitter.
func (e *TextEmitter) End() error {
	return e.w.Flush()
}

// flushIfLarge keeps output streaming without flushing on every small record.
// bufio.Writer reports any earlier write error here.
func (e *TextEmitter) flushIfLarge() error {
	if e.w.Buffered() >= e.w.Size()/2 {
		return e.w.Flush()
	}
	return nil
}

// JSONEmitter writes a single JSON array, one compact object per line:
//
//	[
//	{"path":"...","file_name":"...","content":"..."},
//	{"path":"...","file_name":"...","content":"..."}
//	]
//
// An empty run produces "[\n\n]\n", which is still a valid array.
type JSONEmitter struct {
	w     *bufio.Writer
	buf   bytes.Buffer
	enc   *json.Encoder
	count int
}

// NewJSONEmitter creates a JSON array emitter.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	e := &JSONEmitter{w: bufio.NewWriter(w)}
	e.enc = json.NewEncoder(&e.buf)
	e.enc.SetEscapeHTML(false)
	return e
}

// Begin implements Emitter.
func (e *JSONEmitter) Begin() error {
	_, err := e.w.WriteString("[\n")
	return err
}

// Emit implements Emitter. The record is encoded before anything is written so a
// failure never leaves a dangling separator.
func (e *JSONEmitter) Emit(rec FileRecord) error {
	e.buf.Reset()
	if err := e.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode %s: %w", rec.Path, err)
	}
	encoded := bytes.TrimSuffix(e.buf.Bytes(), []byte("\n"))

	if e.count > 0 {
		e.w.WriteString(",\n")
	}
	e.w.Write(encoded)
	e.count++

	if e.w.Buffered() >= e.w.Size()/2 {
		return e.w.Flush()
	}
	return nil
}

// End implements Emitter.
func (e *JSONEmitter) End() error {
	e.w.WriteString("\n]\n")
	return e.w.Flush()
}
