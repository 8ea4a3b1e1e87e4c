// Package report renders class documentation into the Markdown output
// document.
package report

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotStarted is returned by Append before Begin has been called.
	ErrNotStarted = errors.New("report not started")
	// ErrStarted is returned by a second call to Begin.
	ErrStarted = errors.New("report already started")
)

// State is the lifecycle state of a Writer.
type State int

const (
	Uninitialized State = iota
	Appending
)

func (s State) String() string {
	if s == Appending {
		return "appending"
	}
	return "uninitialized"
}

// Writer owns the output document. The document is truncated once by Begin
// and then appended to section by section; no handle is held between
// writes, so everything appended before a failure stays on disk.
type Writer struct {
	path  string
	state State
}

// NewWriter returns a Writer for the document at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// State returns the current lifecycle state.
func (w *Writer) State() State { return w.state }

// Begin creates or truncates the document and writes the header with an
// import example for lib.
func (w *Writer) Begin(lib string) error {
	if w.state != Uninitialized {
		return ErrStarted
	}
	if err := os.WriteFile(w.path, []byte(Header(lib)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", w.path, err)
	}
	w.state = Appending
	return nil
}

// Append adds text to the end of the document.
func (w *Writer) Append(text string) error {
	if w.state != Appending {
		return ErrNotStarted
	}
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("opening %s: %w", w.path, err)
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", w.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", w.path, err)
	}
	return nil
}
