package report

import (
	"io"

	"github.com/convexo/faqtree/internal/model"
)

// Writer defines the interface for document output.
// Implementations render the document in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations; files, stdout and buffers share the same API.
type Writer interface {
	// Write outputs the document to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(doc *model.TreeDocument) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// Useful for outputting to both terminal and file.
//
// Design decision: This is a separate type rather than io.MultiWriter
// because our Writer renders documents, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the document to all configured Writers.
// Returns the total bytes written; stops on the first error.
func (m *MultiWriter) Write(doc *model.TreeDocument) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(doc)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for document writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
