// Package document loads a file into an immutable, line-oriented buffer that
// indexing workers share read-only for the duration of one indexing call.
package document

import (
	"os"
	"strings"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/errors"
)

// Document is the read-only view of one file's text. The zero value is an
// empty document with no path.
type Document struct {
	path  string
	lines []string
}

// Load reads the full file at path. Any failure is reported as an
// *errors.IOError carrying the underlying cause.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewIOError(path, err)
	}
	if !utf8.Valid(data) {
		return nil, apperrors.NewIOError(path, apperrors.ErrInvalidEncoding)
	}
	return New(path, string(data)), nil
}

// New builds a Document from in-memory text.
func New(path string, text string) *Document {
	return &Document{
		path:  path,
		lines: splitLines(text),
	}
}

func (d *Document) Path() string {
	return d.path
}

func (d *Document) LineCount() int {
	return len(d.lines)
}

// Lines returns the lines in [start, end). The returned slice aliases the
// document and must not be modified.
func (d *Document) Lines(start, end int) []string {
	return d.lines[start:end:end]
}

// splitLines breaks text on '\n', dropping a trailing '\r' from each line.
// A final line terminator does not yield an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
