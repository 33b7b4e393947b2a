// Package patch loads patch files and classifies their lines.
package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is the raw text of one patch file.
type Document struct {
	Path  string
	Name  string   // base name, used for file-name based checks
	Text  string   // full text with CRLF line endings normalized
	Lines []string // Text split on newlines; Lines[0] is line 1
}

// Load reads a patch file from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return FromString(path, string(data)), nil
}

// FromString builds a Document from text already in memory.
func FromString(path, text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return &Document{
		Path:  path,
		Name:  filepath.Base(path),
		Text:  text,
		Lines: strings.Split(text, "\n"),
	}
}

// Classify classifies every line of the document.
func (d *Document) Classify() []Line {
	return Classify(d.Lines)
}
