package adapters

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"
)

// TextAdapter reads plain-text FNOL exports; it is the registry fallback
type TextAdapter struct{}

// NewTextAdapter creates a new text adapter
func NewTextAdapter() *TextAdapter {
	return &TextAdapter{}
}

// Name returns the adapter name
func (a *TextAdapter) Name() string {
	return "text"
}

// CanHandle accepts anything
func (a *TextAdapter) CanHandle(string, string) bool {
	return true
}

// Text returns the bytes as UTF-8 text without a byte order mark
func (a *TextAdapter) Text(_ context.Context, doc Document) (string, error) {
	data := bytes.TrimPrefix(doc.Data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8 text", doc.Source)
	}
	return string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))), nil
}
