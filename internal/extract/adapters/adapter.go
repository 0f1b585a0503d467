package adapters

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
)

// Document is a loaded FNOL source
type Document struct {
	// Source is the local path or URL the bytes came from
	Source string

	// ContentType is the HTTP Content-Type, empty for local files
	ContentType string

	Data []byte
}

// Ext returns the lower-cased file extension of the source
func (d Document) Ext() string {
	src := d.Source
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	return strings.ToLower(filepath.Ext(src))
}

// Adapter turns one document format into plain text
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given source/content type
	CanHandle(source string, contentType string) bool

	// Text returns the document's text layer
	Text(ctx context.Context, doc Document) (string, error)
}

// Registry manages format adapters
type Registry struct {
	adapters []Adapter
	fallback Adapter
}

// NewRegistry creates a registry with the built-in pdf and html adapters;
// anything else is read as plain text
func NewRegistry(pdftotext string, runner Runner, logger *slog.Logger) *Registry {
	r := &Registry{fallback: NewTextAdapter()}
	r.Register(NewPDFAdapter(pdftotext, runner, logger))
	r.Register(NewHTMLAdapter())
	return r
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the adapter for the given source and content type
func (r *Registry) FindAdapter(source string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(source, contentType) {
			return adapter
		}
	}
	return r.fallback
}

// Text extracts the text layer of doc with the matching adapter
func (r *Registry) Text(ctx context.Context, doc Document) (string, error) {
	return r.FindAdapter(doc.Source, doc.ContentType).Text(ctx, doc)
}

func hasExt(source string, exts ...string) bool {
	ext := Document{Source: source}.Ext()
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func hasContentType(contentType string, types ...string) bool {
	ct := strings.ToLower(contentType)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(ct)
	for _, t := range types {
		if ct == t {
			return true
		}
	}
	return false
}
