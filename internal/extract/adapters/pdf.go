package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ErrNoTextLayer is returned for PDFs without extractable text (scanned images)
var ErrNoTextLayer = errors.New("pdf has no text layer")

// PDFAdapter reads fillable/printed ACORD PDFs through poppler's pdftotext
type PDFAdapter struct {
	binary string
	runner Runner
	logger *slog.Logger
}

// NewPDFAdapter creates a PDF adapter; an empty binary means "pdftotext" on PATH
func NewPDFAdapter(binary string, runner Runner, logger *slog.Logger) *PDFAdapter {
	if binary == "" {
		binary = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{Logger: logger}
	}
	return &PDFAdapter{binary: binary, runner: runner, logger: logger}
}

// Name returns the adapter name
func (a *PDFAdapter) Name() string {
	return "pdf"
}

// CanHandle matches .pdf sources and application/pdf responses
func (a *PDFAdapter) CanHandle(source string, contentType string) bool {
	return hasExt(source, ".pdf") || hasContentType(contentType, "application/pdf")
}

// Text writes the document to a temp file and runs pdftotext on it
func (a *PDFAdapter) Text(ctx context.Context, doc Document) (string, error) {
	tmp, err := os.CreateTemp("", "claimroute-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(doc.Data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := a.runner.Run(ctx, a.binary, "-layout", "-enc", "UTF-8", "-eol", "unix", tmp.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext %s: %w: %s", doc.Source, err, strings.TrimSpace(string(errb)))
	}

	text := string(out)
	pages := 1 + strings.Count(text, "\f")
	a.logger.Debug("pdf text extracted", "file", doc.Source, "pages", pages, "chars", len(text))

	if strings.TrimSpace(strings.ReplaceAll(text, "\f", "")) == "" {
		return "", fmt.Errorf("%s: %w", doc.Source, ErrNoTextLayer)
	}
	return text, nil
}
