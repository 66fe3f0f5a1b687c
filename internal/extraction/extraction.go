// Package extraction turns an uploaded PDF into linear text. Pages are read
// in order; the text runs of a page are joined with single spaces and each
// page ends with a newline.
package extraction

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func init() {
	api.DisableConfigDir()
}

// Document is the text content of a PDF.
type Document struct {
	Text      string `json:"text"`
	PageCount int    `json:"pageCount"`
}

// Extractor reads PDF text. It holds no state beyond its logger and is safe
// for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger.With("system", "extraction")}
}

// Extract decodes a blob value and returns its text. Any failure, including
// a panic while interpreting a malformed content stream, is an *Error that
// matches ErrExtraction.
func (e *Extractor) Extract(value []byte) (doc *Document, err error) {
	data, err := DecodeBlob(value)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fail("malformed pdf content: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fail("open pdf: %w", err)
	}

	pages := reader.NumPage()

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if !page.V.IsNull() {
			sb.WriteString(strings.Join(pageRuns(page), " "))
		}
		sb.WriteByte('\n')
	}

	doc = &Document{
		Text:      sb.String(),
		PageCount: e.pageCount(data, pages),
	}

	e.logger.Debug("pdf extracted", "pages", doc.PageCount, "chars", len(doc.Text))
	return doc, nil
}

// pageCount prefers pdfcpu's validated count and falls back to the reader's.
func (e *Extractor) pageCount(data []byte, fallback int) int {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		e.logger.Warn("failed to validate pdf page count", "error", err)
		return fallback
	}
	return count
}
