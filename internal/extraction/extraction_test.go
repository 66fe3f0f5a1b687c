package extraction_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/clausewise/internal/extraction"
	"github.com/JaimeStill/clausewise/internal/extraction/extractiontest"
)

func newExtractor() *extraction.Extractor {
	return extraction.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func bufferForm(t *testing.T, data []byte) []byte {
	t.Helper()
	ints := make([]int, len(data))
	for i, b := range data {
		ints[i] = int(b)
	}
	out, err := json.Marshal(map[string]any{"type": "Buffer", "data": ints})
	if err != nil {
		t.Fatalf("marshal buffer form: %v", err)
	}
	return out
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		pdf       []byte
		wantText  string
		wantPages int
	}{
		{
			"single page runs joined by space",
			extractiontest.Text([]string{"EMPLOYMENT AGREEMENT", "between Acme and Jane"}),
			"EMPLOYMENT AGREEMENT between Acme and Jane\n",
			1,
		},
		{
			"pages terminated by newline",
			extractiontest.Text([]string{"Page one"}, []string{"Page two", "continues"}),
			"Page one\nPage two continues\n",
			2,
		},
		{
			"escaped characters",
			extractiontest.Text([]string{`Tenant (the "Lessee")`}),
			"Tenant (the \"Lessee\")\n",
			1,
		},
		{
			"kerned arrays form one run",
			extractiontest.Build(extractiontest.Page{Runs: []string{"Confidential", "Terms"}, Kerned: true}),
			"Confidential Terms\n",
			1,
		},
		{
			"page without text",
			extractiontest.Text([]string{"Cover"}, nil),
			"Cover\n\n",
			2,
		},
	}

	e := newExtractor()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := e.Extract(tt.pdf)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if doc.Text != tt.wantText {
				t.Errorf("text = %q, want %q", doc.Text, tt.wantText)
			}
			if doc.PageCount != tt.wantPages {
				t.Errorf("page count = %d, want %d", doc.PageCount, tt.wantPages)
			}
		})
	}
}

func TestExtractBufferForm(t *testing.T) {
	raw := extractiontest.Text([]string{"Lease Agreement"})

	doc, err := newExtractor().Extract(bufferForm(t, raw))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Text != "Lease Agreement\n" {
		t.Errorf("text = %q", doc.Text)
	}
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		cause error
	}{
		{"empty buffer", nil, extraction.ErrEmptyBuffer},
		{"not a pdf", []byte("plain text, not a document"), nil},
		{"truncated pdf", extractiontest.Text([]string{"Lease"})[:40], nil},
		{"wrong buffer type", []byte(`{"type":"Blob","data":[1,2]}`), extraction.ErrInvalidBlob},
		{"malformed json", []byte(`{"type":"Buffer","data":`), extraction.ErrInvalidBlob},
		{"byte out of range", []byte(`{"type":"Buffer","data":[37,300]}`), extraction.ErrInvalidBlob},
		{"empty buffer form", []byte(`{"type":"Buffer","data":[]}`), extraction.ErrEmptyBuffer},
	}

	e := newExtractor()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := e.Extract(tt.input)
			if doc != nil {
				t.Errorf("document = %+v, want nil", doc)
			}
			if !errors.Is(err, extraction.ErrExtraction) {
				t.Fatalf("error = %v, want ErrExtraction", err)
			}

			var xerr *extraction.Error
			if !errors.As(err, &xerr) {
				t.Fatalf("error %T is not *extraction.Error", err)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want cause %v", err, tt.cause)
			}
		})
	}
}

func TestExtractLengthGrowsWithPages(t *testing.T) {
	e := newExtractor()
	prev := 0

	for n := 1; n <= 4; n++ {
		pages := make([][]string, n)
		for i := range pages {
			pages[i] = []string{"Clause", "text"}
		}

		doc, err := e.Extract(extractiontest.Text(pages...))
		if err != nil {
			t.Fatalf("%d pages: %v", n, err)
		}
		if len(doc.Text) == 0 || len(doc.Text) < prev {
			t.Fatalf("%d pages: length %d after %d", n, len(doc.Text), prev)
		}
		prev = len(doc.Text)
	}
}

func TestDecodeBlob(t *testing.T) {
	raw := []byte("%PDF-1.4 raw bytes")

	got, err := extraction.DecodeBlob(raw)
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	if string(got) != string(raw) {
		t.Errorf("raw passthrough = %q", got)
	}

	got, err = extraction.DecodeBlob(bufferForm(t, raw))
	if err != nil {
		t.Fatalf("buffer form: %v", err)
	}
	if string(got) != string(raw) {
		t.Errorf("buffer form = %q", got)
	}
}
