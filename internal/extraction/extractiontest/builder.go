// Package extractiontest builds small, valid PDF documents for tests.
package extractiontest

import (
	"bytes"
	"fmt"
	"strings"
)

// Page describes one page of a generated PDF. Each run becomes one text
// showing operator. Kerned pages emit every run as a TJ array split in two
// with a kerning adjustment between the halves.
type Page struct {
	Runs   []string
	Kerned bool
}

// Text builds a PDF with one page per argument, each run emitted with Tj.
func Text(pages ...[]string) []byte {
	ps := make([]Page, len(pages))
	for i, runs := range pages {
		ps[i] = Page{Runs: runs}
	}
	return Build(ps...)
}

// Build renders pages into a PDF using Helvetica with WinAnsiEncoding.
func Build(pages ...Page) []byte {
	// 1 catalog, 2 pages tree, 3 font, then a page and content pair per page.
	objects := make([]string, 3+2*len(pages))

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))
	objects[2] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

	for i, p := range pages {
		pageNum := 4 + 2*i
		content := contentStream(p)
		objects[pageNum-1] = fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			pageNum+1,
		)
		objects[pageNum] = fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func contentStream(p Page) string {
	var sb strings.Builder
	sb.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
	for i, run := range p.Runs {
		if i > 0 {
			sb.WriteString("0 -14 Td\n")
		}
		if p.Kerned && len(run) > 1 {
			half := len(run) / 2
			fmt.Fprintf(&sb, "[(%s) -20 (%s)] TJ\n", escape(run[:half]), escape(run[half:]))
			continue
		}
		fmt.Fprintf(&sb, "(%s) Tj\n", escape(run))
	}
	sb.WriteString("ET")
	return sb.String()
}

var escaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

func escape(s string) string {
	return escaper.Replace(s)
}
