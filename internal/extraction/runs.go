package extraction

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

type identityEncoding struct{}

func (identityEncoding) Decode(raw string) string { return raw }

// pageRuns interprets a page's content streams and returns one entry per
// text-showing operator (Tj, TJ, ' and ").
func pageRuns(page pdf.Page) []string {
	var (
		runs []string
		enc  pdf.TextEncoding = identityEncoding{}
	)

	visit := func(stk *pdf.Stack, op string) {
		args := make([]pdf.Value, stk.Len())
		for i := len(args) - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "Tf":
			if len(args) == 2 {
				enc = encoderFor(page, args[0].Name())
			}
		case "Tj", "'":
			if len(args) >= 1 {
				runs = appendRun(runs, enc.Decode(args[len(args)-1].RawString()))
			}
		case `"`:
			if len(args) == 3 {
				runs = appendRun(runs, enc.Decode(args[2].RawString()))
			}
		case "TJ":
			if len(args) == 1 {
				runs = appendRun(runs, showArray(args[0], enc))
			}
		}
	}

	contents := page.V.Key("Contents")
	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			pdf.Interpret(contents.Index(i), visit)
		}
	} else if !contents.IsNull() {
		pdf.Interpret(contents, visit)
	}

	return runs
}

func encoderFor(page pdf.Page, name string) pdf.TextEncoding {
	font := page.Font(name)
	if font.V.IsNull() {
		return identityEncoding{}
	}
	if enc := font.Encoder(); enc != nil {
		return enc
	}
	return identityEncoding{}
}

// showArray concatenates the strings of a TJ operand; kerning numbers are
// positioning only.
func showArray(arr pdf.Value, enc pdf.TextEncoding) string {
	var sb strings.Builder
	for i := 0; i < arr.Len(); i++ {
		if item := arr.Index(i); item.Kind() == pdf.String {
			sb.WriteString(enc.Decode(item.RawString()))
		}
	}
	return sb.String()
}

func appendRun(runs []string, s string) []string {
	if s == "" {
		return runs
	}
	return append(runs, s)
}
