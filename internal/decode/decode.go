// Package decode turns raw model output into a generic JSON mapping. A strict
// parse is tried first; when it fails, regex salvage recovers whatever risks,
// opportunities and summary can still be read.
package decode

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/JaimeStill/clausewise/pkg/formatting"
)

// Placeholders used by the salvage path for missing values.
const (
	UnknownValue   = "Unknown"
	DefaultSummary = "Error analyzing contract"
)

// ErrNotObject reports a strict parse whose top-level value is not an object.
var ErrNotObject = errors.New("response is not a JSON object")

var (
	trailingObject = regexp.MustCompile(`,\s*}`)
	trailingArray  = regexp.MustCompile(`,\s*]`)
)

// Clean strips markdown fences, trims, and removes trailing commas before
// closing braces and brackets.
func Clean(text string) string {
	text = formatting.StripFences(text)
	text = trailingObject.ReplaceAllString(text, "}")
	return trailingArray.ReplaceAllString(text, "]")
}

// Strict cleans text and parses it as a JSON object.
func Strict(text string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(Clean(text)), &v); err != nil {
		return nil, err
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// Result is the outcome of Decode. Degraded is true when Fields came from
// the salvage path; Anchors is then the number of anchors salvage matched.
type Result struct {
	Fields   map[string]any
	Degraded bool
	Anchors  int
}

// Decode parses text strictly and falls back to Salvage on failure.
func Decode(text string) Result {
	if fields, err := Strict(text); err == nil {
		return Result{Fields: fields}
	}

	p := Salvage(text)
	return Result{
		Fields:   p.Fields(),
		Degraded: true,
		Anchors:  p.Anchors,
	}
}

// Item is one salvaged risk or opportunity.
type Item struct {
	Title       string
	Explanation string
}

// Partial holds what salvage recovered from malformed output.
type Partial struct {
	Risks         []Item
	Opportunities []Item
	Summary       string
	Anchors       int
}

var (
	risksBlock         = regexp.MustCompile(`"risks"\s*:\s*\[([\s\S]*?)\]`)
	opportunitiesBlock = regexp.MustCompile(`"opportunities"\s*:\s*\[([\s\S]*?)\]`)
	summaryField       = regexp.MustCompile(`"summary"\s*:\s*"([^"]*)"`)
	riskField          = regexp.MustCompile(`"risk"\s*:\s*"([^"]*)"`)
	opportunityField   = regexp.MustCompile(`"opportunity"\s*:\s*"([^"]*)"`)
	explanationField   = regexp.MustCompile(`"explanation"\s*:\s*"([^"]*)"`)
)

// Salvage recovers risks, opportunities and summary from cleaned text. The
// result always has non-nil item slices and a summary.
func Salvage(text string) Partial {
	text = Clean(text)

	p := Partial{
		Risks:         []Item{},
		Opportunities: []Item{},
		Summary:       DefaultSummary,
	}

	if m := risksBlock.FindStringSubmatch(text); m != nil {
		p.Risks = items(m[1], riskField)
		p.Anchors++
	}
	if m := opportunitiesBlock.FindStringSubmatch(text); m != nil {
		p.Opportunities = items(m[1], opportunityField)
		p.Anchors++
	}
	if m := summaryField.FindStringSubmatch(text); m != nil {
		p.Summary = m[1]
		p.Anchors++
	}

	return p
}

func items(block string, title *regexp.Regexp) []Item {
	out := []Item{}
	for _, frag := range strings.Split(block, "},") {
		if strings.TrimSpace(frag) == "" {
			continue
		}
		out = append(out, Item{
			Title:       capture(title, frag),
			Explanation: capture(explanationField, frag),
		})
	}
	return out
}

func capture(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return UnknownValue
}

// Fields renders the partial as the same generic mapping a strict parse
// would produce.
func (p Partial) Fields() map[string]any {
	return map[string]any{
		"risks":         itemList(p.Risks, "risk"),
		"opportunities": itemList(p.Opportunities, "opportunity"),
		"summary":       p.Summary,
	}
}

func itemList(items []Item, titleKey string) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = map[string]any{
			titleKey:      it.Title,
			"explanation": it.Explanation,
		}
	}
	return out
}
