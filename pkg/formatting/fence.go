package formatting

import (
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("```json\\n?|\\n?```")

// StripFences removes every markdown code fence marker (```json and ```)
// from content and trims surrounding whitespace. Text between fences is kept.
func StripFences(content string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(content, ""))
}
