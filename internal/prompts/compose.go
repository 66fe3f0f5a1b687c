package prompts

import (
	"fmt"
	"strings"
)

// DetectWindow is the number of leading characters the detect prompt sees.
const DetectWindow = 2000

// Detect composes the classification prompt over the first DetectWindow
// characters of text.
func Detect(text string) string {
	if runes := []rune(text); len(runes) > DetectWindow {
		text = string(runes[:DetectWindow])
	}

	var sb strings.Builder
	sb.WriteString(detectInstructions)
	sb.WriteString("\n")
	sb.WriteString(detectSpec)
	sb.WriteString("\n\nContract text:\n")
	sb.WriteString(text)
	return sb.String()
}

// Analyze composes the analysis prompt for an analysis stage over the full
// contract text.
func Analyze(stage Stage, contractType, text string) (string, error) {
	if !stage.IsAnalysis() {
		return "", ErrInvalidStage
	}

	instr, err := Instructions(stage)
	if err != nil {
		return "", err
	}
	spec, err := Spec(stage)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, instr, contractType)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\nContract text:\n")
	sb.WriteString(text)
	return sb.String(), nil
}
