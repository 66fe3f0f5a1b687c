package prompts

import (
	"errors"
	"slices"
)

// Stage identifies which prompt the orchestrator is composing.
type Stage string

// Valid prompt stages.
const (
	StageDetect         Stage = "detect"
	StageAnalyzeFree    Stage = "analyze_free"
	StageAnalyzePremium Stage = "analyze_premium"
)

var stages = []Stage{
	StageDetect,
	StageAnalyzeFree,
	StageAnalyzePremium,
}

// ParseStage validates a string as a known prompt stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}

// StageFor returns the analysis stage for a subscription tier.
func StageFor(tier string) (Stage, error) {
	stage, err := ParseStage("analyze_" + tier)
	if errors.Is(err, ErrInvalidStage) {
		return "", ErrInvalidTier
	}
	return stage, err
}

// IsAnalysis reports whether the stage produces a structured analysis.
func (s Stage) IsAnalysis() bool {
	return s == StageAnalyzeFree || s == StageAnalyzePremium
}
