package prompts

import "errors"

var (
	ErrInvalidStage = errors.New("stage must be detect, analyze_free, or analyze_premium")
	ErrInvalidTier  = errors.New("tier must be free or premium")
)
