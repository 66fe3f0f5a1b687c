package workflow

import "errors"

// Sentinel errors for workflow stages. Every failure returned by Runtime
// matches exactly one of them through errors.Is.
var (
	ErrExtraction = errors.New("contract text extraction failed")
	ErrGeneration = errors.New("model generation failed")
	ErrValidation = errors.New("model response failed validation")
)
