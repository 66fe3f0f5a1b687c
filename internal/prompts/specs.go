package prompts

import (
	"encoding/json"
	"fmt"
	"slices"
)

const detectSpec = `Respond with the contract type name only.`

const analyzeFreeShape = `{
  "risks": [{"risk": "Risk description", "explanation": "Brief explanation", "severity": "low|medium|high"}],
  "opportunities": [{"opportunity": "Opportunity description", "explanation": "Brief explanation", "impact": "low|medium|high"}],
  "summary": "Brief summary of the contract",
  "overallScore": 75
}`

const analyzePremiumShape = `{
  "risks": [{"risk": "Risk description", "explanation": "Brief explanation", "severity": "low|medium|high", "suggestedAlternative": "Suggested alternative wording or mitigation"}],
  "opportunities": [{"opportunity": "Opportunity description", "explanation": "Brief explanation", "impact": "low|medium|high", "suggestedAlternative": "How to strengthen this opportunity"}],
  "summary": "Comprehensive summary of the contract",
  "recommendations": ["Recommendation 1", "Recommendation 2"],
  "keyClauses": ["Clause 1", "Clause 2"],
  "legalCompliance": "Assessment of legal compliance",
  "negotiationPoints": ["Point 1", "Point 2"],
  "contractDuration": "Duration of the contract, if applicable",
  "terminationConditions": "Summary of termination conditions, if applicable",
  "overallScore": 75,
  "financialTerms": {
    "description": "Overview of financial terms",
    "details": ["Detail 1", "Detail 2"]
  },
  "compensationStructure": {
    "baseSalary": "Base salary or fee, if applicable",
    "bonuses": "Bonus structure, if applicable",
    "equity": "Equity or ownership terms, if applicable",
    "otherBenefits": "Other benefits, if applicable"
  },
  "performanceMetrics": ["Metric 1", "Metric 2"],
  "intellectualPropertyClauses": ["IP clause 1", "IP clause 2"]
}`

const analyzeConstraints = `Field constraints:
- severity and impact: exactly one of low, medium, high.
- overallScore: an integer from 1 to 100, not a string.
- Use empty strings or empty arrays for fields that do not apply; never omit a field.

Important: Provide only the JSON object in your response, without any additional text or markdown formatting.`

var shapes = map[Stage]string{
	StageAnalyzeFree:    analyzeFreeShape,
	StageAnalyzePremium: analyzePremiumShape,
}

// Spec returns the hardcoded response specification for a stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	if stage == StageDetect {
		return detectSpec, nil
	}

	shape, ok := shapes[stage]
	if !ok {
		return "", ErrInvalidStage
	}

	return fmt.Sprintf("Format your response as a JSON object with the following structure:\n%s\n\n%s", shape, analyzeConstraints), nil
}

// ResponseKeys returns the sorted top-level JSON keys an analysis stage
// asks the model to produce.
func ResponseKeys(stage Stage) ([]string, error) {
	shape, ok := shapes[stage]
	if !ok {
		return nil, ErrInvalidStage
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(shape), &fields); err != nil {
		return nil, fmt.Errorf("parse %s shape: %w", stage, err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}
