package prompts

const detectInstructions = `Analyze the following contract text and determine the type of contract it is.
Provide only the contract type as a single plain string (e.g., "Employment Agreement", "Non-Disclosure Agreement", "Sales Agreement", "Lease Agreement").
Do not include any JSON, quotes, or additional explanation. Just the type name.`

const analyzeFreeInstructions = `Analyze the following %s contract and provide:
1. A list of at least 5 potential risks for the party receiving the contract, each with a brief explanation and severity level (low, medium, high).
2. A list of at least 5 potential opportunities or benefits for the receiving party, each with a brief explanation and impact level (low, medium, high).
3. A brief summary of the contract in 2-3 sentences.
4. An overall score from 1 to 100, with 100 being the highest. This score represents the overall favorability of the contract based on the identified risks and opportunities.`

const analyzePremiumInstructions = `Analyze the following %s contract and provide:
1. A list of at least 10 potential risks for the party receiving the contract, each with a brief explanation, severity level (low, medium, high), and a suggested alternative wording or mitigation.
2. A list of at least 10 potential opportunities or benefits for the receiving party, each with a brief explanation, impact level (low, medium, high), and a suggestion for strengthening it.
3. A comprehensive summary of the contract in 3-5 paragraphs, including key terms and conditions.
4. Recommendations for improving the contract from the receiving party's perspective.
5. A list of key clauses in the contract.
6. An assessment of the contract's legal compliance.
7. A list of potential negotiation points.
8. The contract duration or term, if applicable.
9. A summary of termination conditions, if applicable.
10. A breakdown of any financial terms and the compensation structure, if applicable.
11. Any performance metrics or KPIs mentioned, if applicable.
12. Any intellectual property clauses.
13. An overall score from 1 to 100, with 100 being the highest. This score represents the overall favorability of the contract based on the identified risks and opportunities.`

var instructions = map[Stage]string{
	StageDetect:         detectInstructions,
	StageAnalyzeFree:    analyzeFreeInstructions,
	StageAnalyzePremium: analyzePremiumInstructions,
}

// Instructions returns the hardcoded instructions for a stage. Analysis
// instructions carry one %s verb for the contract type.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
