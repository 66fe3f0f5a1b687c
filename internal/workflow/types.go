package workflow

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Tier selects the depth of an analysis.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Level grades a risk's severity or an opportunity's impact. Decoding
// lowercases the value and drops anything outside low, medium and high.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*l = ""
		return nil
	}
	switch v := Level(strings.ToLower(strings.TrimSpace(s))); v {
	case LevelLow, LevelMedium, LevelHigh:
		*l = v
	default:
		*l = ""
	}
	return nil
}

// Score is the overall favorability of a contract in [1,100]. Zero means
// the model produced no parsable score.
type Score int

var leadingNumber = regexp.MustCompile(`^-?\d+(\.\d+)?`)

func (s *Score) UnmarshalJSON(data []byte) error {
	*s = 0
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		m := leadingNumber.FindString(strings.TrimSpace(str))
		if m == "" {
			return nil
		}
		if n, err = strconv.ParseFloat(m, 64); err != nil {
			return nil
		}
	}

	*s = Score(min(max(math.Round(n), 1), 100))
	return nil
}

// Text is a free-form string field. Lists of strings are joined and other
// JSON values are kept as compact JSON.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = Text(strings.Join(list, "; "))
		return nil
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = ""
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

// TextList is a list of strings that also accepts a single string and
// always serializes as an array.
type TextList []string

func (l *TextList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			*l = TextList{}
		} else {
			*l = TextList{s}
		}
		return nil
	}

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		*l = TextList{}
		return nil
	}

	out := make(TextList, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case nil:
		default:
			raw, _ := json.Marshal(v)
			out = append(out, string(raw))
		}
	}
	*l = out
	return nil
}

func (l TextList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Risk is a potential downside for the receiving party.
type Risk struct {
	Risk                 Text  `json:"risk"`
	Explanation          Text  `json:"explanation"`
	Severity             Level `json:"severity,omitempty"`
	SuggestedAlternative Text  `json:"suggestedAlternative,omitempty"`
}

// Opportunity is a potential benefit for the receiving party.
type Opportunity struct {
	Opportunity          Text  `json:"opportunity"`
	Explanation          Text  `json:"explanation"`
	Impact               Level `json:"impact,omitempty"`
	SuggestedAlternative Text  `json:"suggestedAlternative,omitempty"`
}

// Compensation breaks down pay and benefits.
type Compensation struct {
	BaseSalary    Text `json:"baseSalary"`
	Bonuses       Text `json:"bonuses"`
	Equity        Text `json:"equity"`
	OtherBenefits Text `json:"otherBenefits"`
}

// FinancialTerms summarizes money flows in the contract.
type FinancialTerms struct {
	Description Text     `json:"description"`
	Details     TextList `json:"details"`
}

// PremiumDetails is the narrative only premium analyses carry.
type PremiumDetails struct {
	Recommendations             TextList       `json:"recommendations"`
	KeyClauses                  TextList       `json:"keyClauses"`
	LegalCompliance             Text           `json:"legalCompliance"`
	NegotiationPoints           TextList       `json:"negotiationPoints"`
	ContractDuration            Text           `json:"contractDuration"`
	TerminationConditions       Text           `json:"terminationConditions"`
	CompensationStructure       Compensation   `json:"compensationStructure"`
	PerformanceMetrics          TextList       `json:"performanceMetrics"`
	IntellectualPropertyClauses TextList       `json:"intellectualPropertyClauses"`
	FinancialTerms              FinancialTerms `json:"financialTerms"`
}

// Findings is the tier-shaped result of an analysis. Premium fields are
// flattened into the same object and absent for the free tier.
type Findings struct {
	Tier          Tier          `json:"tier"`
	Risks         []Risk        `json:"risks"`
	Opportunities []Opportunity `json:"opportunities"`
	Summary       string        `json:"summary"`
	OverallScore  Score         `json:"overallScore"`
	Degraded      bool          `json:"degraded"`
	*PremiumDetails
}

// Detection is the result of the detect flow.
type Detection struct {
	ContractType string
	Text         string
	PageCount    int
}

// Outcome is the result of the analyze flow.
type Outcome struct {
	Findings  *Findings
	Text      string
	PageCount int
}
