package workflow

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/JaimeStill/clausewise/internal/decode"
)

// validate checks that a decode result carries enough to persist.
func validate(res decode.Result) error {
	if res.Degraded {
		if res.Anchors == 0 {
			return fmt.Errorf("%w: no recognizable fields in response", ErrValidation)
		}
		return nil
	}

	summary, ok := res.Fields["summary"].(string)
	if !ok || strings.TrimSpace(summary) == "" {
		return fmt.Errorf("%w: summary missing", ErrValidation)
	}
	if _, ok := res.Fields["risks"].([]any); !ok {
		return fmt.Errorf("%w: risks missing", ErrValidation)
	}
	if _, ok := res.Fields["opportunities"].([]any); !ok {
		return fmt.Errorf("%w: opportunities missing", ErrValidation)
	}
	return nil
}

// Narrow converts a generic mapping into tier-shaped Findings. Free
// findings never carry premium narrative or suggested alternatives, even
// when the model produced them.
func Narrow(fields map[string]any, tier Tier) (*Findings, error) {
	payload := maps.Clone(fields)
	delete(payload, "tier")
	delete(payload, "degraded")
	payload["risks"] = items(payload["risks"], "risk")
	payload["opportunities"] = items(payload["opportunities"], "opportunity")

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var f Findings
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	f.Tier = tier
	f.Degraded = false

	if f.Risks == nil {
		f.Risks = []Risk{}
	}
	if f.Opportunities == nil {
		f.Opportunities = []Opportunity{}
	}

	switch tier {
	case TierPremium:
		if f.PremiumDetails == nil {
			f.PremiumDetails = &PremiumDetails{}
		}
	default:
		f.Tier = TierFree
		f.PremiumDetails = nil
		for i := range f.Risks {
			f.Risks[i].SuggestedAlternative = ""
		}
		for i := range f.Opportunities {
			f.Opportunities[i].SuggestedAlternative = ""
		}
	}

	return &f, nil
}

// items keeps the object elements of a finding list. A bare string becomes
// an item titled by key and anything else is dropped.
func items(v any, key string) []any {
	list, _ := v.([]any)
	out := make([]any, 0, len(list))
	for _, item := range list {
		switch it := item.(type) {
		case map[string]any:
			out = append(out, it)
		case string:
			if strings.TrimSpace(it) != "" {
				out = append(out, map[string]any{key: it})
			}
		}
	}
	return out
}
