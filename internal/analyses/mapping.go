package analyses

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/clausewise/internal/workflow"
	"github.com/JaimeStill/clausewise/pkg/query"
	"github.com/JaimeStill/clausewise/pkg/repository"
)

var projection = query.NewProjection("contract_analyses", "a").
	Field("id", "ID").
	Field("owner_id", "OwnerID").
	Field("tier", "Tier").
	Field("contract_text", "ContractText").
	Field("contract_type", "ContractType").
	Field("language", "Language").
	Field("ai_model", "AIModel").
	Field("page_count", "PageCount").
	Field("risks", "Risks").
	Field("opportunities", "Opportunities").
	Field("summary", "Summary").
	Field("overall_score", "OverallScore").
	Field("premium", "Premium").
	Field("degraded", "Degraded").
	Field("version", "Version").
	Field("created_at", "CreatedAt")

var recency = []query.Order{
	{Field: "CreatedAt", Descending: true},
	{Field: "ID", Descending: true},
}

// Apply adds filter conditions scoped to owner.
func (f Filters) Apply(owner string) *query.Builder {
	return query.NewBuilder(projection, recency...).
		Equals("OwnerID", owner).
		Contains("ContractType", f.ContractType).
		EqualsIf(f.Tier != "", "Tier", f.Tier)
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var (
		a                      Analysis
		risks, opps, premium []byte
	)

	err := s.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Tier,
		&a.ContractText,
		&a.ContractType,
		&a.Language,
		&a.AIModel,
		&a.PageCount,
		&risks,
		&opps,
		&a.Summary,
		&a.OverallScore,
		&premium,
		&a.Degraded,
		&a.Version,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	if err := unmarshalColumn("risks", risks, &a.Risks); err != nil {
		return a, err
	}
	if err := unmarshalColumn("opportunities", opps, &a.Opportunities); err != nil {
		return a, err
	}
	if len(premium) > 0 && string(premium) != "null" {
		a.PremiumDetails = &workflow.PremiumDetails{}
		if err := unmarshalColumn("premium", premium, a.PremiumDetails); err != nil {
			return a, err
		}
	}

	if a.Risks == nil {
		a.Risks = []workflow.Risk{}
	}
	if a.Opportunities == nil {
		a.Opportunities = []workflow.Opportunity{}
	}
	return a, nil
}

func unmarshalColumn(column string, data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s column: %w", column, err)
	}
	return nil
}

// insertArgs flattens a for the insert statement, in insertColumns order.
func insertArgs(a *Analysis) ([]any, error) {
	risks, err := json.Marshal(a.Risks)
	if err != nil {
		return nil, fmt.Errorf("encode risks: %w", err)
	}
	opps, err := json.Marshal(a.Opportunities)
	if err != nil {
		return nil, fmt.Errorf("encode opportunities: %w", err)
	}

	var premium any
	if a.PremiumDetails != nil {
		b, err := json.Marshal(a.PremiumDetails)
		if err != nil {
			return nil, fmt.Errorf("encode premium details: %w", err)
		}
		premium = b
	}

	return []any{
		a.ID,
		a.OwnerID,
		string(a.Tier),
		a.ContractText,
		a.ContractType,
		a.Language,
		a.AIModel,
		a.PageCount,
		risks,
		opps,
		a.Summary,
		int(a.OverallScore),
		premium,
		a.Degraded,
		a.Version,
	}, nil
}

const insertColumns = `id, owner_id, tier, contract_text, contract_type, language, ai_model,
	page_count, risks, opportunities, summary, overall_score, premium, degraded, version`
