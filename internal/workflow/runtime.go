// Package workflow runs the two model-backed flows of contract analysis.
// Detect classifies a contract; Analyze extracts, prompts, decodes,
// validates and narrows a tier-shaped analysis. Text extraction always runs
// before any model call.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/clausewise/internal/decode"
	"github.com/JaimeStill/clausewise/internal/extraction"
	"github.com/JaimeStill/clausewise/internal/prompts"
	"github.com/JaimeStill/clausewise/pkg/llm"
)

// Extractor turns a stored upload into text.
type Extractor interface {
	Extract(value []byte) (*extraction.Document, error)
}

// Runtime bundles the dependencies the workflow requires.
// It is constructed by higher-level composition code from Infrastructure.
type Runtime struct {
	Extractor Extractor
	Gateway   llm.Client
	Logger    *slog.Logger
	Metrics   *Metrics
}

// Detect extracts the upload's text and asks the model for its contract type.
func (rt *Runtime) Detect(ctx context.Context, blob []byte) (*Detection, error) {
	doc, err := rt.extract(ctx, blob)
	if err != nil {
		return nil, err
	}

	raw, err := rt.Gateway.Complete(ctx, prompts.Detect(doc.Text))
	if err != nil {
		rt.Metrics.recordFailure(ctx, "generation")
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	contractType := NormalizeType(raw)
	if contractType == "" {
		contractType = UnknownType
	}

	rt.Logger.Info("contract type detected", "type", contractType, "pages", doc.PageCount)

	return &Detection{
		ContractType: contractType,
		Text:         doc.Text,
		PageCount:    doc.PageCount,
	}, nil
}

// Analyze produces tier-shaped findings for the upload. Nothing is returned
// unless the model response passes validation.
func (rt *Runtime) Analyze(ctx context.Context, blob []byte, contractType string, tier Tier) (*Outcome, error) {
	stage, err := prompts.StageFor(string(tier))
	if err != nil {
		return nil, err
	}

	doc, err := rt.extract(ctx, blob)
	if err != nil {
		return nil, err
	}

	prompt, err := prompts.Analyze(stage, contractType, doc.Text)
	if err != nil {
		return nil, err
	}

	raw, err := rt.Gateway.Complete(ctx, prompt)
	if err != nil {
		rt.Metrics.recordFailure(ctx, "generation")
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	res := decode.Decode(raw)
	if res.Degraded {
		rt.Metrics.recordDegraded(ctx, tier)
		rt.Logger.Warn("analysis decoded through salvage",
			"tier", tier,
			"anchors", res.Anchors,
			"response_chars", len(raw),
		)
	}

	if err := validate(res); err != nil {
		rt.Metrics.recordFailure(ctx, "validation")
		return nil, err
	}

	findings, err := Narrow(res.Fields, tier)
	if err != nil {
		rt.Metrics.recordFailure(ctx, "validation")
		return nil, err
	}
	findings.Degraded = res.Degraded

	rt.Metrics.recordCompleted(ctx, tier)
	rt.Logger.Info("contract analyzed",
		"tier", tier,
		"type", contractType,
		"risks", len(findings.Risks),
		"opportunities", len(findings.Opportunities),
		"score", findings.OverallScore,
		"degraded", findings.Degraded,
	)

	return &Outcome{
		Findings:  findings,
		Text:      doc.Text,
		PageCount: doc.PageCount,
	}, nil
}

func (rt *Runtime) extract(ctx context.Context, blob []byte) (*extraction.Document, error) {
	doc, err := rt.Extractor.Extract(blob)
	if err != nil {
		rt.Metrics.recordFailure(ctx, "extraction")
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return doc, nil
}

// Model identifies the model that produces findings.
func (rt *Runtime) Model() string {
	return rt.Gateway.Model()
}
