package workflow

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics counts workflow outcomes. A nil *Metrics records nothing.
type Metrics struct {
	degraded  metric.Int64Counter
	completed metric.Int64Counter
	failures  metric.Int64Counter
}

// NewMetrics registers the workflow counters on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	degraded, err := meter.Int64Counter(
		"clausewise.decode.degraded",
		metric.WithDescription("Analyses decoded through the salvage path"),
	)
	if err != nil {
		return nil, fmt.Errorf("create degraded counter: %w", err)
	}

	completed, err := meter.Int64Counter(
		"clausewise.analyses.completed",
		metric.WithDescription("Analyses that passed validation"),
	)
	if err != nil {
		return nil, fmt.Errorf("create completed counter: %w", err)
	}

	failures, err := meter.Int64Counter(
		"clausewise.workflow.failures",
		metric.WithDescription("Workflow failures by stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("create failures counter: %w", err)
	}

	return &Metrics{degraded: degraded, completed: completed, failures: failures}, nil
}

func (m *Metrics) recordDegraded(ctx context.Context, tier Tier) {
	if m == nil {
		return
	}
	m.degraded.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", string(tier))))
}

func (m *Metrics) recordCompleted(ctx context.Context, tier Tier) {
	if m == nil {
		return
	}
	m.completed.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", string(tier))))
}

func (m *Metrics) recordFailure(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}
