package analyses

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/clausewise/internal/workflow"
	"github.com/JaimeStill/clausewise/pkg/pagination"
)

// System defines the public contract for contract analysis operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Detect stages the upload and classifies the contract.
	Detect(ctx context.Context, cmd DetectCommand) (*DetectResult, error)

	// Analyze produces and persists a tier-shaped analysis.
	Analyze(ctx context.Context, cmd AnalyzeCommand) (*Analysis, error)

	List(
		ctx context.Context,
		ownerID string,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)

	Find(ctx context.Context, id uuid.UUID, ownerID string) (*Analysis, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
}

// Workflow runs the model-backed flows. *workflow.Runtime satisfies it.
type Workflow interface {
	Detect(ctx context.Context, blob []byte) (*workflow.Detection, error)
	Analyze(ctx context.Context, blob []byte, contractType string, tier workflow.Tier) (*workflow.Outcome, error)
	Model() string
}

// Entitlements decides whether an owner receives premium analyses.
type Entitlements interface {
	IsPremium(ctx context.Context, ownerID string) (bool, error)
}
