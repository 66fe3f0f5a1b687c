package analyses

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/clausewise/internal/workflow"
	"github.com/JaimeStill/clausewise/pkg/pagination"
	"github.com/JaimeStill/clausewise/pkg/storage"
)

// Settings carries the tunables of the analysis domain.
type Settings struct {
	UploadTTL time.Duration
	CacheTTL  time.Duration
	Language  string
}

type service struct {
	store        *store
	cache        *cache
	blobs        storage.System
	flow         Workflow
	entitlements Entitlements
	settings     Settings
	pagination   pagination.Config
	logger       *slog.Logger
	now          func() time.Time
}

// New creates the analyses system.
func New(
	db *sql.DB,
	blobs storage.System,
	flow Workflow,
	entitlements Entitlements,
	logger *slog.Logger,
	pagination pagination.Config,
	settings Settings,
) System {
	logger = logger.With("system", "analyses")
	st := &store{db: db}

	return &service{
		store: st,
		cache: &cache{
			blobs:  blobs,
			store:  st,
			ttl:    settings.CacheTTL,
			logger: logger,
		},
		blobs:        blobs,
		flow:         flow,
		entitlements: entitlements,
		settings:     settings,
		pagination:   pagination,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *service) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, s.pagination, maxUploadSize)
}

func (s *service) Detect(ctx context.Context, cmd DetectCommand) (*DetectResult, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrMissingFile
	}

	key, err := s.stage(ctx, cmd.OwnerID, cmd.Data)
	if err != nil {
		return nil, err
	}

	det, err := s.flow.Detect(context.WithoutCancel(ctx), cmd.Data)
	if err != nil {
		s.logger.Error("contract detection failed", "owner", cmd.OwnerID, "error", err)
		return nil, &failure{public: ErrDetectionFailed, cause: err}
	}

	return &DetectResult{
		DetectedType: det.ContractType,
		UploadKey:    key,
		PageCount:    det.PageCount,
	}, nil
}

func (s *service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*Analysis, error) {
	contractType := workflow.NormalizeType(cmd.ContractType)
	if contractType == "" {
		return nil, ErrInvalidType
	}

	blob, key, err := s.resolveUpload(ctx, cmd)
	if err != nil {
		return nil, err
	}

	tier := s.tier(ctx, cmd.OwnerID)

	out, err := s.flow.Analyze(context.WithoutCancel(ctx), blob, contractType, tier)
	if err != nil {
		s.logger.Error("contract analysis failed",
			"owner", cmd.OwnerID,
			"tier", tier,
			"type", contractType,
			"error", err,
		)
		return nil, &failure{public: ErrAnalysisFailed, cause: err}
	}

	record := &Analysis{
		ID:           uuid.New(),
		OwnerID:      cmd.OwnerID,
		ContractText: out.Text,
		ContractType: contractType,
		Language:     s.settings.Language,
		AIModel:      s.flow.Model(),
		PageCount:    out.PageCount,
		Version:      SchemaVersion,
		Findings:     *out.Findings,
	}

	created, err := s.store.create(context.WithoutCancel(ctx), record)
	if err != nil {
		return nil, err
	}

	if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("upload cleanup failed", "key", key, "error", err)
	}

	s.logger.Info("analysis created",
		"id", created.ID,
		"owner", created.OwnerID,
		"tier", created.Tier,
		"degraded", created.Degraded,
	)
	return created, nil
}

func (s *service) List(
	ctx context.Context,
	ownerID string,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(s.pagination)
	return s.store.list(ctx, ownerID, page, filters)
}

func (s *service) Find(ctx context.Context, id uuid.UUID, ownerID string) (*Analysis, error) {
	return s.cache.find(ctx, id, ownerID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	if err := s.store.delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.cache.evict(ctx, id)

	s.logger.Info("analysis deleted", "id", id, "owner", ownerID)
	return nil
}

func (s *service) stage(ctx context.Context, owner string, data []byte) (string, error) {
	key := uploadKey(owner, s.now())
	if err := s.blobs.Set(ctx, key, data, s.settings.UploadTTL); err != nil {
		s.logger.Error("upload staging failed", "owner", owner, "error", err)
		return "", &failure{public: ErrUploadStorage, cause: err}
	}
	return key, nil
}

// resolveUpload returns the bytes to analyze and the staged key holding them.
func (s *service) resolveUpload(ctx context.Context, cmd AnalyzeCommand) ([]byte, string, error) {
	if cmd.UploadKey == "" {
		if len(cmd.Data) == 0 {
			return nil, "", ErrMissingFile
		}
		key, err := s.stage(ctx, cmd.OwnerID, cmd.Data)
		return cmd.Data, key, err
	}

	if !ownsUpload(cmd.UploadKey, cmd.OwnerID) {
		return nil, "", ErrUploadForbidden
	}

	blob, err := s.blobs.Get(ctx, cmd.UploadKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", ErrUploadNotFound
	}
	if err != nil {
		s.logger.Error("upload read failed", "key", cmd.UploadKey, "error", err)
		return nil, "", &failure{public: ErrUploadStorage, cause: err}
	}
	return blob, cmd.UploadKey, nil
}

func (s *service) tier(ctx context.Context, owner string) workflow.Tier {
	premium, err := s.entitlements.IsPremium(ctx, owner)
	if err != nil {
		s.logger.Warn("subscription lookup failed, using free tier", "owner", owner, "error", err)
		return workflow.TierFree
	}
	if premium {
		return workflow.TierPremium
	}
	return workflow.TierFree
}
