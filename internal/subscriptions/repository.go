package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/JaimeStill/clausewise/pkg/query"
	"github.com/JaimeStill/clausewise/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// New creates the subscriptions system. A nil now uses time.Now.
func New(db *sql.DB, logger *slog.Logger, now func() time.Time) System {
	if now == nil {
		now = time.Now
	}
	return &repo{
		db:     db,
		logger: logger.With("system", "subscriptions"),
		now:    now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.now)
}

func (r *repo) Find(ctx context.Context, ownerID string) (*Subscription, error) {
	q, args := query.NewBuilder(projection).Equals("OwnerID", ownerID).One()

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSubscription)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &s, nil
}

func (r *repo) IsPremium(ctx context.Context, ownerID string) (bool, error) {
	s, err := r.Find(ctx, ownerID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.IsPremium(r.now()), nil
}
