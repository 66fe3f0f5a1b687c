package analyses

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/clausewise/pkg/pagination"
	"github.com/JaimeStill/clausewise/pkg/repository"
)

// store is the contract_analyses table. Every read and delete is scoped to
// an owner; a record owned by someone else is indistinguishable from a
// missing one.
type store struct {
	db *sql.DB
}

func (s *store) create(ctx context.Context, a *Analysis) (*Analysis, error) {
	args, err := insertArgs(a)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(
		"INSERT INTO contract_analyses AS a (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING %s",
		insertColumns,
		projection.Select(),
	)

	created, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Analysis, error) {
		return repository.QueryOne(ctx, tx, q, args, scanAnalysis)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &created, nil
}

func (s *store) find(ctx context.Context, id uuid.UUID, owner string) (*Analysis, error) {
	q, args := Filters{}.Apply(owner).Equals("ID", id).One()

	a, err := repository.QueryOne(ctx, s.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &a, nil
}

func (s *store) list(
	ctx context.Context,
	owner string,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	countSQL, countArgs := filters.Apply(owner).Count()
	total, err := repository.Count(ctx, s.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := filters.Apply(owner).Page(page.PageSize, page.Offset())
	items, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *store) delete(ctx context.Context, id uuid.UUID, owner string) error {
	err := repository.ExecExpectOne(
		ctx, s.db,
		"DELETE FROM contract_analyses WHERE id = $1 AND owner_id = $2",
		id, owner,
	)
	return repository.MapError(err, ErrNotFound, ErrNotFound)
}

