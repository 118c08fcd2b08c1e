package store

import (
	"context"
	"fmt"
	"time"

	"crowdfund/internal/utils"
	"crowdfund/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const fundraiserTableName = "crowdfund.fundraisers"

var fundraiserColumns = utils.StructTagValues(types.Fundraiser{})

func (s *Store) Fundraiser(ctx context.Context, fundraiserID string) (*types.Fundraiser, error) {
	query, args, err := psql().
		Select(fundraiserColumns...).
		From(fundraiserTableName).
		Where(sq.Eq{"id": fundraiserID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate fundraiser query: %w", err)
	}

	var fundraiser = new(types.Fundraiser)
	err = pgxscan.Get(ctx, s.db, fundraiser, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrFundraiserNotFound
		}
		return nil, fmt.Errorf("failed to fetch fundraiser %s: %w", fundraiserID, err)
	}

	return fundraiser, nil
}

func (s *Store) CreateFundraiser(ctx context.Context, fundraiser *types.Fundraiser) error {
	now := time.Now()
	if fundraiser.ID == "" {
		fundraiser.ID = utils.NewID()
	}
	fundraiser.CreatedAt = now
	fundraiser.UpdatedAt = now

	fundraiserMap := utils.StructToMap(fundraiser)

	query, args, err := psql().
		Insert(fundraiserTableName).
		SetMap(fundraiserMap).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(fundraiserMap, "id", "created_at")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert fundraiser query: %w", err)
	}

	_, err = s.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create fundraiser")
}
