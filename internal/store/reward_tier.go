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

const rewardTierTableName = "crowdfund.reward_tiers"

var rewardTierColumns = utils.StructTagValues(types.RewardTier{})

func (s *Store) RewardTier(ctx context.Context, tierID string) (*types.RewardTier, error) {
	query, args, err := psql().
		Select(rewardTierColumns...).
		From(rewardTierTableName).
		Where(sq.Eq{"id": tierID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reward tier query: %w", err)
	}

	var tier = new(types.RewardTier)
	err = pgxscan.Get(ctx, s.db, tier, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRewardTierNotFound
		}
		return nil, fmt.Errorf("failed to fetch reward tier %s: %w", tierID, err)
	}

	return tier, nil
}

// RewardTiers returns every tier of a fundraiser. Callers order them through
// rewards.Registry.
func (s *Store) RewardTiers(ctx context.Context, fundraiserID string) ([]*types.RewardTier, error) {
	query, args, err := psql().
		Select(rewardTierColumns...).
		From(rewardTierTableName).
		Where(sq.Eq{"fundraiser_id": fundraiserID}).
		OrderBy("sort_order ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reward tiers query: %w", err)
	}

	var tiers = make([]*types.RewardTier, 0)
	err = pgxscan.Select(ctx, s.db, &tiers, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch reward tiers")
	}

	return tiers, nil
}

func (s *Store) CreateRewardTier(ctx context.Context, tier *types.RewardTier) error {
	now := time.Now()
	if tier.ID == "" {
		tier.ID = utils.NewID()
	}
	tier.CreatedAt = now
	tier.UpdatedAt = now

	tierMap := utils.StructToMap(tier)

	query, args, err := psql().
		Insert(rewardTierTableName).
		SetMap(tierMap).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(tierMap, "id", "created_at")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert reward tier query: %w", err)
	}

	_, err = s.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create reward tier")
}

func (s *Store) UpdateRewardTier(ctx context.Context, tier *types.RewardTier) error {
	tier.UpdatedAt = time.Now()

	tierMap := utils.StructToMap(tier)
	delete(tierMap, "id")
	delete(tierMap, "created_at")

	query, args, err := psql().
		Update(rewardTierTableName).
		SetMap(tierMap).
		Where(sq.Eq{"id": tier.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update reward tier query for tier %s: %w", tier.ID, err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update reward tier: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrRewardTierNotFound
	}

	return nil
}

// DeleteRewardTier clears every need reference and pledge stamp pointing at
// the tier, then deletes it, in one transaction.
func (s *Store) DeleteRewardTier(ctx context.Context, tierID string) error {
	return s.InTx(ctx, func(tx *Store) error {
		clears := []struct {
			table  string
			column string
		}{
			{timeNeedTableName, "reward_tier_id"},
			{itemNeedTableName, "donation_reward_tier_id"},
			{itemNeedTableName, "loan_reward_tier_id"},
			{pledgeTableName, "reward_tier_id"},
		}

		for _, c := range clears {
			query, args, err := psql().
				Update(c.table).
				Set(c.column, nil).
				Where(sq.Eq{c.column: tierID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to generate clear query for %s.%s: %w", c.table, c.column, err)
			}

			if _, err := tx.db.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to clear %s.%s: %w", c.table, c.column, err)
			}
		}

		query, args, err := psql().Delete(rewardTierTableName).Where(sq.Eq{"id": tierID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate delete reward tier query for tier %s: %w", tierID, err)
		}

		tag, err := tx.db.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to delete reward tier: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return types.ErrRewardTierNotFound
		}

		return nil
	})
}
