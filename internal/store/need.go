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

const (
	needTableName      = "crowdfund.needs"
	moneyNeedTableName = "crowdfund.money_needs"
	timeNeedTableName  = "crowdfund.time_needs"
	itemNeedTableName  = "crowdfund.item_needs"
)

var needColumns = utils.StructTagValues(types.Need{})

// NeedDetail loads a need and the detail row its need_type points at. Inside
// a transaction the need row is held FOR SHARE so its tier references cannot
// change before commit. Detail is nil when the detail row is missing.
func (s *Store) NeedDetail(ctx context.Context, needID string) (*types.Need, error) {
	builder := psql().
		Select(needColumns...).
		From(needTableName).
		Where(sq.Eq{"id": needID}).
		Limit(1)
	if s.tx != nil {
		builder = builder.Suffix("FOR SHARE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate need query: %w", err)
	}

	var need = new(types.Need)
	err = pgxscan.Get(ctx, s.db, need, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrNeedNotFound
		}
		return nil, fmt.Errorf("failed to fetch need %s: %w", needID, err)
	}

	detail, err := s.needDetail(ctx, need)
	if err != nil {
		return nil, err
	}
	need.Detail = detail

	return need, nil
}

func (s *Store) needDetail(ctx context.Context, need *types.Need) (types.NeedDetail, error) {
	var (
		table string
		dest  types.NeedDetail
	)

	switch need.NeedType {
	case types.NeedTypeMoney:
		table, dest = moneyNeedTableName, new(types.MoneyNeed)
	case types.NeedTypeTime:
		table, dest = timeNeedTableName, new(types.TimeNeed)
	case types.NeedTypeItem:
		table, dest = itemNeedTableName, new(types.ItemNeed)
	default:
		return nil, types.NewIntegrityError("need", need.ID, "unknown need type %q", need.NeedType)
	}

	builder := psql().
		Select(utils.StructTagValues(dest)...).
		From(table).
		Where(sq.Eq{"need_id": need.ID}).
		Limit(1)
	if s.tx != nil {
		builder = builder.Suffix("FOR SHARE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s query: %w", table, err)
	}

	err = pgxscan.Get(ctx, s.db, dest, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch %s detail for need %s: %w", need.NeedType, need.ID, err)
	}

	return dest, nil
}

// Needs lists a fundraiser's needs with their details.
func (s *Store) Needs(ctx context.Context, fundraiserID string) ([]*types.Need, error) {
	query, args, err := psql().
		Select(needColumns...).
		From(needTableName).
		Where(sq.Eq{"fundraiser_id": fundraiserID}).
		OrderBy("sort_order ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate needs query: %w", err)
	}

	var needs = make([]*types.Need, 0)
	err = pgxscan.Select(ctx, s.db, &needs, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch needs")
	}

	for _, need := range needs {
		need.Detail, err = s.needDetail(ctx, need)
		if err != nil {
			return nil, err
		}
	}

	return needs, nil
}

// CreateNeed inserts the need and its detail together.
func (s *Store) CreateNeed(ctx context.Context, need *types.Need) error {
	now := time.Now()
	if need.ID == "" {
		need.ID = utils.NewID()
	}
	need.CreatedAt = now
	need.UpdatedAt = now

	needMap := utils.StructToMap(need)

	return s.InTx(ctx, func(tx *Store) error {
		query, args, err := psql().
			Insert(needTableName).
			SetMap(needMap).
			Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(needMap, "id", "created_at")).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate insert need query: %w", err)
		}

		if _, err := tx.db.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to create need: %w", err)
		}

		return tx.SaveNeedDetail(ctx, need.ID, need.Detail)
	})
}

// SaveNeedDetail inserts or replaces the detail row of a need.
func (s *Store) SaveNeedDetail(ctx context.Context, needID string, detail types.NeedDetail) error {
	var table string
	switch d := detail.(type) {
	case *types.MoneyNeed:
		table, d.NeedID = moneyNeedTableName, needID
	case *types.TimeNeed:
		table, d.NeedID = timeNeedTableName, needID
	case *types.ItemNeed:
		table, d.NeedID = itemNeedTableName, needID
	default:
		return fmt.Errorf("unsupported need detail %T", detail)
	}

	detailMap := utils.StructToMap(detail)

	query, args, err := psql().
		Insert(table).
		SetMap(detailMap).
		Suffix("ON CONFLICT (need_id) DO UPDATE SET " + buildUpdateClause(detailMap, "need_id")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert %s query: %w", table, err)
	}

	_, err = s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save need detail for need %s: %w", needID, err)
	}

	return s.touch(ctx, needTableName, needID)
}

func (s *Store) CountPledgesForNeed(ctx context.Context, needID string) (int, error) {
	query, args, err := psql().
		Select("count(*)").
		From(pledgeTableName).
		Where(sq.Eq{"need_id": needID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate count pledges query: %w", err)
	}

	var count int
	if err := s.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pledges for need %s: %w", needID, err)
	}

	return count, nil
}

// DeleteNeed removes the need. Its detail row goes with it.
func (s *Store) DeleteNeed(ctx context.Context, needID string) error {
	query, args, err := psql().Delete(needTableName).Where(sq.Eq{"id": needID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete need query for need %s: %w", needID, err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete need: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrNeedNotFound
	}

	return nil
}

func (s *Store) touch(ctx context.Context, table, id string) error {
	query, args, err := psql().
		Update(table).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate touch query for %s: %w", table, err)
	}

	_, err = s.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to touch "+table)
}
