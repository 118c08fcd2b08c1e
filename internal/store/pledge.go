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
	pledgeTableName      = "crowdfund.pledges"
	moneyPledgeTableName = "crowdfund.money_pledges"
	timePledgeTableName  = "crowdfund.time_pledges"
	itemPledgeTableName  = "crowdfund.item_pledges"
)

var pledgeColumns = utils.StructTagValues(types.Pledge{})

// pledgeRow is a pledge joined with the type of the need it was made on.
type pledgeRow struct {
	types.Pledge
	JoinedNeedType types.NeedType `db:"need_type"`
}

func pledgeSelect() sq.SelectBuilder {
	columns := append(utils.PrefixSliceOfStrings("p", pledgeColumns), "n.need_type")

	return psql().
		Select(columns...).
		From(pledgeTableName + " p").
		Join(needTableName + " n ON n.id = p.need_id")
}

// Pledge returns a pledge with its need type and detail. Inside a
// transaction the pledge row is locked FOR UPDATE.
func (s *Store) Pledge(ctx context.Context, pledgeID string) (*types.Pledge, error) {
	builder := pledgeSelect().
		Where(sq.Eq{"p.id": pledgeID}).
		Limit(1)
	if s.tx != nil {
		builder = builder.Suffix("FOR UPDATE OF p")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pledge query: %w", err)
	}

	var row pledgeRow
	err = pgxscan.Get(ctx, s.db, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPledgeNotFound
		}
		return nil, fmt.Errorf("failed to fetch pledge %s: %w", pledgeID, err)
	}

	pledge := row.Pledge
	pledge.NeedType = row.JoinedNeedType

	details, err := s.pledgeDetails(ctx, []string{pledge.ID})
	if err != nil {
		return nil, err
	}
	pledge.Detail = details[pledge.ID]

	return &pledge, nil
}

// PledgeDetailsFor returns every pledge supporterID made on fundraiserID, of
// any status, with need types and details attached.
func (s *Store) PledgeDetailsFor(ctx context.Context, supporterID, fundraiserID string) ([]*types.Pledge, error) {
	query, args, err := pledgeSelect().
		Where(sq.Eq{"p.supporter_id": supporterID, "p.fundraiser_id": fundraiserID}).
		OrderBy("p.created_at ASC", "p.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate supporter pledges query: %w", err)
	}

	var rows = make([]*pledgeRow, 0)
	err = pgxscan.Select(ctx, s.db, &rows, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch supporter pledges")
	}

	pledges := make([]*types.Pledge, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		pledge := row.Pledge
		pledge.NeedType = row.JoinedNeedType
		pledges = append(pledges, &pledge)
		ids = append(ids, pledge.ID)
	}

	if len(ids) == 0 {
		return pledges, nil
	}

	details, err := s.pledgeDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, pledge := range pledges {
		pledge.Detail = details[pledge.ID]
	}

	return pledges, nil
}

// pledgeDetails loads the detail rows for pledgeIDs from all three detail
// tables, keyed by pledge id. Pledges without a detail row are absent.
func (s *Store) pledgeDetails(ctx context.Context, pledgeIDs []string) (map[string]types.PledgeDetail, error) {
	out := make(map[string]types.PledgeDetail, len(pledgeIDs))

	var money []*types.MoneyPledge
	if err := s.selectDetails(ctx, moneyPledgeTableName, types.MoneyPledge{}, pledgeIDs, &money); err != nil {
		return nil, err
	}
	for _, d := range money {
		out[d.PledgeID] = d
	}

	var hours []*types.TimePledge
	if err := s.selectDetails(ctx, timePledgeTableName, types.TimePledge{}, pledgeIDs, &hours); err != nil {
		return nil, err
	}
	for _, d := range hours {
		out[d.PledgeID] = d
	}

	var items []*types.ItemPledge
	if err := s.selectDetails(ctx, itemPledgeTableName, types.ItemPledge{}, pledgeIDs, &items); err != nil {
		return nil, err
	}
	for _, d := range items {
		out[d.PledgeID] = d
	}

	return out, nil
}

func (s *Store) selectDetails(ctx context.Context, table string, record any, pledgeIDs []string, dest any) error {
	query, args, err := psql().
		Select(utils.StructTagValues(record)...).
		From(table).
		Where(sq.Eq{"pledge_id": pledgeIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate %s query: %w", table, err)
	}

	err = pgxscan.Select(ctx, s.db, dest, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to fetch "+table)
}

func (s *Store) CreatePledge(ctx context.Context, pledge *types.Pledge) error {
	now := time.Now()
	if pledge.ID == "" {
		pledge.ID = utils.NewID()
	}
	pledge.CreatedAt = now
	pledge.UpdatedAt = now

	pledgeMap := utils.StructToMap(pledge)

	query, args, err := psql().Insert(pledgeTableName).SetMap(pledgeMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert pledge query: %w", err)
	}

	_, err = s.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create pledge")
}

// SavePledgeDetail inserts or replaces the detail row of a pledge.
func (s *Store) SavePledgeDetail(ctx context.Context, pledgeID string, detail types.PledgeDetail) error {
	var table string
	switch d := detail.(type) {
	case *types.MoneyPledge:
		table, d.PledgeID = moneyPledgeTableName, pledgeID
	case *types.TimePledge:
		table, d.PledgeID = timePledgeTableName, pledgeID
	case *types.ItemPledge:
		table, d.PledgeID = itemPledgeTableName, pledgeID
	default:
		return fmt.Errorf("unsupported pledge detail %T", detail)
	}

	detailMap := utils.StructToMap(detail)

	query, args, err := psql().
		Insert(table).
		SetMap(detailMap).
		Suffix("ON CONFLICT (pledge_id) DO UPDATE SET " + buildUpdateClause(detailMap, "pledge_id")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert %s query: %w", table, err)
	}

	_, err = s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save pledge detail for pledge %s: %w", pledgeID, err)
	}

	return s.touch(ctx, pledgeTableName, pledgeID)
}

// WriteStampedTier sets the pledge's stamped reward tier. It is the only
// writer of pledges.reward_tier_id besides tier deletion.
func (s *Store) WriteStampedTier(ctx context.Context, pledgeID string, tierID *string) error {
	return s.updatePledge(ctx, pledgeID, map[string]any{"reward_tier_id": tierID})
}

func (s *Store) UpdatePledgeStatus(ctx context.Context, pledgeID string, status types.PledgeStatus) error {
	return s.updatePledge(ctx, pledgeID, map[string]any{"status": status})
}

func (s *Store) updatePledge(ctx context.Context, pledgeID string, fields map[string]any) error {
	fields["updated_at"] = time.Now()

	query, args, err := psql().
		Update(pledgeTableName).
		SetMap(fields).
		Where(sq.Eq{"id": pledgeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update pledge query for pledge %s: %w", pledgeID, err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update pledge: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrPledgeNotFound
	}

	return nil
}

// DeletePledge removes the pledge. Its detail row goes with it.
func (s *Store) DeletePledge(ctx context.Context, pledgeID string) error {
	query, args, err := psql().Delete(pledgeTableName).Where(sq.Eq{"id": pledgeID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete pledge query for pledge %s: %w", pledgeID, err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete pledge: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrPledgeNotFound
	}

	return nil
}
