package rewards

import (
	"context"
	"fmt"

	"crowdfund/internal/utils"
	"crowdfund/pkg/types"

	"github.com/sirupsen/logrus"
)

// ResolveStamp returns the reward tier a pledge detail earns from need at
// this instant, or nil. Money pledges are never stamped.
func ResolveStamp(need *types.Need, detail types.PledgeDetail) (*string, error) {
	if detail == nil {
		return nil, types.NewValidationError("detail", "is required")
	}

	if item, ok := detail.(*types.ItemPledge); ok {
		if err := validateItemMode(item.Mode); err != nil {
			return nil, err
		}
	}

	if detail.NeedType() != need.NeedType {
		return nil, types.NewValidationError("detail", "%s pledge cannot be made against a %s need", detail.NeedType(), need.NeedType)
	}

	if need.Detail == nil {
		return nil, types.NewIntegrityError("need", need.ID, "%s need has no detail record", need.NeedType)
	}

	if need.Detail.NeedType() != need.NeedType {
		return nil, types.NewIntegrityError("need", need.ID, "detail record is %s, need type is %s", need.Detail.NeedType(), need.NeedType)
	}

	switch d := detail.(type) {
	case *types.MoneyPledge:
		return nil, nil

	case *types.TimePledge:
		timeNeed, ok := need.Detail.(*types.TimeNeed)
		if !ok {
			return nil, types.NewIntegrityError("need", need.ID, "expected time detail, found %T", need.Detail)
		}
		return copyID(timeNeed.RewardTierID), nil

	case *types.ItemPledge:
		itemNeed, ok := need.Detail.(*types.ItemNeed)
		if !ok {
			return nil, types.NewIntegrityError("need", need.ID, "expected item detail, found %T", need.Detail)
		}

		switch d.Mode {
		case types.ItemModeDonation:
			return copyID(itemNeed.DonationRewardTierID), nil
		case types.ItemModeLoan:
			return copyID(itemNeed.LoanRewardTierID), nil
		}
	}

	return nil, types.NewValidationError("detail", "unsupported pledge detail %T", detail)
}

// Stamp resolves the tier for a time or item pledge write and stores it on
// the pledge. ledger must be bound to the same transaction as the detail
// write so the need read and the stamp write share one snapshot. Money
// pledges are left untouched.
func (e *Engine) Stamp(ctx context.Context, ledger Ledger, pledge *types.Pledge, detail types.PledgeDetail) (*string, error) {
	need, err := ledger.NeedDetail(ctx, pledge.NeedID)
	if err != nil {
		return nil, fmt.Errorf("failed to load need %s for stamping: %w", pledge.NeedID, err)
	}

	tierID, err := ResolveStamp(need, detail)
	if err != nil {
		return nil, err
	}

	if detail.NeedType() == types.NeedTypeMoney {
		return nil, nil
	}

	if err := ledger.WriteStampedTier(ctx, pledge.ID, tierID); err != nil {
		return nil, fmt.Errorf("failed to stamp pledge %s: %w", pledge.ID, err)
	}

	pledge.RewardTierID = tierID

	e.logger.WithFields(logrus.Fields{
		"pledge_id":      pledge.ID,
		"need_id":        need.ID,
		"reward_tier_id": utils.PtrString(tierID),
	}).Debug("stamped pledge")

	return tierID, nil
}

func validateItemMode(mode types.ItemMode) error {
	switch mode {
	case types.ItemModeDonation, types.ItemModeLoan:
		return nil
	case "":
		return types.NewValidationError("mode", "is required")
	}
	return types.NewValidationError("mode", "must be donation or loan, got %q", mode)
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
