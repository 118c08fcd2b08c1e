package rewards

import (
	"crowdfund/pkg/types"

	"github.com/shopspring/decimal"
)

// Totals is a supporter's live contribution to one fundraiser.
type Totals struct {
	Money decimal.Decimal
	Hours decimal.Decimal
	Items int

	// EarnedMoneyTiers holds every money tier whose threshold the money
	// total meets, lowest threshold first.
	EarnedMoneyTiers []*types.RewardTier
}

// Aggregate sums pledges by kind and derives the money tiers earned from
// registry. Nothing is cached; callers recompute on every read so tiers added
// after the pledges were made are picked up immediately.
func Aggregate(pledges []*types.Pledge, registry *Registry) (Totals, error) {
	totals := Totals{
		Money:            decimal.Zero,
		Hours:            decimal.Zero,
		EarnedMoneyTiers: make([]*types.RewardTier, 0),
	}

	for _, pledge := range pledges {
		if err := checkPledgeDetail(pledge); err != nil {
			return Totals{}, err
		}

		switch d := pledge.Detail.(type) {
		case *types.MoneyPledge:
			totals.Money = totals.Money.Add(d.Amount)
		case *types.TimePledge:
			totals.Hours = totals.Hours.Add(d.HoursCommitted)
		case *types.ItemPledge:
			totals.Items += d.Quantity
		default:
			return Totals{}, types.NewIntegrityError("pledge", pledge.ID, "unsupported detail %T", pledge.Detail)
		}
	}

	for _, tier := range registry.MoneyTiers() {
		if tier.MinimumContributionValue == nil {
			continue
		}

		// tiers are sorted by threshold, so the first miss ends the scan
		if tier.MinimumContributionValue.GreaterThan(totals.Money) {
			break
		}

		totals.EarnedMoneyTiers = append(totals.EarnedMoneyTiers, tier)
	}

	return totals, nil
}

func checkPledgeDetail(pledge *types.Pledge) error {
	if pledge.Detail == nil {
		return types.NewIntegrityError("pledge", pledge.ID, "pledge has no detail record")
	}

	if pledge.NeedType != "" && pledge.Detail.NeedType() != pledge.NeedType {
		return types.NewIntegrityError("pledge", pledge.ID, "%s detail recorded against a %s need", pledge.Detail.NeedType(), pledge.NeedType)
	}

	return nil
}
