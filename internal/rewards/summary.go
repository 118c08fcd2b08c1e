package rewards

import (
	"crowdfund/pkg/types"
)

// Summarize builds the rewards summary for one supporter's pledges on a
// fundraiser. Money tiers come from Aggregate; other tiers are the distinct
// stamps on time and item pledges, in first-seen order of the pledge set.
func Summarize(pledges []*types.Pledge, registry *Registry) (*types.RewardsSummary, error) {
	totals, err := Aggregate(pledges, registry)
	if err != nil {
		return nil, err
	}

	stamped, err := stampedTiers(pledges, registry)
	if err != nil {
		return nil, err
	}

	return &types.RewardsSummary{
		TotalMoneyPledged:        totals.Money,
		TotalTimeHoursPledged:    totals.Hours,
		TotalItemQuantityPledged: totals.Items,
		EarnedMoneyRewardTiers:   totals.EarnedMoneyTiers,
		EarnedOtherRewardTiers:   stamped,
	}, nil
}

func stampedTiers(pledges []*types.Pledge, registry *Registry) ([]*types.RewardTier, error) {
	seen := make(map[string]struct{})
	out := make([]*types.RewardTier, 0)

	for _, pledge := range pledges {
		if pledge.RewardTierID == nil {
			continue
		}

		if _, ok := pledge.Detail.(*types.MoneyPledge); ok {
			return nil, types.NewIntegrityError("pledge", pledge.ID, "money pledge carries a stamped reward tier")
		}

		id := *pledge.RewardTierID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		tier, ok := registry.Lookup(id)
		if !ok {
			return nil, types.NewIntegrityError("pledge", pledge.ID, "stamped reward tier %s does not belong to the fundraiser", id)
		}

		out = append(out, tier)
	}

	return out, nil
}
