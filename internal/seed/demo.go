package seed

import (
	"context"
	"fmt"
	"time"

	"crowdfund/internal/store"
	"crowdfund/internal/utils"
	"crowdfund/pkg/types"

	"github.com/shopspring/decimal"
)

// Fixed IDs keep the demo data stable across runs.
// To generate new IDs: `go run ./cmd/crowdfund nanoid`
const (
	DemoFundraiserID = "Wq3kR8vXn2LpT6yZcF9mHs4JbD7aG1eU"
	DemoOwnerID      = "demo-owner"

	demoBronzeTierID = "Bz5nQ1wE8rT3yU6iO9pA2sD4fG7hJ0kL"
	demoSilverTierID = "Sv2mN5bV8cX1zL4kJ7hG0fD3sA6pO9iU"
	demoGoldTierID   = "Gd8hJ1kL4zX7cV0bN3mQ6wE9rT2yU5iO"
	demoCrewTierID   = "Cr4fG7hJ0kL3zX6cV9bN2mQ5wE8rT1yU"
	demoDonorTierID  = "Dn6sD9fG2hJ5kL8zX1cV4bN7mQ0wE3rT"
	demoLenderTierID = "Ln1pO4iU7yT0rE3wQ6mN9bV2cX5zL8kJ"

	demoRentNeedID  = "Rn7yT0rE3wQ6mN9bV2cX5zL8kJ1hG4fD"
	demoCrewNeedID  = "Cw3wQ6mN9bV2cX5zL8kJ1hG4fD7sA0pO"
	demoTentsNeedID = "Tn9bV2cX5zL8kJ1hG4fD7sA0pO3iU6yT"
)

func DemoFundraiser() *types.Fundraiser {
	return &types.Fundraiser{
		ID:            DemoFundraiserID,
		OwnerID:       DemoOwnerID,
		Title:         "[seed] Riverside community cleanup",
		Description:   "Money, hands and gear for the spring river cleanup.",
		Goal:          decimal.NewFromInt(2500),
		Status:        types.FundraiserStatusActive,
		EnableRewards: true,
	}
}

func DemoRewardTiers() []*types.RewardTier {
	money := func(id, name string, threshold int64, order int) *types.RewardTier {
		floor := decimal.NewFromInt(threshold)
		return &types.RewardTier{
			ID:                       id,
			FundraiserID:             DemoFundraiserID,
			Name:                     name,
			RewardType:               types.RewardTypeMoney,
			MinimumContributionValue: &floor,
			SortOrder:                order,
		}
	}

	gold := money(demoGoldTierID, "Gold", 100, 3)
	gold.MaxBackers = utils.IntPtr(50)

	return []*types.RewardTier{
		money(demoBronzeTierID, "Bronze", 25, 1),
		money(demoSilverTierID, "Silver", 50, 2),
		gold,
		{
			ID:           demoCrewTierID,
			FundraiserID: DemoFundraiserID,
			Name:         "Cleanup crew shirt",
			RewardType:   types.RewardTypeTime,
			SortOrder:    4,
		},
		{
			ID:           demoDonorTierID,
			FundraiserID: DemoFundraiserID,
			Name:         "Gear donor patch",
			RewardType:   types.RewardTypeItem,
			SortOrder:    5,
		},
		{
			ID:           demoLenderTierID,
			FundraiserID: DemoFundraiserID,
			Name:         "Gear lender thank-you card",
			RewardType:   types.RewardTypeItem,
			SortOrder:    6,
		},
	}
}

func DemoNeeds() []*types.Need {
	start := time.Date(2027, time.April, 17, 9, 0, 0, 0, time.UTC)

	return []*types.Need{
		{
			ID:           demoRentNeedID,
			FundraiserID: DemoFundraiserID,
			NeedType:     types.NeedTypeMoney,
			Title:        "Dumpster rental",
			Status:       types.NeedStatusOpen,
			Priority:     types.NeedPriorityHigh,
			SortOrder:    1,
			Detail:       &types.MoneyNeed{TargetAmount: decimal.NewFromInt(800)},
		},
		{
			ID:           demoCrewNeedID,
			FundraiserID: DemoFundraiserID,
			NeedType:     types.NeedTypeTime,
			Title:        "Saturday cleanup crew",
			Status:       types.NeedStatusOpen,
			Priority:     types.NeedPriorityMedium,
			SortOrder:    2,
			Detail: &types.TimeNeed{
				StartAt:          start,
				EndAt:            start.Add(4 * time.Hour),
				VolunteersNeeded: 20,
				RoleTitle:        "Litter picker",
				Location:         "North bank boat ramp",
				RewardTierID:     utils.StringPtr(demoCrewTierID),
			},
		},
		{
			ID:           demoTentsNeedID,
			FundraiserID: DemoFundraiserID,
			NeedType:     types.NeedTypeItem,
			Title:        "Shade tents",
			Status:       types.NeedStatusOpen,
			Priority:     types.NeedPriorityLow,
			SortOrder:    3,
			Detail: &types.ItemNeed{
				ItemName:             "10x10 pop-up tent",
				QuantityNeeded:       4,
				Mode:                 types.ItemModeEither,
				DonationRewardTierID: utils.StringPtr(demoDonorTierID),
				LoanRewardTierID:     utils.StringPtr(demoLenderTierID),
			},
		},
	}
}

// SeedDemo upserts the demo fundraiser with its reward tiers and needs.
func SeedDemo(ctx context.Context, st *store.Store) error {
	return st.InTx(ctx, func(tx *store.Store) error {
		if err := tx.CreateFundraiser(ctx, DemoFundraiser()); err != nil {
			return fmt.Errorf("failed to seed fundraiser: %w", err)
		}

		for _, tier := range DemoRewardTiers() {
			if err := tx.CreateRewardTier(ctx, tier); err != nil {
				return fmt.Errorf("failed to seed reward tier %s: %w", tier.Name, err)
			}
		}

		for _, need := range DemoNeeds() {
			if err := tx.CreateNeed(ctx, need); err != nil {
				return fmt.Errorf("failed to seed need %s: %w", need.Title, err)
			}
		}

		return nil
	})
}
