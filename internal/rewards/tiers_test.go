package rewards

import (
	"context"
	"strings"
	"testing"

	"crowdfund/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierService_CreateTier(t *testing.T) {
	ledger := newMemLedger()
	svc := NewTierService(quietLogger(), ledger, nil)

	tier, err := svc.CreateTier(context.Background(), testOwner, &types.RewardTier{
		FundraiserID:             testFundraiser,
		Name:                     "Bronze",
		RewardType:               types.RewardTypeMoney,
		MinimumContributionValue: decPtr("50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "tier-Bronze", tier.ID)
	assert.Len(t, ledger.tiers, 1)
}

func TestTierService_CreateTierRequiresOwner(t *testing.T) {
	ledger := newMemLedger()
	svc := NewTierService(quietLogger(), ledger, nil)

	_, err := svc.CreateTier(context.Background(), testSupporter, &types.RewardTier{
		FundraiserID: testFundraiser,
		Name:         "Crew shirt",
		RewardType:   types.RewardTypeTime,
	})
	assert.ErrorIs(t, err, types.ErrForbidden)
	assert.Empty(t, ledger.tiers)
}

func TestTierService_CreateTierValidatesFirst(t *testing.T) {
	ledger := newMemLedger()
	svc := NewTierService(quietLogger(), ledger, nil)

	_, err := svc.CreateTier(context.Background(), testOwner, &types.RewardTier{
		FundraiserID: testFundraiser,
		Name:         "Bronze",
		RewardType:   types.RewardTypeMoney,
	})
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Empty(t, ledger.tiers)
}

func TestTierService_UpdateTierKeepsType(t *testing.T) {
	ledger := newMemLedger()
	ledger.tiers = []*types.RewardTier{otherTier("T1", types.RewardTypeTime)}
	svc := NewTierService(quietLogger(), ledger, nil)
	ctx := context.Background()

	_, err := svc.UpdateTier(ctx, testOwner, "T1", &types.RewardTier{Name: "T1", RewardType: types.RewardTypeMoney})
	assert.ErrorIs(t, err, types.ErrValidation)

	updated, err := svc.UpdateTier(ctx, testOwner, "T1", &types.RewardTier{Name: "Crew hoodie", SortOrder: 3})
	require.NoError(t, err)
	assert.Equal(t, "Crew hoodie", updated.Name)
	assert.Equal(t, types.RewardTypeTime, updated.RewardType)
	assert.Equal(t, 3, updated.SortOrder)
}

func TestTierService_UpdateMoneyTierThreshold(t *testing.T) {
	ledger := newMemLedger()
	ledger.tiers = []*types.RewardTier{moneyTier("bronze", "50", 0)}
	svc := NewTierService(quietLogger(), ledger, nil)

	_, err := svc.UpdateTier(context.Background(), testOwner, "bronze", &types.RewardTier{Name: "bronze"})
	assert.ErrorIs(t, err, types.ErrValidation, "money tier cannot drop its threshold")
}

func TestTierService_DeleteTierClearsStamps(t *testing.T) {
	ledger := newMemLedger()
	ledger.needs["n1"] = timeNeed("n1", strPtr("T1"))
	ledger.tiers = []*types.RewardTier{otherTier("T1", types.RewardTypeTime)}
	pledge := ledger.addPledge("p1", "n1", &types.TimePledge{HoursCommitted: dec("2")})
	pledge.RewardTierID = strPtr("T1")

	svc := NewTierService(quietLogger(), ledger, nil)
	require.NoError(t, svc.DeleteTier(context.Background(), testOwner, "T1"))

	assert.Empty(t, ledger.tiers)
	assert.Nil(t, pledge.RewardTierID)

	summary, err := NewEngine(quietLogger(), ledger, nil).RewardsSummary(context.Background(), testSupporter, testFundraiser)
	require.NoError(t, err)
	assert.Empty(t, summary.EarnedOtherRewardTiers)
}

func TestTierService_Tiers(t *testing.T) {
	ledger := newMemLedger()
	ledger.tiers = []*types.RewardTier{
		moneyTier("silver", "100", 0),
		otherTier("T1", types.RewardTypeTime),
		moneyTier("bronze", "50", 0),
	}
	svc := NewTierService(quietLogger(), ledger, nil)
	ctx := context.Background()

	all, err := svc.Tiers(ctx, testFundraiser, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	money, err := svc.Tiers(ctx, testFundraiser, types.RewardTypeMoney)
	require.NoError(t, err)
	assert.Equal(t, []string{"bronze", "silver"}, tierIDs(money))

	items, err := svc.Tiers(ctx, testFundraiser, types.RewardTypeItem)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = svc.Tiers(ctx, "fund-2", "")
	assert.ErrorIs(t, err, types.ErrFundraiserNotFound)
}

func TestTierService_SetTierImage(t *testing.T) {
	ledger := newMemLedger()
	ledger.tiers = []*types.RewardTier{otherTier("T1", types.RewardTypeTime)}
	uploader := &fakeUploader{}
	svc := NewTierService(quietLogger(), ledger, uploader)
	ctx := context.Background()

	_, err := svc.SetTierImage(ctx, testOwner, "T1", strings.NewReader("gif"), "image/gif")
	assert.ErrorIs(t, err, types.ErrValidation)

	tier, err := svc.SetTierImage(ctx, testOwner, "T1", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	require.NotNil(t, tier.ImageURL)
	assert.True(t, strings.HasPrefix(uploader.key, "reward-tiers/T1/"))
	assert.True(t, strings.HasSuffix(uploader.key, ".png"))
	assert.Equal(t, "https://images.example.com/"+uploader.key, *tier.ImageURL)
	assert.Equal(t, *tier.ImageURL, *ledger.tiers[0].ImageURL)
}

func TestTierService_SetTierImage_NoStorage(t *testing.T) {
	ledger := newMemLedger()
	ledger.tiers = []*types.RewardTier{otherTier("T1", types.RewardTypeTime)}
	svc := NewTierService(quietLogger(), ledger, nil)

	_, err := svc.SetTierImage(context.Background(), testOwner, "T1", strings.NewReader("png-bytes"), "image/png")
	assert.ErrorIs(t, err, types.ErrImageStorageUnavailable)
	assert.Nil(t, ledger.tiers[0].ImageURL)
}
