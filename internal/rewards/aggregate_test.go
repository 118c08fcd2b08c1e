package rewards

import (
	"testing"

	"crowdfund/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_ZeroCase(t *testing.T) {
	totals, err := Aggregate(nil, NewRegistry([]*types.RewardTier{moneyTier("bronze", "50", 0)}))
	require.NoError(t, err)

	assert.True(t, totals.Money.IsZero())
	assert.True(t, totals.Hours.IsZero())
	assert.Zero(t, totals.Items)
	assert.NotNil(t, totals.EarnedMoneyTiers)
	assert.Empty(t, totals.EarnedMoneyTiers)
}

func TestAggregate_SumsEachKind(t *testing.T) {
	ledger := newMemLedger()
	ledger.needs["money"] = moneyNeed("money")
	ledger.needs["time"] = timeNeed("time", nil)
	ledger.needs["item"] = itemNeed("item", nil, nil)

	ledger.addPledge("p1", "money", &types.MoneyPledge{Amount: dec("30.25")})
	ledger.addPledge("p2", "money", &types.MoneyPledge{Amount: dec("89.75")})
	ledger.addPledge("p3", "time", &types.TimePledge{HoursCommitted: dec("2.5")})
	ledger.addPledge("p4", "time", &types.TimePledge{HoursCommitted: dec("1.5")})
	ledger.addPledge("p5", "item", &types.ItemPledge{Quantity: 4, Mode: types.ItemModeLoan})

	totals, err := Aggregate(ledger.pledges, NewRegistry(nil))
	require.NoError(t, err)

	assert.True(t, dec("120").Equal(totals.Money), "money total %s", totals.Money)
	assert.True(t, dec("4").Equal(totals.Hours), "hours total %s", totals.Hours)
	assert.Equal(t, 4, totals.Items)
}

func TestAggregate_MoneyTiersAreCumulative(t *testing.T) {
	ledger := newMemLedger()
	ledger.needs["money"] = moneyNeed("money")
	ledger.addPledge("p1", "money", &types.MoneyPledge{Amount: dec("500")})

	registry := NewRegistry([]*types.RewardTier{
		moneyTier("platinum", "1000", 0),
		moneyTier("gold", "250", 0),
		moneyTier("bronze", "25", 0),
		moneyTier("silver", "100", 0),
	})

	totals, err := Aggregate(ledger.pledges, registry)
	require.NoError(t, err)
	assert.Equal(t, []string{"bronze", "silver", "gold"}, tierIDs(totals.EarnedMoneyTiers))
}

func TestAggregate_ThresholdIsInclusive(t *testing.T) {
	ledger := newMemLedger()
	ledger.needs["money"] = moneyNeed("money")
	ledger.addPledge("p1", "money", &types.MoneyPledge{Amount: dec("100.00")})

	totals, err := Aggregate(ledger.pledges, NewRegistry([]*types.RewardTier{moneyTier("silver", "100", 0)}))
	require.NoError(t, err)
	assert.Equal(t, []string{"silver"}, tierIDs(totals.EarnedMoneyTiers))
}

func TestAggregate_TimeAndItemDoNotEarnMoneyTiers(t *testing.T) {
	ledger := newMemLedger()
	ledger.needs["time"] = timeNeed("time", nil)
	ledger.addPledge("p1", "time", &types.TimePledge{HoursCommitted: dec("500")})

	totals, err := Aggregate(ledger.pledges, NewRegistry([]*types.RewardTier{moneyTier("bronze", "1", 0)}))
	require.NoError(t, err)
	assert.Empty(t, totals.EarnedMoneyTiers)
}

func TestAggregate_FailsOnMissingDetail(t *testing.T) {
	pledges := []*types.Pledge{{ID: "p1", NeedType: types.NeedTypeMoney}}

	_, err := Aggregate(pledges, NewRegistry(nil))
	assert.ErrorIs(t, err, types.ErrIntegrity)
}

func TestAggregate_FailsOnDetailKindMismatch(t *testing.T) {
	pledges := []*types.Pledge{{
		ID:       "p1",
		NeedType: types.NeedTypeTime,
		Detail:   &types.MoneyPledge{Amount: dec("10")},
	}}

	_, err := Aggregate(pledges, NewRegistry(nil))
	assert.ErrorIs(t, err, types.ErrIntegrity)
}
