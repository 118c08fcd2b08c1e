package rewards

import (
	"context"
	"testing"

	"crowdfund/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStamp_TimePledgeUsesNeedTier(t *testing.T) {
	tierID, err := ResolveStamp(timeNeed("n1", strPtr("T1")), &types.TimePledge{HoursCommitted: dec("3")})
	require.NoError(t, err)
	require.NotNil(t, tierID)
	assert.Equal(t, "T1", *tierID)
}

func TestResolveStamp_TimePledgeWithoutNeedTier(t *testing.T) {
	tierID, err := ResolveStamp(timeNeed("n1", nil), &types.TimePledge{HoursCommitted: dec("3")})
	require.NoError(t, err)
	assert.Nil(t, tierID)
}

func TestResolveStamp_ItemModeBranching(t *testing.T) {
	need := itemNeed("n2", strPtr("DON"), strPtr("LOAN"))

	tierID, err := ResolveStamp(need, &types.ItemPledge{Quantity: 2, Mode: types.ItemModeDonation})
	require.NoError(t, err)
	assert.Equal(t, "DON", *tierID)

	tierID, err = ResolveStamp(need, &types.ItemPledge{Quantity: 2, Mode: types.ItemModeLoan})
	require.NoError(t, err)
	assert.Equal(t, "LOAN", *tierID)
}

func TestResolveStamp_ItemSelectedFieldEmpty(t *testing.T) {
	need := itemNeed("n2", strPtr("DON"), nil)

	tierID, err := ResolveStamp(need, &types.ItemPledge{Quantity: 1, Mode: types.ItemModeLoan})
	require.NoError(t, err)
	assert.Nil(t, tierID)
}

func TestResolveStamp_ItemModeValidatedFirst(t *testing.T) {
	// need has no detail, but the missing mode is reported before anything else
	need := &types.Need{ID: "n2", NeedType: types.NeedTypeItem}

	for _, mode := range []types.ItemMode{"", types.ItemModeEither, "gift"} {
		_, err := ResolveStamp(need, &types.ItemPledge{Quantity: 1, Mode: mode})
		assert.ErrorIs(t, err, types.ErrValidation, "mode %q", mode)
	}
}

func TestResolveStamp_MissingNeedDetail(t *testing.T) {
	need := &types.Need{ID: "n1", NeedType: types.NeedTypeTime}

	_, err := ResolveStamp(need, &types.TimePledge{HoursCommitted: dec("1")})
	require.Error(t, err)

	var ierr *types.IntegrityError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "n1", ierr.ID)
}

func TestResolveStamp_WrongNeedDetail(t *testing.T) {
	need := timeNeed("n1", strPtr("T1"))
	need.Detail = &types.ItemNeed{NeedID: "n1"}

	_, err := ResolveStamp(need, &types.TimePledge{HoursCommitted: dec("1")})
	assert.ErrorIs(t, err, types.ErrIntegrity)
}

func TestResolveStamp_PledgeKindMismatch(t *testing.T) {
	_, err := ResolveStamp(timeNeed("n1", strPtr("T1")), &types.ItemPledge{Quantity: 1, Mode: types.ItemModeLoan})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestResolveStamp_MoneyNeverStamped(t *testing.T) {
	tierID, err := ResolveStamp(moneyNeed("n3"), &types.MoneyPledge{Amount: dec("25")})
	require.NoError(t, err)
	assert.Nil(t, tierID)
}

func TestEngineStamp_WritesOnceForTimePledge(t *testing.T) {
	ledger := newMemLedger()
	ledger.needs["n1"] = timeNeed("n1", strPtr("T1"))
	pledge := ledger.addPledge("p1", "n1", &types.TimePledge{HoursCommitted: dec("3")})

	engine := NewEngine(quietLogger(), ledger, nil)
	tierID, err := engine.Stamp(context.Background(), ledger, pledge, pledge.Detail)
	require.NoError(t, err)
	assert.Equal(t, "T1", *tierID)
	assert.Equal(t, "T1", *pledge.RewardTierID)
	assert.Equal(t, 1, ledger.writes)
}

func TestEngineStamp_ClearsWhenNeedTierRemoved(t *testing.T) {
	ledger := newMemLedger()
	ledger.needs["n1"] = timeNeed("n1", nil)
	pledge := ledger.addPledge("p1", "n1", &types.TimePledge{HoursCommitted: dec("3")})
	pledge.RewardTierID = strPtr("OLD")

	engine := NewEngine(quietLogger(), ledger, nil)
	tierID, err := engine.Stamp(context.Background(), ledger, pledge, pledge.Detail)
	require.NoError(t, err)
	assert.Nil(t, tierID)
	assert.Nil(t, pledge.RewardTierID)
	assert.Equal(t, 1, ledger.writes)
}

func TestEngineStamp_MoneyPledgeNoWrite(t *testing.T) {
	ledger := newMemLedger()
	ledger.needs["n3"] = moneyNeed("n3")
	pledge := ledger.addPledge("p1", "n3", &types.MoneyPledge{Amount: dec("10")})

	engine := NewEngine(quietLogger(), ledger, nil)
	tierID, err := engine.Stamp(context.Background(), ledger, pledge, pledge.Detail)
	require.NoError(t, err)
	assert.Nil(t, tierID)
	assert.Zero(t, ledger.writes)
}

func TestEngineStamp_IsIdempotent(t *testing.T) {
	ledger := newMemLedger()
	ledger.needs["n2"] = itemNeed("n2", strPtr("DON"), strPtr("LOAN"))
	pledge := ledger.addPledge("p1", "n2", &types.ItemPledge{Quantity: 3, Mode: types.ItemModeDonation})

	engine := NewEngine(quietLogger(), ledger, nil)
	first, err := engine.Stamp(context.Background(), ledger, pledge, pledge.Detail)
	require.NoError(t, err)
	second, err := engine.Stamp(context.Background(), ledger, pledge, pledge.Detail)
	require.NoError(t, err)

	assert.Equal(t, *first, *second)
}

func TestEngineStamp_UnknownNeed(t *testing.T) {
	ledger := newMemLedger()
	pledge := &types.Pledge{ID: "p1", NeedID: "nope"}

	engine := NewEngine(quietLogger(), ledger, nil)
	_, err := engine.Stamp(context.Background(), ledger, pledge, &types.TimePledge{HoursCommitted: dec("1")})
	assert.ErrorIs(t, err, types.ErrNeedNotFound)
	assert.Zero(t, ledger.writes)
}
