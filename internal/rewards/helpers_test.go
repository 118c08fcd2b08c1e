package rewards

import (
	"context"
	"io"
	"time"

	"crowdfund/pkg/types"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	testFundraiser = "fund-1"
	testSupporter  = "supporter-1"
	testOwner      = "owner-1"
)

type memLedger struct {
	needs   map[string]*types.Need
	pledges []*types.Pledge
	tiers   []*types.RewardTier
	writes  int
}

func newMemLedger() *memLedger {
	return &memLedger{needs: make(map[string]*types.Need)}
}

func (l *memLedger) NeedDetail(_ context.Context, needID string) (*types.Need, error) {
	need, ok := l.needs[needID]
	if !ok {
		return nil, types.ErrNeedNotFound
	}
	return need, nil
}

func (l *memLedger) PledgeDetailsFor(_ context.Context, supporterID, fundraiserID string) ([]*types.Pledge, error) {
	out := make([]*types.Pledge, 0)
	for _, p := range l.pledges {
		if p.SupporterID == supporterID && p.FundraiserID == fundraiserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (l *memLedger) WriteStampedTier(_ context.Context, pledgeID string, tierID *string) error {
	for _, p := range l.pledges {
		if p.ID == pledgeID {
			p.RewardTierID = tierID
			l.writes++
			return nil
		}
	}
	return types.ErrPledgeNotFound
}

func (l *memLedger) RewardTiers(_ context.Context, fundraiserID string) ([]*types.RewardTier, error) {
	out := make([]*types.RewardTier, 0)
	for _, t := range l.tiers {
		if t.FundraiserID == fundraiserID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (l *memLedger) addPledge(id, needID string, detail types.PledgeDetail) *types.Pledge {
	need := l.needs[needID]
	p := &types.Pledge{
		ID:           id,
		SupporterID:  testSupporter,
		FundraiserID: testFundraiser,
		NeedID:       needID,
		Status:       types.PledgeStatusPending,
		NeedType:     need.NeedType,
		Detail:       detail,
	}
	l.pledges = append(l.pledges, p)
	return p
}

func (l *memLedger) Fundraiser(_ context.Context, fundraiserID string) (*types.Fundraiser, error) {
	if fundraiserID != testFundraiser {
		return nil, types.ErrFundraiserNotFound
	}
	return &types.Fundraiser{ID: testFundraiser, OwnerID: testOwner, Status: types.FundraiserStatusActive}, nil
}

func (l *memLedger) RewardTier(_ context.Context, tierID string) (*types.RewardTier, error) {
	for _, t := range l.tiers {
		if t.ID == tierID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, types.ErrRewardTierNotFound
}

func (l *memLedger) CreateRewardTier(_ context.Context, tier *types.RewardTier) error {
	if tier.ID == "" {
		tier.ID = "tier-" + tier.Name
	}
	l.tiers = append(l.tiers, tier)
	return nil
}

func (l *memLedger) UpdateRewardTier(_ context.Context, tier *types.RewardTier) error {
	for i, t := range l.tiers {
		if t.ID == tier.ID {
			l.tiers[i] = tier
			return nil
		}
	}
	return types.ErrRewardTierNotFound
}

func (l *memLedger) DeleteRewardTier(_ context.Context, tierID string) error {
	kept := l.tiers[:0]
	for _, t := range l.tiers {
		if t.ID != tierID {
			kept = append(kept, t)
		}
	}
	l.tiers = kept

	for _, p := range l.pledges {
		if p.RewardTierID != nil && *p.RewardTierID == tierID {
			p.RewardTierID = nil
		}
	}
	return nil
}

type fakeUploader struct {
	key         string
	contentType string
}

func (u *fakeUploader) UploadFile(_ context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, _ = io.ReadAll(body)
	u.key = key
	u.contentType = contentType
	return "https://images.example.com/" + key, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func moneyTier(id, min string, sortOrder int) *types.RewardTier {
	return &types.RewardTier{
		ID:                       id,
		FundraiserID:             testFundraiser,
		Name:                     id,
		RewardType:               types.RewardTypeMoney,
		MinimumContributionValue: decPtr(min),
		SortOrder:                sortOrder,
	}
}

func otherTier(id string, rewardType types.RewardType) *types.RewardTier {
	return &types.RewardTier{
		ID:           id,
		FundraiserID: testFundraiser,
		Name:         id,
		RewardType:   rewardType,
	}
}

func timeNeed(id string, tierID *string) *types.Need {
	return &types.Need{
		ID:           id,
		FundraiserID: testFundraiser,
		NeedType:     types.NeedTypeTime,
		Status:       types.NeedStatusOpen,
		Detail: &types.TimeNeed{
			NeedID:           id,
			StartAt:          time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC),
			EndAt:            time.Date(2026, 11, 1, 17, 0, 0, 0, time.UTC),
			VolunteersNeeded: 4,
			RoleTitle:        "Sound tech",
			RewardTierID:     tierID,
		},
	}
}

func itemNeed(id string, donationTier, loanTier *string) *types.Need {
	return &types.Need{
		ID:           id,
		FundraiserID: testFundraiser,
		NeedType:     types.NeedTypeItem,
		Status:       types.NeedStatusOpen,
		Detail: &types.ItemNeed{
			NeedID:               id,
			ItemName:             "Folding chairs",
			QuantityNeeded:       40,
			Mode:                 types.ItemModeEither,
			DonationRewardTierID: donationTier,
			LoanRewardTierID:     loanTier,
		},
	}
}

func moneyNeed(id string) *types.Need {
	return &types.Need{
		ID:           id,
		FundraiserID: testFundraiser,
		NeedType:     types.NeedTypeMoney,
		Status:       types.NeedStatusOpen,
		Detail:       &types.MoneyNeed{NeedID: id, TargetAmount: dec("1000")},
	}
}

func tierIDs(tiers []*types.RewardTier) []string {
	ids := make([]string, 0, len(tiers))
	for _, t := range tiers {
		ids = append(ids, t.ID)
	}
	return ids
}
