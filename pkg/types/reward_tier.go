package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type RewardType string

const (
	RewardTypeMoney RewardType = "money"
	RewardTypeTime  RewardType = "time"
	RewardTypeItem  RewardType = "item"
)

func (t RewardType) Valid() bool {
	switch t {
	case RewardTypeMoney, RewardTypeTime, RewardTypeItem:
		return true
	}
	return false
}

type RewardTier struct {
	ID                       string           `db:"id" json:"id"`
	FundraiserID             string           `db:"fundraiser_id" json:"fundraiserId"`
	Name                     string           `db:"name" json:"name"`
	Description              string           `db:"description" json:"description"`
	RewardType               RewardType       `db:"reward_type" json:"rewardType"`
	MinimumContributionValue *decimal.Decimal `db:"minimum_contribution_value" json:"minimumContributionValue,omitempty"`
	ImageURL                 *string          `db:"image_url" json:"imageUrl,omitempty"`
	SortOrder                int              `db:"sort_order" json:"sortOrder"`
	MaxBackers               *int             `db:"max_backers" json:"maxBackers,omitempty"`
	CreatedAt                time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt                time.Time        `db:"updated_at" json:"updatedAt"`
}

// TierField names a need-detail column that may reference a reward tier.
type TierField string

const (
	TierFieldTime     TierField = "time_reward_tier"
	TierFieldDonation TierField = "donation_reward_tier"
	TierFieldLoan     TierField = "loan_reward_tier"
)

// RewardType returns the only tier type the field may reference.
func (f TierField) RewardType() RewardType {
	switch f {
	case TierFieldTime:
		return RewardTypeTime
	case TierFieldDonation, TierFieldLoan:
		return RewardTypeItem
	}
	return ""
}

// RewardsSummary is a supporter's standing on one fundraiser.
type RewardsSummary struct {
	SupporterID              string          `json:"supporterId"`
	FundraiserID             string          `json:"fundraiserId"`
	TotalMoneyPledged        decimal.Decimal `json:"totalMoneyPledged"`
	TotalTimeHoursPledged    decimal.Decimal `json:"totalTimeHoursPledged"`
	TotalItemQuantityPledged int             `json:"totalItemQuantityPledged"`
	EarnedMoneyRewardTiers   []*RewardTier   `json:"earnedMoneyRewardTiers"`
	EarnedOtherRewardTiers   []*RewardTier   `json:"earnedOtherRewardTiers"`
}
