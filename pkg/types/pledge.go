package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type PledgeStatus string

const (
	PledgeStatusPending   PledgeStatus = "pending"
	PledgeStatusApproved  PledgeStatus = "approved"
	PledgeStatusDeclined  PledgeStatus = "declined"
	PledgeStatusCancelled PledgeStatus = "cancelled"
)

func (s PledgeStatus) Valid() bool {
	switch s {
	case PledgeStatusPending, PledgeStatusApproved, PledgeStatusDeclined, PledgeStatusCancelled:
		return true
	}
	return false
}

type Pledge struct {
	ID           string       `db:"id" json:"id"`
	SupporterID  string       `db:"supporter_id" json:"supporterId"`
	FundraiserID string       `db:"fundraiser_id" json:"fundraiserId"`
	NeedID       string       `db:"need_id" json:"needId"`
	Anonymous    bool         `db:"anonymous" json:"anonymous"`
	Comment      string       `db:"comment" json:"comment"`
	Status       PledgeStatus `db:"status" json:"status"`
	RewardTierID *string      `db:"reward_tier_id" json:"rewardTierId"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`

	// NeedType is the type of the pledged need, loaded alongside the pledge
	// when reading pledge sets for aggregation.
	NeedType NeedType     `db:"-" json:"-"`
	Detail   PledgeDetail `db:"-" json:"detail,omitempty"`
}

// PledgeDetail is one of *MoneyPledge, *TimePledge or *ItemPledge.
type PledgeDetail interface {
	NeedType() NeedType
	pledgeDetail()
}

type MoneyPledge struct {
	PledgeID string          `db:"pledge_id" json:"-"`
	Amount   decimal.Decimal `db:"amount" json:"amount"`
	Comment  string          `db:"comment" json:"comment"`
}

func (*MoneyPledge) NeedType() NeedType { return NeedTypeMoney }
func (*MoneyPledge) pledgeDetail()      {}

type TimePledge struct {
	PledgeID       string          `db:"pledge_id" json:"-"`
	StartAt        time.Time       `db:"start_at" json:"startAt"`
	EndAt          time.Time       `db:"end_at" json:"endAt"`
	HoursCommitted decimal.Decimal `db:"hours_committed" json:"hoursCommitted"`
	Comment        string          `db:"comment" json:"comment"`
}

func (*TimePledge) NeedType() NeedType { return NeedTypeTime }
func (*TimePledge) pledgeDetail()      {}

type ItemPledge struct {
	PledgeID string   `db:"pledge_id" json:"-"`
	Quantity int      `db:"quantity" json:"quantity"`
	Mode     ItemMode `db:"mode" json:"mode"`
	Comment  string   `db:"comment" json:"comment"`
}

func (*ItemPledge) NeedType() NeedType { return NeedTypeItem }
func (*ItemPledge) pledgeDetail()      {}
