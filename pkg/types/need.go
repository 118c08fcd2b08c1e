package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type NeedType string

const (
	NeedTypeMoney NeedType = "money"
	NeedTypeTime  NeedType = "time"
	NeedTypeItem  NeedType = "item"
)

func (t NeedType) Valid() bool {
	switch t {
	case NeedTypeMoney, NeedTypeTime, NeedTypeItem:
		return true
	}
	return false
}

type NeedStatus string

const (
	NeedStatusOpen      NeedStatus = "open"
	NeedStatusPartial   NeedStatus = "partial"
	NeedStatusFilled    NeedStatus = "filled"
	NeedStatusCancelled NeedStatus = "cancelled"
)

// AcceptsPledges reports whether supporters may still pledge against a need
// in this status.
func (s NeedStatus) AcceptsPledges() bool {
	return s == NeedStatusOpen || s == NeedStatusPartial
}

type NeedPriority string

const (
	NeedPriorityHigh   NeedPriority = "high"
	NeedPriorityMedium NeedPriority = "medium"
	NeedPriorityLow    NeedPriority = "low"
)

type Need struct {
	ID           string       `db:"id" json:"id"`
	FundraiserID string       `db:"fundraiser_id" json:"fundraiserId"`
	NeedType     NeedType     `db:"need_type" json:"needType"`
	Title        string       `db:"title" json:"title"`
	Description  string       `db:"description" json:"description"`
	Status       NeedStatus   `db:"status" json:"status"`
	Priority     NeedPriority `db:"priority" json:"priority"`
	SortOrder    int          `db:"sort_order" json:"sortOrder"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`

	Detail NeedDetail `db:"-" json:"detail,omitempty"`
}

// NeedDetail is one of *MoneyNeed, *TimeNeed or *ItemNeed. The set is closed;
// consumers switch on the concrete type.
type NeedDetail interface {
	NeedType() NeedType
	needDetail()
}

type MoneyNeed struct {
	NeedID       string          `db:"need_id" json:"-"`
	TargetAmount decimal.Decimal `db:"target_amount" json:"targetAmount"`
	Comment      string          `db:"comment" json:"comment"`
}

func (*MoneyNeed) NeedType() NeedType { return NeedTypeMoney }
func (*MoneyNeed) needDetail()        {}

type TimeNeed struct {
	NeedID           string    `db:"need_id" json:"-"`
	StartAt          time.Time `db:"start_at" json:"startAt"`
	EndAt            time.Time `db:"end_at" json:"endAt"`
	VolunteersNeeded int       `db:"volunteers_needed" json:"volunteersNeeded"`
	RoleTitle        string    `db:"role_title" json:"roleTitle"`
	Location         string    `db:"location" json:"location"`
	RewardTierID     *string   `db:"reward_tier_id" json:"rewardTierId"`
}

func (*TimeNeed) NeedType() NeedType { return NeedTypeTime }
func (*TimeNeed) needDetail()        {}

type ItemMode string

const (
	ItemModeDonation ItemMode = "donation"
	ItemModeLoan     ItemMode = "loan"
	ItemModeEither   ItemMode = "either"
)

type ItemNeed struct {
	NeedID               string   `db:"need_id" json:"-"`
	ItemName             string   `db:"item_name" json:"itemName"`
	QuantityNeeded       int      `db:"quantity_needed" json:"quantityNeeded"`
	Mode                 ItemMode `db:"mode" json:"mode"`
	Notes                string   `db:"notes" json:"notes"`
	DonationRewardTierID *string  `db:"donation_reward_tier_id" json:"donationRewardTierId"`
	LoanRewardTierID     *string  `db:"loan_reward_tier_id" json:"loanRewardTierId"`
}

func (*ItemNeed) NeedType() NeedType { return NeedTypeItem }
func (*ItemNeed) needDetail()        {}
