package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type FundraiserStatus string

const (
	FundraiserStatusDraft     FundraiserStatus = "draft"
	FundraiserStatusActive    FundraiserStatus = "active"
	FundraiserStatusClosed    FundraiserStatus = "closed"
	FundraiserStatusCancelled FundraiserStatus = "cancelled"
)

type Fundraiser struct {
	ID            string           `db:"id" json:"id"`
	OwnerID       string           `db:"owner_id" json:"ownerId"`
	Title         string           `db:"title" json:"title"`
	Description   string           `db:"description" json:"description"`
	Goal          decimal.Decimal  `db:"goal" json:"goal"`
	ImageURL      *string          `db:"image_url" json:"imageUrl,omitempty"`
	Location      *string          `db:"location" json:"location,omitempty"`
	StartDate     *time.Time       `db:"start_date" json:"startDate,omitempty"`
	EndDate       *time.Time       `db:"end_date" json:"endDate,omitempty"`
	Status        FundraiserStatus `db:"status" json:"status"`
	// EnableRewards is a display flag for clients. Tiers are stamped and
	// summarized whatever its value.
	EnableRewards bool             `db:"enable_rewards" json:"enableRewards"`
	SortOrder     int              `db:"sort_order" json:"sortOrder"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updatedAt"`
}

// IsOpen reports whether the fundraiser accepts new pledges.
func (f *Fundraiser) IsOpen() bool {
	return f.Status == FundraiserStatusActive
}
