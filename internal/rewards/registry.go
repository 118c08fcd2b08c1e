package rewards

import (
	"sort"

	"crowdfund/pkg/types"
)

// ValidateTier checks a tier before it is created or updated. Money tiers
// need a positive threshold; time and item tiers have theirs cleared since
// they qualify by direct reference from a need.
func ValidateTier(tier *types.RewardTier) error {
	if tier.FundraiserID == "" {
		return types.NewValidationError("fundraiserId", "is required")
	}

	if tier.Name == "" {
		return types.NewValidationError("name", "is required")
	}

	if !tier.RewardType.Valid() {
		return types.NewValidationError("rewardType", "must be one of money, time, item")
	}

	if tier.MaxBackers != nil && *tier.MaxBackers < 0 {
		return types.NewValidationError("maxBackers", "must not be negative")
	}

	if tier.RewardType != types.RewardTypeMoney {
		tier.MinimumContributionValue = nil
		return nil
	}

	if tier.MinimumContributionValue == nil {
		return types.NewValidationError("minimumContributionValue", "is required for money tiers")
	}

	if !tier.MinimumContributionValue.IsPositive() {
		return types.NewValidationError("minimumContributionValue", "must be greater than zero")
	}

	return types.CheckNumeric("minimumContributionValue", *tier.MinimumContributionValue, types.MoneyPrecision)
}

// ValidateTierReference checks that tier may populate field on a need that
// belongs to fundraiserID.
func ValidateTierReference(field types.TierField, tier *types.RewardTier, fundraiserID string) error {
	expected := field.RewardType()
	if expected == "" {
		return types.NewValidationError(string(field), "is not a reward tier field")
	}

	if tier.FundraiserID != fundraiserID {
		return types.NewValidationError(string(field), "reward tier %s belongs to another fundraiser", tier.ID)
	}

	if tier.RewardType != expected {
		return types.NewValidationError(string(field), "reward tier %s is a %s tier, expected %s", tier.ID, tier.RewardType, expected)
	}

	return nil
}

// Registry is a read-only view of one fundraiser's reward tiers.
type Registry struct {
	byID   map[string]*types.RewardTier
	byType map[types.RewardType][]*types.RewardTier
}

func NewRegistry(tiers []*types.RewardTier) *Registry {
	r := &Registry{
		byID:   make(map[string]*types.RewardTier, len(tiers)),
		byType: make(map[types.RewardType][]*types.RewardTier),
	}

	for _, tier := range tiers {
		r.byID[tier.ID] = tier
		r.byType[tier.RewardType] = append(r.byType[tier.RewardType], tier)
	}

	for _, group := range r.byType {
		sortTiers(group)
	}

	return r
}

func (r *Registry) Lookup(id string) (*types.RewardTier, bool) {
	tier, ok := r.byID[id]
	return tier, ok
}

// ByType returns the tiers of one type in display order.
func (r *Registry) ByType(t types.RewardType) []*types.RewardTier {
	return r.byType[t]
}

// MoneyTiers returns money tiers ordered by ascending threshold, then
// sort_order, then id.
func (r *Registry) MoneyTiers() []*types.RewardTier {
	return r.byType[types.RewardTypeMoney]
}

func (r *Registry) Len() int {
	return len(r.byID)
}

func sortTiers(tiers []*types.RewardTier) {
	sort.SliceStable(tiers, func(i, j int) bool {
		a, b := tiers[i], tiers[j]

		if c := compareThreshold(a, b); c != 0 {
			return c < 0
		}

		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}

		return a.ID < b.ID
	})
}

// compareThreshold orders tiers without a threshold after those with one.
func compareThreshold(a, b *types.RewardTier) int {
	switch {
	case a.MinimumContributionValue == nil && b.MinimumContributionValue == nil:
		return 0
	case a.MinimumContributionValue == nil:
		return 1
	case b.MinimumContributionValue == nil:
		return -1
	}
	return a.MinimumContributionValue.Cmp(*b.MinimumContributionValue)
}
