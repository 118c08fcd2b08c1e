package rewards

import (
	"context"
	"fmt"
	"io"

	"crowdfund/internal/utils"
	"crowdfund/pkg/types"

	"github.com/sirupsen/logrus"
)

type TierStore interface {
	Fundraiser(ctx context.Context, fundraiserID string) (*types.Fundraiser, error)
	RewardTier(ctx context.Context, tierID string) (*types.RewardTier, error)
	RewardTiers(ctx context.Context, fundraiserID string) ([]*types.RewardTier, error)
	CreateRewardTier(ctx context.Context, tier *types.RewardTier) error
	UpdateRewardTier(ctx context.Context, tier *types.RewardTier) error
	// DeleteRewardTier removes the tier and nulls every need reference and
	// pledge stamp pointing at it in one transaction.
	DeleteRewardTier(ctx context.Context, tierID string) error
}

type ImageUploader interface {
	UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

var tierImageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

// TierService manages a fundraiser's reward tiers on behalf of its owner.
type TierService struct {
	logger *logrus.Logger
	store  TierStore
	images ImageUploader
}

func NewTierService(logger *logrus.Logger, store TierStore, images ImageUploader) *TierService {
	return &TierService{logger: logger, store: store, images: images}
}

// Tiers lists a fundraiser's tiers, optionally restricted to one type.
func (s *TierService) Tiers(ctx context.Context, fundraiserID string, rewardType types.RewardType) ([]*types.RewardTier, error) {
	if _, err := s.store.Fundraiser(ctx, fundraiserID); err != nil {
		return nil, err
	}

	tiers, err := s.store.RewardTiers(ctx, fundraiserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reward tiers: %w", err)
	}

	if rewardType == "" {
		return tiers, nil
	}

	if !rewardType.Valid() {
		return nil, types.NewValidationError("type", "must be one of money, time, item")
	}

	out := NewRegistry(tiers).ByType(rewardType)
	if out == nil {
		out = make([]*types.RewardTier, 0)
	}

	return out, nil
}

func (s *TierService) CreateTier(ctx context.Context, actorID string, tier *types.RewardTier) (*types.RewardTier, error) {
	if err := ValidateTier(tier); err != nil {
		return nil, err
	}

	if err := s.requireOwner(ctx, tier.FundraiserID, actorID); err != nil {
		return nil, err
	}

	if err := s.store.CreateRewardTier(ctx, tier); err != nil {
		return nil, fmt.Errorf("failed to create reward tier: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"reward_tier_id": tier.ID,
		"fundraiser_id":  tier.FundraiserID,
		"reward_type":    tier.RewardType,
	}).Info("reward tier created")

	return tier, nil
}

// UpdateTier replaces the editable fields of a tier. The fundraiser and the
// reward type are fixed at creation because needs and pledges reference the
// tier by type.
func (s *TierService) UpdateTier(ctx context.Context, actorID, tierID string, update *types.RewardTier) (*types.RewardTier, error) {
	current, err := s.store.RewardTier(ctx, tierID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwner(ctx, current.FundraiserID, actorID); err != nil {
		return nil, err
	}

	if update.RewardType != "" && update.RewardType != current.RewardType {
		return nil, types.NewValidationError("rewardType", "cannot change from %s to %s", current.RewardType, update.RewardType)
	}

	if update.FundraiserID != "" && update.FundraiserID != current.FundraiserID {
		return nil, types.NewValidationError("fundraiserId", "cannot move a reward tier to another fundraiser")
	}

	next := *current
	next.Name = update.Name
	next.Description = update.Description
	next.MinimumContributionValue = update.MinimumContributionValue
	next.SortOrder = update.SortOrder
	next.MaxBackers = update.MaxBackers

	if err := ValidateTier(&next); err != nil {
		return nil, err
	}

	if err := s.store.UpdateRewardTier(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to update reward tier %s: %w", tierID, err)
	}

	return &next, nil
}

// DeleteTier removes a tier. Needs that referenced it lose the reference and
// pledges stamped with it lose the stamp.
func (s *TierService) DeleteTier(ctx context.Context, actorID, tierID string) error {
	tier, err := s.store.RewardTier(ctx, tierID)
	if err != nil {
		return err
	}

	if err := s.requireOwner(ctx, tier.FundraiserID, actorID); err != nil {
		return err
	}

	if err := s.store.DeleteRewardTier(ctx, tierID); err != nil {
		return fmt.Errorf("failed to delete reward tier %s: %w", tierID, err)
	}

	s.logger.WithField("reward_tier_id", tierID).Info("reward tier deleted")

	return nil
}

// SetTierImage uploads an image for the tier and records its URL.
func (s *TierService) SetTierImage(ctx context.Context, actorID, tierID string, body io.Reader, contentType string) (*types.RewardTier, error) {
	if s.images == nil {
		return nil, types.ErrImageStorageUnavailable
	}

	ext, ok := tierImageExtensions[contentType]
	if !ok {
		return nil, types.NewValidationError("contentType", "unsupported image type %q", contentType)
	}

	tier, err := s.store.RewardTier(ctx, tierID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwner(ctx, tier.FundraiserID, actorID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reward-tiers/%s/%s.%s", tier.ID, utils.NewIDOfSize(12), ext)
	url, err := s.images.UploadFile(ctx, key, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image for reward tier %s: %w", tierID, err)
	}

	tier.ImageURL = utils.StringPtr(url)
	if err := s.store.UpdateRewardTier(ctx, tier); err != nil {
		return nil, fmt.Errorf("failed to save image for reward tier %s: %w", tierID, err)
	}

	return tier, nil
}

func (s *TierService) requireOwner(ctx context.Context, fundraiserID, actorID string) error {
	fundraiser, err := s.store.Fundraiser(ctx, fundraiserID)
	if err != nil {
		return err
	}

	if fundraiser.OwnerID != actorID {
		return types.ErrForbidden
	}

	return nil
}
