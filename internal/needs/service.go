package needs

import (
	"context"
	"errors"
	"fmt"

	"crowdfund/internal/rewards"
	"crowdfund/pkg/types"

	"github.com/sirupsen/logrus"
)

type Store interface {
	Fundraiser(ctx context.Context, fundraiserID string) (*types.Fundraiser, error)
	RewardTier(ctx context.Context, tierID string) (*types.RewardTier, error)
	// NeedDetail returns the need with its detail attached.
	NeedDetail(ctx context.Context, needID string) (*types.Need, error)
	CreateNeed(ctx context.Context, need *types.Need) error
	SaveNeedDetail(ctx context.Context, needID string, detail types.NeedDetail) error
	CountPledgesForNeed(ctx context.Context, needID string) (int, error)
	DeleteNeed(ctx context.Context, needID string) error
}

type TxRunner func(ctx context.Context, fn func(tx Store) error) error

// Service manages needs and their tier references for fundraiser owners.
// Changing a tier reference never touches existing pledges.
type Service struct {
	logger *logrus.Logger
	store  Store
	inTx   TxRunner
}

func New(logger *logrus.Logger, store Store, inTx TxRunner) *Service {
	return &Service{
		logger: logger,
		store:  store,
		inTx:   inTx,
	}
}

func (s *Service) Need(ctx context.Context, needID string) (*types.Need, error) {
	return s.store.NeedDetail(ctx, needID)
}

func (s *Service) CreateNeed(ctx context.Context, ownerID string, need *types.Need) (*types.Need, error) {
	if need.Title == "" {
		return nil, types.NewValidationError("title", "is required")
	}

	if !need.NeedType.Valid() {
		return nil, types.NewValidationError("needType", "must be one of money, time, item")
	}

	if need.Detail == nil {
		return nil, types.NewValidationError("detail", "is required")
	}

	if need.Detail.NeedType() != need.NeedType {
		return nil, types.NewValidationError("detail", "%s detail cannot describe a %s need", need.Detail.NeedType(), need.NeedType)
	}

	if err := validateDetail(need.Detail); err != nil {
		return nil, err
	}

	if need.Status == "" {
		need.Status = types.NeedStatusOpen
	}

	if need.Priority == "" {
		need.Priority = types.NeedPriorityMedium
	}

	err := s.inTx(ctx, func(tx Store) error {
		if err := requireOwner(ctx, tx, need.FundraiserID, ownerID); err != nil {
			return err
		}

		if err := validateTierRefs(ctx, tx, need.FundraiserID, need.Detail); err != nil {
			return err
		}

		return tx.CreateNeed(ctx, need)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"need_id":       need.ID,
		"fundraiser_id": need.FundraiserID,
		"need_type":     need.NeedType,
	}).Info("need created")

	return need, nil
}

// UpdateNeedDetail replaces a need's detail, including its reward tier
// references. Pledges already stamped keep their tier until they are
// updated themselves.
func (s *Service) UpdateNeedDetail(ctx context.Context, ownerID, needID string, detail types.NeedDetail) (*types.Need, error) {
	if detail == nil {
		return nil, types.NewValidationError("detail", "is required")
	}

	if err := validateDetail(detail); err != nil {
		return nil, err
	}

	var need *types.Need
	err := s.inTx(ctx, func(tx Store) error {
		var err error
		need, err = tx.NeedDetail(ctx, needID)
		if err != nil {
			return err
		}

		if err := requireOwner(ctx, tx, need.FundraiserID, ownerID); err != nil {
			return err
		}

		if detail.NeedType() != need.NeedType {
			return types.NewValidationError("detail", "%s detail cannot describe a %s need", detail.NeedType(), need.NeedType)
		}

		if err := validateTierRefs(ctx, tx, need.FundraiserID, detail); err != nil {
			return err
		}

		if err := tx.SaveNeedDetail(ctx, needID, detail); err != nil {
			return fmt.Errorf("failed to save need detail: %w", err)
		}

		need.Detail = detail
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("need_id", needID).Info("need detail updated")

	return need, nil
}

// DeleteNeed removes a need that has never been pledged against.
func (s *Service) DeleteNeed(ctx context.Context, ownerID, needID string) error {
	return s.inTx(ctx, func(tx Store) error {
		need, err := tx.NeedDetail(ctx, needID)
		if err != nil {
			return err
		}

		if err := requireOwner(ctx, tx, need.FundraiserID, ownerID); err != nil {
			return err
		}

		count, err := tx.CountPledgesForNeed(ctx, needID)
		if err != nil {
			return fmt.Errorf("failed to count pledges for need %s: %w", needID, err)
		}

		if count > 0 {
			return types.NewValidationError("needId", "need has %d pledges and cannot be deleted", count)
		}

		return tx.DeleteNeed(ctx, needID)
	})
}

func requireOwner(ctx context.Context, store Store, fundraiserID, ownerID string) error {
	fundraiser, err := store.Fundraiser(ctx, fundraiserID)
	if err != nil {
		return err
	}

	if fundraiser.OwnerID != ownerID {
		return types.ErrForbidden
	}

	return nil
}

func validateTierRefs(ctx context.Context, store Store, fundraiserID string, detail types.NeedDetail) error {
	type tierRef struct {
		field types.TierField
		id    *string
	}

	var refs []tierRef
	switch d := detail.(type) {
	case *types.TimeNeed:
		refs = append(refs, tierRef{types.TierFieldTime, d.RewardTierID})
	case *types.ItemNeed:
		refs = append(refs,
			tierRef{types.TierFieldDonation, d.DonationRewardTierID},
			tierRef{types.TierFieldLoan, d.LoanRewardTierID},
		)
	}

	for _, ref := range refs {
		field, id := ref.field, ref.id
		if id == nil {
			continue
		}

		tier, err := store.RewardTier(ctx, *id)
		if errors.Is(err, types.ErrRewardTierNotFound) {
			return types.NewValidationError(string(field), "reward tier %s does not exist", *id)
		}
		if err != nil {
			return err
		}

		if err := rewards.ValidateTierReference(field, tier, fundraiserID); err != nil {
			return err
		}
	}

	return nil
}

func validateDetail(detail types.NeedDetail) error {
	switch d := detail.(type) {
	case *types.MoneyNeed:
		if d.TargetAmount.IsNegative() {
			return types.NewValidationError("targetAmount", "must not be negative")
		}
		if err := types.CheckNumeric("targetAmount", d.TargetAmount, types.MoneyPrecision); err != nil {
			return err
		}

	case *types.TimeNeed:
		if d.StartAt.IsZero() || d.EndAt.IsZero() {
			return types.NewValidationError("startAt", "start and end are required")
		}
		if !d.EndAt.After(d.StartAt) {
			return types.NewValidationError("endAt", "must be after startAt")
		}
		if d.VolunteersNeeded <= 0 {
			return types.NewValidationError("volunteersNeeded", "must be greater than zero")
		}

	case *types.ItemNeed:
		if d.ItemName == "" {
			return types.NewValidationError("itemName", "is required")
		}
		if d.QuantityNeeded <= 0 {
			return types.NewValidationError("quantityNeeded", "must be greater than zero")
		}
		switch d.Mode {
		case types.ItemModeDonation, types.ItemModeLoan, types.ItemModeEither:
		default:
			return types.NewValidationError("mode", "must be donation, loan or either")
		}

	default:
		return types.NewValidationError("detail", "unsupported need detail %T", detail)
	}

	return nil
}
