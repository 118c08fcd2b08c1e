package pledges

import (
	"context"
	"fmt"

	"crowdfund/internal/rewards"
	"crowdfund/pkg/types"

	"github.com/sirupsen/logrus"
)

type Store interface {
	rewards.Ledger

	Fundraiser(ctx context.Context, fundraiserID string) (*types.Fundraiser, error)
	// Pledge returns the pledge with NeedType and Detail populated. Inside a
	// transaction the row stays locked until commit.
	Pledge(ctx context.Context, pledgeID string) (*types.Pledge, error)
	CreatePledge(ctx context.Context, pledge *types.Pledge) error
	SavePledgeDetail(ctx context.Context, pledgeID string, detail types.PledgeDetail) error
	UpdatePledgeStatus(ctx context.Context, pledgeID string, status types.PledgeStatus) error
	DeletePledge(ctx context.Context, pledgeID string) error
}

// TxRunner runs fn against a Store bound to a single transaction, committing
// when fn returns nil.
type TxRunner func(ctx context.Context, fn func(tx Store) error) error

type Service struct {
	logger *logrus.Logger
	engine *rewards.Engine
	store  Store
	inTx   TxRunner
}

func New(logger *logrus.Logger, engine *rewards.Engine, store Store, inTx TxRunner) *Service {
	return &Service{
		logger: logger,
		engine: engine,
		store:  store,
		inTx:   inTx,
	}
}

func (s *Service) Pledge(ctx context.Context, pledgeID string) (*types.Pledge, error) {
	return s.store.Pledge(ctx, pledgeID)
}

// CreatePledge records a pending pledge by supporterID together with its
// detail, stamping time and item pledges in the same transaction.
func (s *Service) CreatePledge(ctx context.Context, supporterID string, pledge *types.Pledge) (*types.Pledge, error) {
	if err := validateDetail(pledge.Detail); err != nil {
		return nil, err
	}

	err := s.inTx(ctx, func(tx Store) error {
		need, err := tx.NeedDetail(ctx, pledge.NeedID)
		if err != nil {
			return err
		}

		if pledge.FundraiserID == "" {
			pledge.FundraiserID = need.FundraiserID
		}

		if need.FundraiserID != pledge.FundraiserID {
			return types.NewValidationError("needId", "need %s does not belong to fundraiser %s", need.ID, pledge.FundraiserID)
		}

		if !need.Status.AcceptsPledges() {
			return types.NewValidationError("needId", "need %s is %s", need.ID, need.Status)
		}

		if pledge.Detail.NeedType() != need.NeedType {
			return types.NewValidationError("detail", "%s pledge cannot be made against a %s need", pledge.Detail.NeedType(), need.NeedType)
		}

		fundraiser, err := tx.Fundraiser(ctx, pledge.FundraiserID)
		if err != nil {
			return err
		}

		if !fundraiser.IsOpen() {
			return types.NewValidationError("fundraiserId", "fundraiser %s is not accepting pledges", fundraiser.ID)
		}

		pledge.SupporterID = supporterID
		pledge.Status = types.PledgeStatusPending
		pledge.RewardTierID = nil
		pledge.NeedType = need.NeedType

		if err := tx.CreatePledge(ctx, pledge); err != nil {
			return fmt.Errorf("failed to create pledge: %w", err)
		}

		if err := tx.SavePledgeDetail(ctx, pledge.ID, pledge.Detail); err != nil {
			return fmt.Errorf("failed to save pledge detail: %w", err)
		}

		_, err = s.engine.Stamp(ctx, tx, pledge, pledge.Detail)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"pledge_id":     pledge.ID,
		"fundraiser_id": pledge.FundraiserID,
		"need_id":       pledge.NeedID,
		"need_type":     pledge.NeedType,
	}).Info("pledge created")

	return pledge, nil
}

// UpdatePledgeDetail replaces a pledge's detail. Time and item pledges are
// re-stamped from the need's current tier references; this is the only way an
// existing stamp changes.
func (s *Service) UpdatePledgeDetail(ctx context.Context, supporterID, pledgeID string, detail types.PledgeDetail) (*types.Pledge, error) {
	if err := validateDetail(detail); err != nil {
		return nil, err
	}

	var pledge *types.Pledge
	err := s.inTx(ctx, func(tx Store) error {
		var err error
		pledge, err = tx.Pledge(ctx, pledgeID)
		if err != nil {
			return err
		}

		if pledge.SupporterID != supporterID {
			return types.ErrForbidden
		}

		if pledge.Status == types.PledgeStatusCancelled || pledge.Status == types.PledgeStatusDeclined {
			return types.NewValidationError("status", "%s pledges cannot be changed", pledge.Status)
		}

		if pledge.NeedType != "" && detail.NeedType() != pledge.NeedType {
			return types.NewValidationError("detail", "%s detail cannot replace a %s pledge", detail.NeedType(), pledge.NeedType)
		}

		if err := tx.SavePledgeDetail(ctx, pledge.ID, detail); err != nil {
			return fmt.Errorf("failed to save pledge detail: %w", err)
		}
		pledge.Detail = detail

		_, err = s.engine.Stamp(ctx, tx, pledge, detail)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("pledge_id", pledgeID).Info("pledge detail updated")

	return pledge, nil
}

// TransitionPledge moves a pledge to target on behalf of actorID, who must be
// the supporter or the fundraiser owner. An owner pledging to their own
// fundraiser acts as owner.
func (s *Service) TransitionPledge(ctx context.Context, actorID, pledgeID string, target types.PledgeStatus) (*types.Pledge, error) {
	var pledge *types.Pledge
	err := s.inTx(ctx, func(tx Store) error {
		var err error
		pledge, err = tx.Pledge(ctx, pledgeID)
		if err != nil {
			return err
		}

		fundraiser, err := tx.Fundraiser(ctx, pledge.FundraiserID)
		if err != nil {
			return err
		}

		var role ActorRole
		switch actorID {
		case fundraiser.OwnerID:
			role = ActorOwner
		case pledge.SupporterID:
			role = ActorSupporter
		default:
			return types.ErrForbidden
		}

		if err := EnsureAllowedTransition(pledge.Status, target, role); err != nil {
			return err
		}

		if err := tx.UpdatePledgeStatus(ctx, pledge.ID, target); err != nil {
			return fmt.Errorf("failed to update pledge status: %w", err)
		}

		pledge.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"pledge_id": pledgeID,
		"status":    target,
	}).Info("pledge status changed")

	return pledge, nil
}

// DeletePledge removes a pending pledge and its detail.
func (s *Service) DeletePledge(ctx context.Context, supporterID, pledgeID string) error {
	return s.inTx(ctx, func(tx Store) error {
		pledge, err := tx.Pledge(ctx, pledgeID)
		if err != nil {
			return err
		}

		if pledge.SupporterID != supporterID {
			return types.ErrForbidden
		}

		if pledge.Status != types.PledgeStatusPending {
			return types.NewValidationError("status", "only pending pledges can be deleted, cancel it instead")
		}

		return tx.DeletePledge(ctx, pledgeID)
	})
}

func validateDetail(detail types.PledgeDetail) error {
	switch d := detail.(type) {
	case nil:
		return types.NewValidationError("detail", "is required")

	case *types.MoneyPledge:
		if !d.Amount.IsPositive() {
			return types.NewValidationError("amount", "must be greater than zero")
		}
		if err := types.CheckNumeric("amount", d.Amount, types.MoneyPrecision); err != nil {
			return err
		}

	case *types.TimePledge:
		if !d.HoursCommitted.IsPositive() {
			return types.NewValidationError("hoursCommitted", "must be greater than zero")
		}
		if err := types.CheckNumeric("hoursCommitted", d.HoursCommitted, types.HoursPrecision); err != nil {
			return err
		}
		if d.StartAt.IsZero() || d.EndAt.IsZero() {
			return types.NewValidationError("startAt", "start and end are required")
		}
		if !d.EndAt.After(d.StartAt) {
			return types.NewValidationError("endAt", "must be after startAt")
		}

	case *types.ItemPledge:
		if d.Quantity <= 0 {
			return types.NewValidationError("quantity", "must be greater than zero")
		}
		if d.Mode != types.ItemModeDonation && d.Mode != types.ItemModeLoan {
			return types.NewValidationError("mode", "must be donation or loan")
		}

	default:
		return types.NewValidationError("detail", "unsupported pledge detail %T", detail)
	}

	return nil
}
