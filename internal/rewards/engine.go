package rewards

import (
	"context"
	"fmt"

	"crowdfund/pkg/types"

	"github.com/sirupsen/logrus"
)

// Ledger is the storage the engine reads from and stamps into. Stamp expects
// a Ledger bound to the caller's transaction.
type Ledger interface {
	// NeedDetail returns the need with its detail attached. Detail is nil
	// when the detail row is missing.
	NeedDetail(ctx context.Context, needID string) (*types.Need, error)
	// PledgeDetailsFor returns every pledge by supporterID on fundraiserID
	// with NeedType and Detail populated.
	PledgeDetailsFor(ctx context.Context, supporterID, fundraiserID string) ([]*types.Pledge, error)
	WriteStampedTier(ctx context.Context, pledgeID string, tierID *string) error
	RewardTiers(ctx context.Context, fundraiserID string) ([]*types.RewardTier, error)
}

// LedgerTxRunner runs fn against a Ledger bound to one read snapshot.
type LedgerTxRunner func(ctx context.Context, fn func(tx Ledger) error) error

type Engine struct {
	logger *logrus.Logger
	ledger Ledger
	inTx   LedgerTxRunner
}

// NewEngine returns an engine reading from ledger. A nil inTx reads from
// ledger directly, with no snapshot across statements.
func NewEngine(logger *logrus.Logger, ledger Ledger, inTx LedgerTxRunner) *Engine {
	if inTx == nil {
		inTx = func(ctx context.Context, fn func(tx Ledger) error) error {
			return fn(ledger)
		}
	}

	return &Engine{logger: logger, ledger: ledger, inTx: inTx}
}

// RewardsSummary composes live money totals and earned money tiers with the
// tiers stamped on the supporter's time and item pledges.
func (e *Engine) RewardsSummary(ctx context.Context, supporterID, fundraiserID string) (*types.RewardsSummary, error) {
	var (
		pledges []*types.Pledge
		tiers   []*types.RewardTier
	)

	// pledges, their details and the tiers must come from one snapshot or a
	// concurrent tier delete shows up as a dangling stamp
	err := e.inTx(ctx, func(tx Ledger) error {
		var err error
		pledges, err = tx.PledgeDetailsFor(ctx, supporterID, fundraiserID)
		if err != nil {
			return fmt.Errorf("failed to load pledges for supporter %s: %w", supporterID, err)
		}

		tiers, err = tx.RewardTiers(ctx, fundraiserID)
		if err != nil {
			return fmt.Errorf("failed to load reward tiers for fundraiser %s: %w", fundraiserID, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	summary, err := Summarize(pledges, NewRegistry(tiers))
	if err != nil {
		return nil, err
	}

	summary.SupporterID = supporterID
	summary.FundraiserID = fundraiserID

	e.logger.WithFields(logrus.Fields{
		"supporter_id":  supporterID,
		"fundraiser_id": fundraiserID,
		"pledges":       len(pledges),
		"money_tiers":   len(summary.EarnedMoneyRewardTiers),
		"other_tiers":   len(summary.EarnedOtherRewardTiers),
	}).Debug("computed rewards summary")

	return summary, nil
}
