package pledges

import (
	"crowdfund/pkg/types"
)

// ActorRole is how the acting user relates to a pledge.
type ActorRole string

const (
	ActorSupporter ActorRole = "supporter"
	ActorOwner     ActorRole = "owner"
)

// EnsureAllowedTransition enforces pledge status rules:
//   - a supporter may only cancel, and only while pending
//   - an owner may approve or decline a pending pledge
//   - an owner may cancel a pending or approved pledge
func EnsureAllowedTransition(current, target types.PledgeStatus, role ActorRole) error {
	if !target.Valid() {
		return types.NewValidationError("status", "unknown status %q", target)
	}

	switch role {
	case ActorSupporter:
		if target != types.PledgeStatusCancelled {
			return types.NewValidationError("status", "supporters cannot approve or decline pledges")
		}
		if current != types.PledgeStatusPending {
			return types.NewValidationError("status", "supporters can only cancel pending pledges")
		}
		return nil

	case ActorOwner:
		switch target {
		case types.PledgeStatusApproved, types.PledgeStatusDeclined:
			if current != types.PledgeStatusPending {
				return types.NewValidationError("status", "only pending pledges can be %s", target)
			}
			return nil
		case types.PledgeStatusCancelled:
			if current != types.PledgeStatusPending && current != types.PledgeStatusApproved {
				return types.NewValidationError("status", "only pending or approved pledges can be cancelled")
			}
			return nil
		}
		return types.NewValidationError("status", "cannot move a pledge to %s", target)
	}

	return types.NewValidationError("role", "invalid actor role %q", role)
}
