package server

import (
	"encoding/json"
	"net/http"

	"crowdfund/pkg/types"
)

// pledgeRequest carries the pledge kind explicitly so the detail can be
// decoded before the need is loaded. A kind that does not match the need is
// rejected by the pledge service.
type pledgeRequest struct {
	FundraiserID string          `json:"fundraiserId"`
	NeedID       string          `json:"needId"`
	NeedType     types.NeedType  `json:"needType"`
	Anonymous    bool            `json:"anonymous"`
	Comment      string          `json:"comment"`
	Detail       json.RawMessage `json:"detail"`
}

type pledgeDetailRequest struct {
	Detail json.RawMessage `json:"detail"`
}

type pledgeStatusRequest struct {
	Status types.PledgeStatus `json:"status"`
}

func (s *Service) handleCreatePledge(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req pledgeRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.NeedID == "" {
		s.writeError(w, r, types.NewValidationError("needId", "is required"))
		return
	}

	detail, err := decodePledgeDetail(req.NeedType, req.Detail)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pledge, err := s.pledges.CreatePledge(r.Context(), userID, &types.Pledge{
		FundraiserID: req.FundraiserID,
		NeedID:       req.NeedID,
		Anonymous:    req.Anonymous,
		Comment:      req.Comment,
		Detail:       detail,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, pledge)
}

func (s *Service) handleGetPledge(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pledge, err := s.pledges.Pledge(r.Context(), r.PathValue("pledgeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if pledge.SupporterID != userID {
		s.writeError(w, r, types.ErrForbidden)
		return
	}

	s.writeJSON(w, http.StatusOK, pledge)
}

// handleUpdatePledgeDetail replaces the detail, decoding it by the pledge's
// need type. Time and item pledges are re-stamped.
func (s *Service) handleUpdatePledgeDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pledgeID := r.PathValue("pledgeID")

	var req pledgeDetailRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	current, err := s.pledges.Pledge(r.Context(), pledgeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if current.SupporterID != userID {
		s.writeError(w, r, types.ErrForbidden)
		return
	}

	detail, err := decodePledgeDetail(current.NeedType, req.Detail)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pledge, err := s.pledges.UpdatePledgeDetail(r.Context(), userID, pledgeID, detail)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pledge)
}

func (s *Service) handleTransitionPledge(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req pledgeStatusRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	pledge, err := s.pledges.TransitionPledge(r.Context(), userID, r.PathValue("pledgeID"), req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pledge)
}

func (s *Service) handleDeletePledge(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.pledges.DeletePledge(r.Context(), userID, r.PathValue("pledgeID")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleGetRewardsSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary, err := s.rewards.RewardsSummary(r.Context(), userID, r.PathValue("fundraiserID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}
