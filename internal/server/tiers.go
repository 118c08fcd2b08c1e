package server

import (
	"net/http"

	"crowdfund/pkg/types"

	"github.com/shopspring/decimal"
)

type tierFilter struct {
	Type types.RewardType `form:"type"`
}

type tierRequest struct {
	Name                     string           `json:"name"`
	Description              string           `json:"description"`
	RewardType               types.RewardType `json:"rewardType"`
	MinimumContributionValue *decimal.Decimal `json:"minimumContributionValue"`
	SortOrder                int              `json:"sortOrder"`
	MaxBackers               *int             `json:"maxBackers"`
}

func (t *tierRequest) toTier(fundraiserID string) *types.RewardTier {
	return &types.RewardTier{
		FundraiserID:             fundraiserID,
		Name:                     t.Name,
		Description:              t.Description,
		RewardType:               t.RewardType,
		MinimumContributionValue: t.MinimumContributionValue,
		SortOrder:                t.SortOrder,
		MaxBackers:               t.MaxBackers,
	}
}

func (s *Service) handleListRewardTiers(w http.ResponseWriter, r *http.Request) {
	var filter = new(tierFilter)
	if err := decoder.Decode(filter, r.URL.Query()); err != nil {
		s.writeError(w, r, types.NewValidationError("type", "invalid filter: %s", err))
		return
	}

	tiers, err := s.tiers.Tiers(r.Context(), r.PathValue("fundraiserID"), filter.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tiers)
}

func (s *Service) handleCreateRewardTier(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req tierRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tier, err := s.tiers.CreateTier(r.Context(), userID, req.toTier(r.PathValue("fundraiserID")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, tier)
}

func (s *Service) handleUpdateRewardTier(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req tierRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tier, err := s.tiers.UpdateTier(r.Context(), userID, r.PathValue("tierID"), req.toTier(""))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tier)
}

func (s *Service) handleDeleteRewardTier(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.tiers.DeleteTier(r.Context(), userID, r.PathValue("tierID")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handlePutRewardTierImage takes the raw image as the request body.
func (s *Service) handlePutRewardTierImage(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if r.ContentLength > s.config.MaxImageBytes {
		s.writeMessage(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.config.MaxImageBytes)

	tier, err := s.tiers.SetTierImage(r.Context(), userID, r.PathValue("tierID"), body, r.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tier)
}
