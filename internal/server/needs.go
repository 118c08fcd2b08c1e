package server

import (
	"encoding/json"
	"net/http"

	"crowdfund/pkg/types"
)

type needRequest struct {
	NeedType    types.NeedType     `json:"needType"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    types.NeedPriority `json:"priority"`
	SortOrder   int                `json:"sortOrder"`
	Detail      json.RawMessage    `json:"detail"`
}

type needDetailRequest struct {
	Detail json.RawMessage `json:"detail"`
}

func (s *Service) handleGetNeed(w http.ResponseWriter, r *http.Request) {
	need, err := s.needs.Need(r.Context(), r.PathValue("needID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, need)
}

func (s *Service) handleCreateNeed(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req needRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	detail, err := decodeNeedDetail(req.NeedType, req.Detail)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	need, err := s.needs.CreateNeed(r.Context(), userID, &types.Need{
		FundraiserID: r.PathValue("fundraiserID"),
		NeedType:     req.NeedType,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		SortOrder:    req.SortOrder,
		Detail:       detail,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, need)
}

// handleUpdateNeedDetail replaces the detail, decoding it by the stored need type.
func (s *Service) handleUpdateNeedDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	needID := r.PathValue("needID")

	var req needDetailRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	current, err := s.needs.Need(r.Context(), needID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	detail, err := decodeNeedDetail(current.NeedType, req.Detail)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	need, err := s.needs.UpdateNeedDetail(r.Context(), userID, needID, detail)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, need)
}

func (s *Service) handleDeleteNeed(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.needs.DeleteNeed(r.Context(), userID, r.PathValue("needID")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
