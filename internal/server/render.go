package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"crowdfund/pkg/types"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) writeMessage(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps service errors onto HTTP statuses.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *types.ValidationError
	if errors.As(err, &validationErr) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Message, Field: validationErr.Field})
		return
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		s.writeMessage(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, types.ErrIntegrity):
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("integrity violation")
		s.writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, types.ErrFundraiserNotFound),
		errors.Is(err, types.ErrNeedNotFound),
		errors.Is(err, types.ErrPledgeNotFound),
		errors.Is(err, types.ErrRewardTierNotFound):
		s.writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrForbidden):
		s.writeMessage(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, types.ErrImageStorageUnavailable):
		s.writeMessage(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		s.internalServerError(w)
	}
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	s.writeMessage(w, http.StatusInternalServerError, "internal server error")
}

func (s *Service) decodeBody(r *http.Request, dest any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dest); err != nil {
		return types.NewValidationError("", "invalid request body: %s", err)
	}

	return nil
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
