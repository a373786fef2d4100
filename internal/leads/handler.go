package leads

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type verifyRequest struct {
	PrimaryLeadNumber    string `json:"primaryLeadNumber"`
	AdditionalLeadNumber string `json:"additionalLeadNumber"`
}

// Verify handles POST /api/leads/validate.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Result{Success: false, Error: msgMissingNumber})
		return
	}
	if req.PrimaryLeadNumber == "" {
		writeJSON(w, http.StatusBadRequest, Result{Success: false, Error: msgMissingNumber})
		return
	}

	result, err := h.svc.Verify(r.Context(), req.PrimaryLeadNumber, req.AdditionalLeadNumber)
	if err != nil {
		h.logger.Errorw("lead verification misconfigured", "err", err)
		writeJSON(w, http.StatusInternalServerError, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
