package specialization

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/leadflow/meeting-router/internal/directory"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type listResponse struct {
	Specializations []directory.Specialization `json:"specializations"`
}

// List handles GET /api/specializations.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("specialization fetch failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch specializations"})
		return
	}
	if items == nil {
		items = []directory.Specialization{}
	}
	writeJSON(w, http.StatusOK, listResponse{Specializations: items})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
