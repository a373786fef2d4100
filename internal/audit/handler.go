// Package audit documents manual assignment decisions so dispatchers'
// overrides stay reviewable.
package audit

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/leadflow/meeting-router/internal/auth"
	"github.com/leadflow/meeting-router/pkg/utilities"
)

// Port records one manual assignment in the directory audit table.
type Port interface {
	CreateManualAssignment(ctx context.Context, username, agentName string) error
}

type Handler struct {
	port   Port
	logger *zap.SugaredLogger
}

func NewHandler(port Port, logger *zap.SugaredLogger) *Handler {
	return &Handler{port: port, logger: logger}
}

type documentRequest struct {
	Username  string `json:"username"`
	AgentName string `json:"agentName"`
}

// Document handles POST /api/assignments/manual. The route sits behind
// the session middleware; the authenticated username wins over the body
// when both are present.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if u := auth.Username(r.Context()); u != "" {
		req.Username = u
	}
	if req.Username == "" || req.AgentName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing required fields: username and agentName"})
		return
	}

	eventID := utilities.NewSnowflakeID()
	if err := h.port.CreateManualAssignment(r.Context(), req.Username, req.AgentName); err != nil {
		h.logger.Errorw("failed to document manual assignment",
			"err", err, "event_id", eventID, "username", req.Username)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to document manual assignment"})
		return
	}
	h.logger.Infow("manual assignment documented",
		"event_id", eventID, "username", req.Username, "agent", req.AgentName)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
