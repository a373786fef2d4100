package assignment

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/leadflow/meeting-router/internal/metrics"
)

// Handler exposes the agent assignment endpoint to the booking form.
type Handler struct {
	resolver *Resolver
	logger   *zap.SugaredLogger
}

func NewHandler(resolver *Resolver, logger *zap.SugaredLogger) *Handler {
	return &Handler{resolver: resolver, logger: logger}
}

// Response is the endpoint's success body. An empty agent list is a
// valid, successful response, distinct from a fetch failure.
type Response struct {
	Agents []Agent `json:"agents"`
}

// List handles GET /api/agents.
//
// Query parameters: specialization (optional category selector),
// interest (optional originating-interest signal), evenDistribution
// (opt-in fairness), manual (dispatcher-directed assignment).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := Request{
		Specialization:   q.Get("specialization"),
		Interest:         q.Get("interest"),
		EvenDistribution: q.Get("evenDistribution") == "true",
		Mode:             ModeAutomatic,
	}
	if q.Get("manual") == "true" {
		req.Mode = ModeManual
	}

	start := time.Now()
	agents, err := h.resolver.Assign(r.Context(), req)
	metrics.AssignRequestsTotal.WithLabelValues(req.Mode.String()).Inc()
	metrics.AssignDurationSeconds.Observe(time.Since(start).Seconds())

	if err != nil {
		// Upstream detail stays in operator logs; the public body is generic.
		h.logger.Errorw("assignment resolution failed", "err", err, "mode", req.Mode.String())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch agents"})
		return
	}

	metrics.CandidatesReturned.Observe(float64(len(agents)))
	writeJSON(w, http.StatusOK, Response{Agents: agents})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
