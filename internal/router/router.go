package router

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/leadflow/meeting-router/internal/assignment"
	"github.com/leadflow/meeting-router/internal/audit"
	"github.com/leadflow/meeting-router/internal/auth"
	"github.com/leadflow/meeting-router/internal/leads"
	"github.com/leadflow/meeting-router/internal/metrics"
	"github.com/leadflow/meeting-router/internal/specialization"
	"github.com/leadflow/meeting-router/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware tags each request with a ksuid correlation id and
// logs it at debug level.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = utilities.NewKSUID()
			}
			w.Header().Set("X-Request-ID", requestID)

			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Handlers bundles every endpoint the service mounts.
type Handlers struct {
	Agents          *assignment.Handler
	Specializations *specialization.Handler
	Auth            *auth.Handler
	Session         *auth.Service
	Leads           *leads.Handler
	Audit           *audit.Handler
}

// RegisterRoutes mounts HTTP handlers on a standard library ServeMux.
func RegisterRoutes(logger *zap.SugaredLogger, h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/auth", h.Auth.Login)
	mux.HandleFunc("GET /api/agents", h.Agents.List)
	mux.HandleFunc("GET /api/specializations", h.Specializations.List)
	mux.HandleFunc("POST /api/leads/validate", h.Leads.Verify)

	// Dispatcher override actions require a session.
	mux.Handle("POST /api/assignments/manual", h.Session.Middleware(http.HandlerFunc(h.Audit.Document)))

	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux))
	return handler
}
