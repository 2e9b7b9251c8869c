package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexchirea/digital-wallet-api/internal/platform/middleware"
)

// NewRouter wires all public endpoints behind the standard middleware stack.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", h.handleCreateUser)
		r.Post("/credentials/issue", h.handleIssueCredential)
		r.Post("/credentials/{credentialID}/revoke", h.handleRevokeCredential)
		r.Get("/credentials/{credentialID}/status", h.handleCredentialStatus)
	})

	r.Get("/.well-known/jwks.json", h.handleJWKS)
	r.Get("/healthz", h.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
