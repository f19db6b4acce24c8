package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"socialexec/internal/infra"
	"socialexec/internal/middleware"
	"socialexec/internal/rpc"
)

// NewRouter wires the middleware chain and routes. The health probe stays
// outside the authenticated group so load balancers can reach it without the
// shared secret.
func NewRouter(cfg *infra.Config, log infra.Logger, srv *rpc.Server) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(log),
	)
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", srv.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKey(cfg.APIKey))
		r.Post("/mcp", srv.HandleMCP)
	})

	return r
}
