package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-bill-tracker/internal/config"
	"go-bill-tracker/internal/handler"
	"go-bill-tracker/internal/middleware"
)

type Handlers struct {
	User *handler.UserHandler
	Bill *handler.BillHandler
	// Health reports whether the backing store is reachable. Nil means
	// always healthy.
	Health func(ctx context.Context) error
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if h.Health != nil {
			if err := h.Health(req.Context()); err != nil {
				slog.Error("health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	mount := func(api chi.Router) {
		api.Route("/users", func(users chi.Router) {
			users.Post("/", h.User.Register)
			users.Post("/login", h.User.Login)
			users.Method(http.MethodGet, "/profile", authMiddleware.Protected(h.User.Profile))
		})

		api.Route("/bills", func(bills chi.Router) {
			bills.Method(http.MethodPost, "/", authMiddleware.Protected(h.Bill.Create))
			bills.Method(http.MethodGet, "/", authMiddleware.Protected(h.Bill.List))
			bills.Method(http.MethodGet, "/{id}", authMiddleware.Protected(h.Bill.Get))
			bills.Method(http.MethodPut, "/{id}", authMiddleware.Protected(h.Bill.Update))
			bills.Method(http.MethodDelete, "/{id}", authMiddleware.Protected(h.Bill.Delete))
		})
	}

	mount(r)
	r.Route("/api", mount)

	return r
}
