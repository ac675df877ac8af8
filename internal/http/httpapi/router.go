package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"flowershop/internal/http/handlers"
	"flowershop/internal/middleware"
	"flowershop/internal/providers/chat"
)

func NewRouter(app *handlers.App) http.Handler {
	cfg := app.Config
	r := chi.NewRouter()

	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.RequestID(app.Logger),
		middleware.Logger(app.Logger),
		chimw.Recoverer,
	)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", chat.DataStreamHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	operator := func(onMissing http.Handler) func(http.Handler) http.Handler {
		if !cfg.OperatorAuthEnabled() {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.RequireOperator(cfg.OperatorJWTSecret, onMissing)
	}

	r.Get("/healthz", app.Health)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitPerMin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter))
		r.Post("/completion", app.Completion)
		r.Post("/api/floristAi/completion", app.Completion)
	})

	for _, base := range []string{"/orders", "/api/orders/purchase"} {
		r.Route(base, func(r chi.Router) {
			r.Post("/", app.CreateOrder)
			r.With(operator(nil)).Get("/", app.ListOrders)
			r.With(operator(nil)).Patch("/{id}", app.UpdateOrderStatus)
		})
	}

	r.Get("/", app.ChatView)
	r.With(operator(http.HandlerFunc(app.LoginView))).Get("/enterprise", app.EnterpriseView)
	r.Post("/enterprise/login", app.OperatorLogin)

	if cfg.StoragePath != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StoragePath))))
	}

	return r
}
