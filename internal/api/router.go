package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apiMiddleware "github.com/ShipIM/database-refactoring/internal/api/middleware"
	"github.com/ShipIM/database-refactoring/internal/service/auth"
)

// RouterDeps holds everything the HTTP surface is assembled from.
// Metrics and MetricsHandler are optional.
type RouterDeps struct {
	Accounts       AccountService
	Catalog        Catalog
	Tokens         auth.TokenService
	Metrics        apiMiddleware.RequestRecorder
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// NewRouter creates the application router with every route and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(deps.Logger))
	if deps.Metrics != nil {
		r.Use(apiMiddleware.NewMetricsMiddleware(deps.Metrics))
	}

	authHandler := NewAuthHandler(deps.Accounts)
	itemHandler := NewItemHandler(deps.Catalog)
	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.Tokens)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/registration", authHandler.Register)
		r.Post("/authentication", authHandler.Login)
	})

	r.Route("/items", func(r chi.Router) {
		// Public endpoints
		r.Group(func(r chi.Router) {
			r.Get("/", itemHandler.ListItems)
			r.Get("/categories", itemHandler.ListCategories)
			r.Get("/self-price/{id}", itemHandler.GetSelfPrice)
			r.Post("/items-for-period", itemHandler.GetItemsForPeriod)
			r.Get("/{id}/lots", itemHandler.GetActiveLots)
			r.Get("/{id}/dependencies", itemHandler.GetDependencies)
		})

		r.With(authMiddleware.Optional).Get("/{id}", itemHandler.GetItem)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/favourites", itemHandler.ListFavorites)
			r.Post("/favourites", itemHandler.AddFavorite)
			r.Delete("/favourites/{id}", itemHandler.RemoveFavorite)
			r.Get("/favourites/categories", itemHandler.ListFavoriteCategories)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("failed to write health check response", "error", err)
		}
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	return r
}
