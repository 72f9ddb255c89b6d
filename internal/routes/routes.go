package routes

import (
	"net/http"

	"blogpress/internal/handlers"
	"blogpress/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	authHandler *handlers.AuthHandler,
	articleH *handlers.ArticleHandler,
	healthH *handlers.HealthHandler,
	authMW mux.MiddlewareFunc,
) {
	router.Use(middleware.RequestID, middleware.Logging, middleware.Recoverer)

	router.HandleFunc("/health", healthH.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/google", authHandler.GoogleLogin).Methods(http.MethodGet)
	api.HandleFunc("/auth/google/callback", authHandler.GoogleCallback).Methods(http.MethodGet)

	api.HandleFunc("/articles", articleH.List).Methods(http.MethodGet)
	api.HandleFunc("/articles/categories", articleH.Categories).Methods(http.MethodGet)
	api.HandleFunc("/articles/slug/{slug}", articleH.GetBySlug).Methods(http.MethodGet)

	// --- Защищённые JWT ---
	// Регистрируются до /articles/{id}, иначе my-articles попадёт в GetByID.
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMW)

	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/profile", authHandler.UpdateProfile).Methods(http.MethodPut)

	protected.HandleFunc("/articles/my-articles", articleH.MyArticles).Methods(http.MethodGet)
	protected.HandleFunc("/articles", articleH.Create).Methods(http.MethodPost)
	protected.HandleFunc("/articles/{id}", articleH.Update).Methods(http.MethodPut)
	protected.HandleFunc("/articles/{id}", articleH.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/articles/{id}", articleH.GetByID).Methods(http.MethodGet)
}
