package app

import (
	"context"
	"fmt"
	"strings"

	"blogpress/internal/config"
	"blogpress/internal/db"
	"blogpress/internal/handlers"
	"blogpress/internal/logger"
	"blogpress/internal/middleware"
	"blogpress/internal/repository"
	"blogpress/internal/routes"
	"blogpress/internal/services"
	"blogpress/internal/utils"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type App struct {
	Router *mux.Router
	DB     *pgxpool.Pool
}

// Close освобождает пул соединений.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	conn, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Подключение к БД установлено", zap.String("dsn", cfg.GetDSNSafe()))

	if err := db.EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	tokens, err := utils.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("token manager: %w", err)
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	articleRepo := repository.NewArticleRepo(conn)

	// Сервисы
	authService := services.NewAuthService(userRepo, utils.NewPasswordHasher(cfg.BcryptCost), tokens)
	articleSvc := services.NewArticleService(articleRepo)

	var google services.OAuthProvider
	if cfg.GoogleEnabled() {
		google = services.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL())
	}

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService, google, cfg.ClientURL, strings.HasPrefix(cfg.ServerURL, "https://"))
	articleH := handlers.NewArticleHandler(articleSvc)
	healthH := handlers.NewHealthHandler(conn)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, authHandler, articleH, healthH, middleware.JWTAuth(tokens, authService))

	return &App{Router: router, DB: conn}, nil
}
