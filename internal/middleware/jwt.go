package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"blogpress/internal/apperror"
	"blogpress/internal/logger"
	"blogpress/internal/models"
	"blogpress/internal/reqctx"
	"blogpress/internal/utils"
	"blogpress/internal/utils/helpers"

	"go.uber.org/zap"
)

type TokenVerifier interface {
	Verify(token string) (*utils.Claims, error)
}

type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// JWTAuth пропускает запрос дальше только с валидным Bearer-токеном
// существующего пользователя и кладёт пользователя в контекст.
func JWTAuth(tokens TokenVerifier, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			log := logger.WithCtx(r.Context())

			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				log.Warn("JWTAuth: отсутствует access token")
				helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				if errors.Is(err, utils.ErrExpiredToken) {
					log.Warn("JWTAuth: токен просрочен")
					helpers.Error(w, http.StatusUnauthorized, "Token expired.")
					return
				}
				log.Warn("JWTAuth: неверный токен", zap.Error(err))
				helpers.Error(w, http.StatusUnauthorized, "Invalid token.")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				log.Warn("JWTAuth: недопустимый sub", zap.String("sub", claims.Subject))
				helpers.Error(w, http.StatusUnauthorized, "Invalid token.")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					log.Warn("JWTAuth: пользователь из токена не найден", zap.Int64("user_id", userID))
					helpers.Error(w, http.StatusUnauthorized, "User not found.")
					return
				}
				log.Error("JWTAuth: ошибка получения пользователя", zap.Int64("user_id", userID), zap.Error(err))
				helpers.Error(w, http.StatusInternalServerError, "Authentication error")
				return
			}

			ctx := reqctx.WithUser(r.Context(), user)
			recordUser(ctx, user.ID)

			logger.WithCtx(ctx).Debug("JWTAuth: токен валиден")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken достаёт токен из "Bearer <token>"; схема сравнивается без учёта регистра.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
