package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"blogpress/internal/apperror"
	"blogpress/internal/logger"
	"blogpress/internal/models"
	"blogpress/internal/reqctx"
	"blogpress/internal/services"
	"blogpress/internal/utils/helpers"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const oauthStateCookie = "oauth_state"

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ResolveOAuthProfile(ctx context.Context, p models.OAuthProfile) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.User, error)
	IssueToken(user *models.User) (string, error)
}

type AuthHandler struct {
	authService AuthService
	google      services.OAuthProvider
	validator   *AppValidator
	clientURL   string
	secure      bool
}

// NewAuthHandler google может быть nil, тогда маршруты Google отвечают 503.
func NewAuthHandler(authService AuthService, google services.OAuthProvider, clientURL string, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		google:      google,
		validator:   NewAppValidator(),
		clientURL:   strings.TrimRight(clientURL, "/"),
		secure:      secureCookies,
	}
}

type registerResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.RegisterRequest true "Данные регистрации"
// @Success 201 {object} registerResponse
// @Failure 400 {object} helpers.ErrorResponse "Не заполнены обязательные поля"
// @Failure 409 {object} helpers.ErrorResponse "Email уже используется"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "Error registering user")
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		helpers.Error(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err, "Error registering user")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "Error registering user")
		return
	}

	helpers.JSON(w, http.StatusCreated, registerResponse{Message: "User registered successfully", User: user})
}

// Login godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.LoginRequest true "Данные для входа"
// @Success 200 {object} loginResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse "Неверный email или пароль"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "Error logging in")
		return
	}
	if err := h.validator.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "Error logging in")
		return
	}

	helpers.JSON(w, http.StatusOK, loginResponse{Message: "Login successful", Token: token, User: user})
}

// GoogleLogin godoc
// @Summary Вход через Google
// @Description Перенаправляет на страницу согласия Google. State сохраняется в cookie.
// @Tags auth
// @Success 307
// @Failure 503 {object} helpers.ErrorResponse "Google OAuth не настроен"
// @Router /api/auth/google [get]
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		helpers.Error(w, http.StatusServiceUnavailable, "Google OAuth is not configured")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback godoc
// @Summary Callback Google OAuth
// @Description Завершает вход и перенаправляет на клиент с токеном или с кодом ошибки.
// @Tags auth
// @Param code query string true "Код авторизации"
// @Param state query string true "State из cookie"
// @Success 302
// @Router /api/auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/api/auth/google",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	if h.google == nil {
		h.redirectAuthError(w, r, "google_auth_failed")
		return
	}

	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		log.Warn("Google вернул ошибку", zap.String("error", e))
		h.redirectAuthError(w, r, "google_auth_failed")
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != q.Get("state") {
		log.Warn("Google callback: state не совпадает")
		h.redirectAuthError(w, r, "google_auth_failed")
		return
	}

	code := q.Get("code")
	if code == "" {
		h.redirectAuthError(w, r, "google_auth_failed")
		return
	}

	profile, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		log.Error("Ошибка обмена кода Google", zap.Error(err))
		h.redirectAuthError(w, r, "google_auth_failed")
		return
	}

	user, err := h.authService.ResolveOAuthProfile(r.Context(), profile)
	if err != nil {
		if errors.Is(err, apperror.ErrMissingEmailClaim) {
			h.redirectAuthError(w, r, "google_auth_incomplete")
			return
		}
		log.Error("Ошибка входа через Google", zap.Error(err))
		h.redirectAuthError(w, r, "google_auth_failed")
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		log.Error("Ошибка выпуска токена", zap.Error(err))
		h.redirectAuthError(w, r, "google_auth_failed")
		return
	}

	log.Info("Вход через Google выполнен", zap.Int64("user_id", user.ID))
	http.Redirect(w, r, h.clientURL+"/auth/handle-token?token="+url.QueryEscape(token), http.StatusFound)
}

func (h *AuthHandler) redirectAuthError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.clientURL+"/auth?view=login&error="+url.QueryEscape(code), http.StatusFound)
}

// Me godoc
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} helpers.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := reqctx.GetUser(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	helpers.JSON(w, http.StatusOK, user)
}

type profileResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// UpdateProfile godoc
// @Summary Обновление профиля
// @Description Меняет только переданные поля (username, avatar_url).
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.ProfilePatch true "Изменения профиля"
// @Success 200 {object} profileResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := reqctx.GetUser(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var patch models.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err, "Error updating profile")
		return
	}

	updated, err := h.authService.UpdateProfile(r.Context(), user.ID, patch)
	if err != nil {
		writeError(w, r, err, "Error updating profile")
		return
	}

	helpers.JSON(w, http.StatusOK, profileResponse{Message: "Profile updated successfully", User: updated})
}
