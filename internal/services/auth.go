package services

import (
	"context"
	"errors"
	"strings"

	"blogpress/internal/apperror"
	"blogpress/internal/logger"
	"blogpress/internal/models"

	"go.uber.org/zap"
)

type UserRepo interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	LinkGoogle(ctx context.Context, userID int64, googleID string, avatarURL *string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

// Хэш, с которым сравнивается пароль при неизвестном email, чтобы время ответа не выдавало наличие аккаунта.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3/yhKXwYgV2c6BHGM5VfR1a"

type AuthService struct {
	repo   UserRepo
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewAuthService(repo UserRepo, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создаёт локальный аккаунт.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	log := logger.WithCtx(ctx)
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	log.Info("Регистрация пользователя", zap.String("username", username), zap.String("email", email))

	if username == "" || email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Username, email, and password are required")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		log.Warn("Email уже используется", zap.String("email", email))
		return nil, apperror.ErrEmailInUse
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: &hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		log.Error("Ошибка создания пользователя", zap.Error(err))
		return nil, err
	}

	log.Info("Пользователь зарегистрирован", zap.Int64("id", user.ID))
	return user, nil
}

// Login на любую ошибку учётных данных отвечает одинаково.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	log := logger.WithCtx(ctx)
	email = normalizeEmail(email)
	log.Info("Попытка входа", zap.String("email", email))

	if email == "" || password == "" {
		return nil, "", apperror.ValidationFailed("", "Email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.hasher.Verify(password, dummyHash)
			log.Warn("Вход отклонён: пользователь не найден")
			return nil, "", apperror.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.HasPassword() || !s.hasher.Verify(password, *user.PasswordHash) {
		log.Warn("Вход отклонён: неверный пароль или аккаунт без пароля", zap.Int64("id", user.ID))
		return nil, "", apperror.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	log.Info("Успешный вход", zap.Int64("id", user.ID))
	return user, token, nil
}

func (s *AuthService) IssueToken(user *models.User) (string, error) {
	return s.tokens.Issue(user.ID, user.Email)
}

func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ResolveOAuthProfile находит, привязывает или создаёт пользователя по профилю Google.
// При привязке по email имя пользователя не меняется.
func (s *AuthService) ResolveOAuthProfile(ctx context.Context, p models.OAuthProfile) (*models.User, error) {
	log := logger.WithCtx(ctx)
	email := normalizeEmail(p.Email)
	log.Info("Вход через Google", zap.String("google_id", p.ExternalID), zap.String("email", email))

	if p.ExternalID == "" {
		return nil, apperror.ValidationFailed("id", "OAuth profile has no id")
	}
	if email == "" {
		log.Warn("Профиль Google без email", zap.String("google_id", p.ExternalID))
		return nil, apperror.ErrMissingEmailClaim
	}

	user, err := s.repo.GetByGoogleID(ctx, p.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	avatar := optionalString(p.PhotoURL)

	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.GoogleID != nil && *existing.GoogleID != p.ExternalID {
			log.Warn("Email привязан к другому Google-аккаунту", zap.Int64("id", existing.ID))
			return nil, apperror.Conflict("Email is linked to another Google account")
		}
		linked, err := s.repo.LinkGoogle(ctx, existing.ID, p.ExternalID, avatar)
		if err != nil {
			return nil, err
		}
		log.Info("Google-аккаунт привязан", zap.Int64("id", linked.ID))
		return linked, nil
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, err
	}

	username := strings.TrimSpace(p.DisplayName)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	googleID := p.ExternalID
	user = &models.User{
		Username:  username,
		Email:     email,
		GoogleID:  &googleID,
		AvatarURL: avatar,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info("Создан пользователь через Google", zap.Int64("id", user.ID))
	return user, nil
}

// UpdateProfile без изменений возвращает текущего пользователя и ничего не пишет.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.User, error) {
	log := logger.WithCtx(ctx)

	if patch.Username.Set {
		patch.Username.Value = strings.TrimSpace(patch.Username.Value)
		if patch.Username.Value == "" {
			return nil, apperror.ValidationFailed("username", "Username cannot be empty")
		}
	}

	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Username.Set && patch.Username.Value == current.Username {
		patch.Username = models.Optional[string]{}
	}
	if patch.AvatarURL.Set && equalStringPtr(patch.AvatarURL.Value, current.AvatarURL) {
		patch.AvatarURL = models.Optional[*string]{}
	}
	if patch.IsEmpty() {
		log.Debug("Профиль не изменился", zap.Int64("id", userID))
		return current, nil
	}

	updated, err := s.repo.UpdateProfile(ctx, userID, patch)
	if err != nil {
		log.Error("Ошибка обновления профиля", zap.Error(err))
		return nil, err
	}
	log.Info("Профиль обновлён", zap.Int64("id", userID))
	return updated, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
