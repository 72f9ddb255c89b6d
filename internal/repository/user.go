package repository

import (
	"context"
	"fmt"
	"strings"

	"blogpress/internal/apperror"
	"blogpress/internal/logger"
	"blogpress/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const userColumns = `id, username, email, password_hash, google_id, avatar_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.GoogleID,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("User")
		}
		logger.WithCtx(ctx).Error("Ошибка получения пользователя (repo)", zap.String("where", where), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	logger.WithCtx(ctx).Debug("Получение пользователя по ID (repo)", zap.Int64("id", id))
	return r.getOne(ctx, "id = $1", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.WithCtx(ctx).Debug("Получение пользователя по email (repo)", zap.String("email", email))
	return r.getOne(ctx, "email = $1", email)
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	logger.WithCtx(ctx).Debug("Получение пользователя по google_id (repo)", zap.String("google_id", googleID))
	return r.getOne(ctx, "google_id = $1", googleID)
}

// Create заполняет ID и метки времени из RETURNING.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	logger.WithCtx(ctx).Info("Создание пользователя (repo)", zap.String("username", user.Username), zap.String("email", user.Email))
	query := `
	INSERT INTO users (username, email, password_hash, google_id, avatar_url)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.GoogleID,
		user.AvatarURL,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			logger.WithCtx(ctx).Warn("Нарушение уникальности при создании пользователя (repo)", zap.String("constraint", constraint))
			if strings.Contains(constraint, "google") {
				return apperror.Conflict("Google account already linked")
			}
			return apperror.ErrEmailInUse
		}
		logger.WithCtx(ctx).Error("Ошибка создания пользователя (repo)", zap.Error(err))
		return err
	}
	return nil
}

// LinkGoogle привязывает google_id; аватар ставится, только если он пуст.
func (r *UserRepository) LinkGoogle(ctx context.Context, userID int64, googleID string, avatarURL *string) (*models.User, error) {
	logger.WithCtx(ctx).Info("Привязка Google-аккаунта (repo)", zap.Int64("user_id", userID))
	query := `
	UPDATE users
	SET google_id = $2,
	    avatar_url = COALESCE(NULLIF(avatar_url, ''), $3),
	    updated_at = NOW()
	WHERE id = $1
	RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query, userID, googleID, avatarURL))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("User")
		}
		if _, ok := uniqueConstraint(err); ok {
			return nil, apperror.Conflict("Google account already linked")
		}
		logger.WithCtx(ctx).Error("Ошибка привязки Google-аккаунта (repo)", zap.Error(err))
		return nil, err
	}
	return u, nil
}

// UpdateProfile меняет только переданные поля.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.User, error) {
	logger.WithCtx(ctx).Info("Обновление профиля (repo)", zap.Int64("user_id", userID))

	set := []string{}
	args := []any{}
	i := 1

	if patch.Username.Set {
		set = append(set, fmt.Sprintf("username = $%d", i))
		args = append(args, patch.Username.Value)
		i++
	}
	if patch.AvatarURL.Set {
		set = append(set, fmt.Sprintf("avatar_url = $%d", i))
		args = append(args, patch.AvatarURL.Value)
		i++
	}
	if len(set) == 0 {
		return r.GetByID(ctx, userID)
	}
	set = append(set, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`, strings.Join(set, ", "), i, userColumns)
	args = append(args, userID)

	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("User")
		}
		logger.WithCtx(ctx).Error("Ошибка обновления профиля (repo)", zap.Error(err))
		return nil, err
	}
	return u, nil
}
