package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	GoogleID     *string   `json:"google_id,omitempty"`
	AvatarURL    *string   `json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword false для аккаунтов, созданных только через Google.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// AuthorProfile публичная проекция автора статьи.
type AuthorProfile struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

// ProfilePatch частичное обновление профиля.
type ProfilePatch struct {
	Username  Optional[string]  `json:"username" swaggertype:"string"`
	AvatarURL Optional[*string] `json:"avatar_url" swaggertype:"string"`
}

func (p ProfilePatch) IsEmpty() bool {
	return !p.Username.Set && !p.AvatarURL.Set
}

// OAuthProfile данные внешнего провайдера после обмена кода.
type OAuthProfile struct {
	ExternalID  string
	Email       string
	DisplayName string
	PhotoURL    string
}

// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" validate:"required" example:"alice"`
	Email    string `json:"email"    validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required,max=72" example:"s3cret-pass"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    validate:"required" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"s3cret-pass"`
}
