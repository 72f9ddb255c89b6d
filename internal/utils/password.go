package utils

import (
	"blogpress/internal/apperror"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 10

// bcrypt читает не более 72 байт пароля.
const maxPasswordBytes = 72

type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash соль случайная, поэтому два вызова дают разные хэши.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", apperror.ValidationFailed("password", "Password is required")
	}
	if len(password) > maxPasswordBytes {
		return "", apperror.ValidationFailed("password", "Password is too long")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify для повреждённого хэша возвращает false.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
