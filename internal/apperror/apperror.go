// Package apperror описывает доменные ошибки и их категории.
// HTTP-слой сопоставляет категорию со статусом через errors.Is.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Ошибки идентификации.
var (
	ErrEmailInUse         = &AppError{Err: ErrConflict, Message: "Email already in use"}
	ErrInvalidCredentials = &AppError{Err: ErrUnauthorized, Message: "Invalid email or password"}
	ErrMissingEmailClaim  = &AppError{Err: ErrValidation, Message: "OAuth profile has no email", Field: "email"}
)

type AppError struct {
	Err     error  // категория
	Message string // сообщение для клиента
	Field   string // поле, если ошибка валидации
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Message возвращает сообщение AppError из цепочки или fallback.
func Message(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
