package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"blogpress/internal/apperror"

	"github.com/go-playground/validator/v10"
)

// AppValidator обёртка над go-playground/validator.
type AppValidator struct {
	validator *validator.Validate
}

func NewAppValidator() *AppValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в сообщениях имена полей как в JSON
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &AppValidator{validator: v}
}

// Validate возвращает ошибку валидации по первому неверному полю.
func (v *AppValidator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return apperror.ValidationFailed(fe.Field(), fieldMessage(fe.Field(), fe.Tag()))
	}
	return apperror.ValidationFailed("", err.Error())
}

// ValidateVar проверяет одно значение, например поле из частичного обновления.
func (v *AppValidator) ValidateVar(field string, value any, tag string) error {
	err := v.validator.Var(value, tag)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return apperror.ValidationFailed(field, fieldMessage(field, validationErrors[0].Tag()))
	}
	return apperror.ValidationFailed(field, err.Error())
}

func fieldMessage(field, tag string) string {
	switch tag {
	case "email":
		return "Invalid email format"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "max":
		return fmt.Sprintf("%s is too long", field)
	default:
		return fmt.Sprintf("%s failed on '%s' validation", field, tag)
	}
}
