package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoriesSurviveWrapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"not found", NotFound("Article"), ErrNotFound},
		{"validation", ValidationFailed("title", "Title and content are required."), ErrValidation},
		{"conflict", Conflict("Slug already in use"), ErrConflict},
		{"forbidden", Forbidden("nope"), ErrForbidden},
		{"unauthorized", Unauthorized("nope"), ErrUnauthorized},
		{"email in use", ErrEmailInUse, ErrConflict},
		{"invalid credentials", ErrInvalidCredentials, ErrUnauthorized},
		{"missing email", ErrMissingEmailClaim, ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.want)
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Article not found", Message(fmt.Errorf("x: %w", NotFound("Article")), "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("boom"), "fallback"))
}
