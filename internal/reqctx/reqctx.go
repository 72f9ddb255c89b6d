// Package reqctx хранит данные запроса в context.Context.
package reqctx

import (
	"context"

	"blogpress/internal/models"
)

type key int

const (
	keyRequestID key = iota
	keyUserID
	keyUser
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, keyUserID, id)
}

func GetUserID(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(keyUserID).(int64)
	return v, ok
}

// WithUser кладёт в контекст пользователя, прошедшего проверку токена, и его id.
func WithUser(ctx context.Context, u *models.User) context.Context {
	ctx = context.WithValue(ctx, keyUser, u)
	return WithUserID(ctx, u.ID)
}

func GetUser(ctx context.Context) (*models.User, bool) {
	v, ok := ctx.Value(keyUser).(*models.User)
	return v, ok && v != nil
}
