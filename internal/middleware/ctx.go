package middleware

import "context"

type ctxKey string

const ctxUserHolder ctxKey = "user_holder"

// userHolder передаёт id пользователя из JWTAuth обратно во внешний Logging.
type userHolder struct {
	id  int64
	set bool
}

func withUserHolder(ctx context.Context, h *userHolder) context.Context {
	return context.WithValue(ctx, ctxUserHolder, h)
}

func recordUser(ctx context.Context, id int64) {
	if h, ok := ctx.Value(ctxUserHolder).(*userHolder); ok {
		h.id, h.set = id, true
	}
}
