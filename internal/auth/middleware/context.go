package auth

import "context"

type ctxKey string

const ctxKeyAccount ctxKey = "account_id"

func WithAccountID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyAccount, id)
}

func AccountIDFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeyAccount); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
