package logger

import (
	"context"

	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type ctxKey struct{}

var requestIDKey ctxKey

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// FromCtx returns the global logger tagged with the request id and, for
// authenticated requests, the caller's id, email and role.
func FromCtx(ctx context.Context) *zap.Logger {
	fields := make([]zap.Field, 0, 4)
	if reqID := RequestIDFrom(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		fields = append(fields,
			zap.Uint("user_id", userID),
			zap.String("user_email", utils.GetUserEmailFromContext(ctx)),
			zap.String("user_role", utils.GetUserRoleFromContext(ctx)),
		)
	}

	if len(fields) == 0 {
		return L()
	}
	return L().With(fields...)
}
