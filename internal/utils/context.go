package utils

import "context"

type contextKey string

const (
	UserIDKey       contextKey = "user_id"
	UserEmailKey    contextKey = "email"
	UserRoleKey     contextKey = "role"
	internalRequest contextKey = "internal_request"
)

// SetUserContext stores the authenticated identity (called by middleware).
func SetUserContext(ctx context.Context, id uint, email string, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}

// GetUserIDFromContext returns the user id and whether the request is authenticated.
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok && id != 0
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

// UserIDPtrFromContext is GetUserIDFromContext for optional ownership, nil for guests.
func UserIDPtrFromContext(ctx context.Context) *uint {
	id, ok := GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &id
}

func WithInternalRequest(ctx context.Context) context.Context {
	return context.WithValue(ctx, internalRequest, true)
}

// IsInternalRequest reports whether the request carried a valid internal secret.
func IsInternalRequest(ctx context.Context) bool {
	v, _ := ctx.Value(internalRequest).(bool)
	return v
}
