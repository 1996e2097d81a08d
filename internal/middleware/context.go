package middleware

import "context"

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// UserInfo represents the essential viewer information stored in the session
// and request context. Subject is empty for anonymous viewers.
type UserInfo struct {
	Subject       string
	Username      string
	Authenticated bool
}

// GetUserInfo retrieves the viewer information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// No viewer info in the context means an anonymous request.
	return &UserInfo{}
}

// SetUserInfo adds the viewer information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}
