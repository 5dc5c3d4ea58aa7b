package context

import (
	"context"

	"godam/models"
)

type sessionKey struct{}

func NewContextWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}

// Username of the logged-in user, or "" outside an authenticated request.
func Username(ctx context.Context) string {
	s, ok := GetSessionFromContext(ctx)
	if !ok {
		return ""
	}
	return s.User.Username
}
