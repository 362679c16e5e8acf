package auth

import (
	"context"

	"github.com/liliang-cn/aichat/internal/domain"
)

type contextKey string

const sessionKey contextKey = "session"

// WithSession returns a context carrying the session
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext retrieves the session placed by the session middleware.
// Returns nil and false if there is none.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*domain.Session)
	return session, ok && session != nil
}
