package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	apperrors "github.com/mmynk/splitledger/internal/errors"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithIdentity returns ctx carrying the given user identity.
func WithIdentity(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, EmailKey, email)
}

// TokenVerifier turns a bearer token into the session it encodes.
type TokenVerifier interface {
	Verify(token string) (*auth.Session, error)
}

// RequireAuth returns an interceptor that verifies the bearer token and puts
// the caller's identity into the context. Procedures listed in public are
// passed through untouched.
func RequireAuth(tokens TokenVerifier, public ...string) connect.UnaryInterceptorFunc {
	skip := make(map[string]bool, len(public))
	for _, p := range public {
		skip[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if skip[req.Spec().Procedure] {
				return next(ctx, req)
			}

			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, apperrors.ToConnect(apperrors.Unauthenticated("missing credentials", auth.ErrMissingToken))
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				return nil, apperrors.ToConnect(apperrors.Unauthenticated("malformed authorization header", auth.ErrInvalidToken))
			}

			session, err := tokens.Verify(tokenString)
			if err != nil {
				return nil, apperrors.ToConnect(apperrors.Unauthenticated("invalid session", err))
			}

			return next(WithIdentity(ctx, session.UserID, session.Email), req)
		}
	}
}
