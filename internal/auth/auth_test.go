package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/mmynk/splitledger/internal/errors"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

func newTestAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	a := NewPasswordAuthenticator(store)
	a.cost = bcrypt.MinCost
	return a
}

func TestPasswordAuthenticator(t *testing.T) {
	a := newTestAuthenticator(t)
	ctx := context.Background()

	var registered *models.User

	t.Run("Register normalizes email and hashes password", func(t *testing.T) {
		user, err := a.Register(ctx, "  Alice@Example.com ", "Alice", "correct horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("Expected normalized email, got %q", user.Email)
		}
		if user.PasswordHash == "correct horse" || user.PasswordHash == "" {
			t.Error("Expected password to be hashed")
		}
		registered = user
	})

	t.Run("Register rejects taken email", func(t *testing.T) {
		_, err := a.Register(ctx, "alice@example.com", "Other", "another password")
		if !errors.Is(err, apperrors.ErrAlreadyExists) {
			t.Errorf("Expected AlreadyExists, got %v", err)
		}
	})

	t.Run("Register validates input", func(t *testing.T) {
		cases := []struct {
			email, name, password, field string
		}{
			{"not-an-email", "Bob", "long enough", "email"},
			{"bob@example.com", " ", "long enough", "display_name"},
			{"bob@example.com", "Bob", "short", "password"},
		}
		for _, c := range cases {
			_, err := a.Register(ctx, c.email, c.name, c.password)
			var appErr *apperrors.Error
			if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation || appErr.Field != c.field {
				t.Errorf("Register(%q, %q): expected validation error on %s, got %v", c.email, c.name, c.field, err)
			}
		}
	})

	t.Run("Authenticate accepts correct password", func(t *testing.T) {
		user, err := a.Authenticate(ctx, "ALICE@example.com", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("Expected user %s, got %s", registered.ID, user.ID)
		}
	})

	t.Run("Authenticate rejects bad credentials", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "alice@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", err)
		}
		if _, err := a.Authenticate(ctx, "nobody@example.com", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
		}
	})

	t.Run("User looks up by ID", func(t *testing.T) {
		user, err := a.User(ctx, registered.ID)
		if err != nil {
			t.Fatalf("User failed: %v", err)
		}
		if user.DisplayName != "Alice" {
			t.Errorf("Unexpected display name %q", user.DisplayName)
		}
		if _, err := a.User(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})
}

func TestSessionTokens(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "alice@example.com"}
	issuedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	at := func(d time.Duration) TokenOption {
		return WithTokenClock(func() time.Time { return issuedAt.Add(d) })
	}

	t.Run("round trip", func(t *testing.T) {
		tokens := NewSessionTokens("secret", time.Hour, at(0))
		token, issued, err := tokens.Issue(user)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if !issued.ExpiresAt.Equal(issuedAt.Add(time.Hour)) {
			t.Errorf("Unexpected expiry %v", issued.ExpiresAt)
		}

		session, err := NewSessionTokens("secret", time.Hour, at(59*time.Minute)).Verify(token)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if session.UserID != "user-1" || session.Email != "alice@example.com" {
			t.Errorf("Unexpected session: %+v", session)
		}
		if session.TokenID == "" || session.TokenID != issued.TokenID {
			t.Errorf("Token ID mismatch: %q vs %q", session.TokenID, issued.TokenID)
		}
	})

	t.Run("rejected tokens", func(t *testing.T) {
		token, _, err := NewSessionTokens("secret", time.Hour, at(0)).Issue(user)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		tests := []struct {
			name     string
			verifier *SessionTokens
			token    string
		}{
			{"wrong secret", NewSessionTokens("other", time.Hour, at(0)), token},
			{"other audience", NewSessionTokens("secret", time.Hour, at(0), WithAudience("billing")), token},
			{"expired", NewSessionTokens("secret", time.Hour, at(2*time.Hour)), token},
			{"not yet valid", NewSessionTokens("secret", time.Hour, at(-time.Hour)), token},
			{"garbage", NewSessionTokens("secret", time.Hour, at(0)), strings.Repeat("x", 20)},
			{"unsigned", NewSessionTokens("secret", time.Hour, at(0)), unsignedToken(t, user.ID, issuedAt)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := tt.verifier.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
					t.Errorf("Expected ErrInvalidToken, got %v", err)
				}
			})
		}
	})

	t.Run("leeway absorbs clock skew", func(t *testing.T) {
		token, _, err := NewSessionTokens("secret", time.Minute, at(0)).Issue(user)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		late := NewSessionTokens("secret", time.Minute, at(time.Minute+10*time.Second), WithLeeway(30*time.Second))
		if _, err := late.Verify(token); err != nil {
			t.Errorf("Expected token within leeway to verify, got %v", err)
		}
		early := NewSessionTokens("secret", time.Minute, at(-10*time.Second), WithLeeway(30*time.Second))
		if _, err := early.Verify(token); err != nil {
			t.Errorf("Expected early token within leeway to verify, got %v", err)
		}
	})

	t.Run("user ID is required", func(t *testing.T) {
		if _, _, err := NewSessionTokens("secret", time.Hour).Issue(&models.User{}); err == nil {
			t.Error("Expected error for user without ID")
		}
	})
}

// unsignedToken builds an alg=none token with otherwise valid claims.
func unsignedToken(t *testing.T, userID string, issuedAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   userID,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to build unsigned token: %v", err)
	}
	return token
}
