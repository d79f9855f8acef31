package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/splitledger/internal/models"
)

const (
	tokenIssuer   = "splitledger"
	tokenAudience = "splitledger-api"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// Session is the identity carried by a verified bearer token.
type Session struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// sessionClaims is the token payload. The user ID travels as the subject.
type sessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// SessionTokens issues and verifies HS256 session tokens.
type SessionTokens struct {
	key      []byte
	ttl      time.Duration
	audience string
	leeway   time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// TokenOption configures SessionTokens.
type TokenOption func(*SessionTokens)

// WithAudience overrides the audience tokens are issued for and must carry.
func WithAudience(aud string) TokenOption {
	return func(s *SessionTokens) {
		if aud != "" {
			s.audience = aud
		}
	}
}

// WithLeeway tolerates clock skew when checking expiry and not-before.
func WithLeeway(d time.Duration) TokenOption {
	return func(s *SessionTokens) { s.leeway = d }
}

// WithTokenClock sets the time source for issuing and verifying.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(s *SessionTokens) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessionTokens signs with secret; tokens live for ttl.
func NewSessionTokens(secret string, ttl time.Duration, opts ...TokenOption) *SessionTokens {
	s := &SessionTokens{
		key:      []byte(secret),
		ttl:      ttl,
		audience: tokenAudience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s
}

// Issue signs a token for user and returns it with the session it encodes.
func (s *SessionTokens) Issue(user *models.User) (string, *Session, error) {
	if user == nil || user.ID == "" {
		return "", nil, errors.New("issue token: user ID is required")
	}

	issuedAt := s.now().Truncate(time.Second)
	session := &Session{
		UserID:    user.ID,
		Email:     user.Email,
		TokenID:   models.NewID(),
		ExpiresAt: issuedAt.Add(s.ttl),
	}

	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.TokenID,
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign token for %s: %w", user.ID, err)
	}
	return signed, session, nil
}

// Verify checks signature, issuer, audience and lifetime, and returns the
// session. Every failure wraps ErrInvalidToken.
func (s *SessionTokens) Verify(token string) (*Session, error) {
	var claims sessionClaims
	if _, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
