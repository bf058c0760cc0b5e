// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	"fitrooms/internal/domain"
)

var (
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoIdentity indicates that a forward-auth request carried no user.
	ErrNoIdentity = errors.New("no remote user header")
)

// DefaultSessionTTL is the lifetime of a session when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// AuthService handles session management on top of an external identity
// provider.
type AuthService struct {
	users    *UserService
	sessions domain.SessionRepository
	cal      Calendar
	ttl      time.Duration
}

// NewAuthService creates a new authentication service. A non-positive ttl
// uses DefaultSessionTTL.
func NewAuthService(users *UserService, sessions domain.SessionRepository, cal Calendar, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		cal:      cal,
		ttl:      ttl,
	}
}

// TTL returns the session lifetime.
func (s *AuthService) TTL() time.Duration { return s.ttl }

// LoginWithIdentity provisions the user behind id if needed and opens a
// session for them. The returned token is shown to the client only.
func (s *AuthService) LoginWithIdentity(ctx context.Context, id domain.Identity, userAgent, ip string) (string, *domain.User, error) {
	user, err := s.users.GetOrCreateUser(ctx, id)
	if err != nil {
		return "", nil, err
	}

	token, err := generateToken()
	if err != nil {
		return "", nil, err
	}

	now := s.cal.Now()
	session := domain.Session{
		TokenHash: HashToken(token),
		UserID:    user.ID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	return token, user, nil
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, HashToken(token))
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	hash := HashToken(token)
	session, err := s.sessions.GetByTokenHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if s.cal.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, hash)
		return nil, ErrSessionExpired
	}

	if !ConstantTimeCompare(session.UserAgent, userAgent) {
		_ = s.sessions.Delete(ctx, hash)
		return nil, ErrSessionExpired
	}

	return s.users.Get(ctx, session.UserID)
}

// ValidateForwardAuth resolves the user asserted by a trusted forward-auth
// proxy, creating it on first sight.
func (s *AuthService) ValidateForwardAuth(ctx context.Context, id domain.Identity) (*domain.User, error) {
	if id.ExternalID == "" {
		return nil, ErrNoIdentity
	}
	return s.users.GetOrCreateUser(ctx, id)
}

// CleanupExpired removes sessions past their expiry and reports how many
// were removed.
func (s *AuthService) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.cal.Now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}

// HashToken returns the hex BLAKE2b-256 digest under which a session token
// is stored.
func HashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
