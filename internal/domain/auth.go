// Package domain contains the core entities, value types and ports of the
// room accountability service.
package domain

import (
	"context"
	"time"
)

// Session represents an active user session. TokenHash is the hex digest of
// the bearer token; the token itself is never stored.
type Session struct {
	TokenHash string
	UserID    string
	UserAgent string
	IP        string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, s Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
