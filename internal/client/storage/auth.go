package storage

import (
	"context"
)

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage defines interface for the session issued by the backend.
// Issuing and refreshing sessions happens outside this client; it only keeps
// the bearer token the operator logged in with.
type SessionStorage interface {
	// SaveSession stores session data as-is
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns ErrSessionNotFound if no session exists
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes stored session data (logout)
	DeleteSession(ctx context.Context) error
}

// Session represents the operator session in storage
type Session struct {
	ShopID      string `json:"shop_id"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // ExpiresAt unix seconds, 0 when unknown
}
