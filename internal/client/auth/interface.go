package auth

import (
	"context"
	"errors"
)

// ErrTokenExpired is returned when the stored bearer token is past its exp claim
var ErrTokenExpired = errors.New("session token expired")

//go:generate moq -out token_mock.go . TokenProvider

// TokenProvider supplies the bearer token for authenticated backend calls
type TokenProvider interface {
	// Token returns the current bearer token or an error if none is usable
	Token(ctx context.Context) (string, error)
}
