package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/skirent/internal/client/storage"
)

// mockSessionStorage implements storage.SessionStorage for testing
type mockSessionStorage struct {
	data    *storage.Session
	saveErr error
}

func (m *mockSessionStorage) SaveSession(ctx context.Context, session *storage.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	// Сохраняем копию данных
	cp := *session
	m.data = &cp
	return nil
}

func (m *mockSessionStorage) GetSession(ctx context.Context) (*storage.Session, error) {
	if m.data == nil {
		return nil, storage.ErrSessionNotFound
	}
	cp := *m.data
	return &cp, nil
}

func (m *mockSessionStorage) DeleteSession(ctx context.Context) error {
	if m.data == nil {
		return storage.ErrSessionNotFound
	}
	m.data = nil
	return nil
}

var fixedNow = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func newTestService(store storage.SessionStorage) *Service {
	s := NewService(store)
	s.now = func() time.Time { return fixedNow }
	return s
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestService_LoginJWT(t *testing.T) {
	ctx := context.Background()
	store := &mockSessionStorage{}
	s := newTestService(store)

	exp := fixedNow.Add(8 * time.Hour)
	token := signedToken(t, jwt.MapClaims{"sub": "maria", "exp": exp.Unix()})

	session, err := s.Login(ctx, "  "+token+"\n", "shop-1")
	require.NoError(t, err)
	assert.Equal(t, "maria", session.Username)
	assert.Equal(t, "shop-1", session.ShopID)
	assert.Equal(t, exp.Unix(), session.ExpiresAt)
	assert.Equal(t, token, store.data.AccessToken)

	got, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, got)
}

func TestService_LoginOpaqueToken(t *testing.T) {
	ctx := context.Background()
	s := newTestService(&mockSessionStorage{})

	session, err := s.Login(ctx, "opaque-token-123", "")
	require.NoError(t, err)
	assert.Zero(t, session.ExpiresAt)
	assert.Empty(t, session.Username)

	got, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token-123", got)
}

func TestService_LoginRejects(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		token   string
		saveErr error
		wantIs  error
	}{
		{name: "empty token", token: "   "},
		{name: "expired jwt", token: signedToken(t, jwt.MapClaims{"exp": fixedNow.Add(-time.Minute).Unix()}), wantIs: ErrTokenExpired},
		{name: "storage failure", token: "opaque", saveErr: errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockSessionStorage{saveErr: tt.saveErr}
			s := newTestService(store)

			_, err := s.Login(ctx, tt.token, "")
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.Nil(t, store.data)
		})
	}
}

func TestService_TokenExpiresLater(t *testing.T) {
	ctx := context.Background()
	s := newTestService(&mockSessionStorage{})

	token := signedToken(t, jwt.MapClaims{"exp": fixedNow.Add(time.Hour).Unix()})
	_, err := s.Login(ctx, token, "")
	require.NoError(t, err)

	// Через два часа токен уже недействителен
	s.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
	_, err = s.Token(ctx)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// Но сессию всё ещё можно прочитать для status
	session, err := s.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, session.AccessToken)
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	s := newTestService(&mockSessionStorage{})

	_, err := s.Token(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	_, err = s.Login(ctx, "opaque", "")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))

	_, err = s.Token(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	err = s.Logout(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}
