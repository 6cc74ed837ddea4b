package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/skirent/internal/client/storage"
)

// Service хранит выданный бэкендом токен оператора и проверяет его срок действия.
// Сам токен выдаётся вне клиента; подпись не проверяется, это задача сервера.
type Service struct {
	storage storage.SessionStorage
	now     func() time.Time
}

var _ TokenProvider = (*Service)(nil)

// NewService создает новый сервис сессии
func NewService(storage storage.SessionStorage) *Service {
	return &Service{
		storage: storage,
		now:     time.Now,
	}
}

// Login сохраняет токен оператора. Для JWT из claims берутся exp и sub,
// непрозрачные токены сохраняются без срока действия.
func (s *Service) Login(ctx context.Context, token, shopID string) (*storage.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	session := &storage.Session{
		ShopID:      shopID,
		AccessToken: token,
	}

	if claims, ok := parseClaims(token); ok {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			session.ExpiresAt = exp.Unix()
		}
		if sub, err := claims.GetSubject(); err == nil {
			session.Username = sub
		}
	}

	if expired(session, s.now()) {
		return nil, ErrTokenExpired
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// Logout удаляет локальную сессию
func (s *Service) Logout(ctx context.Context) error {
	if err := s.storage.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Session возвращает сохранённую сессию без проверки срока
func (s *Service) Session(ctx context.Context) (*storage.Session, error) {
	return s.storage.GetSession(ctx)
}

// Token returns the stored bearer token, ErrTokenExpired once exp has passed
func (s *Service) Token(ctx context.Context) (string, error) {
	session, err := s.storage.GetSession(ctx)
	if err != nil {
		return "", err
	}

	if expired(session, s.now()) {
		return "", ErrTokenExpired
	}

	return session.AccessToken, nil
}

func parseClaims(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// expired сообщает, истёк ли срок токена; ExpiresAt == 0 означает бессрочный токен
func expired(session *storage.Session, now time.Time) bool {
	return session.ExpiresAt > 0 && !now.Before(time.Unix(session.ExpiresAt, 0))
}
