// Package auth выпускает и проверяет PASETO v4.local токены участника.
package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// DefaultTTL - время жизни токена по умолчанию.
const DefaultTTL = 24 * time.Hour

const payloadClaim = "payload"

// Payload - содержимое токена.
type Payload struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
	Address string `json:"address,omitempty"`
}

// TokenService шифрует и расшифровывает токены симметричным ключом.
type TokenService struct {
	key    paseto.V4SymmetricKey
	parser paseto.Parser
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService создаёт сервис с ключом в hex. Пустой ключ - случайный,
// токены тогда живут только до перезапуска процесса.
func NewTokenService(hexKey string, ttl time.Duration) (*TokenService, error) {
	var key paseto.V4SymmetricKey
	if hexKey == "" {
		key = paseto.NewV4SymmetricKey()
	} else {
		parsed, err := paseto.V4SymmetricKeyFromHex(hexKey)
		if err != nil {
			return nil, fmt.Errorf("parse token key: %w", err)
		}
		key = parsed
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &TokenService{
		key:    key,
		parser: paseto.NewParser(),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// KeyHex возвращает ключ в hex (для cmd/issue-token).
func (s *TokenService) KeyHex() string {
	return s.key.ExportHex()
}

// Issue выпускает токен для участника.
func (s *TokenService) Issue(principal domain.Principal) (string, error) {
	if principal.ID == "" {
		return "", errors.New("issue token: user id is required")
	}

	now := s.now()
	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.ttl))
	token.SetSubject(principal.ID)

	err := token.Set(payloadClaim, Payload{
		UserID:  principal.ID,
		IsAdmin: principal.IsAdmin,
		Address: principal.Address,
	})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token.V4Encrypt(s.key, nil), nil
}

// Verify расшифровывает токен и возвращает участника. Любая проблема - ErrUnauthorized.
func (s *TokenService) Verify(raw string) (domain.Principal, error) {
	if raw == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}

	token, err := s.parser.ParseV4Local(s.key, raw, nil)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	var payload Payload
	if err := token.Get(payloadClaim, &payload); err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if payload.UserID == "" {
		return domain.Principal{}, fmt.Errorf("%w: token has no user id", domain.ErrUnauthorized)
	}

	return domain.Principal{
		ID:      payload.UserID,
		IsAdmin: payload.IsAdmin,
		Address: payload.Address,
	}, nil
}
