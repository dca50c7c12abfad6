package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
)

// TokenTTL — срок жизни токена проверки: один год
const TokenTTL = 31536000 * time.Second

// VerificationClaims — утверждения токена, который кладётся в QR пропуска
type VerificationClaims struct {
	UID int64  `json:"uid"`
	MID string `json:"mid"`
	jwt.RegisteredClaims
}

// TokenCodec выпускает и проверяет токены HS256. Отзыва нет: единственный способ
// инвалидации — истечение exp, повторное предъявление допускается.
type TokenCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenCodec(key []byte) *TokenCodec {
	return &TokenCodec{key: key, ttl: TokenTTL, now: time.Now}
}

// WithClock подменяет источник времени (для тестов и офлайн-выпуска)
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// Mint — компактный JWT с uid, mid, iat и exp = iat + год
func (c *TokenCodec) Mint(uid int64, mid string) (string, error) {
	iat := c.now().Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, VerificationClaims{
		UID: uid,
		MID: mid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	})
	signed, err := tok.SignedString(c.key)
	if err != nil {
		return "", apperr.New(apperr.SigningFailed, err)
	}
	return signed, nil
}

// Verify проверяет подпись и срок. Ошибки: TokenInvalid (с apperr.ErrMalformed
// для неразборчивого токена) или TokenExpired.
func (c *TokenCodec) Verify(token string) (*VerificationClaims, error) {
	if token == "" {
		return nil, &apperr.Error{Kind: apperr.TokenInvalid, Field: "token", Err: apperr.ErrMalformed}
	}
	claims := &VerificationClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	switch {
	case err == nil && parsed.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apperr.New(apperr.TokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, apperr.New(apperr.TokenInvalid, fmt.Errorf("%w: %v", apperr.ErrMalformed, err))
	case err != nil:
		return nil, apperr.New(apperr.TokenInvalid, err)
	}
	return nil, apperr.Newf(apperr.TokenInvalid, "token not valid")
}
