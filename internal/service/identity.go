package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/innies-app/innies-backend/internal/pkg/apperror"
)

// IdentityVerifier проверяет токены внешнего провайдера идентификации.
// Пользователь определяется по sub, который совпадает с external_id.
type IdentityVerifier struct {
	secret []byte
	issuer string
}

func NewIdentityVerifier(secret, issuer string) *IdentityVerifier {
	return &IdentityVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify возвращает внешний идентификатор пользователя из токена.
func (v *IdentityVerifier) Verify(token string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", apperror.Wrap(err, apperror.ErrCodeUnauthorized, apperror.ErrInvalidToken.Message)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperror.Wrap(errors.New("empty subject"), apperror.ErrCodeUnauthorized, apperror.ErrInvalidToken.Message)
	}
	return claims.Subject, nil
}

// Issue выпускает токен с тем же секретом. Нужен для локальной разработки и тестов.
func (v *IdentityVerifier) Issue(externalID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   externalID,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
