package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innies-app/innies-backend/internal/pkg/apperror"
)

const testIdentitySecret = "identity-secret-for-tests-0123456789"

func TestIdentityVerifier_RoundTrip(t *testing.T) {
	v := NewIdentityVerifier(testIdentitySecret, "https://id.example.com")

	token, err := v.Issue("user_2abc", time.Hour)
	require.NoError(t, err)

	externalID, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", externalID)
}

func TestIdentityVerifier_Rejects(t *testing.T) {
	v := NewIdentityVerifier(testIdentitySecret, "https://id.example.com")

	expired, err := v.Issue("user_1", -time.Minute)
	require.NoError(t, err)

	otherIssuer, err := NewIdentityVerifier(testIdentitySecret, "https://evil.example.com").Issue("user_1", time.Hour)
	require.NoError(t, err)

	otherSecret, err := NewIdentityVerifier("another-secret-another-secret-0000", "https://id.example.com").Issue("user_1", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "https://id.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testIdentitySecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":    expired,
		"issuer":     otherIssuer,
		"secret":     otherSecret,
		"no subject": noSubject,
		"garbage":    "not-a-jwt",
	} {
		_, err := v.Verify(token)
		assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err), name)
	}
}
