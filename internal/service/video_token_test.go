package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innies-app/innies-backend/internal/pkg/apperror"
)

func TestVideoTokenIssuer_Issue(t *testing.T) {
	issuer := NewVideoTokenIssuer("devkey", "video-secret-for-tests-0123456789", "wss://video.example.com", 2*time.Hour)
	now := time.Now().Truncate(time.Second)
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue("booking-42", "user-1", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "wss://video.example.com", token.URL)
	assert.Equal(t, now.Add(2*time.Hour), token.ExpiresAt)

	var claims videoClaims
	_, err = jwt.ParseWithClaims(token.Token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("video-secret-for-tests-0123456789"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "devkey", claims.Issuer)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, VideoGrant{Room: "booking-42", RoomJoin: true, CanPublish: true, CanSubscribe: true}, claims.Video)
}

func TestVideoTokenIssuer_Issue_RequiresRoomAndIdentity(t *testing.T) {
	issuer := NewVideoTokenIssuer("devkey", "secret", "wss://video.example.com", time.Hour)

	_, err := issuer.Issue(" ", "user-1", "")
	assert.True(t, apperror.IsValidation(err))

	_, err = issuer.Issue("room", "", "")
	assert.True(t, apperror.IsValidation(err))
}
