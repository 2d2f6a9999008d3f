package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/innies-app/innies-backend/internal/pkg/apperror"
)

// VideoGrant права участника видеокомнаты.
type VideoGrant struct {
	Room         string `json:"room"`
	RoomJoin     bool   `json:"roomJoin"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
}

type videoClaims struct {
	jwt.RegisteredClaims
	Name  string     `json:"name,omitempty"`
	Video VideoGrant `json:"video"`
}

// VideoToken токен доступа к видеосерверу.
type VideoToken struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VideoTokenIssuer подписывает токены для комнат видеозвонков.
type VideoTokenIssuer struct {
	apiKey    string
	apiSecret []byte
	serverURL string
	ttl       time.Duration
	now       func() time.Time
}

func NewVideoTokenIssuer(apiKey, apiSecret, serverURL string, ttl time.Duration) *VideoTokenIssuer {
	return &VideoTokenIssuer{
		apiKey:    apiKey,
		apiSecret: []byte(apiSecret),
		serverURL: serverURL,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Issue выпускает токен для входа identity в комнату room.
func (i *VideoTokenIssuer) Issue(room, identity, name string) (*VideoToken, error) {
	room = strings.TrimSpace(room)
	identity = strings.TrimSpace(identity)
	if room == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "не указана комната")
	}
	if identity == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "не указан участник звонка")
	}

	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := videoClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.apiKey,
			Subject:   identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name: strings.TrimSpace(name),
		Video: VideoGrant{
			Room:         room,
			RoomJoin:     true,
			CanPublish:   true,
			CanSubscribe: true,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.apiSecret)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &VideoToken{Token: token, URL: i.serverURL, ExpiresAt: expiresAt}, nil
}
