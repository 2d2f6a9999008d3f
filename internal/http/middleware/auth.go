package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// TokenVerifier извлекает внешний идентификатор пользователя из токена.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserLookup находит локального пользователя по внешнему идентификатору.
type UserLookup interface {
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
}

// Authenticator связывает токен провайдера идентификации с локальным пользователем.
type Authenticator struct {
	tokens TokenVerifier
	users  UserLookup
}

func NewAuthenticator(tokens TokenVerifier, users UserLookup) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Resolve возвращает пользователя по сырому токену. Пользователь должен быть
// заранее создан вебхуком провайдера.
func (a *Authenticator) Resolve(ctx context.Context, token string) (*models.User, error) {
	externalID, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := a.users.GetByExternalID(ctx, externalID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.New(apperror.ErrCodeUnauthorized, "пользователь ещё не зарегистрирован")
		}
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	return user, nil
}

// AuthMiddleware проверяет Bearer токен и кладёт userID и роль в контекст.
func AuthMiddleware(auth *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		user, err := auth.Resolve(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextRoleKey, user.Role)
		c.Next()
	}
}
