package common

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/innies-app/innies-backend/internal/http/middleware"
	"github.com/innies-app/innies-backend/internal/http/response"
)

var ErrUserNotFound = errors.New("пользователь не найден в контексте")

// CurrentUserID извлекает ID текущего пользователя из контекста gin.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, ErrUserNotFound
	}

	userID, ok := raw.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, ErrUserNotFound
	}

	return userID, nil
}

// RequireUser отвечает 401, если пользователя нет в контексте.
func RequireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return uuid.Nil, false
	}
	return userID, true
}

// UUIDParam читает UUID из параметра пути и отвечает 400 при ошибке.
func UUIDParam(c *gin.Context, paramName string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		response.BadRequest(c, "параметр "+paramName+" должен быть валидным UUID")
		return uuid.Nil, false
	}
	return parsed, true
}

// OptionalUUIDQuery читает необязательный UUID из query.
func OptionalUUIDQuery(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "параметр "+key+" должен быть валидным UUID")
		return nil, false
	}
	return &parsed, true
}

// BindJSON разбирает тело запроса и отвечает 400 при ошибке.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "некорректное тело запроса: "+err.Error())
		return false
	}
	return true
}

// ParseIntQuery читает целый параметр query с дефолтом.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetPagination извлекает limit и offset с дефолтами.
func GetPagination(c *gin.Context, defaultLimit int) (limit, offset int) {
	limit = ParseIntQuery(c, "limit", defaultLimit)
	offset = ParseIntQuery(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return
}
