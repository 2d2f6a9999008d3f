package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/innies-app/innies-backend/internal/http/response"
)

// AdminKeyHeader заголовок со статическим ключом администратора.
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware пропускает запросы только с верным ключом администратора.
// Пустой ключ в конфигурации закрывает админские маршруты полностью.
func AdminKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(AdminKeyHeader)
		if key == "" || provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			response.Forbidden(c, "доступ только для администратора")
			return
		}
		c.Next()
	}
}
