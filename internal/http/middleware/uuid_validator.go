package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/innies-app/innies-backend/internal/http/response"
)

// UUIDValidator проверяет, что параметры пути являются валидными UUID.
// Использование: router.GET("/bookings/:id", UUIDValidator("id"), handler.GetBooking)
func UUIDValidator(paramNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range paramNames {
			raw := c.Param(name)
			if raw == "" {
				response.BadRequest(c, "параметр "+name+" обязателен")
				return
			}
			if _, err := uuid.Parse(raw); err != nil {
				response.BadRequest(c, "параметр "+name+" должен быть валидным UUID")
				return
			}
		}
		c.Next()
	}
}
