package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/innies-app/innies-backend/internal/http/response"
)

// ErrorHandler отвечает на ошибки, добавленные через c.Error, если хэндлер сам ничего не записал.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		response.Error(c, c.Errors.Last().Err)
	}
}
