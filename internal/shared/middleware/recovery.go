package middleware

import (
	"library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("path", c.Request.URL.Path).
					Interface("error", err).
					Msg("Panic recovered")

				response.InternalServerError(c, "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
