package middleware

import (
	"strings"

	"library-backend/internal/shared/response"
	"library-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	StaffIDKey = "staff_id"
	RoleKey    = "role"
)

// TokenValidator là phần của jwt.Manager mà middleware cần
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware - Middleware xác thực JWT token của thủ thư
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		// 2. Extract token từ "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify và parse JWT
		claims, err := validator.ValidateAccessToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("Token rejected")
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(StaffIDKey, claims.StaffID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}
