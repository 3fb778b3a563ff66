package middleware

import (
	"net/http"

	"library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RequireRole chặn request nếu role (set bởi AuthMiddleware) không nằm trong roles
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(RoleKey)
		if _, ok := allowed[role]; !ok {
			response.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient role")
			c.Abort()
			return
		}

		c.Next()
	}
}
