package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS cho phép frontend admin gọi API
// "*" trong origins nghĩa là allow all (không kèm credentials)
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", IdempotencyHeader, RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader, IdempotencyReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
