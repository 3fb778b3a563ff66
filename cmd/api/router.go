package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/middleware"
	"library-backend/pkg/cache"
	"library-backend/pkg/container"
)

const adminRole = "admin"

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
	)

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheckHandler(c.DB, c.Cache, c.Config.App.Version))

	// Mọi route còn lại cần bearer token khi AUTH_ENABLED=true
	api := v1.Group("")
	if c.Config.JWT.Enabled {
		api.Use(middleware.AuthMiddleware(c.JWTManager))
	}
	deleteGuard := requireAdmin(c.Config.JWT.Enabled)

	setupBookRoutes(api, c, deleteGuard)
	setupMemberRoutes(api, c, deleteGuard)
	setupIssueRecordRoutes(api, c)
	setupDashboardRoutes(api, c)

	return router
}

// requireAdmin chỉ có ý nghĩa khi có auth, nếu không thì cho qua
func requireAdmin(authEnabled bool) gin.HandlerFunc {
	if !authEnabled {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RequireRole(adminRole)
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(api *gin.RouterGroup, c *container.Container, deleteGuard gin.HandlerFunc) {
	books := api.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.POST("", c.BookHandler.CreateBook)
		books.GET("/:id", c.BookHandler.GetBook)
		books.PUT("/:id", c.BookHandler.UpdateBook)
		books.DELETE("/:id", deleteGuard, c.BookHandler.DeleteBook)
	}
}

// ========================================
// MEMBER ROUTES
// ========================================
func setupMemberRoutes(api *gin.RouterGroup, c *container.Container, deleteGuard gin.HandlerFunc) {
	members := api.Group("/members")
	{
		members.GET("", c.MemberHandler.ListMembers)
		members.POST("", c.MemberHandler.CreateMember)
		members.GET("/search", c.LendingHandler.SearchMember)
		members.GET("/:id", c.MemberHandler.GetMember)
		members.PUT("/:id", c.MemberHandler.UpdateMember)
		members.DELETE("/:id", deleteGuard, c.MemberHandler.DeleteMember)
	}
}

// ========================================
// ISSUE RECORD ROUTES
// ========================================
func setupIssueRecordRoutes(api *gin.RouterGroup, c *container.Container) {
	idempotent := middleware.Idempotency(c.Cache, c.Config.Redis.IdempotencyTTL)

	records := api.Group("/issue-records")
	{
		records.GET("", c.LendingHandler.List)
		records.POST("", idempotent, c.LendingHandler.Issue)
		records.GET("/:id", c.LendingHandler.Details)
		records.GET("/:id/return", c.LendingHandler.ReturnPreview)
		records.POST("/:id/return", idempotent, c.LendingHandler.Return)
	}
}

// ========================================
// DASHBOARD ROUTES
// ========================================
func setupDashboardRoutes(api *gin.RouterGroup, c *container.Container) {
	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("", c.DashboardHandler.Summary)
		dashboard.GET("/overdue/export", c.DashboardHandler.ExportOverdue)
	}
}

// ========================================
// HEALTH CHECK
// ========================================

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// poolStatser - optional, PostgresDB trả thêm pool stats
type poolStatser interface {
	Stats() *database.PoolStats
}

func healthCheckHandler(db healthChecker, store cache.Cache, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
		}

		dbStatus := "ok"
		if db == nil {
			dbStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := db.HealthCheck(ctx); err != nil {
				dbStatus = "error: " + err.Error()
			}
			if ps, ok := db.(poolStatser); ok {
				health["pool"] = ps.Stats()
			}
		}

		cacheStatus := "ok"
		if store == nil {
			cacheStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := store.Ping(ctx); err != nil {
				cacheStatus = "error: " + err.Error()
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			health["status"] = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
