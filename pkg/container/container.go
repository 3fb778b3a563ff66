package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/cache"
	"library-backend/pkg/clock"
	pkgdb "library-backend/pkg/database"
	"library-backend/pkg/jwt"

	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"
	dashboardHandler "library-backend/internal/domains/dashboard/handler"
	dashboardRepo "library-backend/internal/domains/dashboard/repository"
	dashboardService "library-backend/internal/domains/dashboard/service"
	lendingHandler "library-backend/internal/domains/lending/handler"
	"library-backend/internal/domains/lending/policy"
	lendingRepo "library-backend/internal/domains/lending/repository"
	lendingService "library-backend/internal/domains/lending/service"
	memberHandler "library-backend/internal/domains/member/handler"
	memberRepo "library-backend/internal/domains/member/repository"
	memberService "library-backend/internal/domains/member/service"
)

// Container chứa toàn bộ dependencies của application
// Thứ tự init: Config -> Infrastructure -> Repositories -> Services -> Handlers
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Transactor pkgdb.Transactor
	JWTManager *jwt.Manager
	Clock      clock.Clock
	Policy     *policy.Engine

	// Repositories
	BookRepo      bookRepo.RepositoryInterface
	MemberRepo    memberRepo.RepositoryInterface
	LendingRepo   lendingRepo.RepositoryInterface
	DashboardRepo dashboardRepo.StatsRepository

	// Services
	BookService      bookService.ServiceInterface
	MemberService    memberService.ServiceInterface
	LendingService   lendingService.ServiceInterface
	DashboardService dashboardService.ServiceInterface

	// Handlers
	BookHandler      *bookHandler.Handler
	MemberHandler    *memberHandler.Handler
	LendingHandler   *lendingHandler.Handler
	DashboardHandler *dashboardHandler.Handler
}

// NewContainer build dependency graph từ config đã load
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Msg("Initializing DI Container...")

	c := &Container{
		Config: cfg,
		Clock:  clock.New(),
	}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	log.Info().Msg("Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	c.Transactor = pkgdb.NewTransactor(db.Pool)
	log.Info().Msg("Database connected")

	// ========================================
	// STEP 2: CACHE (idempotency store)
	// ========================================
	c.Cache = c.initCache(ctx)

	// ========================================
	// STEP 3: AUTH + POLICY
	// ========================================
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Hour)
	c.Policy = policy.NewEngine(policy.Rules{
		FinePerDay:     cfg.Lending.FinePerDay,
		MaxOpenIssues:  cfg.Lending.MaxOpenIssues,
		LoanPeriodDays: cfg.Lending.LoanPeriodDays,
	})
	log.Info().
		Str("fine_per_day", cfg.Lending.FinePerDay.StringFixed(2)).
		Int("max_open_issues", cfg.Lending.MaxOpenIssues).
		Int("loan_period_days", cfg.Lending.LoanPeriodDays).
		Msg("Lending policy loaded")

	c.initRepositories()
	log.Info().Msg("Repositories initialized")

	c.initServices()
	log.Info().Msg("Services initialized")

	c.initHandlers()
	log.Info().Msg("Handlers initialized")

	log.Info().Msg("DI Container initialized successfully")
	return c, nil
}

// initCache dùng Redis khi bật, fallback sang in-memory nếu Redis không kết nối được
// Redis failure không critical: idempotency vẫn hoạt động trong phạm vi 1 process
func (c *Container) initCache(ctx context.Context) cache.Cache {
	if !c.Config.Redis.Enabled {
		log.Info().Msg("Redis disabled, using in-memory cache")
		return cache.NewMemoryCache()
	}

	log.Info().Str("addr", c.Config.Redis.Host).Msg("Connecting to Redis...")
	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical), using in-memory cache")
		_ = rc.Close()
		return cache.NewMemoryCache()
	}
	return rc
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.MemberRepo = memberRepo.NewPostgresRepository(pool)
	c.LendingRepo = lendingRepo.NewPostgresRepository(pool)
	c.DashboardRepo = dashboardRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.BookService = bookService.NewService(c.BookRepo)
	c.MemberService = memberService.NewService(c.MemberRepo)

	// Lending dùng trực tiếp book/member repository để lock row trong transaction
	c.LendingService = lendingService.NewService(
		c.Transactor,
		c.LendingRepo,
		c.BookRepo,
		c.MemberRepo,
		c.Policy,
		c.Clock,
	)

	c.DashboardService = dashboardService.NewService(
		c.DashboardRepo,
		c.BookRepo,
		c.MemberRepo,
		c.LendingService,
		c.Policy,
		c.Clock,
	)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.MemberHandler = memberHandler.NewHandler(c.MemberService)
	c.LendingHandler = lendingHandler.NewHandler(c.LendingService)
	c.DashboardHandler = dashboardHandler.NewHandler(c.DashboardService, c.Clock)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources...")

	if c.DB != nil {
		c.DB.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		} else {
			log.Info().Msg("Redis connections closed")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
