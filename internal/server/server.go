// Package server contains HTTP and WebSocket handlers for the catalog API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "vc7day/docs" // swagger docs
	"vc7day/internal/bootstrap"
	"vc7day/internal/config"
	"vc7day/internal/featureflags"
	"vc7day/internal/middleware"
	"vc7day/internal/models"
	"vc7day/internal/notifications"
	"vc7day/internal/repository"
	"vc7day/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// wireableHub is implemented by every WebSocket hub that can be wired to
// Redis pub/sub and gracefully shut down.
type wireableHub interface {
	Name() string
	StartWiring(ctx context.Context, n *notifications.Notifier) error
	Shutdown(ctx context.Context) error
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	store          repository.DocumentRepository
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	notifier       *notifications.Notifier
	videoHub       *notifications.VideoHub
	hubs           []wireableHub
	featureFlags   *featureflags.Manager
	catalogService *service.CatalogService
	adminService   *service.AdminService
	authService    *service.AuthService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, rt.DB, rt.Redis, rt.Store)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// db and redisClient may be nil.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	store repository.DocumentRepository,
) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("document store is required")
	}

	authService, err := service.NewAuthService(
		cfg.AdminPassword,
		cfg.SessionSecret,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute,
		redisClient,
	)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		store:          store,
		promMiddleware: middleware.InitMetrics("vc7day-api"),
		shutdownCtx:    ctx,
		shutdownFn:     cancel,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		authService:    authService,
	}

	// Without Redis the notifier delivers straight to the local hub.
	server.videoHub = notifications.NewVideoHub()
	server.notifier = notifications.NewNotifier(redisClient, server.videoHub)
	server.hubs = []wireableHub{server.videoHub}

	server.catalogService = service.NewCatalogService(store, server.notifier)
	server.adminService = service.NewAdminService(store, server.featureFlags, server.notifier)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Tracing must run before the context middleware so the trace id is set
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate request, session and trace ids
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}
	app.Use(middleware.MetricsMiddleware())

	// Security headers
	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5000,http://localhost:5173,http://127.0.0.1:5000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "VC7Day Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Public catalog
	api.Get("/home", s.GetHome)
	api.Get("/search", s.Search)

	categories := api.Group("/categories")
	categories.Get("/", s.GetCategories)
	categories.Get("/:id", s.GetCategory)

	// Specific /search routes before generic /:id
	playlists := api.Group("/playlists")
	playlists.Get("/search", s.SuggestPlaylists)
	playlists.Get("/:id", s.GetPlaylist)

	videos := api.Group("/videos")
	videos.Get("/search", s.SuggestVideos)
	videos.Post("/:id/like", middleware.RateLimit(
		s.redis, 30, time.Minute, "like"), s.LikeVideo)
	videos.Get("/:id", s.WatchVideo)

	// Live counters
	app.Get("/ws/videos/:id", s.requireWebSocketUpgrade, s.VideoCountersHandler())

	// Admin login is open, everything else requires a session
	adminAuth := api.Group("/admin")
	adminAuth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	admin := api.Group("/admin", middleware.AdminRequired(s.authService))
	admin.Post("/logout", s.Logout)
	admin.Get("/", s.GetDashboard)
	admin.Get("/feature-flags", s.GetFeatureFlags)

	admin.Get("/settings", s.GetSettings)
	admin.Put("/settings", s.UpdateSettings)

	admin.Get("/categories", s.AdminListCategories)
	admin.Post("/categories", s.CreateCategory)
	admin.Delete("/categories/:id", s.DeleteCategory)

	admin.Get("/playlists", s.AdminListPlaylists)
	admin.Post("/playlists", s.CreatePlaylist)
	admin.Get("/playlists/:id", s.AdminGetPlaylist)
	admin.Put("/playlists/:id", s.UpdatePlaylist)
	admin.Delete("/playlists/:id", s.DeletePlaylist)

	admin.Get("/videos", s.AdminListVideos)
	admin.Post("/videos", s.CreateVideo)
	admin.Get("/videos/:id", s.AdminGetVideo)
	admin.Put("/videos/:id", s.UpdateVideo)
	admin.Delete("/videos/:id", s.DeleteVideo)

	admin.Get("/export", s.ExportDocument)
	admin.Post("/import", s.ImportDocument)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if _, err := s.store.Load(ctx); err != nil {
		storeStatus = "unhealthy"
	}

	dbStatus := "unused"
	if s.db != nil {
		dbStatus = "healthy"
		sqlDB, err := s.db.DB()
		if err != nil {
			dbStatus = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = "unhealthy"
		}
	}

	// Redis is optional: the catalog runs without it.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storeStatus == "unhealthy" || dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "VC7Day",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"store":    storeStatus,
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NewApp builds the Fiber app with the server's error handler.
func (s *Server) NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "VC7Day API",
		BodyLimit: 10 * 1024 * 1024, // 10MB import limit
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, fe)
			}
			log.Printf("Error: %v", err)
			return models.RespondWithAppError(c, err)
		},
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := s.NewApp()
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire all hubs to the Redis subscriber if available
	for _, h := range s.hubs {
		h := h
		go func() {
			if err := h.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start %s wiring: %v", h.Name(), err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop all wiring goroutines
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	// Shutdown the HTTP/WS server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close WebSocket connections gracefully
	for _, h := range s.hubs {
		if err := h.Shutdown(ctx); err != nil {
			log.Printf("error shutting down %s: %v", h.Name(), err)
		}
	}

	// Close database connection
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Printf("error closing sql DB: %v", cerr)
			}
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
