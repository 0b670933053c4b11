package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adventureapp/adventure-api/internal/api/handler"
	"github.com/adventureapp/adventure-api/internal/api/middleware"
	"github.com/adventureapp/adventure-api/internal/core/authz"
	"github.com/adventureapp/adventure-api/internal/core/domain"
	"github.com/adventureapp/adventure-api/internal/core/ports"
	"github.com/adventureapp/adventure-api/internal/core/service"
	"github.com/adventureapp/adventure-api/internal/infrastructure/config"
	mongodb "github.com/adventureapp/adventure-api/internal/infrastructure/db/mongo"
	redisdb "github.com/adventureapp/adventure-api/internal/infrastructure/db/redis"
	"github.com/adventureapp/adventure-api/internal/pkg/password"
)

// Dependencies carries the externally-constructed pieces the router wires
// together: the stores and the engines whose lifecycles main owns.
type Dependencies struct {
	Mongo     *mongo.Database
	Redis     *redis.Client
	Story     ports.StoryEngine
	Images    ports.ImageEngine
	Objects   ports.ObjectStore
	AuditSink ports.AuditSink
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Authz.MaskForbidden, deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("adventure"))

	// --- Dependencies ---
	authority := authz.Authority{PublicClone: cfg.Authz.PublicClone}
	hasher := password.NewHasher()

	userRepo := mongodb.NewUserRepository(deps.Mongo)
	advRepo := mongodb.NewAdventureRepository(deps.Mongo)
	keyRepo := mongodb.NewAPIKeyRepository(deps.Mongo)
	auditRepo := mongodb.NewAuditRepository(deps.Mongo)

	covers := redisdb.NewCoverURLCache(deps.Redis, deps.Logger)

	authService := service.NewAuthService(userRepo, hasher, cfg.JWTSecret, cfg.TokenTTL)
	advService := service.NewAdventureService(
		advRepo, authority, deps.Story, deps.Images, deps.Objects,
		covers, deps.AuditSink, deps.Logger,
	)
	userService := service.NewUserService(userRepo, hasher, authority, deps.AuditSink, deps.Logger)
	keyService := service.NewAPIKeyService(keyRepo, authority, deps.AuditSink, deps.Logger)
	auditService := service.NewAuditService(auditRepo, authority)

	resolver := service.NewCredentialResolver(keyRepo, cfg.JWTSecret, deps.Logger)
	authMiddleware := middleware.Auth(resolver)

	authHandler := handler.NewAuthHandler(authService)
	advHandler := handler.NewAdventureHandler(advService)
	adminHandler := handler.NewAdminHandler(userService, keyService, auditService)
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Adventure routes ---
	adventures := e.Group("/v1/adventures", authMiddleware)
	adventures.POST("", advHandler.Start)
	adventures.GET("", advHandler.List)
	adventures.GET("/:id", advHandler.Get)
	adventures.PUT("/:id/continue", advHandler.Continue)
	adventures.PATCH("/:id/truncate", advHandler.Truncate)
	adventures.POST("/:id/clone", advHandler.Clone)
	adventures.DELETE("/:id", advHandler.Delete)
	adventures.GET("/:id/cover", advHandler.Cover)
	adventures.PUT("/:id/cover", advHandler.RegenerateCover)

	// --- Admin routes ---
	admin := e.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.POST("/users", adminHandler.CreateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.POST("/api-keys", adminHandler.CreateKey)
	admin.GET("/api-keys", adminHandler.ListKeys)
	admin.GET("/api-keys/:id", adminHandler.GetKey)
	admin.PATCH("/api-keys/:id", adminHandler.UpdateKey)
	admin.POST("/api-keys/:id/deactivate", adminHandler.DeactivateKey)
	admin.DELETE("/api-keys/:id", adminHandler.DeleteKey)
	admin.GET("/audit", adminHandler.ListAudit)

	return e
}
