package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/restauranthub/inventory-system/docs"
	"github.com/restauranthub/inventory-system/internal/api/handler"
	"github.com/restauranthub/inventory-system/internal/api/metrics"
	"github.com/restauranthub/inventory-system/internal/api/middleware"
	"github.com/restauranthub/inventory-system/internal/core/domain"
	"github.com/restauranthub/inventory-system/internal/core/ports"
	"github.com/restauranthub/inventory-system/internal/infrastructure/http/handlers"
)

// Deps is everything the router needs. DB and Redis are only used by the
// readiness probe; Redis may be nil.
type Deps struct {
	Auth      ports.AuthService
	Identity  ports.IdentityResolver
	Tokens    middleware.TokenVerifier
	Inventory ports.InventoryService

	DB    *mongo.Database
	Redis *redis.Client

	Log            zerolog.Logger
	CORSOrigins    []string
	MaxUploadBytes int64
	// UploadDir is served under /uploads when images are stored locally.
	UploadDir string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"Idempotency-Key",
		},
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Restaurant Inventory API is running"})
	})
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	health := handlers.NewHealthHandler(d.DB, d.Redis)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)

	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	api := e.Group("/api")

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)

	// --- Inventory routes ---
	inv := handler.NewInventoryHandler(d.Inventory, d.Log)
	bodyLimit := echomiddleware.BodyLimit(bodyLimitString(d.MaxUploadBytes))
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	items := api.Group("/inventory", middleware.Auth(d.Tokens, d.Identity))
	items.GET("", inv.List)
	items.GET("/stats", inv.Stats)
	items.GET("/:id", inv.Get)
	items.POST("", inv.Create, middleware.RBAC(domain.RoleAdmin, domain.RoleStaff), bodyLimit)
	items.PUT("/:id", inv.Update, adminOnly, bodyLimit)
	items.DELETE("/:id", inv.Delete, adminOnly)
	items.PATCH("/:id/stock", inv.AdjustStock)
	items.GET("/:id/movements", inv.Movements, adminOnly)

	return e
}

// bodyLimitString renders a byte count in the unit syntax BodyLimit parses.
func bodyLimitString(n int64) string {
	if n <= 0 {
		return "5M"
	}
	kb := n / 1024
	if kb < 1 {
		kb = 1
	}
	return fmt.Sprintf("%dK", kb)
}
