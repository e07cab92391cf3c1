package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/bookmarket/seller-system/docs"
	"github.com/bookmarket/seller-system/internal/api/handler"
	"github.com/bookmarket/seller-system/internal/api/middleware"
	"github.com/bookmarket/seller-system/internal/core/service"
	"github.com/bookmarket/seller-system/internal/infrastructure/config"
	mongodb "github.com/bookmarket/seller-system/internal/infrastructure/db/mongo"
	redisdb "github.com/bookmarket/seller-system/internal/infrastructure/db/redis"
	"github.com/bookmarket/seller-system/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit sink is created by the caller because its workers outlive any
// single request.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, audit service.AuditSink) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("sellers"))

	// --- Dependencies ---
	sellerRepo := mongodb.NewSellerRepository(db)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	throttle := redisdb.NewLoginThrottle(rdb)
	sellerService := service.NewSellerService(sellerRepo, hasher, throttle, audit, log)
	issuer := service.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)

	sellerHandler := handler.NewSellerHandler(sellerService)
	tokenHandler := handler.NewTokenHandler(sellerService, issuer)
	authMiddleware := middleware.Auth(issuer, sellerService)

	// --- Seller routes ---
	seller := e.Group("/seller")
	seller.POST("/", sellerHandler.Create)
	seller.GET("/", sellerHandler.List)
	seller.GET("/me", sellerHandler.Me, authMiddleware)
	seller.GET("/:id", sellerHandler.Get)
	seller.PUT("/:id", sellerHandler.Update)
	seller.DELETE("/:id", sellerHandler.Delete)

	// --- Token route ---
	e.POST("/token/", tokenHandler.Issue)

	// --- Health probes (no auth required) ---
	health := handlers.NewHealth(db, rdb)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
