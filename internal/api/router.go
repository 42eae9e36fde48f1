package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/solofunds/kyc-service/internal/api/handler"
	"github.com/solofunds/kyc-service/internal/api/middleware"
	"github.com/solofunds/kyc-service/internal/core/ports"
)

// RouterDeps carries everything the router needs to wire the endpoints.
type RouterDeps struct {
	KYC     ports.KYCService
	Limiter middleware.Allower
	Mongo   *mongo.Database
	Redis   *redis.Client
	Log     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("kyc"))

	// --- KYC verification steps ---
	kycHandler := handler.NewKYCHandler(deps.KYC)
	steps := e.Group("/kyc", middleware.AttemptLimit(deps.Limiter, deps.Log))
	steps.POST("/step-one/", kycHandler.StepOne)
	steps.POST("/step-two/", kycHandler.StepTwo)
	steps.POST("/step-three/", kycHandler.StepThree)

	// Status lookup is read-only and not attempt-limited.
	e.GET("/kyc/status/:user_id", kycHandler.Status)

	// --- Health probes and metrics (no limiter) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
