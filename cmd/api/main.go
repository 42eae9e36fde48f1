package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solofunds/kyc-service/internal/api"
	"github.com/solofunds/kyc-service/internal/core/service"
	"github.com/solofunds/kyc-service/internal/infrastructure/config"
	mongodb "github.com/solofunds/kyc-service/internal/infrastructure/db/mongo"
	redisdb "github.com/solofunds/kyc-service/internal/infrastructure/db/redis"
	"github.com/solofunds/kyc-service/internal/infrastructure/provider/accura"
	"github.com/solofunds/kyc-service/internal/infrastructure/queue"
	"github.com/solofunds/kyc-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	kycRepo := mongodb.NewKYCRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	if err := kycRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create kyc_users indexes")
	}
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create kyc_audit indexes")
	}

	// --- Identity provider ---
	provider := accura.NewClient(accura.Config{
		BaseURL:      cfg.Accura.BaseURL,
		OCRKey:       cfg.Accura.OCRKey,
		FaceMatchKey: cfg.Accura.FaceMatchKey,
		Timeout:      cfg.Accura.Timeout,
	}, log)

	// --- Audit trail (async, best-effort) ---
	auditDispatcher := queue.NewAuditDispatcher(cfg.KYC.AuditWorkers, auditRepo, log)
	auditDispatcher.Start(ctx)

	// --- Core ---
	kycService := service.NewKYCService(kycRepo, provider, auditDispatcher, log)
	limiter := redisdb.NewAttemptLimiter(rdb, cfg.KYC.MaxAttemptsPerHour, time.Hour)

	e := api.NewRouter(api.RouterDeps{
		KYC:     kycService,
		Limiter: limiter,
		Mongo:   db,
		Redis:   rdb,
		Log:     log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("kyc service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
