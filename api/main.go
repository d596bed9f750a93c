package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/inventory-vision/internal/auth"
	"github.com/rogerio-castellano/inventory-vision/internal/config"
	"github.com/rogerio-castellano/inventory-vision/internal/db"
	api "github.com/rogerio-castellano/inventory-vision/internal/http"
	"github.com/rogerio-castellano/inventory-vision/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-vision/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-vision/internal/logging"
	"github.com/rogerio-castellano/inventory-vision/internal/registration"
	"github.com/rogerio-castellano/inventory-vision/internal/repo"
	"github.com/rogerio-castellano/inventory-vision/internal/storage"
	"github.com/rogerio-castellano/inventory-vision/internal/vision"
)

// @title Inventory Vision API
// @version 1.0
// @description Classifies product condition from photos and tracks stock per barcode.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log, err := logging.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load(os.Getenv("INVISION_CONFIG_DIR"))
	if err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	database, err := db.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatal("could not connect to database", "error", err)
	}
	defer database.Close()

	ctx := context.Background()
	store, err := storage.NewGCSStore(ctx, cfg.Storage.Bucket, cfg.Storage.CDNDomain, cfg.Storage.CredentialsFile)
	if err != nil {
		log.Fatal("could not create object store client", "error", err)
	}
	defer store.Close()

	// The model may be missing or broken; the process still serves, reports
	// the failure on /readyz and fails registrations explicitly.
	runtime := vision.NewRuntime(cfg.Model.Path, cfg.Model.LabelsPath, cfg.Model.Threshold)
	if status, reason := runtime.Status(); status != vision.StatusReady {
		log.Warn("classification model unavailable", "reason", reason)
	} else {
		log.Info("classification model loaded", "path", cfg.Model.Path)
	}

	var cache *registration.ResultCache
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, idempotency replay disabled", "error", err)
		}
		cache = registration.NewResultCache(registration.NewRedisCacheStore(rdb),
			time.Duration(cfg.Redis.ResultTTLHours)*time.Hour, log)
		defer rdb.Close()
	}

	productRepo := repo.NewPostgresProductRepository(database)
	imageRepo := repo.NewPostgresStoredImageRepository(database)
	movementRepo := repo.NewPostgresMovementRepository(database)
	analyticsRepo := repo.NewPostgresAnalyticsRepository(database)

	svc := registration.NewService(log, runtime, store, productRepo, imageRepo,
		movementRepo, cache, registration.UncertainPolicy(cfg.Model.UncertainPolicy))

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.OperatorUser,
		cfg.Auth.OperatorPasswordHash, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	handlers.SetLogger(log)
	handlers.SetRegistrationService(svc)
	handlers.SetProductRepo(productRepo)
	handlers.SetImageRepo(imageRepo)
	handlers.SetMovementRepo(movementRepo)
	handlers.SetAnalyticsRepo(analyticsRepo)
	handlers.SetTokenManager(tokenManager)
	handlers.SetVisionRuntime(runtime)

	checks := []handlers.ReadinessCheck{
		{Name: "database", Check: func(ctx context.Context) error { return database.PingContext(ctx) }},
	}
	if rdb != nil {
		checks = append(checks, handlers.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	handlers.SetReadinessChecks(checks)

	api.SetLogger(log)
	api.SetTokenManager(tokenManager)
	api.SetCORSOrigins(cfg.CORS.Origins)

	go rl.StartVisitorCleanupLoop()

	r := api.NewRouter()
	log.Info("server running", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
