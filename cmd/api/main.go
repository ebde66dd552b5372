// @title        Restaurant Inventory API
// @version      1.0
// @description  Stock tracking for restaurant kitchens: items, quantity deltas and an audit log.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/restauranthub/inventory-system/internal/api"
	"github.com/restauranthub/inventory-system/internal/core/ports"
	"github.com/restauranthub/inventory-system/internal/core/service"
	"github.com/restauranthub/inventory-system/internal/infrastructure/config"
	mongodb "github.com/restauranthub/inventory-system/internal/infrastructure/db/mongo"
	redisdb "github.com/restauranthub/inventory-system/internal/infrastructure/db/redis"
	"github.com/restauranthub/inventory-system/internal/infrastructure/imagestore"
	"github.com/restauranthub/inventory-system/internal/infrastructure/queue"
	"github.com/restauranthub/inventory-system/pkg/logger"
	"github.com/restauranthub/inventory-system/pkg/token"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		panic("load config: " + err.Error())
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "inventory-api",
		Env:     cfg.Env,
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb indexes")
	}

	// Redis only backs the idempotent replay cache; the API runs without it.
	var replay service.ReplayCache
	rdb, err := connectRedis(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, stock adjustment replay disabled")
	} else if rdb != nil {
		defer rdb.Close()
		replay = redisdb.NewReplayCache(rdb, cfg.Redis.ReplayTTL)
	}

	images, uploadDir, err := newImageStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Images.Backend).Msg("image store")
	}

	userRepo := mongodb.NewUserRepository(db)
	itemRepo := mongodb.NewInventoryRepository(db)
	movementRepo := mongodb.NewMovementRepository(db)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.MovementWorkers, movementRepo, logger.Component("movements"))
	dispatcher.Start(workerCtx)

	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens, log)
	inventoryService := service.NewInventoryService(itemRepo, movementRepo, images, dispatcher, replay, log)

	e := api.NewRouter(api.Deps{
		Auth:           authService,
		Identity:       authService,
		Tokens:         tokens,
		Inventory:      inventoryService,
		DB:             db,
		Redis:          rdb,
		Log:            log,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		UploadDir:      uploadDir,
	})
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("images", cfg.Images.Backend).Bool("replay", replay != nil).Msg("server listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Requests are drained; flush whatever audit records are still queued.
	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
}

// connectRedis returns a nil client when Redis is disabled by configuration.
func connectRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		log.Info().Msg("redis disabled, stock adjustment replay off")
		return nil, nil
	}
	return redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	})
}

// newImageStore builds the configured backend. The returned directory is
// non-empty only for the local backend, which the router then serves.
func newImageStore(cfg *config.Config) (ports.ImageStore, string, error) {
	switch cfg.Images.Backend {
	case config.ImageBackendCloudinary:
		store, err := imagestore.NewCloudinaryStore(imagestore.CloudinaryConfig{
			CloudName: cfg.Images.CloudinaryCloudName,
			APIKey:    cfg.Images.CloudinaryAPIKey,
			APISecret: cfg.Images.CloudinaryAPISecret,
			Folder:    cfg.Images.CloudinaryFolder,
		})
		if err != nil {
			return nil, "", err
		}
		return imagestore.NewInstrumented(config.ImageBackendCloudinary, store), "", nil
	default:
		store, err := imagestore.NewLocalStore(cfg.Images.UploadDir, cfg.Images.PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return imagestore.NewInstrumented(config.ImageBackendLocal, store), store.Dir(), nil
	}
}
