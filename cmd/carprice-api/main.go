// Command carprice-api runs the prediction serving API.
//
// All process-wide state (loaded model, feature metadata, Redis client,
// orchestrator) is built once here and passed down explicitly; nothing
// is mutated after startup.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/atlasml/carprice-api/internal/api"
	"github.com/atlasml/carprice-api/internal/config"
	"github.com/atlasml/carprice-api/pkg/cache"
	"github.com/atlasml/carprice-api/pkg/logging"
	"github.com/atlasml/carprice-api/pkg/model"
	"github.com/atlasml/carprice-api/pkg/prediction"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger := logging.Setup(logging.DefaultConfig())
		logger.Fatal().Err(err).Msg("configuration failed")
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisClient.Close()

	// An unreachable Redis is degraded mode, not a startup failure:
	// every cache read then falls through to inference.
	redisConnected := pingWithRetry(context.Background(), redisClient, logger)
	if redisConnected {
		logger.Info().Str("addr", cfg.Redis.Addr()).Msg("connected to redis")
		prediction.RedisConnected.Set(1)
	} else {
		logger.Warn().Str("addr", cfg.Redis.Addr()).Msg("redis unreachable, serving without cache")
		prediction.RedisConnected.Set(0)
	}

	// A missing model is not: the service still starts but consistently
	// reports unavailability on every prediction.
	var provider prediction.Provider
	mdl, err := model.Load(cfg.ModelPath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.ModelPath).Msg("model load failed, predictions unavailable")
		prediction.ModelLoaded.Set(0)
	} else {
		provider = mdl
		prediction.ModelLoaded.Set(1)
		logger.Info().Str("version", cfg.ModelVersion).Msg("model loaded")
	}

	featuresLoaded := false
	featureInfo, err := model.LoadFeatureInfo(cfg.FeatureInfoPath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.FeatureInfoPath).Msg("feature info load failed")
	} else {
		featuresLoaded = true
		if mdl != nil && !featureInfo.Covers(mdl) {
			logger.Warn().Msg("feature info does not cover all model columns")
		}
	}

	manager := cache.NewManager(redisClient, cfg.Redis.TTL())
	svc := prediction.New(prediction.Config{
		Provider:     provider,
		Store:        manager,
		Audit:        manager,
		ModelVersion: cfg.ModelVersion,
	})

	srv := api.NewServer(cfg.Server.Addr(), logger)
	srv.AddController(
		api.NewPredictionController(svc, logging.NewLogger("api")),
		api.NewSystemController(svc, api.SystemStatus{
			FeaturesLoaded: featuresLoaded,
			RedisConnected: redisConnected,
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", cfg.Server.Addr()).Msg("starting carprice-api")
	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("shutdown complete")
}

// pingWithRetry probes Redis with exponential backoff, bounded so a dead
// backend cannot block startup.
func pingWithRetry(ctx context.Context, client *redis.Client, logger zerolog.Logger) bool {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = 10 * time.Second

	err := backoff.Retry(func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis ping failed, retrying")
			return err
		}
		return nil
	}, backoff.WithContext(policy, ctx))

	return err == nil
}
