package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/davecgh/go-spew/spew"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/finance-tracker/api"
	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/classifier"
	"github.com/carson-networks/finance-tracker/internal/config"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/operator"
	"github.com/carson-networks/finance-tracker/internal/ratelimit"
	"github.com/carson-networks/finance-tracker/internal/service"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/cache"
	"github.com/carson-networks/finance-tracker/internal/storage/migrations"
)

const redisKeyPrefix = "ledger"

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err := envConfig.Validate(); err != nil {
		logrus.WithError(err).Fatal("config.Validate")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("finance-tracker starting")
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.Debug(spew.Sdump(envConfig.Redacted()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if envConfig.MigrateOnStart && envConfig.LedgerBackend == config.BackendPostgres {
		result, err := migrations.Up(envConfig.PostgresURL())
		if err != nil {
			logger.WithError(err).Fatal("migrations.Up")
			return
		}
		logger.WithFields(logrus.Fields{
			"preMigrationVersion":  result.PreMigrationVersion,
			"postMigrationVersion": result.PostMigrationVersion,
		}).Info("Migration status")
	}

	dbStorage, err := storage.NewStorage(ctx, envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	var redisClient redis.UniversalClient
	if len(envConfig.RedisAddress) != 0 {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     envConfig.RedisAddress,
			Password: envConfig.RedisPassword,
			DB:       envConfig.RedisDB,
		})
		defer redisClient.Close()
	}

	var invalidator service.SummaryInvalidator
	if redisClient != nil && envConfig.SummaryCacheTTL > 0 {
		summaryCache := cache.New(redisClient, redisKeyPrefix, envConfig.SummaryCacheTTL, logger)
		dbStorage.Transactions = summaryCache.Wrap(dbStorage.Transactions)
		invalidator = summaryCache
		logger.WithField("ttl", envConfig.SummaryCacheTTL.String()).Info("summary cache enabled")
	}

	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter()
	if envConfig.RateLimitBackend == config.RateLimitBackendRedis {
		limiter = ratelimit.NewRedisLimiter(redisClient, redisKeyPrefix)
	}

	var predictor classifier.Predictor
	model, err := classifier.Load(envConfig.ClassifierModelPath, envConfig.ClassifierMetaPath)
	switch {
	case errors.Is(err, classifier.ErrArtifactsMissing):
		logger.WithError(err).Warn("classifier disabled")
	case err != nil:
		logger.WithError(err).Error("classifier.Load, continuing without predictions")
	default:
		predictor = model
		logger.WithField("modelVersion", model.ModelVersion()).Info("classifier loaded")
	}

	location, _ := time.LoadLocation(envConfig.LedgerTimezone)

	delegator := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers, logger)
	delegator.Start()
	defer delegator.Stop()

	svc := service.NewService(dbStorage, delegator, service.Options{
		Location:    location,
		Currency:    envConfig.LedgerCurrency,
		Predictor:   predictor,
		Invalidator: invalidator,
		Logger:      logger,
	})

	inserted, err := svc.Category.SeedDefaults(ctx)
	if err != nil {
		logger.WithError(err).Fatal("CategoryService.SeedDefaults")
		return
	}
	if inserted > 0 {
		logger.WithField("inserted", inserted).Info("seeded default categories")
	}

	httpRest := api.Rest{
		Logger:        logger,
		Port:          envConfig.Port,
		Storage:       dbStorage,
		Service:       svc,
		Authenticator: auth.NewAuthenticator(envConfig.JWTSecret, envConfig.JWTTTL),
		Limiter:       limiter,
		SummaryRule: ratelimit.Rule{
			Scope:  ratelimit.DashboardSummaryScope,
			Limit:  envConfig.RateLimitRequests,
			Window: envConfig.RateLimitWindow,
		},
		CORSOrigins: envConfig.CORSOrigins,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpRest.Serve(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("finance-tracker stopped with error")
		return
	}
	logger.Info("finance-tracker stopped")
}
