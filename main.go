package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tracker/src/api"
	"tracker/src/api/controllers"
	"tracker/src/api/handlers"
	"tracker/src/cache"
	"tracker/src/config"
	"tracker/src/database"
	"tracker/src/repositories"
	"tracker/src/utils"
	aws_handler "tracker/src/utils/aws"
	redis_utils "tracker/src/utils/redis"

	"github.com/go-chi/jwtauth"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		logrus.WithError(err).Error("Error while loading config")
		os.Exit(1)
	}
	logger := utils.NewLogger(utils.ParseLevel(cfg.Logging.Level), cfg.Logging.ToFile, cfg.Logging.FilePath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("Error while running")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	if err := resolveSecrets(ctx, cfg); err != nil {
		return err
	}

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	categoryCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}

	controller := controllers.NewTransactionsController(repo, categoryCache, cfg.Transactions)
	handler := handlers.NewHandler(controller, cfg.Service.RequestTimeout)
	server := api.NewServer(handler, api.ServerOptions{
		TokenAuth:      jwtauth.New("HS256", []byte(cfg.Auth.JWTSecret), nil),
		Logger:         logger,
		LoginPath:      cfg.Auth.LoginPath,
		AllowedOrigins: cfg.Service.AllowedOrigins,
	})
	httpServer := api.NewHTTPServer(server, cfg.Service.Port)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", httpServer.Addr).Info("Starting server")
		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// resolveSecrets swaps in the SQL password from Secrets Manager when configured.
func resolveSecrets(ctx context.Context, cfg *config.Config) error {
	if cfg.Databases.SQL.PasswordSecretID == "" {
		return nil
	}
	secrets, err := aws_handler.NewSecretManagerFromConfig(cfg.AWS)
	if err != nil {
		return err
	}
	return secrets.ResolvePassword(ctx, &cfg.Databases.SQL)
}

func openStore(ctx context.Context, cfg *config.Config) (repositories.TransactionItemRepository, func(), error) {
	switch cfg.Service.Store {
	case config.PGX:
		pool, err := database.SetupDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPgxTransactionItemRepository(pool), pool.Close, nil
	case config.MONGO:
		client, collection, err := database.SetupMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return repositories.NewMongoTransactionItemRepository(collection), closeFn, nil
	default:
		db, err := database.SetupGorm(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repositories.NewGormTransactionItemRepository(db), closeFn, nil
	}
}

func openCache(ctx context.Context, cfg *config.Config) (cache.CategoryTotalsCache, error) {
	redisCfg := cfg.Databases.Redis
	if !redisCfg.Enabled {
		return cache.NewMemoryCategoryCache(redisCfg.TTL), nil
	}
	handler, err := redis_utils.NewRedisHandler(ctx, &redisCfg)
	if err != nil {
		return nil, err
	}
	return cache.NewRedisCategoryCache(handler, redisCfg.TTL), nil
}
