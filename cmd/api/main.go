package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"eshop-catalog/internal/config"
	"eshop-catalog/internal/database"
	"eshop-catalog/internal/logger"
	"eshop-catalog/internal/metrics"
	"eshop-catalog/internal/repository"
	"eshop-catalog/internal/server"

	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 30 seconds to finish the requests it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(ctx); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	done <- true
}

// openStore acquires the store handle for the configured driver
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (database.Service, repository.ProductRepository, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pg, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(ctx, pg.DB(), log); err != nil {
			pg.Close(ctx)
			return nil, nil, err
		}
		return pg, repository.NewPostgresProductRepository(pg.Pool()), nil

	case config.DriverMemory:
		repo := repository.NewMemoryProductRepository()
		if cfg.Store.SeedFile != "" {
			products, err := database.LoadSeedFile(cfg.Store.SeedFile)
			if err != nil {
				return nil, nil, err
			}
			repo.Add(products...)
			log.Info("Seeded in-memory catalog", zap.Int("products", len(products)))
		}
		return database.Memory{}, repo, nil

	default:
		mongoService, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Pinged your deployment. You successfully connected to MongoDB!",
			zap.String("database", cfg.Mongo.Database),
			zap.String("collection", cfg.Mongo.Collection),
		)
		return mongoService, repository.NewMongoProductRepository(mongoService.Products()), nil
	}
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info("Starting product catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
	)

	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, productRepo, err := openStore(connectCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to open product store", zap.Error(err))
	}

	srv := server.NewServer(cfg, log, store, productRepo, metrics.New(cfg.Metrics.Namespace))

	done := make(chan bool, 1)

	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
