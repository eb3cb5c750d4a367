package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-catalog/internal/config"
	"product-catalog/internal/database"
	"product-catalog/internal/logger"
	"product-catalog/internal/server"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
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

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// connectRedis returns nil when Redis is disabled
func connectRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	if !cfg.Enabled {
		log.Info("Redis disabled; product cache and rate limiting are off")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}

	log.Info("Connected to Redis", zap.String("addr", cfg.Addr()))
	return client, nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting product catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	dbService, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	log.Info("Database health check", zap.Any("health", dbService.Health()))

	if err := database.RunMigrations(dbService.DB(), log); err != nil {
		dbService.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed successfully")

	redisClient, err := connectRedis(ctx, cfg.Redis, log)
	if err != nil {
		dbService.Close()
		return err
	}

	srv := server.NewServer(cfg, log, dbService, redisClient)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
	return nil
}

func migrate(cfg *config.Config, log *zap.Logger, status bool) error {
	dbService, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	defer dbService.Close()

	if status {
		return database.GetMigrationStatus(dbService.DB())
	}

	if err := database.RunMigrations(dbService.DB(), log); err != nil {
		return err
	}
	log.Info("Database migrations completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	cmd := &cli.Command{
		Name:  "catalog",
		Usage: "Product catalog HTTP API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, cfg, log)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run migrations and start the HTTP server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, cfg, log)
				},
			},
			{
				Name:  "migrate",
				Usage: "Manage the database schema",
				Commands: []*cli.Command{
					{
						Name:  "up",
						Usage: "Apply all pending migrations",
						Action: func(ctx context.Context, c *cli.Command) error {
							return migrate(cfg, log, false)
						},
					},
					{
						Name:  "status",
						Usage: "Print the state of every migration",
						Action: func(ctx context.Context, c *cli.Command) error {
							return migrate(cfg, log, true)
						},
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Error("Command failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}
