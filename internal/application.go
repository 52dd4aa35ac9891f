package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/checkers-backend/internal/config"
	"github.com/rocketscienceinc/checkers-backend/internal/lobby"
	"github.com/rocketscienceinc/checkers-backend/internal/pkg"
	"github.com/rocketscienceinc/checkers-backend/internal/repository"
	"github.com/rocketscienceinc/checkers-backend/internal/repository/storage"
	"github.com/rocketscienceinc/checkers-backend/transport/rest"
	"github.com/rocketscienceinc/checkers-backend/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	var resultRepo repository.ResultRepository

	if redisAddr := conf.Redis.GetRedisAddr(); redisAddr != "" {
		redisClient, err := storage.New(ctx, redisAddr)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisClient.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		resultRepo = repository.NewResultRepository(redisClient)
	} else {
		log.Info("redis not configured, match archive disabled")
	}

	directory := lobby.New(logger, pkg.NewNamePool(), resultRepo)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)

		resultsHandler := rest.NewResultsHandler(logger, resultRepo)
		if httpErr := rest.Start(conf.HTTPPort, resultsHandler); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)

		wsServer := websocket.New(logger, directory)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
