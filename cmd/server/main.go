package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/agenthands/confirm/internal/authapi"
	"github.com/agenthands/confirm/internal/config"
	"github.com/agenthands/confirm/internal/logging"
	"github.com/agenthands/confirm/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	client := authapi.NewClient(cfg.AuthAPI,
		authapi.WithLogger(logger.Named("authapi")),
		authapi.WithUserAgent("confirm-frontend/"+cfg.Server.Version),
	)
	srv := server.NewServer(cfg, client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Fatalw("server error", "error", err)
	}
}
