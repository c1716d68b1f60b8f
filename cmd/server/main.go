package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/etoro-tools/portfolio-sync/internal/color"
	"github.com/etoro-tools/portfolio-sync/internal/config"
	"github.com/etoro-tools/portfolio-sync/internal/etoro"
	"github.com/etoro-tools/portfolio-sync/internal/logger"
	"github.com/etoro-tools/portfolio-sync/internal/pipeline"
	"github.com/etoro-tools/portfolio-sync/internal/server"
)

const _cfgFilePath = "./configs/portfolio-sync.yaml"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("can't detect .env file")
	}

	cfg, err := config.Load(_cfgFilePath)
	if err != nil {
		log.Fatalf("%s: can't load config", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	env, err := config.LoadEnv()
	if err != nil {
		zapLogger.Fatalf("%s: can't load env", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := etoro.NewClient(cfg, zapLogger)
	colors := color.NewEngine(cfg.SecondaryTimeout, zapLogger)
	p := pipeline.New(client, colors, zapLogger)

	srv := server.NewHTTPServer(ctx, env.Port, p, zapLogger)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zapLogger.Fatalf("%s: server stopped", err)
	}
}
