package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/etoro-tools/portfolio-sync/internal/cache"
	"github.com/etoro-tools/portfolio-sync/internal/color"
	"github.com/etoro-tools/portfolio-sync/internal/config"
	"github.com/etoro-tools/portfolio-sync/internal/etoro"
	"github.com/etoro-tools/portfolio-sync/internal/logger"
	"github.com/etoro-tools/portfolio-sync/internal/pipeline"
)

const _cfgFilePath = "./configs/portfolio-sync.yaml"

func main() {
	refresh := flag.Bool("refresh", false, "re-run the full pipeline instead of serving the cached snapshot")
	clear := flag.Bool("clear", false, "clear stored credentials and cached data, then exit")
	flag.Parse()

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

	store := cache.NewStore(cfg.CacheDir, zapLogger)
	client := etoro.NewClient(cfg, zapLogger)
	colors := color.NewEngine(cfg.SecondaryTimeout, zapLogger)
	p := pipeline.New(client, colors, zapLogger)
	svc := pipeline.NewService(p, store, cfg.TradeHistoryDays, zapLogger)

	if *clear {
		svc.ClearKeys()
		zapLogger.Infof("cleared credentials and cached data")
		return
	}

	if env.APIKey != "" && env.UserKey != "" {
		svc.SaveKeys(env.APIKey, env.UserKey)
	}

	if *refresh {
		err = svc.Refresh(ctx)
	} else {
		err = svc.Load(ctx)
	}
	if err != nil {
		if errors.Is(err, etoro.ErrMissingCredentials) {
			zapLogger.Fatalf("no credentials configured: set ETORO_API_KEY and ETORO_USER_KEY")
		}
		zapLogger.Fatalf("%s: can't load portfolio", err)
	}

	state := svc.State()
	zapLogger.Infof("portfolio: %d positions, invested %.2f, pnl %.2f, credit %.2f",
		len(state.Portfolio.Positions), state.Portfolio.TotalInvested, state.Portfolio.TotalPnl, state.Portfolio.Credit)
	zapLogger.Infof("trades: %d closed in the last %d days", len(state.Trades), cfg.TradeHistoryDays)
	zapLogger.Infof("last synchronized: %s", state.LastSynced.Format(time.RFC3339))
}
