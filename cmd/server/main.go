package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"trafficdesk/internal/bot/conversation"
	"trafficdesk/internal/bot/dispatcher"
	"trafficdesk/internal/platform/config"
	"trafficdesk/internal/platform/httpserver"
	"trafficdesk/internal/platform/logger"
	"trafficdesk/internal/platform/metrics"
	"trafficdesk/internal/platform/postgres"
	httptransport "trafficdesk/internal/transport/http"
	"trafficdesk/internal/transport/telegram"
	"trafficdesk/internal/violation/handler"
	"trafficdesk/internal/violation/service"
	"trafficdesk/internal/violation/store"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var violationStore service.Store
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("database unavailable", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		violationStore = store.NewPostgres(db)
		log.Info("connected to database")
	} else {
		mem := store.NewInMemory()
		store.SeedDemoData(mem, cfg.DefaultOfficerID)
		violationStore = mem
		log.Warn("DATABASE_URL not set, using seeded in-memory store")
	}

	m := metrics.New()
	violations := service.New(violationStore, cfg.DefaultOfficerID, log, m)

	router := httptransport.NewRouter(handler.New(violations, log), log)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.BotToken != "" {
		bot, err := telegram.New(cfg.BotToken, log)
		if err != nil {
			log.Error("telegram bot init failed", "error", err.Error())
			os.Exit(1)
		}
		d := dispatcher.New(conversation.NewStore(), violations, bot, log, m)
		g.Go(func() error {
			err := bot.Run(ctx, d)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		log.Warn("BOT_TOKEN not set, telegram bot disabled")
	}

	if err := g.Wait(); err != nil {
		log.Error("shutdown with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
