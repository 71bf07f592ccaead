package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zonajp/internal/broadcast"
	"zonajp/internal/bus"
	"zonajp/internal/channel"
	"zonajp/internal/config"
	"zonajp/internal/dispatch"
	"zonajp/internal/domain"
	"zonajp/internal/handler"
	"zonajp/internal/health"
	"zonajp/internal/logging"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot (Telegram polling + broadcasts + liveness endpoint)",
		Long:  "Starts Telegram polling, the broadcast scheduler and the HTTP liveness endpoint. Press Ctrl+C to stop.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Nothing may listen or schedule before the token check.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	safe := config.Sanitize(cfg)
	logger.Info("config loaded",
		"token", safe.Token,
		"community", cfg.CommunityConfigured(),
		"topic", cfg.TopicConfigured(),
		"timezone", cfg.Timezone,
		"port", cfg.Port,
	)

	for _, w := range cfg.Warnings {
		logger.Warn("config value ignored", "reason", w)
	}

	catalog, err := loadContent(cfg)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telegramCh, err := channel.NewTelegram(channel.TelegramConfig{
		Token:       cfg.Token,
		PollTimeout: cfg.PollTimeout,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	dispatcher := dispatch.New(cfg, telegramCh, logger)

	messageBus := bus.New(100, logger)

	registry, err := handler.NewRegistry(catalog)
	if err != nil {
		return fmt.Errorf("handler registry: %w", err)
	}
	router := handler.NewRouter(handler.RouterConfig{
		Registry:  registry,
		Bus:       messageBus,
		Messenger: telegramCh,
		Logger:    logger,
	})
	routerDone := make(chan struct{})
	go func() {
		defer close(routerDone)
		router.Run(ctx)
	}()

	scheduler := broadcast.NewCronScheduler(cfg.Location, logger)
	if err := broadcast.Register(ctx, scheduler, dispatcher, broadcast.DefaultTriggers(catalog), logger); err != nil {
		return fmt.Errorf("register broadcasts: %w", err)
	}
	scheduler.Start()
	for _, t := range broadcast.DefaultTriggers(catalog) {
		logger.Info("next broadcast", "trigger", t.Name, "at", scheduler.NextRun(t.Name))
	}

	var source domain.UpdateSource = telegramCh
	go func() {
		if err := source.Start(ctx, messageBus); err != nil {
			logger.Error("update source error", "source", source.Name(), "err", err)
		}
	}()

	liveness := health.New(logger)
	go func() {
		if err := liveness.Listen(":" + cfg.Port); err != nil {
			logger.Error("http server error", "err", err)
		}
	}()

	logger.Info("Zona JP Bot started. Press Ctrl+C to stop.", "bot", "@"+telegramCh.Username())

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := scheduler.Stop(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("stop scheduler: %w", err)
	}
	if err := liveness.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", "err", err)
	}
	_ = telegramCh.Stop()
	messageBus.Close()

	select {
	case <-routerDone:
		logger.Info("shutdown complete")
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timed out, forcing exit")
		shutdownErr = fmt.Errorf("shutdown timed out")
	}
	return shutdownErr
}
