package main

import (
	"log/slog"
	"os"

	"github.com/marcus/notehub/internal/api"
	"github.com/marcus/notehub/internal/config"
	"github.com/marcus/notehub/internal/metrics"
	"github.com/marcus/notehub/internal/notify"
	"github.com/marcus/notehub/internal/querycache"
)

func newService(cfg *config.Config, logger *slog.Logger, sink notify.Sink, m *metrics.Metrics) (*api.Client, error) {
	return api.New(cfg.API.BaseURL, cfg.API.Token,
		api.WithLogger(logger),
		api.WithSink(sink),
		api.WithMetrics(m),
		api.WithTimeout(cfg.API.Timeout),
	)
}

func newCache(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *querycache.Cache {
	return querycache.New(querycache.Options{
		StaleTime: cfg.Notes.StaleTime,
		GCTime:    cfg.Notes.GCTime,
		Retry:     querycache.RetryPolicy{MaxAttempts: cfg.Notes.RetryAttempts},
		Logger:    logger,
		Metrics:   m,
	})
}

// cliSetup loads config and builds a client for one-shot subcommands.
// Logs and notifications go to stderr.
func cliSetup() (*config.Config, *api.Client, *slog.Logger) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		fatal("Error", err)
	}
	svc, err := newService(cfg, logger, notify.LogSink{Logger: logger}, nil)
	if err != nil {
		fatal("Error initializing client", err)
	}
	return cfg, svc, logger
}
