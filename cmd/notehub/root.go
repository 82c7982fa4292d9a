package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/notehub/internal/app"
	"github.com/marcus/notehub/internal/config"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/metrics"
	"github.com/marcus/notehub/internal/notify"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/plugins/notes"
	"github.com/marcus/notehub/internal/state"
	"github.com/marcus/notehub/internal/version"
)

const logFile = "notehub.log"

var (
	configPath  string
	debug       bool
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "notehub",
	Short: "Browse and manage NoteHub notes from the terminal",
	Long: `notehub is a terminal client for the NoteHub notes service.
Run without a subcommand to open the interactive notes browser.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fatal("notehub", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.config/notehub/config.json)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
}

func logLevel() slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// loadConfig loads the config and requires a token.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(config.ExpandPath(configPath))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.CheckCredentials(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openLogFile opens the TUI log. The terminal belongs to the UI, so logs
// go to a file next to the config.
func openLogFile() (*os.File, error) {
	dir := config.Dir()
	if dir == "" {
		return nil, errors.New("cannot resolve config directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// serveMetrics starts the metrics endpoint when --metrics-addr is set. The
// returned function shuts it down.
func serveMetrics(m *metrics.Metrics, logger *slog.Logger) func() {
	if metricsAddr == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", metricsAddr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", metricsAddr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := openLogFile()
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	// State is optional; a broken file only loses preferences.
	if err := state.Init(); err != nil {
		logger.Warn("state load failed", "error", err)
	}

	m := metrics.New()
	stopMetrics := serveMetrics(m, logger)
	defer stopMetrics()

	sink := notify.NewProgramSink(logger)
	svc, err := newService(cfg, logger, sink, m)
	if err != nil {
		return err
	}

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	for key, cmdID := range cfg.Keymap.Overrides {
		km.SetUserOverride(key, cmdID)
	}

	pluginCtx := &plugin.Context{
		Config: cfg,
		API:    svc,
		Cache:  newCache(cfg, logger, m),
		Keymap: km,
		Logger: logger,
		Sink:   sink,
		Epoch:  1,
	}
	p := notes.New()
	if err := p.Init(pluginCtx); err != nil {
		return err
	}

	model := app.New(p, km, cfg, version.Effective())
	program := tea.NewProgram(model, tea.WithAltScreen())
	sink.Attach(program)

	logger.Info("starting", "version", version.Effective(), "baseURL", cfg.API.BaseURL)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}
