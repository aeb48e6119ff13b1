// Command carmanager is a terminal UI for browsing and editing the cars held by
// a REST backend at <base_url>/car.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http/httptest"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"carmanager/internal/carapi"
	"carmanager/internal/config"
	"carmanager/internal/fakeapi"
	"carmanager/internal/logging"
	"carmanager/internal/trace"
	"carmanager/internal/ui"
	"carmanager/internal/workflow"
)

// flags holds the parsed command line.
type flags struct {
	configPath string
	baseURL    string
	demo       bool
}

func parseFlags() flags {
	var f flags

	flag.StringVar(&f.configPath, "config", "", "path to a TOML config file (default $"+config.ConfigEnv+" or ~/.config/carmanager/config.toml)")
	flag.StringVar(&f.baseURL, "base-url", "", "backend base URL, overrides api.base_url")
	flag.BoolVar(&f.demo, "demo", false, "run against a built-in in-memory backend seeded with sample cars")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: carmanager [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Browse, add, edit and delete cars stored behind a REST /car endpoint.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	return f
}

func main() {
	f := parseFlags()
	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.baseURL != "" {
		cfg.API.BaseURL = f.baseURL
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.demo {
		demo := httptest.NewServer(fakeapi.New(fakeapi.DemoSeed()...).Handler())
		defer demo.Close()
		cfg.API.BaseURL = demo.URL
		logger.Info("demo backend started", zap.String("url", demo.URL))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	tp, err := trace.NewProvider(ctx, cfg.Trace)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("trace shutdown failed", zap.Error(err))
		}
	}()

	client := carapi.NewClient(carapi.Options{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.Timeout,
		Headers:        cfg.API.Headers,
		Logger:         logger,
		TracerProvider: tp.TracerProvider(),
	})
	logger.Info("starting",
		zap.String("base_url", cfg.API.BaseURL),
		zap.Duration("timeout", cfg.API.Timeout),
		zap.Bool("tracing", cfg.Trace.Endpoint != ""),
	)

	model := ui.NewAppModel(ctx, workflow.New(client, logger), logger).AsTeaModel()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
