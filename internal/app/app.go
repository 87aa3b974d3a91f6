// Package app wires the components together and owns process lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gsantin/spesebot/internal/auth"
	"github.com/gsantin/spesebot/internal/channels/telegram"
	"github.com/gsantin/spesebot/internal/config"
	"github.com/gsantin/spesebot/internal/extractor"
	"github.com/gsantin/spesebot/internal/flow"
	"github.com/gsantin/spesebot/internal/metrics"
	"github.com/gsantin/spesebot/internal/sink"
	memsink "github.com/gsantin/spesebot/internal/sink/memory"
	"github.com/gsantin/spesebot/internal/sink/sheets"
	sqlitesink "github.com/gsantin/spesebot/internal/sink/sqlite"
)

type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	metrics       *metrics.Metrics
	bot           *telegram.Bot
	metricsServer *http.Server
}

// New builds the full component graph from configuration.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	m := metrics.New()

	snk, err := newSink(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ext := extractor.NewClient(extractor.Config{
		APIKey:    cfg.Extractor.APIKey,
		BaseURL:   cfg.Extractor.BaseURL,
		Model:     cfg.Extractor.Model,
		Timeout:   cfg.Extractor.Timeout,
		MaxTokens: cfg.Extractor.MaxTokens,
	}, logger.Named("extractor"))

	gate := auth.NewGate(cfg.Telegram.AllowedUserID, logger.Named("auth"))
	engine := flow.NewEngine(gate, flow.NewWorld(), snk, ext, m, logger.Named("flow"))

	bot, err := telegram.NewBot(telegram.Config{Token: cfg.Telegram.Token}, engine, logger.Named("telegram"))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	app := &App{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		bot:     bot,
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "ok")
		})
		app.metricsServer = &http.Server{
			Addr:         cfg.Metrics.Address,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
	}

	return app, nil
}

// newSink selects the expense sink backend from configuration.
func newSink(ctx context.Context, cfg *config.Config, logger *zap.Logger) (sink.Sink, error) {
	switch cfg.Storage.Backend {
	case "sheets":
		return sheets.New(ctx, sheets.Config{
			SpreadsheetID:   cfg.Storage.SpreadsheetID,
			CredentialsFile: cfg.Storage.CredentialsFile,
			CredentialsJSON: cfg.Storage.CredentialsJSON,
		}, logger.Named("sheets"))
	case "sqlite":
		return sqlitesink.New(cfg.Storage.SQLitePath)
	case "memory":
		logger.Warn("using in-memory sink: confirmed expenses will not survive a restart")
		return memsink.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Run starts the bot and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	if a.metricsServer != nil {
		go func() {
			a.logger.Info("metrics listening", zap.String("address", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	a.bot.Start()
	a.logger.Info("bot started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("shutting down")
	a.bot.Stop()

	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Warn("metrics server shutdown", zap.Error(err))
		}
	}

	return nil
}
