package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/winnerumukoro/youtube-summarizer/internal/config"
	"github.com/winnerumukoro/youtube-summarizer/internal/handlers"
	"github.com/winnerumukoro/youtube-summarizer/internal/llm"
	"github.com/winnerumukoro/youtube-summarizer/internal/storage"
	"github.com/winnerumukoro/youtube-summarizer/internal/summarizer"
	"github.com/winnerumukoro/youtube-summarizer/internal/version"
	"github.com/winnerumukoro/youtube-summarizer/internal/worker"
	"github.com/winnerumukoro/youtube-summarizer/internal/youtube"
)

type sessionStore interface {
	handlers.SessionStore
	worker.SessionCleaner
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// transcript source
	var source youtube.MetadataSource
	switch cfg.Transcript.Source {
	case config.SourceYtDlp:
		source = youtube.NewYtDlpSource(cfg.Transcript.YtDlpPath)
	default:
		source = youtube.NewClient(nil)
	}
	fetcher := youtube.NewFetcher(source,
		youtube.WithLanguage(cfg.Transcript.Language),
		youtube.WithLogger(logger),
	)

	// completion model
	llmOpts := []llm.Option{llm.WithBaseURL(cfg.LLM.BaseURL)}
	if cfg.LLM.Timeout > 0 {
		llmOpts = append(llmOpts, llm.WithTimeout(cfg.LLM.Timeout))
	}
	client, err := llm.New(cfg.LLM.APIKey, cfg.LLM.Model, llmOpts...)
	if err != nil {
		return fmt.Errorf("create llm client: %w", err)
	}
	sum := summarizer.New(client, cfg.SummarizerOptions(), logger)

	// session store
	var store sessionStore
	switch cfg.Session.Store {
	case config.StoreMemory:
		store = storage.NewMemoryStore()
	default:
		db, err := storage.Open(cfg.Session.DBPath)
		if err != nil {
			return fmt.Errorf("open session database: %w", err)
		}
		defer db.Close()
		store = storage.NewSessionRepository(db)
	}

	if cfg.Session.TTL > 0 {
		janitor := worker.NewJanitor(store, cfg.Session.TTL, logger)
		janitor.SetInterval(cfg.Session.CleanupInterval)
		janitor.Start(ctx)
		defer janitor.Stop()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	handlers.New(fetcher, sum, store, logger).Register(e)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting youtube summarizer",
			"version", version.Version,
			"port", cfg.Port,
			"model", client.Model(),
			"source", cfg.Transcript.Source,
			"store", cfg.Session.Store,
		)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
