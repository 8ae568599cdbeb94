package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/pagesift/internal/api"
	"github.com/dgallion1/pagesift/internal/config"
	"github.com/dgallion1/pagesift/internal/extract"
	"github.com/dgallion1/pagesift/internal/fetch"
	"github.com/dgallion1/pagesift/internal/parser"
	"github.com/dgallion1/pagesift/internal/pipeline"
	"github.com/dgallion1/pagesift/internal/retry"
	"github.com/dgallion1/pagesift/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := cfg.NewLogger(os.Stdout)
	slog.SetDefault(log)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize backends.
	llmClient := &http.Client{Timeout: cfg.LLMTimeout}
	primary, err := newPrimary(ctx, cfg, llmClient)
	if err != nil {
		log.Error("primary backend", "provider", cfg.PrimaryProvider, "error", err)
		os.Exit(1)
	}
	ollama := extract.NewOllamaBackend(cfg.OllamaURL, cfg.OllamaModel, cfg.LLMTimeout)

	llmRetry := retry.DefaultPolicy()
	llmRetry.MaxAttempts = cfg.LLMMaxAttempts
	stats := extract.NewStats(cfg.LLMStatsWindow)
	extractor := extract.New(primary, ollama, extract.Config{
		ChunkSize:      cfg.ChunkSize,
		Separator:      cfg.ChunkSeparator,
		Sentinel:       cfg.Sentinel,
		NoMatchMessage: cfg.NoMatchMessage,
		MaxQueryChars:  cfg.MaxQueryChars,
		Retry:          llmRetry,
	}, extract.WithStats(stats), extract.WithLogger(log))

	fetchRetry := retry.Policy{MaxAttempts: cfg.FetchMaxAttempts, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}
	fetcher := fetch.New(
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithUserAgent(cfg.FetchUserAgent),
		fetch.WithMaxBytes(cfg.FetchMaxBytes),
		fetch.WithRetry(fetchRetry),
		fetch.WithLogger(log),
	)

	// Initialize pipeline.
	mode, _ := parser.ParseMode(cfg.ExtractMode)
	svc := pipeline.New(fetcher, extractor, store.New(cfg.ContentTTL), pipeline.Options{
		Mode:                 mode,
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
		SweepInterval:        cfg.ContentSweep,
	}, log)
	svc.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(svc, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)

		svc.Stop()
		ollama.Close()
		llmClient.CloseIdleConnections()
	}()

	log.Info("starting pagesift",
		"port", cfg.Port,
		"primary", primary.Name(),
		"extract_mode", mode,
		"chunk_size", cfg.ChunkSize,
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newPrimary(ctx context.Context, cfg config.Config, client *http.Client) (extract.Backend, error) {
	switch cfg.PrimaryProvider {
	case config.ProviderAnthropic:
		return extract.NewClaudeBackend(cfg.AnthropicAPIKey, cfg.AnthropicModel, "", client), nil
	case config.ProviderGemini:
		return extract.NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "", client)
	default:
		return extract.NewGroqBackend(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, client), nil
	}
}
