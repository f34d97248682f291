package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/api/option"

	"github.com/depot-ledger/depot-ledger/internal/api"
	"github.com/depot-ledger/depot-ledger/internal/auth"
	"github.com/depot-ledger/depot-ledger/internal/config"
	"github.com/depot-ledger/depot-ledger/internal/ledger"
	"github.com/depot-ledger/depot-ledger/internal/logger"
	"github.com/depot-ledger/depot-ledger/internal/store"
	"github.com/depot-ledger/depot-ledger/internal/store/sheets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	var st store.Store
	switch cfg.Store {
	case "memory":
		log.Warn().Msg("Using in-memory store - data is lost on restart")
		st = store.NewMemory()
	default:
		var opts []option.ClientOption
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		sheetStore, err := sheets.New(ctx, cfg.SpreadsheetID, opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create sheets store")
		}
		st = sheetStore
		log.Info().Str("spreadsheet", cfg.SpreadsheetID).Msg("Connected to sheets store")
	}

	svc := ledger.New(st, log)
	gate := auth.NewGate(cfg.Secret)
	sessions := auth.NewSessionRegistry(cfg.SessionTTL)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(svc, gate, sessions, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting ledger server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}

	log.Info().Msg("Server stopped")
}
