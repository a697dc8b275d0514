package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/israelwong/zenly-studio-sub011/internal/auth"
	"github.com/israelwong/zenly-studio-sub011/internal/config"
	"github.com/israelwong/zenly-studio-sub011/internal/contracts"
	"github.com/israelwong/zenly-studio-sub011/internal/db"
	"github.com/israelwong/zenly-studio-sub011/internal/export"
	"github.com/israelwong/zenly-studio-sub011/internal/middleware"
	"github.com/israelwong/zenly-studio-sub011/internal/notify"
	"github.com/israelwong/zenly-studio-sub011/internal/repository"
	"github.com/israelwong/zenly-studio-sub011/pkg/logger"
	"github.com/israelwong/zenly-studio-sub011/pkg/metrics"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if err := db.RunMigrations(cfg.Database, cfg.MigrationsPath); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	// Repositories and lookups
	templateRepo := repository.NewTemplateRepository(conn.Pool)
	contractRepo := repository.NewContractRepository(conn.Pool)
	versionRepo := repository.NewVersionRepository(conn.Pool)
	bankLookup := repository.NewBankInfoLookup(conn.Pool)
	catalogLookup := repository.NewCatalogLookup(conn.Pool)
	contextSource := repository.NewContextSource(conn.Pool, bankLookup, catalogLookup)

	var notifier notify.Notifier = notify.Nop{}
	if cfg.TelegramToken != "" {
		telegram, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, zlog)
		if err != nil {
			zlog.Fatal("failed to start telegram notifier", zap.Error(err))
		}
		notifier = telegram
	}

	collector := metrics.NewCollector()
	contractService := contracts.NewService(templateRepo, contractRepo, versionRepo, contextSource, notifier, zlog,
		contracts.WithMetrics(collector))
	exportService := export.NewService(contractService, zlog)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	apiHandler := auth.StudioScope(contracts.NewHTTPHandler(contractService, zlog))
	mux.Handle("/api/contracts/", corsHandler.Handler(middleware.Logging(zlog, apiHandler)))
	mux.Handle("/api/templates", corsHandler.Handler(middleware.Logging(zlog, apiHandler)))
	mux.Handle("/api/templates/", corsHandler.Handler(middleware.Logging(zlog, apiHandler)))
	mux.Handle("/api/exports/", corsHandler.Handler(middleware.Logging(zlog, auth.StudioScope(export.NewHTTPHandler(exportService, zlog)))))
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(collector.Snapshot())
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("starting contract service", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("server exited")
}
